// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zintix-labs/spotlab"
	"github.com/zintix-labs/spotlab/server/netsvr"
	"github.com/zintix-labs/spotlab/server/svrcfg"
)

// testRouter 起一個掛好全部路由的 chi router,回傳可直接打的 handler。
func testRouter(t *testing.T) (http.Handler, *spotlab.Spotlab) {
	t.Helper()
	seed := int64(17)
	lab, err := spotlab.New(spotlab.Config{Seed: &seed, Log: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatalf("spotlab.New: %v", err)
	}
	svr := netsvr.NewChiServerDefault()
	sCfg := &svrcfg.SvrCfg{Log: slog.New(slog.NewTextHandler(io.Discard, nil)), Lab: lab}
	if err := RegisterRoutes(svr, sCfg); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}
	return svr.Handler(), lab
}

type roundResp struct {
	Token string `json:"token"`
	Target struct {
		CardID  int `json:"cardId"`
		Symbols []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"symbols"`
		Layout []struct {
			X    float64 `json:"x"`
			Y    float64 `json:"y"`
			Size string  `json:"size"`
		} `json:"layout"`
	} `json:"target"`
	AllSymbols []string `json:"allSymbolNames"`
}

func createRound(t *testing.T, h http.Handler) roundResp {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/round", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("POST /v1/round: status %d: %s", w.Code, w.Body.String())
	}
	var resp roundResp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode round: %v", err)
	}
	return resp
}

func TestCreateRound(t *testing.T) {
	h, _ := testRouter(t)
	resp := createRound(t, h)
	if resp.Token == "" {
		t.Fatalf("round token missing")
	}
	if len(resp.Target.Symbols) != 8 || len(resp.Target.Layout) != 8 {
		t.Fatalf("target card: %d symbols / %d placements", len(resp.Target.Symbols), len(resp.Target.Layout))
	}
	if len(resp.AllSymbols) < 21 {
		t.Fatalf("allSymbolNames too small: %d", len(resp.AllSymbols))
	}
}

func TestGetRound(t *testing.T) {
	h, _ := testRouter(t)
	created := createRound(t, h)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/round/"+created.Token, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET round: status %d: %s", w.Code, w.Body.String())
	}
	var got roundResp
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode round: %v", err)
	}
	if got.Token != created.Token || got.Target.CardID != created.Target.CardID {
		t.Fatalf("get returned a different round")
	}
	if bytes.Contains(w.Body.Bytes(), []byte("expected")) {
		t.Fatalf("round view leaks ground truth")
	}
}

func TestGetRoundNotFound(t *testing.T) {
	h, _ := testRouter(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/round/deadbeef", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestValidateRoundTrip(t *testing.T) {
	h, lab := testRouter(t)
	created := createRound(t, h)

	r, err := lab.GetRound(context.Background(), created.Token)
	if err != nil {
		t.Fatalf("GetRound: %v", err)
	}
	truth, ok, err := lab.SharedSymbol(context.Background(), r, spotlab.RoleHuman)
	if err != nil || !ok {
		t.Fatalf("SharedSymbol: ok=%v err=%v", ok, err)
	}

	body := fmt.Sprintf(`{"name":%q}`, truth.Name)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/round/"+created.Token+"/validate", bytes.NewBufferString(body))
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("validate: status %d: %s", w.Code, w.Body.String())
	}
	var v struct {
		Correct  bool `json:"correct"`
		Expected struct {
			ID int `json:"id"`
		} `json:"expected"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode verdict: %v", err)
	}
	if !v.Correct || v.Expected.ID != int(truth.ID) {
		t.Fatalf("verdict = %+v, want correct with expected %d", v, truth.ID)
	}

	// 錯誤作答:correct=false,不是 4xx/5xx。
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/v1/round/"+created.Token+"/validate", bytes.NewBufferString(`{"name":"nonsense"}`))
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("wrong claim must be 200: got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode verdict: %v", err)
	}
	if v.Correct {
		t.Fatalf("nonsense claim judged correct")
	}
}

func TestValidateUnknownRole(t *testing.T) {
	h, _ := testRouter(t)
	created := createRound(t, h)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/round/"+created.Token+"/validate",
		bytes.NewBufferString(`{"role":"referee","name":"x"}`))
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHealth(t *testing.T) {
	h, _ := testRouter(t)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health: status %d", w.Code)
	}
	var hv struct {
		Status  string `json:"status"`
		Backend string `json:"backend"`
		Deck    string `json:"deck"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &hv); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if hv.Status != "ok" || hv.Backend != "math" || hv.Deck == "" {
		t.Fatalf("health = %+v", hv)
	}
}
