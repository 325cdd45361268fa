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

package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zintix-labs/spotlab"
	"github.com/zintix-labs/spotlab/errs"
	"github.com/zintix-labs/spotlab/server/httperr"
	"github.com/zintix-labs/spotlab/server/svrcfg"
)

// ============================================================
// ** RoundHandler **
// ============================================================

type RoundHandler struct {
	lab     *spotlab.Spotlab
	timeout time.Duration
}

func NewRoundHandler(sCfg *svrcfg.SvrCfg) (*RoundHandler, error) {
	if sCfg == nil || sCfg.Lab == nil {
		return nil, errs.NewFatal("build round handler error: spotlab is required")
	}
	timeout := sCfg.ReqTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RoundHandler{lab: sCfg.Lab, timeout: timeout}, nil
}

// roundView 是回合的對外呈現:承載卡面與擺位,不含答案。
type roundView struct {
	Token      string       `json:"token"`
	Target     spotlab.Card `json:"target"`
	AI         spotlab.Card `json:"ai"`
	Human      spotlab.Card `json:"human"`
	AllSymbols []string     `json:"allSymbolNames"`
}

func viewOf(r *spotlab.Round) roundView {
	return roundView{
		Token:      r.Token,
		Target:     r.Target,
		AI:         r.AI,
		Human:      r.Human,
		AllSymbols: r.SymbolNames(),
	}
}

// Create 開新回合。
//
// POST /v1/round
func (c *RoundHandler) Create(w http.ResponseWriter, q *http.Request) {
	ctx, cancel := context.WithTimeout(q.Context(), c.timeout)
	defer cancel()

	r, err := c.lab.NewRound(ctx)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(viewOf(r)); err != nil {
		httperr.Errs(w, err)
		return
	}
}

// Get 憑 token 取回合(不含答案)。
//
// GET /v1/round/{token}
func (c *RoundHandler) Get(w http.ResponseWriter, q *http.Request) {
	token := chi.URLParam(q, "token")
	ctx, cancel := context.WithTimeout(q.Context(), c.timeout)
	defer cancel()

	r, err := c.lab.GetRound(ctx, token)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(viewOf(r)); err != nil {
		httperr.Errs(w, err)
		return
	}
}

type validateRequest struct {
	Role    string `json:"role,omitempty"`
	PointID *int   `json:"pointId,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Validate 判定作答。role 省略時視為 human。
//
// POST /v1/round/{token}/validate
func (c *RoundHandler) Validate(w http.ResponseWriter, q *http.Request) {
	token := chi.URLParam(q, "token")

	var req validateRequest
	if err := json.NewDecoder(q.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	role := spotlab.RoleHuman
	if req.Role != "" {
		var ok bool
		if role, ok = spotlab.ParseRole(req.Role); !ok {
			http.Error(w, "unknown role", http.StatusBadRequest)
			return
		}
	}

	// 請求解析完成,設置超時 context
	ctx, cancel := context.WithTimeout(q.Context(), c.timeout)
	defer cancel()

	v, err := c.lab.Validate(ctx, token, role, spotlab.Claim{PointID: req.PointID, Name: req.Name})
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		httperr.Errs(w, err)
		return
	}
}
