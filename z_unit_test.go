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

package spotlab

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/zintix-labs/spotlab/errs"
	"github.com/zintix-labs/spotlab/incidence"
	"github.com/zintix-labs/spotlab/plane"
)

func newLab(t *testing.T, seed int64) *Spotlab {
	t.Helper()
	lab, err := New(Config{Seed: &seed, Log: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return lab
}

func TestNewRoundThreeDistinctCards(t *testing.T) {
	lab := newLab(t, 1)
	ctx := context.Background()
	for i := 0; i < 50; i++ {
		r, err := lab.NewRound(ctx)
		if err != nil {
			t.Fatalf("NewRound: %v", err)
		}
		a, b, c := r.Target.Line, r.AI.Line, r.Human.Line
		if a == b || a == c || b == c {
			t.Fatalf("round %d: cards not distinct: %d %d %d", i, a, b, c)
		}
		for _, card := range []*Card{&r.Target, &r.AI, &r.Human} {
			if !plane.ValidLine(card.Line) {
				t.Fatalf("invalid card id %d", card.Line)
			}
			if len(card.Symbols) != plane.PointsPerLine || len(card.Layout) != plane.PointsPerLine {
				t.Fatalf("card %d: %d symbols / %d placements", card.Line, len(card.Symbols), len(card.Layout))
			}
		}
	}
}

func TestNewRoundReproducibleBySeed(t *testing.T) {
	ctx := context.Background()
	a := newLab(t, 99)
	b := newLab(t, 99)
	for i := 0; i < 10; i++ {
		ra, err := a.NewRound(ctx)
		if err != nil {
			t.Fatalf("NewRound: %v", err)
		}
		rb, err := b.NewRound(ctx)
		if err != nil {
			t.Fatalf("NewRound: %v", err)
		}
		if ra.Target.Line != rb.Target.Line || ra.AI.Line != rb.AI.Line || ra.Human.Line != rb.Human.Line {
			t.Fatalf("draw %d diverged: %d/%d/%d vs %d/%d/%d", i,
				ra.Target.Line, ra.AI.Line, ra.Human.Line,
				rb.Target.Line, rb.AI.Line, rb.Human.Line)
		}
	}
}

func TestReseedRestartsSequence(t *testing.T) {
	ctx := context.Background()
	lab := newLab(t, 7)
	first, err := lab.NewRound(ctx)
	if err != nil {
		t.Fatalf("NewRound: %v", err)
	}
	if _, err := lab.NewRound(ctx); err != nil {
		t.Fatalf("NewRound: %v", err)
	}
	if err := lab.Reseed(nil, 7); err != nil {
		t.Fatalf("Reseed: %v", err)
	}
	again, err := lab.NewRound(ctx)
	if err != nil {
		t.Fatalf("NewRound: %v", err)
	}
	if first.Target.Line != again.Target.Line || first.AI.Line != again.AI.Line || first.Human.Line != again.Human.Line {
		t.Fatalf("reseed did not restart draw sequence")
	}
	if first.Token == again.Token {
		t.Fatalf("tokens must stay unique across reseed")
	}
}

func TestGetRoundNotFound(t *testing.T) {
	lab := newLab(t, 3)
	_, err := lab.GetRound(context.Background(), "no-such-token")
	if !errors.Is(err, ErrRoundNotFound) {
		t.Fatalf("err = %v, want ErrRoundNotFound", err)
	}
	e, ok := errs.AsErr(err)
	if !ok || e.ErrLv != errs.Warn {
		t.Fatalf("round not found must be a Warn level error, got %v", err)
	}
}

func TestValidateClaimChannels(t *testing.T) {
	ctx := context.Background()
	lab := newLab(t, 11)
	r, err := lab.NewRound(ctx)
	if err != nil {
		t.Fatalf("NewRound: %v", err)
	}
	truth, ok, err := lab.SharedSymbol(ctx, r, RoleHuman)
	if err != nil || !ok {
		t.Fatalf("SharedSymbol: ok=%v err=%v", ok, err)
	}

	id := int(truth.ID)
	wrongID := (id + 1) % plane.Size
	cases := []struct {
		name  string
		claim Claim
		want  bool
	}{
		{"by id", Claim{PointID: &id}, true},
		{"by exact name", Claim{Name: truth.Name}, true},
		{"by cased padded name", Claim{Name: "  " + strings.ToUpper(truth.Name) + " "}, true},
		{"id wrong name right", Claim{PointID: &wrongID, Name: truth.Name}, true},
		{"id right name wrong", Claim{PointID: &id, Name: "nonsense"}, true},
		{"wrong id", Claim{PointID: &wrongID}, false},
		{"wrong name", Claim{Name: "nonsense"}, false},
		{"empty claim", Claim{}, false},
		{"blank name", Claim{Name: "   "}, false},
	}
	for _, tc := range cases {
		v, err := lab.Validate(ctx, r.Token, RoleHuman, tc.claim)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if v.Correct != tc.want {
			t.Fatalf("%s: correct = %v, want %v", tc.name, v.Correct, tc.want)
		}
		if v.Expected == nil || v.Expected.ID != truth.ID {
			t.Fatalf("%s: expected symbol missing or wrong: %+v", tc.name, v.Expected)
		}
	}
}

func TestValidateUnknownToken(t *testing.T) {
	lab := newLab(t, 5)
	_, err := lab.Validate(context.Background(), "gone", RoleHuman, Claim{Name: "x"})
	if !errors.Is(err, ErrRoundNotFound) {
		t.Fatalf("err = %v, want ErrRoundNotFound", err)
	}
}

func TestValidateRolesJudgedAgainstOwnCard(t *testing.T) {
	ctx := context.Background()
	lab := newLab(t, 21)
	r, err := lab.NewRound(ctx)
	if err != nil {
		t.Fatalf("NewRound: %v", err)
	}
	human, _, err := lab.SharedSymbol(ctx, r, RoleHuman)
	if err != nil {
		t.Fatalf("SharedSymbol human: %v", err)
	}
	ai, _, err := lab.SharedSymbol(ctx, r, RoleAI)
	if err != nil {
		t.Fatalf("SharedSymbol ai: %v", err)
	}
	hid, aid := int(human.ID), int(ai.ID)
	vh, err := lab.Validate(ctx, r.Token, RoleHuman, Claim{PointID: &hid})
	if err != nil || !vh.Correct {
		t.Fatalf("human claim vs human truth: correct=%v err=%v", vh.Correct, err)
	}
	if hid != aid {
		va, err := lab.Validate(ctx, r.Token, RoleAI, Claim{PointID: &hid})
		if err != nil {
			t.Fatalf("Validate ai: %v", err)
		}
		if va.Correct {
			t.Fatalf("human truth must not validate for ai role")
		}
	}
}

func TestValidateTransparentAcrossBackendLoss(t *testing.T) {
	ctx := context.Background()
	seed := int64(31)
	broken := incidence.NewFailover(failingStore{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	lab, err := New(Config{Seed: &seed, Store: broken, Log: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ref := newLab(t, seed)

	r, err := lab.NewRound(ctx)
	if err != nil {
		t.Fatalf("NewRound degraded: %v", err)
	}
	rr, err := ref.NewRound(ctx)
	if err != nil {
		t.Fatalf("NewRound reference: %v", err)
	}
	if r.Target.Line != rr.Target.Line || r.Human.Line != rr.Human.Line {
		t.Fatalf("degraded draw diverged from math draw")
	}
	truth, ok, err := lab.SharedSymbol(ctx, r, RoleHuman)
	if err != nil || !ok {
		t.Fatalf("degraded SharedSymbol: ok=%v err=%v", ok, err)
	}
	refTruth, _, err := ref.SharedSymbol(ctx, rr, RoleHuman)
	if err != nil {
		t.Fatalf("reference SharedSymbol: %v", err)
	}
	if truth.ID != refTruth.ID {
		t.Fatalf("answers changed across backend loss: %d vs %d", truth.ID, refTruth.ID)
	}
}

func TestRoundSymbolNamesSortedUnique(t *testing.T) {
	lab := newLab(t, 13)
	r, err := lab.NewRound(context.Background())
	if err != nil {
		t.Fatalf("NewRound: %v", err)
	}
	names := r.SymbolNames()
	// 三張卡 24 個符號位,兩兩共享一個,聯集大小在 21..22 之間
	// (三卡共點時 22,不共點時 21)。
	if len(names) < 21 || len(names) > 22 {
		t.Fatalf("symbol name union size = %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted unique at %d: %q >= %q", i, names[i-1], names[i])
		}
	}
}

// failingStore 總是失敗,逼 Failover 走數學後端。
type failingStore struct{}

func (failingStore) PointsOnLine(context.Context, plane.LineID) ([]plane.PointID, error) {
	return nil, errs.NewWarn("backend down")
}

func (failingStore) SharedPoint(context.Context, plane.LineID, plane.LineID) (plane.PointID, bool, error) {
	return 0, false, errs.NewWarn("backend down")
}
