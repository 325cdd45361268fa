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

package incidence

import (
	"context"
	"slices"
	"testing"

	"github.com/zintix-labs/spotlab/errs"
	"github.com/zintix-labs/spotlab/plane"
)

func TestMathStoreMatchesPlane(t *testing.T) {
	s := NewMathStore()
	ctx := context.Background()
	for l := plane.LineID(0); l < plane.Size; l++ {
		got, err := s.PointsOnLine(ctx, l)
		if err != nil {
			t.Fatalf("PointsOnLine(%d): %v", l, err)
		}
		if !slices.Equal(got, plane.PointsOnLine(l)) {
			t.Fatalf("PointsOnLine(%d) = %v", l, got)
		}
	}
}

func TestMathStoreOutOfRangeIsEmptyNotError(t *testing.T) {
	s := NewMathStore()
	ctx := context.Background()
	got, err := s.PointsOnLine(ctx, 99)
	if err != nil {
		t.Fatalf("out-of-range line returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("out-of-range line returned points: %v", got)
	}
	if _, ok, err := s.SharedPoint(ctx, 3, 3); err != nil || ok {
		t.Fatalf("same-line pair must be explicit absence, got ok=%v err=%v", ok, err)
	}
}

func TestMathStoreDeterminism(t *testing.T) {
	s := NewMathStore()
	ctx := context.Background()
	p1, ok1, _ := s.SharedPoint(ctx, 5, 23)
	p2, ok2, _ := s.SharedPoint(ctx, 5, 23)
	if p1 != p2 || ok1 != ok2 {
		t.Fatalf("repeated query diverged: %d/%v vs %d/%v", p1, ok1, p2, ok2)
	}
}

// brokenStore 模擬一個一直失敗的 graph backend。
type brokenStore struct {
	calls int
	err   error
}

func (b *brokenStore) PointsOnLine(context.Context, plane.LineID) ([]plane.PointID, error) {
	b.calls++
	return nil, b.err
}

func (b *brokenStore) SharedPoint(context.Context, plane.LineID, plane.LineID) (plane.PointID, bool, error) {
	b.calls++
	return 0, false, b.err
}

func TestFailoverServesFromFallbackOnPrimaryError(t *testing.T) {
	broken := &brokenStore{err: errs.NewWarn("connection refused")}
	f := NewFailover(broken, nil)
	ctx := context.Background()

	pts, err := f.PointsOnLine(ctx, 0)
	if err != nil {
		t.Fatalf("fallback path returned error: %v", err)
	}
	want := []plane.PointID{0, 7, 14, 21, 28, 35, 42, 49}
	if !slices.Equal(pts, want) {
		t.Fatalf("fallback points = %v, want %v", pts, want)
	}
	p, ok, err := f.SharedPoint(ctx, 0, 1)
	if err != nil || !ok || p != 49 {
		t.Fatalf("fallback shared = %d/%v/%v, want 49/true/nil", p, ok, err)
	}
	if f.Fallbacks() != 2 {
		t.Fatalf("fallback count = %d, want 2", f.Fallbacks())
	}
	if broken.calls != 2 {
		t.Fatalf("primary calls = %d, want 2", broken.calls)
	}
}

func TestFailoverNilPrimaryGoesStraightToMath(t *testing.T) {
	f := NewFailover(nil, nil)
	if f.Active() != BackendMath {
		t.Fatalf("Active() = %s, want math", f.Active())
	}
	p, ok, err := f.SharedPoint(context.Background(), 0, 7)
	if err != nil || !ok || p != 0 {
		t.Fatalf("math path shared = %d/%v/%v, want 0/true/nil", p, ok, err)
	}
	if f.Fallbacks() != 0 {
		t.Fatalf("nil primary should not count as fallback")
	}
}

func TestFailoverDoesNotMaskInvariantViolation(t *testing.T) {
	broken := &brokenStore{err: errs.WrapWithExtra(ErrInvariant, "shared point query", "lines 0,1")}
	f := NewFailover(broken, nil)
	_, _, err := f.SharedPoint(context.Background(), 0, 1)
	if err == nil {
		t.Fatalf("invariant violation must escalate, not degrade")
	}
	if f.Fallbacks() != 0 {
		t.Fatalf("invariant violation must not trigger fallback")
	}
}

// TestFallbackTransparency：graph backend 掛掉前後，同一對卡片的答案
// 必須一致（fallback 透明性）。
func TestFallbackTransparency(t *testing.T) {
	ctx := context.Background()
	healthy := NewFailover(nil, nil) // math 直接服務，當作「graph 曾給過的答案」
	p1, ok1, _ := healthy.SharedPoint(ctx, 12, 40)

	broken := NewFailover(&brokenStore{err: errs.NewWarn("backend gone")}, nil)
	p2, ok2, err := broken.SharedPoint(ctx, 12, 40)
	if err != nil {
		t.Fatalf("degraded path returned error: %v", err)
	}
	if p1 != p2 || ok1 != ok2 {
		t.Fatalf("answers changed across backend loss: %d/%v vs %d/%v", p1, ok1, p2, ok2)
	}
	if broken.Active() != BackendGraph {
		// Active 描述組裝時的選擇；primary 仍在但逐呼叫降級。
		t.Fatalf("Active() = %s, want graph", broken.Active())
	}
}
