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

package verify

import (
	"context"
	"strings"
	"testing"

	"github.com/zintix-labs/spotlab/incidence"
	"github.com/zintix-labs/spotlab/plane"
)

func TestMathBackendPassesAllInvariants(t *testing.T) {
	rep, err := Run(context.Background(), incidence.NewMathStore(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !rep.OK() {
		t.Fatalf("math backend failed verification: %+v", rep)
	}
	if rep.LinesChecked != plane.Size {
		t.Fatalf("lines checked = %d, want %d", rep.LinesChecked, plane.Size)
	}
	if rep.PairsChecked != plane.Pairs || rep.DualsChecked != plane.Pairs {
		t.Fatalf("pairs = %d duals = %d, want %d", rep.PairsChecked, rep.DualsChecked, plane.Pairs)
	}
}

// corruptStore 在一組卡對上說謊,驗證器必須抓到。
type corruptStore struct {
	incidence.Store
}

func (c corruptStore) SharedPoint(ctx context.Context, a, b plane.LineID) (plane.PointID, bool, error) {
	if a == 3 && b == 20 {
		want, _ := plane.SharedPoint(a, b)
		return (want + 1) % plane.Size, true, nil
	}
	return c.Store.SharedPoint(ctx, a, b)
}

func TestCorruptBackendIsDetected(t *testing.T) {
	rep, err := Run(context.Background(), corruptStore{Store: incidence.NewMathStore()}, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.OK() {
		t.Fatalf("corrupt backend passed verification")
	}
	if rep.CrossErrs != 1 {
		t.Fatalf("cross errors = %d, want 1", rep.CrossErrs)
	}
}

func TestReportWrite(t *testing.T) {
	rep, err := Run(context.Background(), incidence.NewMathStore(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var sb strings.Builder
	if err := rep.Write(&sb); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "PASS") || !strings.Contains(out, "1,596") {
		t.Fatalf("report missing verdict or pair count:\n%s", out)
	}
}
