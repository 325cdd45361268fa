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

package layout

import (
	"testing"

	"github.com/zintix-labs/spotlab/rng"
)

func TestArrangeDeterministic(t *testing.T) {
	a := Arrange(rng.Default().New(42), 8)
	b := Arrange(rng.Default().New(42), 8)
	if len(a) != 8 || len(b) != 8 {
		t.Fatalf("len = %d/%d, want 8", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("placement %d diverged: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestArrangeStaysInsidePlacementRadius(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		for _, pl := range Arrange(rng.Default().New(seed), 8) {
			dx, dy := pl.X-cardCenter, pl.Y-cardCenter
			if dx*dx+dy*dy > maxPlacementRadiusSq+1e-12 {
				t.Fatalf("seed %d: placement outside radius: %+v", seed, pl)
			}
			if pl.Rotation < -maxRotation || pl.Rotation > maxRotation {
				t.Fatalf("seed %d: rotation out of range: %+v", seed, pl)
			}
		}
	}
}

func TestArrangeSizeMix(t *testing.T) {
	counts := map[Size]int{}
	for _, pl := range Arrange(rng.Default().New(7), 8) {
		counts[pl.Size]++
	}
	if counts[SizeLarge] != 3 || counts[SizeMedium] != 3 || counts[SizeSmall] != 2 {
		t.Fatalf("size mix = %v, want 3/3/2", counts)
	}
}

func TestArrangeEdgeCases(t *testing.T) {
	if got := Arrange(nil, 8); got != nil {
		t.Fatalf("nil prng should yield nil, got %v", got)
	}
	if got := Arrange(rng.Default().New(1), 0); got != nil {
		t.Fatalf("n=0 should yield nil, got %v", got)
	}
	if got := Arrange(rng.Default().New(1), 3); len(got) != 3 {
		t.Fatalf("n=3 should yield 3 placements, got %d", len(got))
	}
}
