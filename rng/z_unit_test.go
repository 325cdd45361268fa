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

package rng

import (
	"slices"
	"testing"
)

func TestDeterminism(t *testing.T) {
	r1 := Default().New(7)
	r2 := Default().New(7)
	for i := 0; i < 10; i++ {
		if r1.Uint64() != r2.Uint64() {
			t.Fatalf("Uint64 mismatch at %d", i)
		}
	}
	if r1.IntN(57) != r2.IntN(57) {
		t.Fatalf("IntN mismatch")
	}
	if r1.Float64() != r2.Float64() {
		t.Fatalf("Float64 mismatch")
	}
}

func TestSeedsDiverge(t *testing.T) {
	r1 := Default().New(1)
	r2 := Default().New(2)
	same := 0
	for i := 0; i < 8; i++ {
		if r1.Uint64() == r2.Uint64() {
			same++
		}
	}
	if same == 8 {
		t.Fatalf("different seeds produced identical sequences")
	}
}

func TestBounds(t *testing.T) {
	r := Default().New(3)
	if got := r.IntN(0); got != -1 {
		t.Fatalf("IntN(0) = %d, want -1", got)
	}
	if got := r.IntN(-5); got != -1 {
		t.Fatalf("IntN(-5) = %d, want -1", got)
	}
	if got := r.UintN(0); got != 0 {
		t.Fatalf("UintN(0) = %d, want 0", got)
	}
	for i := 0; i < 1000; i++ {
		if v := r.IntN(57); v < 0 || v >= 57 {
			t.Fatalf("IntN(57) out of range: %d", v)
		}
		if f := r.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %v", f)
		}
	}
}

func TestSampleDistinct(t *testing.T) {
	r := Default().New(11)
	for i := 0; i < 200; i++ {
		got := Sample(r, 57, 3)
		if len(got) != 3 {
			t.Fatalf("Sample returned %d ids", len(got))
		}
		for j, v := range got {
			if v < 0 || v >= 57 {
				t.Fatalf("sample value out of range: %d", v)
			}
			for k := j + 1; k < len(got); k++ {
				if got[k] == v {
					t.Fatalf("sample not distinct: %v", got)
				}
			}
		}
	}
}

func TestSampleDeterministicAndEdgeCases(t *testing.T) {
	a := Sample(Default().New(42), 57, 3)
	b := Sample(Default().New(42), 57, 3)
	if !slices.Equal(a, b) {
		t.Fatalf("same seed gave different samples: %v vs %v", a, b)
	}
	if got := Sample(Default().New(1), 3, 5); got != nil {
		t.Fatalf("k > n should return nil, got %v", got)
	}
	if got := Sample(nil, 57, 3); got != nil {
		t.Fatalf("nil prng should return nil, got %v", got)
	}
	full := Sample(Default().New(5), 5, 5)
	want := []int{0, 1, 2, 3, 4}
	sorted := slices.Clone(full)
	slices.Sort(sorted)
	if !slices.Equal(sorted, want) {
		t.Fatalf("k == n should be a permutation, got %v", full)
	}
}

func TestNewSeed(t *testing.T) {
	s1, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed failed: %v", err)
	}
	if s1 < 0 {
		t.Fatalf("NewSeed returned negative seed: %d", s1)
	}
}
