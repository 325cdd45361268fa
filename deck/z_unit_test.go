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

package deck

import (
	"strconv"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/spotlab/plane"
)

func TestDefaultDeckComplete(t *testing.T) {
	d := Default()
	if d.Name() != "classic" {
		t.Fatalf("default deck name = %q, want classic", d.Name())
	}
	all := d.All()
	if len(all) != plane.Size {
		t.Fatalf("default deck has %d symbols, want %d", len(all), plane.Size)
	}
	for i, s := range all {
		if s.ID != plane.PointID(i) {
			t.Fatalf("symbol at index %d has id %d", i, s.ID)
		}
		if s.Name == "" || s.Glyph == "" {
			t.Fatalf("symbol %d has empty name or glyph", i)
		}
	}
}

func TestByNameCaseInsensitive(t *testing.T) {
	d := Default()
	for _, name := range []string{"Anchor", "anchor", "ANCHOR", "  anchor  "} {
		s, ok := d.ByName(name)
		if !ok {
			t.Fatalf("ByName(%q) not found", name)
		}
		if s.ID != 0 {
			t.Fatalf("ByName(%q) id = %d, want 0", name, s.ID)
		}
	}
	if _, ok := d.ByName(""); ok {
		t.Fatalf("empty name should not resolve")
	}
	if _, ok := d.ByName("   "); ok {
		t.Fatalf("blank name should not resolve")
	}
	if _, ok := d.ByName("no such symbol"); ok {
		t.Fatalf("unknown name should not resolve")
	}
}

func TestNameOfOutOfRange(t *testing.T) {
	d := Default()
	if got := d.NameOf(-1); got != "?" {
		t.Fatalf("NameOf(-1) = %q, want ?", got)
	}
	if got := d.NameOf(57); got != "?" {
		t.Fatalf("NameOf(57) = %q, want ?", got)
	}
	if got := d.NameOf(56); got != "Cheese" {
		t.Fatalf("NameOf(56) = %q, want Cheese", got)
	}
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing name", "symbols:\n  - { id: 0, name: A, glyph: x }\n"},
		{"too few", "deck_name: bad\nsymbols:\n  - { id: 0, name: A, glyph: x }\n"},
	}
	for _, c := range cases {
		fsys := fstest.MapFS{"bad.yaml": &fstest.MapFile{Data: []byte(c.body)}}
		if _, err := Load(fsys, "bad.yaml"); err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
	}
}

func TestLoadRejectsDuplicateNames(t *testing.T) {
	body := "deck_name: dup\nsymbols:\n"
	for i := 0; i < plane.Size; i++ {
		body += "  - { id: " + strconv.Itoa(i) + ", name: same, glyph: x }\n"
	}
	fsys := fstest.MapFS{"dup.yaml": &fstest.MapFile{Data: []byte(body)}}
	if _, err := Load(fsys, "dup.yaml"); err == nil {
		t.Fatalf("expected duplicate-name error")
	}
}

func TestValidFileName(t *testing.T) {
	bad := []string{"", "a/b.yaml", `a\b.yaml`, "deck.txt", ".yaml", ".hidden.yaml"}
	for _, n := range bad {
		if err := validFileName(n); err == nil {
			t.Fatalf("validFileName(%q) should fail", n)
		}
	}
	good := []string{"classic.yaml", "Classic.YML", "deck.json"}
	for _, n := range good {
		if err := validFileName(n); err != nil {
			t.Fatalf("validFileName(%q) failed: %v", n, err)
		}
	}
}
