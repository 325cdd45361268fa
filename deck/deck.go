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

// Package deck 管理 57 個符號的目錄（symbol catalog）。
//
// plane 只認識 PointID；「這個 Point 顯示成什麼名字、什麼圖案」屬於牌組
// 設定，從 YAML/JSON 設定檔載入（fs.FS 注入，預設牌組用 go:embed 編進
// binary）。Deck 一旦載入成功即不可變：名稱查詢、驗證答案、graph seeding
// 全部共用同一份資料，不存在第二份名稱來源。
package deck

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/spotlab/errs"
	"github.com/zintix-labs/spotlab/plane"
)

// Symbol 是一個符號：PointID + 顯示名稱 + 圖案（glyph）。
// Name 用於答案驗證（大小寫不敏感）；Glyph 只供呈現層使用。
type Symbol struct {
	ID    plane.PointID `yaml:"id"    json:"id"`
	Name  string        `yaml:"name"  json:"name"`
	Glyph string        `yaml:"glyph" json:"glyph"`
}

// setting 是設定檔的頂層結構；只在載入階段使用，不對外暴露。
type setting struct {
	DeckName string   `yaml:"deck_name" json:"deck_name"`
	Symbols  []Symbol `yaml:"symbols"   json:"symbols"`
}

// Deck 是載入並驗證完成的符號目錄。
// 內部以兩個索引提供查詢：byID（陣列）與 byName（case-folded map）。
type Deck struct {
	name    string
	symbols [plane.Size]Symbol
	byName  map[string]plane.PointID
}

// Load 從 fsys 讀取名為 name 的設定檔並建立 Deck。
//
// 檔名規則與設定檔一致：必須是 basename（不含路徑）、以 .yaml/.yml/.json
// 結尾、不能以 '.' 開頭。載入即驗證（fail-fast）：57 個符號、id 恰好覆蓋
// 0..56、名稱非空且 case-folded 後唯一。
func Load(fsys fs.FS, name string) (*Deck, error) {
	if fsys == nil {
		return nil, errs.NewFatal("deck fs required")
	}
	if err := validFileName(name); err != nil {
		return nil, err
	}
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.Wrap(err, "read deck config failed: "+name)
	}

	var st setting
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &st); err != nil {
			return nil, errs.Wrap(err, "parse deck yaml failed: "+name)
		}
	case ".json":
		if err := json.Unmarshal(raw, &st); err != nil {
			return nil, errs.Wrap(err, "parse deck json failed: "+name)
		}
	default:
		return nil, errs.NewFatal(fmt.Sprintf("unsupported deck config format: %q", name))
	}
	return build(&st)
}

func build(st *setting) (*Deck, error) {
	deckName := strings.TrimSpace(st.DeckName)
	if deckName == "" {
		return nil, errs.NewFatal("deck_name required")
	}
	if len(st.Symbols) != plane.Size {
		return nil, errs.Fatalf("deck %q has %d symbols, need exactly %d", deckName, len(st.Symbols), plane.Size)
	}

	d := &Deck{
		name:   deckName,
		byName: make(map[string]plane.PointID, plane.Size),
	}
	var seen [plane.Size]bool
	for _, s := range st.Symbols {
		if !plane.ValidPoint(s.ID) {
			return nil, errs.Fatalf("deck %q: symbol id %d out of range", deckName, s.ID)
		}
		if seen[s.ID] {
			return nil, errs.Fatalf("deck %q: duplicate symbol id %d", deckName, s.ID)
		}
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			return nil, errs.Fatalf("deck %q: symbol %d has empty name", deckName, s.ID)
		}
		if s.Glyph == "" {
			return nil, errs.Fatalf("deck %q: symbol %d (%s) has empty glyph", deckName, s.ID, s.Name)
		}
		key := strings.ToLower(s.Name)
		if prev, dup := d.byName[key]; dup {
			return nil, errs.Fatalf("deck %q: duplicate symbol name %q (ids %d and %d)", deckName, s.Name, prev, s.ID)
		}
		seen[s.ID] = true
		d.byName[key] = s.ID
		d.symbols[s.ID] = s
	}
	return d, nil
}

// Name 回傳牌組名稱。
func (d *Deck) Name() string { return d.name }

// Symbol 依 PointID 查詢；超界回傳 false。
func (d *Deck) Symbol(id plane.PointID) (Symbol, bool) {
	if !plane.ValidPoint(id) {
		return Symbol{}, false
	}
	return d.symbols[id], true
}

// ByName 依顯示名稱查詢（trim + case-insensitive）；查無或空白回傳 false。
func (d *Deck) ByName(name string) (Symbol, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Symbol{}, false
	}
	id, ok := d.byName[key]
	if !ok {
		return Symbol{}, false
	}
	return d.symbols[id], true
}

// NameOf 回傳 PointID 的顯示名稱；超界回傳 "?"（呈現層的防呆值）。
func (d *Deck) NameOf(id plane.PointID) string {
	if !plane.ValidPoint(id) {
		return "?"
	}
	return d.symbols[id].Name
}

// Symbols 依 id 序把一組 PointID 轉成 Symbol；未知 id 會被跳過。
func (d *Deck) Symbols(ids []plane.PointID) []Symbol {
	out := make([]Symbol, 0, len(ids))
	for _, id := range ids {
		if s, ok := d.Symbol(id); ok {
			out = append(out, s)
		}
	}
	return out
}

// All 回傳 57 個 Symbol 的複本，依 id 升冪。
func (d *Deck) All() []Symbol {
	out := make([]Symbol, plane.Size)
	copy(out, d.symbols[:])
	return out
}

func validFileName(file string) error {
	if file == "" {
		return errs.NewFatal("empty deck config filename")
	}
	// 1) 不能包含路徑或類似字元
	if strings.ContainsAny(file, `/\:`) {
		return errs.NewFatal(fmt.Sprintf("invalid deck config filename: %q (must be a basename; no / \\ :)", file))
	}
	// 2) 必須以 .yaml/.yml/.json 結尾（大小寫不敏感）
	lower := strings.ToLower(file)
	if !(strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".json")) {
		return errs.NewFatal(fmt.Sprintf("invalid deck config filename: %q (must end with .yaml, .yml, or .json)", file))
	}
	// 3) 不能以 . 開頭（防止直接 .yaml / .yml）
	if strings.HasPrefix(file, ".") {
		return errs.NewFatal(fmt.Sprintf("invalid deck config filename: %q (cannot start with '.')", file))
	}
	return nil
}
