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
	"embed"
	"io/fs"
)

//go:embed configs/classic.yaml
var defaultFS embed.FS

// Default 回傳內建的 classic 牌組（57 個 emoji 符號，go:embed 編進 binary）。
//
// 內建設定檔在編譯期就固定，若 Load 失敗代表 repo 本身壞掉，直接 panic
// 而不是把錯誤往外傳。
func Default() *Deck {
	sub, err := fs.Sub(defaultFS, "configs")
	if err != nil {
		panic("deck: embedded configs missing: " + err.Error())
	}
	d, err := Load(sub, "classic.yaml")
	if err != nil {
		panic("deck: embedded classic deck is invalid: " + err.Error())
	}
	return d
}
