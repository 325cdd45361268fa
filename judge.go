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
	"strings"

	"github.com/zintix-labs/spotlab/deck"
	"github.com/zintix-labs/spotlab/plane"
)

// Claim 是作答:指 id 或指名稱,給一個就夠。兩個都給時
// 任一命中即算對。
type Claim struct {
	PointID *int   `json:"pointId,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Verdict 是判定結果。Expected 一律帶正解,要不要露給前端
// 由上層決定。
type Verdict struct {
	Correct  bool         `json:"correct"`
	Expected *deck.Symbol `json:"expected,omitempty"`
}

// SharedSymbol 回傳角色的卡與目標卡共享的符號。兩張相異卡
// 必有唯一交點,查無交點只會發生在資料壞掉或卡 id 越界,
// 此時回傳 (nil, false)。
func (s *Spotlab) SharedSymbol(ctx context.Context, r *Round, role Role) (*deck.Symbol, bool, error) {
	p, ok, err := s.store.SharedPoint(ctx, r.CardOf(role).Line, r.Target.Line)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	sym, ok := s.deck.Symbol(p)
	if !ok {
		return nil, false, nil
	}
	return &sym, true, nil
}

// Validate 判定作答。
//
// 規則:
//   - token 查不到:ErrRoundNotFound。
//   - 正解不存在(資料異常):correct=false,不是 error。
//   - 空作答(沒 id、名稱空白):correct=false,不是 error。
//   - id 命中或名稱命中(去頭尾空白、不分大小寫)任一即對。
//
// 同一回合同一作答,判定結果恆相同。
func (s *Spotlab) Validate(ctx context.Context, token string, role Role, c Claim) (Verdict, error) {
	r, err := s.GetRound(ctx, token)
	if err != nil {
		return Verdict{}, err
	}
	truth, ok, err := s.SharedSymbol(ctx, r, role)
	if err != nil {
		return Verdict{}, err
	}
	if !ok {
		return Verdict{Correct: false}, nil
	}

	v := Verdict{Expected: truth}
	if c.PointID != nil && plane.PointID(*c.PointID) == truth.ID {
		v.Correct = true
		return v, nil
	}
	if name := strings.TrimSpace(c.Name); name != "" &&
		strings.EqualFold(name, truth.Name) {
		v.Correct = true
	}
	return v, nil
}
