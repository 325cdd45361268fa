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

// Package incidence 定義 incidence 查詢的統一介面與 computational backend。
//
// 兩個 backend（graph / math）必須回答得一模一樣；介面只講 PointID，
// 名稱由 deck 在上層統一附加，backend 之間不可能出現名稱漂移。
package incidence

import (
	"context"

	"github.com/zintix-labs/spotlab/errs"
	"github.com/zintix-labs/spotlab/plane"
)

// ErrInvariant 表示 backend 對一對 Line 回傳了超過一個共同 Point——
// 射影平面的不變量被破壞（資料毀損或 seeding 與公式不一致）。
// 這類錯誤對該次查詢是致命的：往上浮，絕不降級、絕不猜測。
var ErrInvariant = errs.NewFatal("incidence invariant violated: line pair shares multiple points")

// Backend 標示查詢實際由哪個實作服務；只影響觀測，不影響語意。
type Backend uint8

const (
	BackendMath  Backend = iota // 純計算 fallback，永遠可用
	BackendGraph                // Neo4j graph backend（種子化後為 source of truth）
)

func (b Backend) String() string {
	switch b {
	case BackendMath:
		return "math"
	case BackendGraph:
		return "graph"
	default:
		return "unknown"
	}
}

// MarshalText 讓 Backend 在 JSON/YAML 輸出時呈現名稱而非數字。
func (b Backend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Store 是 incidence 關係的讀取介面。
//
// 合約：
//   - PointsOnLine：回傳該 Line 通過的 Point（升冪）；超界 id 回傳空集合，
//     不是錯誤。
//   - SharedPoint：回傳兩條 Line 的唯一共同 Point。「查無交點」是合法結果
//     （ok=false, err=nil），代表無效/不支援的 line 對；查到兩個以上則是
//     資料不變量被破壞，回傳 Fatal error，絕不猜一個了事。
//   - 兩個實作對任何輸入都必須回答一致（種子化完成後）。
type Store interface {
	PointsOnLine(ctx context.Context, l plane.LineID) ([]plane.PointID, error)
	SharedPoint(ctx context.Context, a, b plane.LineID) (plane.PointID, bool, error)
}

// MathStore 是 computational fallback：直接用 plane 的公式回答，
// 無外部依賴、無狀態、永遠可用。
type MathStore struct{}

// NewMathStore 建立 computational backend。
func NewMathStore() *MathStore {
	return &MathStore{}
}

// PointsOnLine 滿足 Store。ctx 只為介面一致而存在；純計算不會阻塞。
func (s *MathStore) PointsOnLine(_ context.Context, l plane.LineID) ([]plane.PointID, error) {
	pts := plane.PointsOnLine(l)
	if pts == nil {
		return []plane.PointID{}, nil
	}
	return pts, nil
}

// SharedPoint 滿足 Store。
func (s *MathStore) SharedPoint(_ context.Context, a, b plane.LineID) (plane.PointID, bool, error) {
	p, ok := plane.SharedPoint(a, b)
	return p, ok, nil
}
