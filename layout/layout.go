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

// Package layout 負責卡面符號的隨機擺位。
//
// 座標是 [0,1] 的比例座標,由前端自行乘上畫布尺寸。擺位只影響
// 呈現,不影響判定:同一張卡不論怎麼擺,符號集合都一樣。
package layout

import (
	"math"

	"github.com/zintix-labs/spotlab/rng"
)

// Size 是符號的呈現尺寸檔位。
type Size string

const (
	SizeLarge  Size = "large"
	SizeMedium Size = "medium"
	SizeSmall  Size = "small"
)

// Placement 描述一個符號在卡面上的位置、旋轉與尺寸。
type Placement struct {
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Rotation float64 `json:"rotation" yaml:"rotation"`
	Size     Size    `json:"size" yaml:"size"`
}

// 擺位參數。圓心 (0.5, 0.5)、半徑 0.5,符號中心限制在 70% 半徑內
// 以免貼邊被裁;彼此至少隔 minDist 避免重疊。
const (
	cardCenter    = 0.5
	cardRadius    = 0.5
	placementFrac = 0.70
	rangeLow      = 0.18
	rangeHigh     = 0.82
	minDist       = 0.26
	maxRotation   = 40.0

	placeTries    = 200
	fallbackTries = 300
)

var maxPlacementRadiusSq = (cardRadius * placementFrac) * (cardRadius * placementFrac)

// sizePool 是每張 8 符號卡的尺寸配置:3 大、3 中、2 小。
var sizePool = [8]Size{
	SizeLarge, SizeLarge, SizeLarge,
	SizeMedium, SizeMedium, SizeMedium,
	SizeSmall, SizeSmall,
}

// Arrange 為 n 個符號產生擺位。同一個 PRNG 狀態會產生同一組擺位,
// 所以整體可重現性由呼叫端的 seed 控制。n 超過 8 時尺寸檔位循環使用。
func Arrange(p rng.PRNG, n int) []Placement {
	if p == nil || n <= 0 {
		return nil
	}

	pool := sizePool
	shuffleSizes(p, pool[:])

	out := make([]Placement, 0, n)
	existing := make([][2]float64, 0, n)
	for i := 0; i < n; i++ {
		x, y := pickPosition(p, existing)
		existing = append(existing, [2]float64{x, y})
		out = append(out, Placement{
			X:        x,
			Y:        y,
			Rotation: uniform(p, -maxRotation, maxRotation),
			Size:     pool[i%len(pool)],
		})
	}
	return out
}

func shuffleSizes(p rng.PRNG, pool []Size) {
	for i := len(pool) - 1; i > 0; i-- {
		j := p.IntN(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
}

// pickPosition 先嘗試找一個跟既有符號都保持 minDist 的點;
// 找不到就退而求其次,取「離最近鄰居最遠」的候選點。
func pickPosition(p rng.PRNG, existing [][2]float64) (float64, float64) {
	for i := 0; i < placeTries; i++ {
		x := uniform(p, rangeLow, rangeHigh)
		y := uniform(p, rangeLow, rangeHigh)
		if !insideRadius(x, y) {
			continue
		}
		if minDistTo(x, y, existing) >= minDist {
			return x, y
		}
	}

	bestX := uniform(p, rangeLow, rangeHigh)
	bestY := uniform(p, rangeLow, rangeHigh)
	if !insideRadius(bestX, bestY) {
		bestX, bestY = cardCenter, cardCenter
	}
	bestD := minDistTo(bestX, bestY, existing)
	for i := 0; i < fallbackTries; i++ {
		x := uniform(p, rangeLow, rangeHigh)
		y := uniform(p, rangeLow, rangeHigh)
		if !insideRadius(x, y) {
			continue
		}
		if d := minDistTo(x, y, existing); d > bestD {
			bestX, bestY, bestD = x, y, d
		}
	}
	return bestX, bestY
}

func insideRadius(x, y float64) bool {
	dx, dy := x-cardCenter, y-cardCenter
	return dx*dx+dy*dy <= maxPlacementRadiusSq
}

func minDistTo(x, y float64, existing [][2]float64) float64 {
	best := math.Inf(1)
	for _, e := range existing {
		dx, dy := x-e[0], y-e[1]
		if d := math.Sqrt(dx*dx + dy*dy); d < best {
			best = d
		}
	}
	return best
}

func uniform(p rng.PRNG, lo, hi float64) float64 {
	return lo + p.Float64()*(hi-lo)
}
