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

// Package verify 對 incidence 後端做全量不變量驗證。
//
// 驗證範圍:
//  1. 度數:每張卡 8 個符號、每個符號在 8 張卡上。
//  2. 唯一交點:全部 1596 組無序卡對,恰好共享一個符號。
//  3. 對偶:全部 1596 組無序符號對,恰好共享一張卡。
//  4. 後端等價:受測後端的答案必須跟封閉式數學解逐一相同。
//
// 任何一條掛掉都代表資料或後端壞了,不是機率問題。
package verify

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cheggaaa/pb/v3"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/zintix-labs/spotlab/incidence"
	"github.com/zintix-labs/spotlab/plane"
)

// Report 是一次驗證的結果。
type Report struct {
	Backend      incidence.Backend
	LinesChecked int
	PairsChecked int
	DualsChecked int

	DegreeErrs int
	PairErrs   int
	DualErrs   int
	CrossErrs  int

	// 前幾筆錯誤的描述,夠定位就好。
	Samples []string

	Used time.Duration
}

const maxSamples = 10

// OK 表示所有不變量都成立。
func (r *Report) OK() bool {
	return r.DegreeErrs == 0 && r.PairErrs == 0 && r.DualErrs == 0 && r.CrossErrs == 0
}

func (r *Report) flag(kind *int, format string, args ...any) {
	*kind++
	if len(r.Samples) < maxSamples {
		r.Samples = append(r.Samples, fmt.Sprintf(format, args...))
	}
}

// Run 對 store 跑全量驗證。showpb 控制進度條(測試時關掉)。
//
// store 的每個答案都會跟 plane 的封閉式解比對,所以拿圖後端來跑
// 就是在驗證「兩個後端 bit 相同」;拿數學後端來跑則是自我一致性
// (集合交集 vs 封閉式)。
func Run(ctx context.Context, store incidence.Store, showpb bool) (*Report, error) {
	rep := &Report{}
	if f, ok := store.(*incidence.Failover); ok {
		rep.Backend = f.Active()
	}

	pairs := combin.Combinations(plane.Size, 2)
	total := plane.Size + len(pairs)*2
	bar := pb.StartNew(total)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	start := time.Now()

	// 1) 每張卡 8 個符號,且跟封閉式點集完全一致。
	lineDegree := [plane.Size]int{}
	for l := plane.LineID(0); l < plane.Size; l++ {
		pts, err := store.PointsOnLine(ctx, l)
		if err != nil {
			return nil, err
		}
		if len(pts) != plane.PointsPerLine {
			rep.flag(&rep.DegreeErrs, "card %d has %d symbols", l, len(pts))
		}
		want := plane.PointsOnLine(l)
		for i, p := range pts {
			if !plane.ValidPoint(p) {
				rep.flag(&rep.DegreeErrs, "card %d carries invalid symbol %d", l, p)
				continue
			}
			lineDegree[p]++
			if i < len(want) && p != want[i] {
				rep.flag(&rep.CrossErrs, "card %d symbol %d: backend %d, math %d", l, i, p, want[i])
			}
		}
		rep.LinesChecked++
		bar.Increment()
	}

	// 2) 每個符號要剛好落在 8 張卡上(由上面的點集彙總)。
	for p, n := range lineDegree {
		if n != plane.LinesPerPoint {
			rep.flag(&rep.DegreeErrs, "symbol %d appears on %d cards", p, n)
		}
	}

	// 3) 1596 組卡對:唯一交點,且與封閉式解相同。
	for _, pr := range pairs {
		a, b := plane.LineID(pr[0]), plane.LineID(pr[1])
		got, ok, err := store.SharedPoint(ctx, a, b)
		if err != nil {
			return nil, err
		}
		if !ok {
			rep.flag(&rep.PairErrs, "cards %d,%d share no symbol", a, b)
			bar.Increment()
			continue
		}
		want, wok := plane.SharedPoint(a, b)
		if !wok || got != want {
			rep.flag(&rep.CrossErrs, "cards %d,%d: backend %d, math %d", a, b, got, want)
		}
		rep.PairsChecked++
		bar.Increment()
	}

	// 4) 1596 組符號對:唯一共卡(對偶不變量,純數學側)。
	for _, pr := range pairs {
		a, b := plane.PointID(pr[0]), plane.PointID(pr[1])
		l, ok := plane.SharedLine(a, b)
		if !ok {
			rep.flag(&rep.DualErrs, "symbols %d,%d share no card", a, b)
			bar.Increment()
			continue
		}
		if !onLine(a, l) || !onLine(b, l) {
			rep.flag(&rep.DualErrs, "symbols %d,%d: card %d does not carry both", a, b, l)
		}
		rep.DualsChecked++
		bar.Increment()
	}

	rep.Used = time.Since(start)
	bar.Finish()
	return rep, nil
}

func onLine(p plane.PointID, l plane.LineID) bool {
	for _, q := range plane.PointsOnLine(l) {
		if q == p {
			return true
		}
	}
	return false
}
