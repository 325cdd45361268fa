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

package incidence

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/zintix-labs/spotlab/plane"
)

const defaultCallTimeout = 2 * time.Second

// Failover 把 graph backend 與 computational fallback 組成單一 Store。
//
// 設計（選定一次，不逐請求重選）：
//   - primary 在組裝階段決定：graph backend 健康就給 graph，否則給 nil。
//     組裝後不再重試連線（reconnect 策略：不自動回升，重啟程序重新評估；
//     這讓「哪個 backend 在服務」在整個 process 生命週期內可預測）。
//   - 每次呼叫 primary 都帶 bounded timeout；失敗或逾時就記 log、改用
//     math fallback 回答。BackendUnavailable 永遠不會變成呼叫端的錯誤。
//   - InvariantViolation（Fatal）不觸發 fallback：資料壞掉要浮上去，
//     不能換個 backend 遮掉。
type Failover struct {
	primary  Store      // graph backend；nil 代表組裝時就不可用
	fallback *MathStore // 永遠可用
	timeout  time.Duration
	log      *slog.Logger

	// fallbacks 統計 primary 失敗後由 math 服務的次數（觀測用）。
	fallbacks atomic.Uint64
}

// FailoverOption 調整 Failover 行為。
type FailoverOption func(*Failover)

// WithTimeout 設定對 primary 單次呼叫的逾時上限。
func WithTimeout(d time.Duration) FailoverOption {
	return func(f *Failover) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// NewFailover 組裝 Failover。primary 可為 nil（graph 未配置或組裝時不可達），
// 此時一切查詢直接走 math fallback。log 為 nil 則靜默。
func NewFailover(primary Store, log *slog.Logger, opts ...FailoverOption) *Failover {
	f := &Failover{
		primary:  primary,
		fallback: NewMathStore(),
		timeout:  defaultCallTimeout,
		log:      log,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Active 回報正常路徑由哪個 backend 服務。
func (f *Failover) Active() Backend {
	if f.primary != nil {
		return BackendGraph
	}
	return BackendMath
}

// Fallbacks 回傳 primary 失敗後改由 math 服務的累計次數。
func (f *Failover) Fallbacks() uint64 {
	return f.fallbacks.Load()
}

// PointsOnLine 滿足 Store。
func (f *Failover) PointsOnLine(ctx context.Context, l plane.LineID) ([]plane.PointID, error) {
	if f.primary == nil {
		return f.fallback.PointsOnLine(ctx, l)
	}
	cctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	pts, err := f.primary.PointsOnLine(cctx, l)
	if err == nil {
		return pts, nil
	}
	if !f.degradable(err) {
		return nil, err
	}
	f.noteFallback("PointsOnLine", err)
	return f.fallback.PointsOnLine(ctx, l)
}

// SharedPoint 滿足 Store。
func (f *Failover) SharedPoint(ctx context.Context, a, b plane.LineID) (plane.PointID, bool, error) {
	if f.primary == nil {
		return f.fallback.SharedPoint(ctx, a, b)
	}
	cctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	p, ok, err := f.primary.SharedPoint(cctx, a, b)
	if err == nil {
		return p, ok, nil
	}
	if !f.degradable(err) {
		return 0, false, err
	}
	f.noteFallback("SharedPoint", err)
	return f.fallback.SharedPoint(ctx, a, b)
}

// degradable 判斷這個錯誤是否允許降級到 math fallback。
//
//   - 呼叫端自己取消（ctx.Canceled）不降級：請求已經沒人要了。
//   - ErrInvariant（不變量破壞）不降級：必須浮上去。
//   - 其他（連線失敗、query 失敗、primary 逾時）都視為 BackendUnavailable。
func (f *Failover) degradable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrInvariant) {
		return false
	}
	return true
}

func (f *Failover) noteFallback(op string, err error) {
	f.fallbacks.Add(1)
	if f.log != nil {
		f.log.Warn("incidence.fallback",
			slog.String("op", op),
			slog.Any("err", err),
		)
	}
}
