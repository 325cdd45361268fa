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

package svrcfg

import (
	"log/slog"
	"time"

	"github.com/zintix-labs/spotlab"
	"github.com/zintix-labs/spotlab/errs"
	"github.com/zintix-labs/spotlab/server/logger"
)

type SvrCfg struct {
	Log *slog.Logger
	Lab *spotlab.Spotlab

	// 單一請求在引擎側的時間上限。
	ReqTimeout time.Duration
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}

	// 1s <= ReqTimeout <= 30s
	// for 資源管理
	if sc.ReqTimeout <= 0 {
		sc.ReqTimeout = 5 * time.Second
	}
	sc.ReqTimeout = max(time.Second, sc.ReqTimeout)
	sc.ReqTimeout = min(30*time.Second, sc.ReqTimeout)
	if sc.Lab == nil {
		return errs.NewFatal("spotlab is required")
	}
	return nil
}
