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

// Package spotlab 提供配對卡牌引擎的「組裝入口(assembler)」。
//
// Spotlab 把四個地基組合在一起,並對外提供回合與判定的入口:
//  1. Deck:符號目錄(Single Source of Truth / SSOT),57 個符號的
//     id/名稱/字形,名稱判定一律以它為準。
//  2. incidence.Store:卡牌與符號的 incidence 查詢後端。可以是純數學
//     後端、圖後端,或兩者合成的 Failover。
//  3. rng.Factory:亂數核心工廠(PRNG factory),保證可重現
//     (reproducible)與可審計(auditable)。
//  4. Logger:結構化日誌。
//
// 設計重點:
//   - Spotlab 本身不綁定任何「檔案路徑」或「連線字串」概念:牌組與
//     後端一律由呼叫端組裝注入。
//   - 回合(Round)是對外服務的最小單位:抽三張相異卡、發 token、
//     之後憑 token 查詢與判定。
//   - 同一個 seed 起的 Spotlab,抽卡與擺位序列完全一致。
//
// 典型使用情境:
//   - 後端服務(HTTP):由 Spotlab 開回合,前端憑 token 作答。
//   - 驗證器(verify):直接打 incidence.Store 做全量檢查。
package spotlab

import (
	"log/slog"
	"sync"

	"github.com/zintix-labs/spotlab/deck"
	"github.com/zintix-labs/spotlab/errs"
	"github.com/zintix-labs/spotlab/incidence"
	"github.com/zintix-labs/spotlab/rng"
)

// Config 是 New() 的組裝參數。除 Store 外皆可留空取預設:
// Deck 預設內建牌組,Cores 預設 PCG32,Seed 預設由 crypto/rand 起,
// Log 預設 slog.Default()。Store 留空時用純數學後端。
type Config struct {
	Deck  *deck.Deck
	Store incidence.Store
	Cores rng.Factory
	Seed  *int64
	Log   *slog.Logger
}

// Spotlab 是組裝器。所有回合共用同一個 PRNG(以 mutex 保護),
// 所以整體序列由單一 seed 決定。
type Spotlab struct {
	deck   *deck.Deck
	store  incidence.Store
	log    *slog.Logger
	rounds *RoundStore

	mu   sync.Mutex
	prng rng.PRNG
	seed int64
}

// New 建立一個 Spotlab instance。
//
// 這是組裝階段的入口:缺什麼補什麼預設,唯一的硬要求是注入的
// Deck 必須是完整的 57 符號牌組(Load/Default 已保證)。
func New(cfg Config) (*Spotlab, error) {
	d := cfg.Deck
	if d == nil {
		d = deck.Default()
	}
	store := cfg.Store
	if store == nil {
		store = incidence.NewMathStore()
	}
	cores := cfg.Cores
	if cores == nil {
		cores = rng.Default()
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	var seed int64
	if cfg.Seed != nil {
		seed = *cfg.Seed
	} else {
		var err error
		if seed, err = rng.NewSeed(); err != nil {
			return nil, err
		}
	}
	p := cores.New(seed)
	if p == nil {
		return nil, errs.NewFatal("rng factory returned nil core")
	}
	return &Spotlab{
		deck:   d,
		store:  store,
		log:    log,
		rounds: newRoundStore(),
		prng:   p,
		seed:   seed,
	}, nil
}

// Deck 回傳符號目錄。
func (s *Spotlab) Deck() *deck.Deck { return s.deck }

// Seed 回傳這個 instance 的出生 seed,用於追溯/重現。
func (s *Spotlab) Seed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seed
}

// Reseed 用新 seed 重起 PRNG。既有回合不受影響,之後的抽卡與
// 擺位序列從新 seed 重新開始。主要給測試與重現用。
func (s *Spotlab) Reseed(cores rng.Factory, seed int64) error {
	if cores == nil {
		cores = rng.Default()
	}
	p := cores.New(seed)
	if p == nil {
		return errs.NewFatal("rng factory returned nil core")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prng = p
	s.seed = seed
	return nil
}

// Health 描述目前的後端狀態:哪個 backend 在服務、降級了幾次。
type Health struct {
	Backend   incidence.Backend `json:"backend"`
	Fallbacks uint64            `json:"fallbacks"`
	Rounds    int               `json:"rounds"`
}

func (s *Spotlab) Health() Health {
	h := Health{Backend: incidence.BackendMath, Rounds: s.rounds.Len()}
	if f, ok := s.store.(*incidence.Failover); ok {
		h.Backend = f.Active()
		h.Fallbacks = f.Fallbacks()
	}
	return h
}
