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
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zintix-labs/spotlab/deck"
	"github.com/zintix-labs/spotlab/errs"
	"github.com/zintix-labs/spotlab/layout"
	"github.com/zintix-labs/spotlab/plane"
	"github.com/zintix-labs/spotlab/rng"
)

// ErrRoundNotFound:token 查不到回合。屬於請求方錯誤(Warn),
// HTTP 邊界會映成 404。
var ErrRoundNotFound = errs.NewWarn("round not found")

// Role 是回合中的作答方。目標卡(target)不是作答方,
// 它是兩邊共同的對照卡。
type Role int

const (
	RoleHuman Role = iota
	RoleAI
)

var roleNames = map[Role]string{
	RoleHuman: "human",
	RoleAI:    "ai",
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return "unknown"
}

// ParseRole 解析角色字串(不分大小寫)。
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "human":
		return RoleHuman, true
	case "ai":
		return RoleAI, true
	}
	return 0, false
}

// Card 是回合裡一張卡的完整呈現資料:卡 id、符號(含名稱與字形)、
// 以及每個符號的擺位。
type Card struct {
	Line    plane.LineID       `json:"cardId"`
	Symbols []deck.Symbol      `json:"symbols"`
	Layout  []layout.Placement `json:"layout"`
}

// Round 是一個回合:三張相異卡與各自的角色。建立後不可變。
type Round struct {
	Token     string    `json:"token"`
	Target    Card      `json:"target"`
	AI        Card      `json:"ai"`
	Human     Card      `json:"human"`
	CreatedAt time.Time `json:"createdAt"`
}

// CardOf 回傳角色對應的卡。
func (r *Round) CardOf(role Role) *Card {
	if role == RoleAI {
		return &r.AI
	}
	return &r.Human
}

// SymbolNames 回傳回合中出現過的符號名稱(去重、排序)。
// 給前端做候選清單,不洩漏哪張卡有哪個符號以外的資訊。
func (r *Round) SymbolNames() []string {
	seen := map[string]struct{}{}
	names := make([]string, 0, 3*plane.PointsPerLine)
	for _, c := range []*Card{&r.Target, &r.AI, &r.Human} {
		for _, sym := range c.Symbols {
			if _, ok := seen[sym.Name]; ok {
				continue
			}
			seen[sym.Name] = struct{}{}
			names = append(names, sym.Name)
		}
	}
	slices.Sort(names)
	return names
}

// RoundStore 是行程內的回合存放區。token 由 uuid 發,
// 讀多寫少所以用 RWMutex。
type RoundStore struct {
	mu     sync.RWMutex
	rounds map[string]*Round
}

func newRoundStore() *RoundStore {
	return &RoundStore{rounds: make(map[string]*Round, 64)}
}

func (rs *RoundStore) put(r *Round) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.rounds[r.Token] = r
}

func (rs *RoundStore) get(token string) (*Round, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	r, ok := rs.rounds[token]
	return r, ok
}

// Len 回傳目前存放的回合數。
func (rs *RoundStore) Len() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.rounds)
}

// NewRound 開新回合:抽三張相異卡,依抽出順序指派
// target、ai、human,產生各卡擺位,發 token 存進 RoundStore。
//
// 卡面符號一律走 incidence.Store 取(後端掛了由 Failover 降級),
// 名稱與字形由 Deck 補上。
func (s *Spotlab) NewRound(ctx context.Context) (*Round, error) {
	s.mu.Lock()
	draw := rng.Sample(s.prng, plane.Size, 3)
	var lay [3][]layout.Placement
	for i := range lay {
		lay[i] = layout.Arrange(s.prng, plane.PointsPerLine)
	}
	s.mu.Unlock()
	if len(draw) != 3 {
		return nil, errs.NewFatal("card draw failed")
	}

	r := &Round{
		Token:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	cards := []*Card{&r.Target, &r.AI, &r.Human}
	for i, c := range cards {
		line := plane.LineID(draw[i])
		pts, err := s.store.PointsOnLine(ctx, line)
		if err != nil {
			return nil, err
		}
		if len(pts) != plane.PointsPerLine {
			return nil, errs.Fatalf("card %d has %d symbols, want %d", line, len(pts), plane.PointsPerLine)
		}
		c.Line = line
		c.Symbols = s.deck.Symbols(pts)
		c.Layout = lay[i]
	}

	s.rounds.put(r)
	s.log.Info("round.new", "token", r.Token,
		"target", r.Target.Line, "ai", r.AI.Line, "human", r.Human.Line)
	return r, nil
}

// GetRound 憑 token 取回合。查不到回傳 ErrRoundNotFound。
// 回傳的 Round 不含答案:共享符號只能經 Validate 間接得知。
func (s *Spotlab) GetRound(_ context.Context, token string) (*Round, error) {
	r, ok := s.rounds.get(token)
	if !ok {
		return nil, ErrRoundNotFound
	}
	return r, nil
}
