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

// Package graphstore 以 Neo4j 實作 incidence.Store。
//
// 牌組以圖的形式落地:57 個 Point 節點、57 個 Card 節點、以及
// (:Point)-[:ON]->(:Card) 的 incidence 邊。所有 id 一律 0-based,
// 與 plane 套件的編號完全一致;名稱不落地,由 deck 層負責。
package graphstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/zintix-labs/spotlab/errs"
	"github.com/zintix-labs/spotlab/incidence"
	"github.com/zintix-labs/spotlab/plane"
)

// Config 為連線設定。Timeout 用於建構時的連線驗證與 Seed。
type Config struct {
	URI      string
	User     string
	Password string
	Timeout  time.Duration
}

const defaultTimeout = 5 * time.Second

// Store 是 incidence.Store 的 Neo4j 後端。
// 建構時即驗證連線;之後的查詢失敗交由呼叫端(通常是
// incidence.Failover)降級處理。
type Store struct {
	driver  neo4j.DriverWithContext
	timeout time.Duration

	seedOnce sync.Once
	seedErr  error
}

// opCtx 給單一查詢掛上有界 deadline,避免壞掉的後端拖住呼叫端。
func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// New 建立並驗證 Neo4j 連線。驗證失敗直接回傳錯誤,
// 不做延遲連線:後端能不能用必須在組裝期就定案。
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, errs.NewFatal("graphstore: empty uri")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, errs.Wrap(err, "graphstore: create driver")
	}

	vctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(vctx); err != nil {
		_ = driver.Close(ctx)
		return nil, errs.Wrap(err, "graphstore: verify connectivity")
	}
	return &Store{driver: driver, timeout: timeout}, nil
}

// Close 關閉底層 driver。
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// Seed 確保圖中有完整牌組。已有 Card 節點就不動,否則一次建滿
// 57 Point、57 Card 與所有 ON 邊。重複呼叫安全:行程內由
// sync.Once 擋,跨行程由 count 前置檢查與 MERGE 冪等性擋。
func (s *Store) Seed(ctx context.Context) error {
	s.seedOnce.Do(func() { s.seedErr = s.seed(ctx) })
	return s.seedErr
}

func (s *Store) seed(ctx context.Context) error {
	n, err := s.cardCount(ctx)
	if err != nil {
		return err
	}
	if n >= plane.Size {
		return nil
	}

	for _, q := range seedQueries {
		qctx, cancel := s.opCtx(ctx)
		_, err := neo4j.ExecuteQuery(qctx, s.driver, q, nil,
			neo4j.EagerResultTransformer)
		cancel()
		if err != nil {
			return errs.Wrap(err, "graphstore: seed")
		}
	}
	return nil
}

func (s *Store) cardCount(ctx context.Context) (int, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	res, err := neo4j.ExecuteQuery(ctx, s.driver,
		"MATCH (c:Card) RETURN count(c) AS n", nil,
		neo4j.EagerResultTransformer)
	if err != nil {
		return 0, errs.Wrap(err, "graphstore: count cards")
	}
	if len(res.Records) == 0 {
		return 0, nil
	}
	n, ok := res.Records[0].Get("n")
	if !ok {
		return 0, nil
	}
	v, _ := n.(int64)
	return int(v), nil
}

// seedQueries 以宣告式 Cypher 建出整個 order-7 射影平面。
// 點與卡的屬性直接由 id 推導,incidence 邊用模 7 的直線方程配對,
// 不在應用端枚舉 457 條邊。
var seedQueries = []string{
	// 57 個 Point 節點。kind/x/y/slope 由 pointId 推導:
	// 0..48 仿射點 (x,y),49..55 斜率無窮遠點,56 垂直無窮遠點。
	`UNWIND range(0, 56) AS pid
	 MERGE (p:Point {pointId: pid})
	 SET p.kind  = CASE WHEN pid < 49 THEN 'affine' ELSE 'infinity' END,
	     p.x     = CASE WHEN pid < 49 THEN pid / 7 ELSE null END,
	     p.y     = CASE WHEN pid < 49 THEN pid % 7 ELSE null END,
	     p.slope = CASE WHEN pid = 56 THEN 'vertical'
	               WHEN pid >= 49 THEN toString(pid - 49)
	               ELSE null END`,

	// 57 個 Card 節點。0..48 仿射線 y=mx+b,49..55 垂直線 x=c,
	// 56 無窮遠線。
	`UNWIND range(0, 56) AS cid
	 MERGE (c:Card {cardId: cid})
	 SET c.kind = CASE WHEN cid < 49 THEN 'affine'
	              WHEN cid < 56 THEN 'vertical'
	              ELSE 'infinity' END,
	     c.m = CASE WHEN cid < 49 THEN cid / 7 ELSE null END,
	     c.b = CASE WHEN cid < 49 THEN cid % 7 ELSE null END,
	     c.x = CASE WHEN cid >= 49 AND cid < 56 THEN cid - 49 ELSE null END`,

	// 仿射線:x=0..6 各配一個仿射點 (x, (m*x+b) mod 7)。
	`MATCH (c:Card {kind: 'affine'})
	 WITH c, c.m AS m, c.b AS b
	 UNWIND range(0, 6) AS x
	 WITH c, x, (m * x + b) % 7 AS y
	 MATCH (p:Point {kind: 'affine', x: x, y: y})
	 MERGE (p)-[:ON]->(c)`,

	// 仿射線:加上自己斜率的無窮遠點。
	`MATCH (c:Card {kind: 'affine'})
	 MATCH (p:Point {kind: 'infinity', slope: toString(c.m)})
	 MERGE (p)-[:ON]->(c)`,

	// 垂直線:該行的 7 個仿射點。
	`MATCH (c:Card {kind: 'vertical'})
	 UNWIND range(0, 6) AS y
	 MATCH (p:Point {kind: 'affine', x: c.x, y: y})
	 MERGE (p)-[:ON]->(c)`,

	// 垂直線:加上垂直無窮遠點。
	`MATCH (c:Card {kind: 'vertical'})
	 MATCH (p:Point {kind: 'infinity', slope: 'vertical'})
	 MERGE (p)-[:ON]->(c)`,

	// 無窮遠線:收齊全部 8 個無窮遠點。
	`MATCH (c:Card {kind: 'infinity'})
	 MATCH (p:Point {kind: 'infinity'})
	 MERGE (p)-[:ON]->(c)`,
}

// PointsOnLine 回傳卡片上的符號點,依 pointId 升冪。
// 超出範圍的卡片查不到節點,回傳空集合而非錯誤。
func (s *Store) PointsOnLine(ctx context.Context, l plane.LineID) ([]plane.PointID, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	res, err := neo4j.ExecuteQuery(ctx, s.driver,
		`MATCH (p:Point)-[:ON]->(:Card {cardId: $cid})
		 RETURN p.pointId AS pid
		 ORDER BY pid`,
		map[string]any{"cid": int64(l)},
		neo4j.EagerResultTransformer)
	if err != nil {
		return nil, errs.Wrap(err, "graphstore: points on card")
	}
	pts := make([]plane.PointID, 0, plane.PointsPerLine)
	for _, rec := range res.Records {
		v, ok := rec.Get("pid")
		if !ok {
			continue
		}
		pid, ok := v.(int64)
		if !ok {
			return nil, errs.NewWithExtra(errs.Fatal, "graphstore: non-integer pointId", fmt.Sprintf("%v", v))
		}
		pts = append(pts, plane.PointID(pid))
	}
	return pts, nil
}

// SharedPoint 回傳兩張卡唯一共享的符號點。查到多於一個點代表
// 圖資料壞了,這是不變量破壞,必須往上拋而不是降級。
func (s *Store) SharedPoint(ctx context.Context, a, b plane.LineID) (plane.PointID, bool, error) {
	if a == b {
		return 0, false, nil
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	res, err := neo4j.ExecuteQuery(ctx, s.driver,
		`MATCH (:Card {cardId: $a})<-[:ON]-(p:Point)-[:ON]->(:Card {cardId: $b})
		 RETURN p.pointId AS pid`,
		map[string]any{"a": int64(a), "b": int64(b)},
		neo4j.EagerResultTransformer)
	if err != nil {
		return 0, false, errs.Wrap(err, "graphstore: shared point")
	}
	switch len(res.Records) {
	case 0:
		return 0, false, nil
	case 1:
		v, ok := res.Records[0].Get("pid")
		if !ok {
			return 0, false, errs.NewFatal("graphstore: missing pid column")
		}
		pid, ok := v.(int64)
		if !ok {
			return 0, false, errs.NewWithExtra(errs.Fatal, "graphstore: non-integer pointId", fmt.Sprintf("%v", v))
		}
		return plane.PointID(pid), true, nil
	default:
		return 0, false, errs.WrapWithExtra(incidence.ErrInvariant,
			"graphstore: cards share multiple points",
			fmt.Sprintf("cards %d,%d share %d points", a, b, len(res.Records)))
	}
}
