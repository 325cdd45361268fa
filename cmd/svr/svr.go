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

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zintix-labs/spotlab"
	"github.com/zintix-labs/spotlab/incidence"
	"github.com/zintix-labs/spotlab/incidence/graphstore"
	"github.com/zintix-labs/spotlab/server"
	"github.com/zintix-labs/spotlab/server/logger"
	"github.com/zintix-labs/spotlab/server/netsvr"
	"github.com/zintix-labs/spotlab/server/svrcfg"
)

// Game server entrypoint. Neo4j credentials come from the environment
// (NEO4J_URI / NEO4J_USER / NEO4J_PASSWORD); without them the engine
// runs on the computational backend alone.
func main() {
	cfg := loadFlags()

	log, _ := logger.NewAsync(4096, cfg.norm())

	store, closeFn := buildStore(log)
	if closeFn != nil {
		defer closeFn()
	}

	lab, err := spotlab.New(spotlab.Config{Store: store, Log: log})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sCfg := &svrcfg.SvrCfg{
		Log: log,
		Lab: lab,
	}
	server.RunWithSvr(sCfg, netsvr.NewChiServer(cfg.Addr))
}

type config struct {
	Addr    string
	LogMode string
}

func loadFlags() *config {
	cfg := new(config)
	flag.StringVar(&cfg.Addr, "addr", ":5757", "listen address")
	flag.StringVar(&cfg.LogMode, "log-mode", "ModeDev", "log mode: ModeDev|ModeProd|ModeSilence")
	flag.Parse()
	return cfg
}

func (cfg *config) norm() logger.LogMode {
	switch cfg.LogMode {
	case "ModeDev":
		return logger.ModeDev
	case "ModeProd":
		return logger.ModeProd
	case "ModeSilence":
		return logger.ModeSilence
	default:
		return logger.ModeDev
	}
}

// buildStore 依環境決定 incidence 後端:NEO4J_* 齊了就連圖庫並
// 種子化,包上 Failover;沒有就直接用純數學後端。
// 連不上或種子化失敗不擋啟動,降級服務。
func buildStore(log *slog.Logger) (incidence.Store, func()) {
	uri := os.Getenv("NEO4J_URI")
	pass := os.Getenv("NEO4J_PASSWORD")
	if uri == "" || pass == "" {
		log.Info("incidence.backend", "backend", "math", "reason", "NEO4J_URI/NEO4J_PASSWORD not set")
		return incidence.NewMathStore(), nil
	}
	user := os.Getenv("NEO4J_USER")
	if user == "" {
		user = "neo4j"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	gs, err := graphstore.New(ctx, graphstore.Config{URI: uri, User: user, Password: pass})
	if err != nil {
		log.Warn("incidence.backend", "backend", "math", "reason", err.Error())
		return incidence.NewMathStore(), nil
	}
	if err := gs.Seed(ctx); err != nil {
		log.Warn("incidence.backend", "backend", "math", "reason", err.Error())
		_ = gs.Close(context.Background())
		return incidence.NewMathStore(), nil
	}
	log.Info("incidence.backend", "backend", "graph", "uri", uri)
	return incidence.NewFailover(gs, log), func() { _ = gs.Close(context.Background()) }
}
