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
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/zintix-labs/spotlab/incidence"
	"github.com/zintix-labs/spotlab/incidence/graphstore"
	"github.com/zintix-labs/spotlab/verify"
)

// Exhaustive incidence verifier: all card pairs, all symbol pairs,
// degree checks, and backend-vs-math equivalence.
func main() {
	useGraph := flag.Bool("graph", false, "verify the Neo4j backend (NEO4J_* env) instead of math only")
	quiet := flag.Bool("quiet", false, "suppress the progress bar")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, closeFn, err := buildStore(ctx, *useGraph)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if closeFn != nil {
		defer closeFn()
	}

	rep, err := verify.Run(ctx, store, !*quiet)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rep.Write(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if rep.OK() {
		color.New(color.FgGreen, color.Bold).Println("PASS")
		return
	}
	color.New(color.FgRed, color.Bold).Println("FAIL")
	os.Exit(1)
}

func buildStore(ctx context.Context, useGraph bool) (incidence.Store, func(), error) {
	if !useGraph {
		return incidence.NewMathStore(), nil, nil
	}
	uri := os.Getenv("NEO4J_URI")
	pass := os.Getenv("NEO4J_PASSWORD")
	if uri == "" || pass == "" {
		return nil, nil, fmt.Errorf("verify: -graph requires NEO4J_URI and NEO4J_PASSWORD")
	}
	user := os.Getenv("NEO4J_USER")
	if user == "" {
		user = "neo4j"
	}
	gs, err := graphstore.New(ctx, graphstore.Config{URI: uri, User: user, Password: pass})
	if err != nil {
		return nil, nil, err
	}
	if err := gs.Seed(ctx); err != nil {
		_ = gs.Close(ctx)
		return nil, nil, err
	}
	// 驗證時不包 Failover:圖後端掛了要直接失敗,不准靜默降級。
	return gs, func() { _ = gs.Close(context.Background()) }, nil
}
