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

// Package rng 提供可重現（reproducible）的亂數來源。
//
// Round 抽卡、layout 擺放都走這裡：相同 seed 必須產生相同序列，
// 測試才能鎖定行為。seed 的生命週期由組裝端統一管理——外部未提供時
// 以 crypto/rand 產生 baseSeed，之後一切派生都是決定性的。
package rng

import (
	crand "crypto/rand"
	"encoding/binary"

	"github.com/zintix-labs/spotlab/errs"
)

// PRNG 定義核心亂數取樣能力。
//
// 介面不只要求 Uint64：bounded 生成（IntN/UintN）由 PRNG 自己實作，
// 讓每個實作用最合適的 rejection 策略，避免被迫走「先 uint64 再裁切」
// 的退化路徑。
type PRNG interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// Factory 以指定 seed 建立新的 PRNG。
//
// 合約（很重要）：在同一個實作與同一個版本下，New(seed) 必須是
// 「決定性」的——相同的 seed 必須產生相同的初始內部狀態與輸出序列。
type Factory interface {
	New(int64) PRNG
}

// DefaultFactory 實作預設的 Factory（PCG32）。
type DefaultFactory struct{}

// New 滿足合約。
func (d *DefaultFactory) New(seed int64) PRNG {
	return newPCG32WithSeed(seed)
}

// Default 回傳預設的 Factory。
func Default() Factory {
	return &DefaultFactory{}
}

// NewSeed 以 crypto/rand 產生一個高熵 seed。
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, errs.Wrap(err, "read crypto seed failed")
	}
	return int64(binary.LittleEndian.Uint64(b[:]) &^ (1 << 63)), nil
}

// Sample 從 [0,n) 不放回地抽出 k 個相異整數（partial Fisher-Yates）。
// k > n 或參數非法時回傳 nil。順序即抽出順序，呼叫端靠它指派角色。
func Sample(p PRNG, n, k int) []int {
	if p == nil || n <= 0 || k <= 0 || k > n {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	out := make([]int, 0, k)
	for i := 0; i < k; i++ {
		j := i + p.IntN(n-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, idx[i])
	}
	return out
}
