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

package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/spotlab"
	"github.com/zintix-labs/spotlab/server/httperr"
)

type healthView struct {
	Status string `json:"status"`
	spotlab.Health
	Deck string `json:"deck"`
}

// Health 回報服務與後端狀態。
//
// GET /v1/health
func (c *RoundHandler) Health(w http.ResponseWriter, q *http.Request) {
	hv := healthView{
		Status: "ok",
		Health: c.lab.Health(),
		Deck:   c.lab.Deck().Name(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(hv); err != nil {
		httperr.Errs(w, err)
		return
	}
}
