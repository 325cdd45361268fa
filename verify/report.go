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

package verify

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// Write 把驗證結果以表格寫到 w。
func (r *Report) Write(w io.Writer) error {
	p := message.NewPrinter(lang)
	verdict := "PASS"
	if !r.OK() {
		verdict = "FAIL"
	}
	rows := map[string]string{
		"Verdict":        verdict,
		"Backend":        r.Backend.String(),
		"Cards Checked":  p.Sprintf("%d", r.LinesChecked),
		"Card Pairs":     p.Sprintf("%d", r.PairsChecked),
		"Symbol Pairs":   p.Sprintf("%d", r.DualsChecked),
		"Degree Errors":  p.Sprintf("%d", r.DegreeErrs),
		"Pair Errors":    p.Sprintf("%d", r.PairErrs),
		"Dual Errors":    p.Sprintf("%d", r.DualErrs),
		"Cross Errors":   p.Sprintf("%d", r.CrossErrs),
		"Used":           p.Sprintf("%.3f seconds", r.Used.Seconds()),
	}
	keys := []string{
		"Verdict", "Backend", "Cards Checked", "Card Pairs", "Symbol Pairs",
		"Degree Errors", "Pair Errors", "Dual Errors", "Cross Errors", "Used",
	}
	if _, err := io.WriteString(w, fmtTable("Incidence Verification", keys, rows)); err != nil {
		return err
	}
	for _, s := range r.Samples {
		if _, err := fmt.Fprintf(w, "  ! %s\n", s); err != nil {
			return err
		}
	}
	return nil
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
