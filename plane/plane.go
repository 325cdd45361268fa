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

// Package plane 實作 order-7 射影平面（projective plane）的 incidence 生成。
//
// 這是整個引擎唯一的數學地基（Single Source of Truth / SSOT）：
// 57 個 Point（符號）、57 條 Line（卡片），每條 Line 通過 8 個 Point、
// 每個 Point 落在 8 條 Line 上，且任兩條相異的 Line 恰好共享一個 Point
// （對偶地，任兩個相異的 Point 恰好共同落在一條 Line 上）。
//
// 編號規則（合約的一部分，graph backend 的 seeding 也依此為準）：
//
//	Line  0..48：affine 線 y = m*x + b (mod 7)，id = m*7 + b。
//	Line 49..55：vertical 線 x = c，c = id - 49。
//	Line 56    ：line at infinity。
//	Point 0..48：affine 點 (x, y)，id = x*7 + y。
//	Point 49..55：斜率無窮遠點（slope = id - 49）。
//	Point 56   ：vertical 無窮遠點。
//
// 本包全部是純函數：無狀態、無 I/O、結果可重現。對於超出 [0,56] 的 id，
// 查詢回傳空集合 / false，永不 panic。
package plane

// Order 為平面的階數；所有模運算都以此為模。
const Order = 7

// Size 為 Point 與 Line 的總數：Order^2 + Order + 1。
const Size = Order*Order + Order + 1

// PointsPerLine 每條 Line 通過的 Point 數：Order + 1。
const PointsPerLine = Order + 1

// LinesPerPoint 每個 Point 落在的 Line 數：Order + 1。
const LinesPerPoint = Order + 1

// Pairs 為無序 Line 對（或 Point 對）的總數：C(57,2) = 1596。
const Pairs = Size * (Size - 1) / 2

// PointID 是符號（Point）的編號，合法範圍 [0,56]。
type PointID int

// LineID 是卡片（Line）的編號，合法範圍 [0,56]。
type LineID int

// LineKind 區分三種 Line 結構。
type LineKind uint8

const (
	LineUnknown LineKind = iota
	LineAffine           // y = m*x + b，id 0..48
	LineVertical         // x = c，id 49..55
	LineInfinity         // line at infinity，id 56
)

func (k LineKind) String() string {
	switch k {
	case LineAffine:
		return "affine"
	case LineVertical:
		return "vertical"
	case LineInfinity:
		return "infinity"
	default:
		return "unknown"
	}
}

// PointKind 區分三種 Point 結構。
type PointKind uint8

const (
	PointUnknown          PointKind = iota
	PointAffine                     // (x, y)，id 0..48
	PointSlopeInfinity              // 斜率無窮遠點，id 49..55
	PointVerticalInfinity           // vertical 無窮遠點，id 56
)

func (k PointKind) String() string {
	switch k {
	case PointAffine:
		return "affine"
	case PointSlopeInfinity, PointVerticalInfinity:
		return "infinity"
	default:
		return "unknown"
	}
}

// ValidLine 回報 id 是否在 [0,56]。
func ValidLine(l LineID) bool { return l >= 0 && l < Size }

// ValidPoint 回報 id 是否在 [0,56]。
func ValidPoint(p PointID) bool { return p >= 0 && p < Size }

// KindOfLine 回傳 Line 的結構類型；超界回傳 LineUnknown。
func KindOfLine(l LineID) LineKind {
	switch {
	case l >= 0 && l < Order*Order:
		return LineAffine
	case l >= Order*Order && l < Size-1:
		return LineVertical
	case l == Size-1:
		return LineInfinity
	default:
		return LineUnknown
	}
}

// KindOfPoint 回傳 Point 的結構類型；超界回傳 PointUnknown。
func KindOfPoint(p PointID) PointKind {
	switch {
	case p >= 0 && p < Order*Order:
		return PointAffine
	case p >= Order*Order && p < Size-1:
		return PointSlopeInfinity
	case p == Size-1:
		return PointVerticalInfinity
	default:
		return PointUnknown
	}
}

// Slope 回傳 affine 線的斜率 m；非 affine 線回傳 false。
func Slope(l LineID) (int, bool) {
	if KindOfLine(l) != LineAffine {
		return 0, false
	}
	return int(l) / Order, true
}

// Intercept 回傳 affine 線的截距 b；非 affine 線回傳 false。
func Intercept(l LineID) (int, bool) {
	if KindOfLine(l) != LineAffine {
		return 0, false
	}
	return int(l) % Order, true
}

// Column 回傳 vertical 線的行號 c；非 vertical 線回傳 false。
func Column(l LineID) (int, bool) {
	if KindOfLine(l) != LineVertical {
		return 0, false
	}
	return int(l) - Order*Order, true
}

// PointsOnLine 回傳 Line 通過的 8 個 Point，升冪排序。
// 超界的 id 回傳 nil。
func PointsOnLine(l LineID) []PointID {
	switch KindOfLine(l) {
	case LineAffine:
		m := int(l) / Order
		b := int(l) % Order
		pts := make([]PointID, 0, PointsPerLine)
		for x := 0; x < Order; x++ {
			y := (m*x + b) % Order
			pts = append(pts, PointID(x*Order+y))
		}
		// 斜率無窮遠點排在所有 affine 點之後（id 必然較大），維持升冪。
		pts = append(pts, PointID(Order*Order+m))
		return pts
	case LineVertical:
		c := int(l) - Order*Order
		pts := make([]PointID, 0, PointsPerLine)
		for y := 0; y < Order; y++ {
			pts = append(pts, PointID(c*Order+y))
		}
		pts = append(pts, PointID(Size-1))
		return pts
	case LineInfinity:
		pts := make([]PointID, 0, PointsPerLine)
		for p := Order * Order; p < Size; p++ {
			pts = append(pts, PointID(p))
		}
		return pts
	default:
		return nil
	}
}

// LinesOnPoint 回傳通過該 Point 的 8 條 Line，升冪排序。
// 超界的 id 回傳 nil。
func LinesOnPoint(p PointID) []LineID {
	switch KindOfPoint(p) {
	case PointAffine:
		x := int(p) / Order
		y := int(p) % Order
		lines := make([]LineID, 0, LinesPerPoint)
		// 每個斜率 m 恰有一條通過 (x,y) 的 affine 線：b = y - m*x (mod 7)。
		for m := 0; m < Order; m++ {
			b := ((y-m*x)%Order + Order) % Order
			lines = append(lines, LineID(m*Order+b))
		}
		lines = append(lines, LineID(Order*Order+x))
		sortLines(lines)
		return lines
	case PointSlopeInfinity:
		m := int(p) - Order*Order
		lines := make([]LineID, 0, LinesPerPoint)
		// 所有斜率為 m 的 affine 線互相平行，只交會於這個無窮遠點。
		for b := 0; b < Order; b++ {
			lines = append(lines, LineID(m*Order+b))
		}
		lines = append(lines, LineID(Size-1))
		return lines
	case PointVerticalInfinity:
		lines := make([]LineID, 0, LinesPerPoint)
		for l := Order * Order; l < Size; l++ {
			lines = append(lines, LineID(l))
		}
		return lines
	default:
		return nil
	}
}

// SharedPoint 回傳兩條相異 Line 的唯一共同 Point。
//
// 以封閉式（closed form）直接解出交點，不做集合交集；這讓 computational
// backend 與 graph backend 形成兩條完全獨立的計算路徑，方便互相驗證。
// a == b 或任一 id 超界時回傳 false（明確的「無交點」，不是錯誤）。
func SharedPoint(a, b LineID) (PointID, bool) {
	if a == b || !ValidLine(a) || !ValidLine(b) {
		return 0, false
	}
	ka, kb := KindOfLine(a), KindOfLine(b)
	// 正規化順序：affine < vertical < infinity，減少 case 數。
	if ka > kb {
		a, b = b, a
		ka, kb = kb, ka
	}

	switch {
	case ka == LineAffine && kb == LineAffine:
		m1, b1 := int(a)/Order, int(a)%Order
		m2, b2 := int(b)/Order, int(b)%Order
		if m1 == m2 {
			// 平行線：只交會於共同斜率的無窮遠點。
			return PointID(Order*Order + m1), true
		}
		// m1*x + b1 ≡ m2*x + b2 (mod 7) ⇒ x = (b2-b1) * inv(m1-m2)。
		dm := ((m1-m2)%Order + Order) % Order
		db := ((b2-b1)%Order + Order) % Order
		x := db * invMod7[dm] % Order
		y := (m1*x + b1) % Order
		return PointID(x*Order + y), true
	case ka == LineAffine && kb == LineVertical:
		m, bb := int(a)/Order, int(a)%Order
		c := int(b) - Order*Order
		y := (m*c + bb) % Order
		return PointID(c*Order + y), true
	case ka == LineAffine && kb == LineInfinity:
		return PointID(Order*Order + int(a)/Order), true
	case ka == LineVertical && kb == LineVertical:
		return PointID(Size - 1), true
	case ka == LineVertical && kb == LineInfinity:
		return PointID(Size - 1), true
	default:
		return 0, false
	}
}

// SharedLine 回傳兩個相異 Point 共同落在的唯一 Line（對偶不變量）。
// gameplay 不會用到，但驗證器以它檢查構造的對偶正確性。
func SharedLine(p, q PointID) (LineID, bool) {
	if p == q || !ValidPoint(p) || !ValidPoint(q) {
		return 0, false
	}
	kp, kq := KindOfPoint(p), KindOfPoint(q)
	if kp > kq {
		p, q = q, p
		kp, kq = kq, kp
	}

	switch {
	case kp == PointAffine && kq == PointAffine:
		x1, y1 := int(p)/Order, int(p)%Order
		x2, y2 := int(q)/Order, int(q)%Order
		if x1 == x2 {
			return LineID(Order*Order + x1), true
		}
		// 斜率 m = (y2-y1) * inv(x2-x1)，截距 b = y1 - m*x1。
		dx := ((x2-x1)%Order + Order) % Order
		dy := ((y2-y1)%Order + Order) % Order
		m := dy * invMod7[dx] % Order
		b := ((y1-m*x1)%Order + Order) % Order
		return LineID(m*Order + b), true
	case kp == PointAffine && kq == PointSlopeInfinity:
		x, y := int(p)/Order, int(p)%Order
		m := int(q) - Order*Order
		b := ((y-m*x)%Order + Order) % Order
		return LineID(m*Order + b), true
	case kp == PointAffine && kq == PointVerticalInfinity:
		return LineID(Order*Order + int(p)/Order), true
	case kp == PointSlopeInfinity && kq == PointSlopeInfinity:
		return LineID(Size - 1), true
	case kp == PointSlopeInfinity && kq == PointVerticalInfinity:
		return LineID(Size - 1), true
	default:
		return 0, false
	}
}

// invMod7 為 mod 7 乘法反元素表；index 0 不存在反元素，永遠不會被查。
var invMod7 = [Order]int{0, 1, 4, 5, 2, 3, 6}

// sortLines 就地升冪排序；最多 8 個元素，插入排序即可。
func sortLines(ls []LineID) {
	for i := 1; i < len(ls); i++ {
		for j := i; j > 0 && ls[j] < ls[j-1]; j-- {
			ls[j], ls[j-1] = ls[j-1], ls[j]
		}
	}
}
