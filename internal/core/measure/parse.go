package measure

import (
	"regexp"
	"strconv"
	"strings"
)

// Measurement 解析後的份量
type Measurement struct {
	Quantity    *float64 `json:"quantity"`
	QuantityMax *float64 `json:"quantity_max"`
	Unit        string   `json:"unit"`
}

var (
	mixedNumberPattern = regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)`)
	fractionPattern    = regexp.MustCompile(`^(\d+)/(\d+)`)
	decimalPattern     = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// unitKeywords 依序做子字串比對，第一個命中者為單位
var unitKeywords = []struct {
	keywords []string
	unit     string
}{
	{[]string{"ml"}, UnitMilliliter},
	{[]string{"cl"}, UnitCentiliter},
	{[]string{"oz"}, UnitOunce},
	{[]string{"tsp", "teaspoon"}, UnitTeaspoon},
	{[]string{"tbsp", "tablespoon"}, UnitTablespoon},
	{[]string{"dash"}, UnitDash},
	{[]string{"drop"}, UnitDrop},
	{[]string{"cup"}, UnitCup},
	{[]string{"splash"}, UnitSplash},
	{[]string{"pinch"}, UnitPinch},
	{[]string{"pint"}, UnitPint},
	{[]string{"shot"}, UnitShot},
	{[]string{"part"}, UnitPart},
	{[]string{"bottle"}, UnitBottle},
	{[]string{"can"}, UnitCan},
	{[]string{"slice", "wedge", "peel"}, UnitPiece},
}

// IsGarnish 份量文字是否代表裝飾用途
func IsGarnish(text string) bool {
	return strings.Contains(strings.ToLower(text), "garnish")
}

// ParseUnit 從份量文字擷取單位
func ParseUnit(text string) string {
	if text == "" {
		return UnitPiece
	}
	if IsGarnish(text) {
		return UnitGarnish
	}

	lower := strings.ToLower(text)
	for _, entry := range unitKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.unit
			}
		}
	}
	return UnitPiece
}

// ParseMeasure 解析份量文字，例如 "1 1/2 oz"、"2-3 dashes"、"Juice of 1"
func ParseMeasure(text string) Measurement {
	result := Measurement{Unit: UnitPiece}
	if strings.TrimSpace(text) == "" {
		return result
	}

	clean := strings.TrimSpace(text)
	lower := strings.ToLower(clean)

	if strings.HasPrefix(lower, UnitJuiceOf) {
		result.Unit = UnitJuiceOf
		clean = strings.TrimSpace(strings.Replace(lower, UnitJuiceOf, "", 1))
	} else {
		result.Unit = ParseUnit(text)
	}

	// 範圍 "X-Y"，兩邊都能解析才成立
	if strings.Contains(clean, "-") {
		parts := strings.Split(clean, "-")
		if len(parts) == 2 {
			lo, okLo := parseNumericValue(parts[0])
			hi, okHi := parseNumericValue(parts[1])
			if okLo && okHi {
				if hi < lo {
					lo, hi = hi, lo
				}
				result.Quantity = &lo
				result.QuantityMax = &hi
				return result
			}
		}
	}

	if v, ok := parseNumericValue(clean); ok {
		result.Quantity = &v
	}
	return result
}

// parseNumericValue 解析帶分數、分數與小數
func parseNumericValue(s string) (float64, bool) {
	clean := strings.TrimSpace(s)

	if m := mixedNumberPattern.FindStringSubmatch(clean); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		num, _ := strconv.ParseFloat(m[2], 64)
		denom, _ := strconv.ParseFloat(m[3], 64)
		if denom != 0 {
			return whole + num/denom, true
		}
	}

	if m := fractionPattern.FindStringSubmatch(clean); m != nil {
		num, _ := strconv.ParseFloat(m[1], 64)
		denom, _ := strconv.ParseFloat(m[2], 64)
		if denom != 0 {
			return num / denom, true
		}
	}

	prefix := decimalPattern.FindString(clean)
	if prefix == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
