package measure

import (
	"errors"
	"fmt"
	"strings"
)

// 單位名稱
const (
	UnitMilliliter = "ml"
	UnitCentiliter = "cl"
	UnitLiter      = "l"
	UnitOunce      = "oz"
	UnitTeaspoon   = "tsp"
	UnitTablespoon = "tbsp"
	UnitCup        = "cup"
	UnitShot       = "shot"
	UnitPint       = "pint"
	UnitDash       = "dash"
	UnitDrop       = "drop"
	UnitBarSpoon   = "bar spoon"
	UnitSplash     = "splash"
	UnitPinch      = "pinch"
	UnitPiece      = "piece"
	UnitPart       = "part"
	UnitBottle     = "bottle"
	UnitCan        = "can"
	UnitGarnish    = "garnish"
	UnitJuiceOf    = "juice of"
	UnitOther      = "other"
)

// ErrUnknownUnit 非體積單位無法換算
var ErrUnknownUnit = errors.New("unit is not a volume unit")

// mlPerUnit 體積單位對毫升的倍率
var mlPerUnit = map[string]float64{
	UnitMilliliter: 1,
	UnitCentiliter: 10,
	UnitLiter:      1000,
	UnitOunce:      29.5735, // 美制液量盎司
	UnitTeaspoon:   4.92892,
	UnitTablespoon: 14.7868,
	UnitCup:        236.588,
	UnitShot:       44.3603, // 1.5 oz
	UnitPint:       473.176, // 美制品脫
}

// approximateML 非體積單位的近似毫升數，只用於粗略統計
var approximateML = map[string]float64{
	UnitDash:     0.9,
	UnitDrop:     0.05,
	UnitBarSpoon: 5,
	UnitSplash:   15,
	UnitPinch:    0.3,
}

// unitAliases 單位別名
var unitAliases = map[string]string{
	"ml":          UnitMilliliter,
	"milliliter":  UnitMilliliter,
	"milliliters": UnitMilliliter,
	"millilitre":  UnitMilliliter,
	"millilitres": UnitMilliliter,
	"cl":          UnitCentiliter,
	"centiliter":  UnitCentiliter,
	"centiliters": UnitCentiliter,
	"centilitre":  UnitCentiliter,
	"centilitres": UnitCentiliter,
	"l":           UnitLiter,
	"liter":       UnitLiter,
	"liters":      UnitLiter,
	"litre":       UnitLiter,
	"litres":      UnitLiter,
	"oz":          UnitOunce,
	"ounce":       UnitOunce,
	"ounces":      UnitOunce,
	"fl oz":       UnitOunce,
	"fluid ounce": UnitOunce,
	"tsp":         UnitTeaspoon,
	"teaspoon":    UnitTeaspoon,
	"teaspoons":   UnitTeaspoon,
	"tbsp":        UnitTablespoon,
	"tablespoon":  UnitTablespoon,
	"tablespoons": UnitTablespoon,
	"cup":         UnitCup,
	"cups":        UnitCup,
	"shot":        UnitShot,
	"shots":       UnitShot,
	"pint":        UnitPint,
	"pints":       UnitPint,
	"dash":        UnitDash,
	"dashes":      UnitDash,
	"drop":        UnitDrop,
	"drops":       UnitDrop,
	"bar spoon":   UnitBarSpoon,
	"barspoon":    UnitBarSpoon,
	"bar spoons":  UnitBarSpoon,
	"splash":      UnitSplash,
	"splashes":    UnitSplash,
	"pinch":       UnitPinch,
	"pinches":     UnitPinch,
	"piece":       UnitPiece,
	"pieces":      UnitPiece,
	"top up":      "top up",
	"fill up":     "fill up",
}

// NormalizeUnit 將單位字串轉為標準名稱，無法辨識時回傳 "other"
func NormalizeUnit(unit string) string {
	if u, ok := unitAliases[strings.ToLower(strings.TrimSpace(unit))]; ok {
		return u
	}
	return UnitOther
}

// canonical 用於查表的單位鍵，無法辨識時保留小寫原字串
func canonical(unit string) string {
	key := strings.ToLower(strings.TrimSpace(unit))
	if u, ok := unitAliases[key]; ok {
		return u
	}
	return key
}

// IsVolumeUnit 是否為可精確換算的體積單位
func IsVolumeUnit(unit string) bool {
	_, ok := mlPerUnit[canonical(unit)]
	return ok
}

// IsConvertibleUnit 是否可（近似）換算為毫升
func IsConvertibleUnit(unit string) bool {
	u := canonical(unit)
	if _, ok := mlPerUnit[u]; ok {
		return true
	}
	_, ok := approximateML[u]
	return ok
}

// ToMilliliters 換算為毫升；無法追蹤體積的單位回傳 0
func ToMilliliters(value float64, unit string) float64 {
	u := canonical(unit)
	if factor, ok := mlPerUnit[u]; ok {
		return value * factor
	}
	if approx, ok := approximateML[u]; ok {
		return value * approx
	}
	return 0
}

// FromMilliliters 由毫升換算為指定體積單位
func FromMilliliters(ml float64, unit string) (float64, error) {
	factor, ok := mlPerUnit[canonical(unit)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return ml / factor, nil
}

// Convert 單位換算（先轉毫升再轉目標單位）
func Convert(value float64, fromUnit, toUnit string) (float64, error) {
	return FromMilliliters(ToMilliliters(value, fromUnit), toUnit)
}

// Simplified 簡化後的數值與單位
type Simplified struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// promotionRule 單位進位規則
type promotionRule struct {
	from      string
	to        string
	threshold float64
	divisor   float64
	dryOnly   bool
	wetOnly   bool
}

// promotionRules 依序檢查，第一條成立者生效
var promotionRules = []promotionRule{
	{from: UnitMilliliter, to: "L", threshold: 1000, divisor: 1000},
	{from: UnitCentiliter, to: "L", threshold: 100, divisor: 100},
	{from: UnitTeaspoon, to: UnitTablespoon, threshold: 3, divisor: 3},
	{from: UnitTablespoon, to: UnitCup, threshold: 16, divisor: 16, dryOnly: true},
	{from: UnitTablespoon, to: UnitOunce, threshold: 2, divisor: 2, wetOnly: true},
	{from: UnitOunce, to: UnitPint, threshold: 16, divisor: 16, wetOnly: true},
}

// applies 規則是否適用
func (r promotionRule) applies(value float64, unit string, isDry bool) bool {
	if r.dryOnly && !isDry {
		return false
	}
	if r.wetOnly && isDry {
		return false
	}
	return canonical(unit) == r.from && value >= r.threshold
}

// Simplify 將數值逐級進位到合適的較大單位，例如 12 tsp -> 4 tbsp -> 2 oz
func Simplify(value float64, unit string, isDry bool) Simplified {
	current := Simplified{Value: value, Unit: unit}

	// 每條規則都換到不同單位且門檻隨單位變大，迴圈最多走完規則表一輪
	for step := 0; step <= len(promotionRules); step++ {
		promoted := false
		for _, rule := range promotionRules {
			if rule.applies(current.Value, current.Unit, isDry) {
				current = Simplified{Value: current.Value / rule.divisor, Unit: rule.to}
				promoted = true
				break
			}
		}
		if !promoted {
			break
		}
	}

	switch strings.ToLower(current.Unit) {
	case "ounce":
		current.Unit = UnitOunce
	case "teaspoon":
		current.Unit = UnitTeaspoon
	case "tablespoon":
		current.Unit = UnitTablespoon
	}
	return current
}
