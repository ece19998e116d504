package measure

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// fractionTolerance 判定為常見分數的容許誤差
const fractionTolerance = 0.05

// commonFractions 常見分數
var commonFractions = []struct {
	value float64
	label string
}{
	{0.25, "1/4"},
	{0.33, "1/3"},
	{0.5, "1/2"},
	{0.66, "2/3"},
	{0.75, "3/4"},
}

// dryIngredients 乾料，使用 cup/tbsp/tsp 而非液量盎司
var dryIngredients = map[string]struct{}{
	"sugar":           {},
	"brown sugar":     {},
	"powdered sugar":  {},
	"salt":            {},
	"celery salt":     {},
	"pepper":          {},
	"nutmeg":          {},
	"cinnamon":        {},
	"cocoa":           {},
	"cocoa powder":    {},
	"flour":           {},
	"baking soda":     {},
	"chocolate chips": {},
}

// countableIngredients 可數食材，只顯示數字不加單位
var countableIngredients = []string{
	"lime",
	"lemon",
	"orange",
	"apple",
	"banana",
	"cherry",
	"olive",
	"egg",
	"egg white",
	"egg yolk",
	"ice cube",
	"sugar cube",
	"mint sprig",
	"cinnamon stick",
	"vanilla bean",
	"strawberry",
	"raspberry",
	"blackberry",
	"blueberry",
	"cucumber slice",
	"lemon wedge",
	"lime wedge",
	"orange slice",
	"twist",
	"peel",
}

// IsDryIngredient 是否為乾料（名稱完全相符，不分大小寫）
func IsDryIngredient(name string) bool {
	if name == "" {
		return false
	}
	_, ok := dryIngredients[strings.ToLower(name)]
	return ok
}

// IsCountableIngredient 是否為可數食材，"fresh lime" 也算 "lime"
func IsCountableIngredient(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, item := range countableIngredients {
		if lower == item || strings.HasSuffix(lower, " "+item) {
			return true
		}
	}
	return false
}

// ToFraction 將數值轉為易讀的分數字串，例如 1.5 -> "1 1/2"
func ToFraction(value float64) string {
	whole := math.Floor(value)
	fraction := value - whole

	if fraction < fractionTolerance {
		return formatInt(math.Round(value))
	}
	if math.Abs(fraction-1) < fractionTolerance {
		return formatInt(whole + 1)
	}

	for _, f := range commonFractions {
		if math.Abs(fraction-f.value) < fractionTolerance {
			if whole > 0 {
				return fmt.Sprintf("%s %s", formatInt(whole), f.label)
			}
			return f.label
		}
	}

	if value < 10 {
		return strconv.FormatFloat(math.Round(value*100)/100, 'f', -1, 64)
	}
	return formatInt(math.Round(value))
}

func formatInt(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}

// FormatQuantity 依比例縮放並組成顯示字串
func FormatQuantity(quantity *float64, unit string, scale float64, quantityMax *float64, ingredientName string) string {
	lowerUnit := strings.ToLower(unit)

	if quantity == nil {
		if lowerUnit == UnitJuiceOf {
			return "Juice of"
		}
		return unit
	}

	// "juice of" 屬抽象單位，只縮放不簡化
	if lowerUnit == UnitJuiceOf {
		return "Juice of " + ToFraction(*quantity*scale)
	}

	lo := *quantity * scale
	var hi *float64
	if quantityMax != nil {
		v := *quantityMax * scale
		hi = &v
	}
	currentUnit := unit

	if lowerUnit == UnitPiece {
		minStr := ToFraction(lo)
		if IsCountableIngredient(ingredientName) {
			if hi != nil {
				return minStr + "-" + ToFraction(*hi)
			}
			return minStr
		}
		if hi != nil {
			return fmt.Sprintf("%s-%s %s", minStr, ToFraction(*hi), UnitPart)
		}
		return fmt.Sprintf("%s %s", minStr, UnitPart)
	}

	// 以平均值決定是否換成較大單位
	avg := lo
	if hi != nil {
		avg = (lo + *hi) / 2
	}
	simplified := Simplify(avg, currentUnit, IsDryIngredient(ingredientName))

	if simplified.Unit != lowerUnit && simplified.Unit != currentUnit {
		if IsVolumeUnit(currentUnit) && IsVolumeUnit(simplified.Unit) {
			if v, err := Convert(lo, currentUnit, simplified.Unit); err == nil {
				lo = v
			}
			if hi != nil {
				if v, err := Convert(*hi, currentUnit, simplified.Unit); err == nil {
					hi = &v
				}
			}
			currentUnit = simplified.Unit
		} else if hi == nil {
			lo = simplified.Value
			currentUnit = simplified.Unit
		}
	}

	if hi != nil {
		return fmt.Sprintf("%s-%s %s", ToFraction(lo), ToFraction(*hi), currentUnit)
	}
	return fmt.Sprintf("%s %s", ToFraction(lo), currentUnit)
}
