package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestParseMeasure(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		qty    *float64
		qtyMax *float64
		unit   string
	}{
		{"mixed number", "1 1/2 oz", ptr(1.5), nil, UnitOunce},
		{"range", "2-3 dashes", ptr(2), ptr(3), UnitDash},
		{"reversed range", "3-2 dashes", ptr(2), ptr(3), UnitDash},
		{"juice of", "Juice of 1", ptr(1), nil, UnitJuiceOf},
		{"fraction", "1/2 cup", ptr(0.5), nil, UnitCup},
		{"decimal", "4.5 cl", ptr(4.5), nil, UnitCentiliter},
		{"teaspoon word", "2 teaspoons", ptr(2), nil, UnitTeaspoon},
		{"tablespoon word", "1 tablespoon", ptr(1), nil, UnitTablespoon},
		{"slice is piece", "2 slices", ptr(2), nil, UnitPiece},
		{"garnish", "Garnish", nil, nil, UnitGarnish},
		{"empty", "", nil, nil, UnitPiece},
		{"blank", "   ", nil, nil, UnitPiece},
		{"bare number", "3", ptr(3), nil, UnitPiece},
		{"zero denominator", "1/0 oz", ptr(1), nil, UnitOunce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMeasure(tt.input)
			assert.Equal(t, tt.unit, got.Unit)
			if tt.qty == nil {
				assert.Nil(t, got.Quantity)
			} else {
				require.NotNil(t, got.Quantity)
				assert.InDelta(t, *tt.qty, *got.Quantity, 1e-9)
			}
			if tt.qtyMax == nil {
				assert.Nil(t, got.QuantityMax)
			} else {
				require.NotNil(t, got.QuantityMax)
				assert.InDelta(t, *tt.qtyMax, *got.QuantityMax, 1e-9)
			}
		})
	}
}

func TestParseMeasureRangeInvariant(t *testing.T) {
	for _, input := range []string{"1-2 oz", "5-1 tsp", "1/2-1 cup", "2-2 dash"} {
		got := ParseMeasure(input)
		require.NotNil(t, got.Quantity, input)
		require.NotNil(t, got.QuantityMax, input)
		assert.GreaterOrEqual(t, *got.QuantityMax, *got.Quantity, input)
	}
}

func TestParseUnit(t *testing.T) {
	assert.Equal(t, UnitPiece, ParseUnit(""))
	assert.Equal(t, UnitGarnish, ParseUnit("for garnish"))
	assert.Equal(t, UnitMilliliter, ParseUnit("50 ml"))
	assert.Equal(t, UnitSplash, ParseUnit("a splash"))
	assert.Equal(t, UnitPiece, ParseUnit("some"))
}

func TestNormalizeUnit(t *testing.T) {
	assert.Equal(t, UnitOunce, NormalizeUnit("Ounces"))
	assert.Equal(t, UnitLiter, NormalizeUnit("L"))
	assert.Equal(t, UnitBarSpoon, NormalizeUnit("barspoon"))
	assert.Equal(t, UnitOther, NormalizeUnit("handful"))
}

func TestVolumeUnits(t *testing.T) {
	assert.True(t, IsVolumeUnit("oz"))
	assert.True(t, IsVolumeUnit("L"))
	assert.False(t, IsVolumeUnit("dash"))
	assert.True(t, IsConvertibleUnit("dash"))
	assert.False(t, IsConvertibleUnit("piece"))
}

func TestToMilliliters(t *testing.T) {
	assert.InDelta(t, 29.5735, ToMilliliters(1, "oz"), 1e-9)
	assert.InDelta(t, 1.8, ToMilliliters(2, "dash"), 1e-9)
	assert.Equal(t, 0.0, ToMilliliters(2, "piece"))
}

func TestConvertRoundTrip(t *testing.T) {
	units := []string{"ml", "cl", "l", "oz", "tsp", "tbsp", "cup", "shot", "pint"}
	for _, u := range units {
		for _, v := range []float64{0.25, 1, 3.5, 120} {
			back, err := FromMilliliters(ToMilliliters(v, u), u)
			require.NoError(t, err)
			assert.InDelta(t, v, back, 1e-9, "unit %s", u)
		}
	}
}

func TestConvert(t *testing.T) {
	v, err := Convert(2, "tbsp", "oz")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 0.001)

	_, err = Convert(1, "oz", "piece")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		value float64
		unit  string
		isDry bool
		want  Simplified
	}{
		{12, "tsp", false, Simplified{Value: 2, Unit: UnitOunce}},
		{1500, "ml", false, Simplified{Value: 1.5, Unit: "L"}},
		{250, "cl", false, Simplified{Value: 2.5, Unit: "L"}},
		{48, "tbsp", true, Simplified{Value: 3, Unit: UnitCup}},
		{32, "oz", false, Simplified{Value: 2, Unit: UnitPint}},
		{32, "oz", true, Simplified{Value: 32, Unit: "oz"}},
		{1, "oz", false, Simplified{Value: 1, Unit: "oz"}},
		{2, "dash", false, Simplified{Value: 2, Unit: "dash"}},
	}

	for _, tt := range tests {
		got := Simplify(tt.value, tt.unit, tt.isDry)
		assert.Equal(t, tt.want.Unit, got.Unit, "%v %s", tt.value, tt.unit)
		assert.InDelta(t, tt.want.Value, got.Value, 1e-9, "%v %s", tt.value, tt.unit)
	}
}

func TestToFraction(t *testing.T) {
	tests := map[float64]string{
		2:    "2",
		1.5:  "1 1/2",
		0.25: "1/4",
		0.33: "1/3",
		2.7:  "2 2/3",
		0.75: "3/4",
		1.97: "2",
		0.1:  "0.1",
		3.14: "3.14",
		12.4: "12",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToFraction(in), "ToFraction(%v)", in)
	}
}

func TestIngredientKinds(t *testing.T) {
	assert.True(t, IsDryIngredient("Sugar"))
	assert.False(t, IsDryIngredient("sugar syrup"))
	assert.False(t, IsDryIngredient(""))

	assert.True(t, IsCountableIngredient("Lime"))
	assert.True(t, IsCountableIngredient("fresh lime"))
	assert.False(t, IsCountableIngredient("limeade"))
	assert.False(t, IsCountableIngredient(""))
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		name   string
		qty    *float64
		unit   string
		scale  float64
		qtyMax *float64
		ingr   string
		want   string
	}{
		{"scaled ounces", ptr(1.5), "oz", 2, nil, "Vodka", "3 oz"},
		{"juice of", ptr(1), "juice of", 2, nil, "Lime", "Juice of 2"},
		{"juice of without quantity", nil, "juice of", 1, nil, "Lime", "Juice of"},
		{"no quantity", nil, "garnish", 1, nil, "Mint", "garnish"},
		{"countable piece", ptr(2), "piece", 1, nil, "Lime", "2"},
		{"countable range", ptr(2), "piece", 1, ptr(3), "Lime", "2-3"},
		{"piece becomes part", ptr(0.66), "piece", 1, nil, "Vodka", "2/3 part"},
		{"piece range becomes part", ptr(1), "piece", 1, ptr(2), "Vodka", "1-2 part"},
		{"tsp promoted to oz", ptr(6), "tsp", 1, nil, "Lemon juice", "1 oz"},
		{"ml promoted to litre", ptr(500), "ml", 2, nil, "Soda water", "1 L"},
		{"dash range", ptr(2), "dash", 1, ptr(3), "Bitters", "2-3 dash"},
		{"dry tbsp to cup", ptr(8), "tbsp", 2, nil, "Sugar", "1 cup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatQuantity(tt.qty, tt.unit, tt.scale, tt.qtyMax, tt.ingr))
		})
	}
}
