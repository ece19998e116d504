package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "old-fashioned", Slugify("Old Fashioned"))
	assert.Equal(t, "mojito", Slugify("  Mojito!  "))
	assert.Equal(t, "long-island-iced-tea", Slugify("Long Island_Iced - Tea"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestNormalizeIngredientName(t *testing.T) {
	assert.Equal(t, "lime juice", NormalizeIngredientName("  Fresh Lime   Juice "))
	assert.Equal(t, "vodka", NormalizeIngredientName("Vodka"))
	assert.Equal(t, "mint", NormalizeIngredientName("fresh  mint"))
}

func TestToTitleCase(t *testing.T) {
	assert.Equal(t, "Sex on the Beach", ToTitleCase("sex ON THE beach"))
	assert.Equal(t, "The Last Word", ToTitleCase("the last word"))
	assert.Equal(t, "", ToTitleCase(""))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"IBA", "Classic"}, SplitTags("IBA, Classic,"))
	assert.Nil(t, SplitTags("  "))
}

func TestCustomErrorIs(t *testing.T) {
	wrapped := Wrap(ErrNotFound, assert.AnError)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.NotErrorIs(t, wrapped, ErrConflict)
	assert.True(t, IsValidationError(NewValidationError("bad")))
}

func TestParseJSONBytes(t *testing.T) {
	var v []map[string]string
	assert.NoError(t, ParseJSONBytes([]byte(` [{"a":"b"}] `), &v))
	assert.Equal(t, "b", v[0]["a"])

	assert.Error(t, ParseJSONBytes([]byte(`[] []`), &v))
	assert.Error(t, ParseJSONBytes([]byte(`{`), &v))
}
