package importer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mixology-matcher/internal/core/cache"
	"mixology-matcher/internal/core/cocktail"
	"mixology-matcher/internal/infrastructure/config"
	"mixology-matcher/internal/infrastructure/metrics"
	"mixology-matcher/internal/infrastructure/store"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cocktailsJSON = `[
  {
    "idDrink": "11007",
    "strDrink": "Margarita",
    "strCategory": "Ordinary Drink",
    "strAlcoholic": "Alcoholic",
    "strGlass": "Cocktail glass",
    "strInstructions": "Shake with ice.",
    "strTags": "IBA, ContemporaryClassic",
    "strIBA": "Contemporary Classics",
    "strDrinkThumb": "https://example.test/margarita.jpg",
    "strIngredient1": "Tequila",
    "strMeasure1": "1 1/2 oz ",
    "strIngredient2": "Triple sec",
    "strMeasure2": "1/2 oz ",
    "strIngredient3": "Fresh Lime juice",
    "strMeasure3": "1 oz ",
    "strIngredient4": "Salt",
    "strMeasure4": "Garnish with",
    "strIngredient5": null,
    "strMeasure5": null
  },
  {
    "idDrink": "17222",
    "strDrink": "A1",
    "strCategory": "Cocktail",
    "strAlcoholic": "Alcoholic",
    "strGlass": "Cocktail glass",
    "strInstructions": "Pour all ingredients into a shaker.",
    "strTags": null,
    "strIBA": null,
    "strDrinkThumb": null,
    "strIngredient1": "Gin",
    "strMeasure1": "1 3/4 shot ",
    "strIngredient2": "Grand Marnier",
    "strMeasure2": "1 Shot ",
    "strIngredient3": "Grenadine",
    "strMeasure3": "1-2 dash"
  },
  {
    "idDrink": "99999",
    "strDrink": "No Category",
    "strCategory": "",
    "strIngredient1": "Gin",
    "strMeasure1": "1 oz"
  }
]`

const ingredientsJSON = `[
  {"idIngredient": "1", "strIngredient": "Tequila", "strDescription": "Agave spirit.", "strType": "Tequila", "strAlcohol": "Yes", "strABV": "40"},
  {"idIngredient": "2", "strIngredient": "Triple Sec", "strDescription": null, "strType": "Liqueur", "strAlcohol": "Yes", "strABV": null},
  {"idIngredient": "3", "strIngredient": "Lime Juice", "strDescription": null, "strType": "Juice", "strAlcohol": "No", "strABV": null},
  {"idIngredient": "4", "strIngredient": "Salt", "strDescription": null, "strType": null, "strAlcohol": "No", "strABV": null},
  {"idIngredient": "5", "strIngredient": "Gin", "strDescription": null, "strType": "Gin", "strAlcohol": "Yes", "strABV": "37.5"},
  {"idIngredient": "6", "strIngredient": "Grenadine", "strDescription": null, "strType": "Syrup", "strAlcohol": "No", "strABV": null}
]`

func parseDataset(t *testing.T) *Dataset {
	t.Helper()
	var ds Dataset
	require.NoError(t, json.Unmarshal([]byte(cocktailsJSON), &ds.Cocktails))
	require.NoError(t, json.Unmarshal([]byte(ingredientsJSON), &ds.Ingredients))
	return &ds
}

func TestRawCocktailSlots(t *testing.T) {
	ds := parseDataset(t)
	require.Len(t, ds.Cocktails, 3)

	m := ds.Cocktails[0]
	assert.Equal(t, "Tequila", m.Ingredients[0])
	assert.Equal(t, "1 1/2 oz ", m.Measures[0])
	assert.Equal(t, "", m.Ingredients[4])
	require.NotNil(t, m.Tags)
	assert.Nil(t, ds.Cocktails[1].Tags)
}

func TestBuildSnapshot(t *testing.T) {
	snap, warnings := BuildSnapshot(parseDataset(t))

	require.Len(t, snap.Categories, 2)
	assert.Equal(t, cocktail.Category{ID: 1, Name: "Ordinary Drink"}, snap.Categories[0])
	assert.Equal(t, cocktail.Category{ID: 2, Name: "Cocktail"}, snap.Categories[1])

	require.Len(t, snap.Recipes, 2, "cocktail without category is skipped")
	margarita := snap.Recipes[0]
	assert.Equal(t, "margarita", margarita.Slug)
	assert.Equal(t, int64(1), margarita.CategoryID)
	assert.Equal(t, []string{"IBA", "ContemporaryClassic"}, margarita.Tags)
	require.Len(t, margarita.Lines, 4)

	lime := margarita.Lines[2]
	assert.Equal(t, int64(3), lime.IngredientID, "\"Fresh Lime juice\" resolves to \"Lime Juice\"")
	assert.Equal(t, 3, lime.SortOrder)

	first := margarita.Lines[0]
	require.NotNil(t, first.Quantity)
	assert.Equal(t, 1.5, *first.Quantity)
	assert.Equal(t, "oz", first.Unit)

	salt := margarita.Lines[3]
	assert.True(t, salt.IsGarnish)
	assert.Equal(t, "garnish", salt.Unit)

	a1 := snap.Recipes[1]
	grenadine := a1.Lines[2]
	require.NotNil(t, grenadine.QuantityMax)
	assert.Equal(t, 1.0, *grenadine.Quantity)
	assert.Equal(t, 2.0, *grenadine.QuantityMax)

	// Grand Marnier 不在明細中，補建並警告
	require.Len(t, warnings, 1)
	assert.Equal(t, FirstDynamicIngredientID, a1.Lines[1].IngredientID)
	dynamic := snap.Ingredients[len(snap.Ingredients)-1]
	assert.Equal(t, "Grand Marnier", dynamic.Name)
	assert.Equal(t, "grand marnier", dynamic.NormalizedName)
	assert.Nil(t, dynamic.IsAlcoholic)

	tequila := snap.Ingredients[0]
	require.NotNil(t, tequila.ABV)
	assert.Equal(t, 40.0, *tequila.ABV)
	assert.True(t, *tequila.IsAlcoholic)
	assert.Nil(t, snap.Ingredients[1].ABV)
}

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cocktails := filepath.Join(dir, "cocktails.json")
	ingredients := filepath.Join(dir, "ingredients.json")
	require.NoError(t, os.WriteFile(cocktails, []byte(cocktailsJSON), 0o644))
	require.NoError(t, os.WriteFile(ingredients, []byte(ingredientsJSON), 0o644))
	return cocktails, ingredients
}

func TestFileSource(t *testing.T) {
	cocktails, ingredients := writeFixtures(t)
	src, err := NewSource(&config.CatalogConfig{CocktailsFile: cocktails, IngredientsFile: ingredients})
	require.NoError(t, err)

	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Cocktails, 3)
	assert.Len(t, ds.Ingredients, 6)

	_, err = NewSource(&config.CatalogConfig{})
	assert.Error(t, err)

	_, err = (&FileSource{CocktailsFile: filepath.Join(t.TempDir(), "missing.json")}).Load(context.Background())
	assert.Error(t, err)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/cocktails.json":
			w.Write([]byte(cocktailsJSON))
		case "/data/ingredients.json":
			w.Write([]byte(ingredientsJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src, err := NewSource(&config.CatalogConfig{SourceURL: srv.URL + "/data/"})
	require.NoError(t, err)
	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Cocktails, 3)
	assert.Len(t, ds.Ingredients, 6)

	_, err = NewHTTPSource(srv.URL+"/nowhere", 0).Load(context.Background())
	assert.Error(t, err)
}

type versionRecorder struct{ version string }

func (v *versionRecorder) SetDataVersion(s string) { v.version = s }

func newTestImporter(t *testing.T, version string) (*Importer, *store.Store, *versionRecorder, *metrics.Collector) {
	t.Helper()
	s, err := store.Open(&config.DatabaseConfig{Driver: "sqlite3", DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	cocktails, ingredients := writeFixtures(t)
	sink := &versionRecorder{}
	collector := metrics.NewCollector()
	src := &FileSource{CocktailsFile: cocktails, IngredientsFile: ingredients}
	return New(s, src, version, sink, collector), s, sink, collector
}

func TestEnsureCatalog(t *testing.T) {
	im, s, sink, collector := newTestImporter(t, "1.0")
	ctx := context.Background()

	res, err := im.EnsureCatalog(ctx, false)
	require.NoError(t, err)
	assert.True(t, res.Imported)
	assert.NotEmpty(t, res.BatchID)
	assert.Equal(t, cocktail.CatalogStats{Categories: 2, Cocktails: 2, Ingredients: 7}, res.Stats)
	assert.Equal(t, 1, res.Warnings)
	assert.Equal(t, "1.0:"+res.BatchID, sink.version)
	firstVersion := sink.version

	lastBatch, ok, err := s.GetMetadata(ctx, cocktail.MetaLastImport)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, res.BatchID, lastBatch)

	// 版本相同且已有資料時不重新匯入
	res, err = im.EnsureCatalog(ctx, false)
	require.NoError(t, err)
	assert.False(t, res.Imported)
	assert.Equal(t, 2, res.Stats.Cocktails)
	assert.Equal(t, firstVersion, sink.version)

	res, err = im.EnsureCatalog(ctx, true)
	require.NoError(t, err)
	assert.True(t, res.Imported)
	assert.Equal(t, "1.0", res.Version)
	assert.NotEqual(t, firstVersion, sink.version)

	expected := `
# HELP mixology_catalog_imports_total Catalog imports by status
# TYPE mixology_catalog_imports_total counter
mixology_catalog_imports_total{status="success"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "mixology_catalog_imports_total"))
}

func TestEnsureCatalogReimportsOnVersionChange(t *testing.T) {
	im, s, sink, _ := newTestImporter(t, "1.0")
	ctx := context.Background()

	_, err := im.EnsureCatalog(ctx, false)
	require.NoError(t, err)

	upgraded := New(s, im.source, "2.0", sink, nil)
	res, err := upgraded.EnsureCatalog(ctx, false)
	require.NoError(t, err)
	assert.True(t, res.Imported)
	assert.Equal(t, CacheVersion("2.0", res.BatchID), sink.version)

	version, _, err := s.GetMetadata(ctx, cocktail.MetaDataVersion)
	require.NoError(t, err)
	assert.Equal(t, "2.0", version)
}

func TestEnsureCatalogSourceFailure(t *testing.T) {
	s, err := store.Open(&config.DatabaseConfig{Driver: "sqlite3", DSN: ":memory:"}, nil)
	require.NoError(t, err)
	defer s.Close()

	im := New(s, &FileSource{CocktailsFile: "/does/not/exist.json"}, "1.0", nil, nil)
	_, err = im.EnsureCatalog(context.Background(), false)
	require.Error(t, err)

	stats, err := s.Counts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Cocktails)
}

func TestImportedCatalogMatches(t *testing.T) {
	im, s, _, _ := newTestImporter(t, "1.0")
	ctx := context.Background()
	_, err := im.EnsureCatalog(ctx, false)
	require.NoError(t, err)

	svc := cocktail.NewService(s, nil, nil)
	matches, err := svc.Match(ctx, []int64{1, 2, 3, 4}, cocktail.DefaultMatchOptions())
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Margarita", matches[0].Recipe.Name)
	assert.Equal(t, 100.0, matches[0].MatchPercentage)
}

type datasetSource struct{ ds *Dataset }

func (s *datasetSource) Load(context.Context) (*Dataset, error) { return s.ds, nil }
func (s *datasetSource) Describe() string { return "dataset" }

func TestForcedReimportRefreshesCachedMatches(t *testing.T) {
	s, err := store.Open(&config.DatabaseConfig{Driver: "sqlite3", DSN: ":memory:"}, nil)
	require.NoError(t, err)
	defer s.Close()

	results := cache.NewManager(&config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute})
	defer results.Close()

	full := parseDataset(t)
	src := &datasetSource{ds: full}
	svc := cocktail.NewService(s, results, nil)
	im := New(s, src, "1.0", svc, nil)
	ctx := context.Background()

	_, err = im.EnsureCatalog(ctx, false)
	require.NoError(t, err)

	selected := []int64{5, 6} // Gin, Grenadine
	matches, err := svc.Match(ctx, selected, cocktail.DefaultMatchOptions())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "A1", matches[0].Recipe.Name)

	// 同版本重新匯入，A1 已不在來源中
	src.ds = &Dataset{Cocktails: full.Cocktails[:1], Ingredients: full.Ingredients}
	res, err := im.EnsureCatalog(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, "1.0", res.Version)

	matches, err = svc.Match(ctx, selected, cocktail.DefaultMatchOptions())
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRestoreVersion(t *testing.T) {
	im, _, sink, _ := newTestImporter(t, "1.0")
	ctx := context.Background()

	// 尚未匯入時不通知
	require.NoError(t, im.RestoreVersion(ctx))
	assert.Empty(t, sink.version)

	res, err := im.EnsureCatalog(ctx, false)
	require.NoError(t, err)

	sink.version = ""
	require.NoError(t, im.RestoreVersion(ctx))
	assert.Equal(t, CacheVersion("1.0", res.BatchID), sink.version)
	assert.Equal(t, "1.0", CacheVersion("1.0", ""))
}
