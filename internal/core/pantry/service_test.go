package pantry

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"mixology-matcher/internal/core/cocktail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo 測試用庫存
type memoryRepo struct {
	mu    sync.Mutex
	items map[int64]Item
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[int64]Item)}
}

func (r *memoryRepo) List(ctx context.Context) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Item, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IngredientID < out[j].IngredientID })
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotInPantry
	}
	return &item, nil
}

func (r *memoryRepo) Save(ctx context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *item
	stored.Ingredient = nil
	r.items[item.IngredientID] = stored
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *memoryRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[int64]Item)
	return nil
}

func f(v float64) *float64 { return &v }

func newTestService(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	catalog := cocktail.NewMemoryCatalog(nil,
		[]cocktail.Ingredient{
			{ID: 1, Name: "Vodka", Type: "Vodka"},
			{ID: 2, Name: "Orange Juice", Type: "Juice"},
			{ID: 3, Name: "Lime", Type: "Fruit"},
			{ID: 4, Name: "Gin", Type: "Gin"},
		},
		[]cocktail.Recipe{
			{ID: 10, Name: "Screwdriver", Lines: []cocktail.RecipeLine{
				{IngredientID: 1, SortOrder: 1, Quantity: f(1.5), Unit: "oz"},
				{IngredientID: 2, SortOrder: 2, Quantity: f(3), Unit: "oz"},
			}},
			{ID: 11, Name: "Gimlet", Lines: []cocktail.RecipeLine{
				{IngredientID: 4, SortOrder: 1, Quantity: f(2), Unit: "oz"},
				{IngredientID: 3, SortOrder: 2, Quantity: f(1), Unit: "piece"},
			}},
		},
	)
	repo := newMemoryRepo()
	svc := NewService(repo, catalog, cocktail.NewService(catalog, nil, nil))
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc, repo
}

func TestAddAccumulates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, 1, 500, "ml")
	require.NoError(t, err)
	assert.Equal(t, 500.0, item.QuantityML)
	require.NotNil(t, item.Ingredient)
	assert.Equal(t, "Vodka", item.Ingredient.Name)

	item, err = svc.Add(ctx, 1, 0.25, "l")
	require.NoError(t, err)
	assert.Equal(t, 750.0, item.QuantityML)
}

func TestAddUnknownIngredient(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Add(context.Background(), 99, 1, "oz")
	assert.ErrorIs(t, err, cocktail.ErrIngredientNotFound)
}

func TestAddNegativeQuantity(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Add(context.Background(), 1, -1, "oz")
	require.Error(t, err)
}

func TestSetReplacesAndCountableStoresZero(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, 500, "ml")
	require.NoError(t, err)
	item, err := svc.Set(ctx, 1, 100, "ml")
	require.NoError(t, err)
	assert.Equal(t, 100.0, item.QuantityML)

	item, err = svc.Set(ctx, 3, 4, "piece")
	require.NoError(t, err)
	assert.Equal(t, 0.0, item.QuantityML)
}

func TestUse(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	ok, err := svc.Use(ctx, 1, 10, "ml")
	require.NoError(t, err)
	assert.False(t, ok, "absent item")

	_, err = svc.Set(ctx, 1, 100, "ml")
	require.NoError(t, err)

	ok, err = svc.Use(ctx, 1, 2, "piece")
	require.NoError(t, err)
	assert.True(t, ok, "unmeasurable use only checks presence")

	ok, err = svc.Use(ctx, 1, 40, "ml")
	require.NoError(t, err)
	assert.True(t, ok)
	q, err := svc.Quantity(ctx, 1, "ml")
	require.NoError(t, err)
	assert.InDelta(t, 60.0, q, 1e-9)

	ok, err = svc.Use(ctx, 1, 1, "l")
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = repo.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotInPantry, "item removed once depleted")
}

func TestHasEnough(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	ok, err := svc.HasEnough(ctx, 2, 1, "oz")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Set(ctx, 2, 2, "oz")
	require.NoError(t, err)

	for _, tc := range []struct {
		qty  float64
		unit string
		want bool
	}{
		{1, "oz", true},
		{2, "oz", true},
		{3, "oz", false},
		{5, "piece", true},
	} {
		ok, err := svc.HasEnough(ctx, 2, tc.qty, tc.unit)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "%v %s", tc.qty, tc.unit)
	}
}

func TestQuantity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	q, err := svc.Quantity(ctx, 1, "oz")
	require.NoError(t, err)
	assert.Equal(t, 0.0, q)

	_, err = svc.Set(ctx, 1, 2, "oz")
	require.NoError(t, err)
	q, err = svc.Quantity(ctx, 1, "oz")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, q, 1e-9)

	_, err = svc.Quantity(ctx, 1, "piece")
	assert.Error(t, err)
}

func TestListDropsUnknownIngredients(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &Item{IngredientID: 1, QuantityML: 10}))
	require.NoError(t, repo.Save(ctx, &Item{IngredientID: 77, QuantityML: 10}))

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].IngredientID)
	assert.Equal(t, "Vodka", items[0].Ingredient.Name)
}

func TestRemoveAndClear(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, 1, 1, "oz")
	require.NoError(t, err)
	_, err = svc.Add(ctx, 2, 1, "oz")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, 1))
	ids, err := svc.IngredientIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)

	require.NoError(t, svc.Clear(ctx))
	ids, err = svc.IngredientIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMatchesUsesPantry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	matches, err := svc.Matches(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, err = svc.Add(ctx, 1, 700, "ml")
	require.NoError(t, err)
	_, err = svc.Add(ctx, 2, 1, "l")
	require.NoError(t, err)

	matches, err = svc.Matches(ctx, 100)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Screwdriver", matches[0].Recipe.Name)
}

func TestFormatPantryQuantity(t *testing.T) {
	assert.Equal(t, "750ml", FormatPantryQuantity(750))
	assert.Equal(t, "45ml", FormatPantryQuantity(44.6))
	assert.Equal(t, "1.0L", FormatPantryQuantity(1000))
	assert.Equal(t, "1.5L", FormatPantryQuantity(1500))
	assert.Equal(t, "0ml", FormatPantryQuantity(0))
}

func TestFormatOz(t *testing.T) {
	assert.Equal(t, "1.0oz", FormatOz(29.5735))
	assert.Equal(t, "2.0oz", FormatOz(59.147))
}
