package favorites

import (
	"context"
	"sort"
	"testing"
	"time"

	"mixology-matcher/internal/core/cocktail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	items map[int64]Favorite
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[int64]Favorite)}
}

func (r *memoryRepo) List(ctx context.Context) ([]Favorite, error) {
	out := make([]Favorite, 0, len(r.items))
	for _, f := range r.items {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

func (r *memoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := r.items[id]
	return ok, nil
}

func (r *memoryRepo) Add(ctx context.Context, fav Favorite) error {
	r.items[fav.CocktailID] = fav
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	delete(r.items, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	catalog := cocktail.NewMemoryCatalog(nil, nil, []cocktail.Recipe{
		{ID: 1, Name: "Negroni"},
		{ID: 2, Name: "Daiquiri"},
	})
	repo := newMemoryRepo()
	svc := NewService(repo, catalog)

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, repo
}

func TestAddAndList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, 1))
	require.NoError(t, svc.Add(ctx, 2))
	require.NoError(t, svc.Add(ctx, 1))

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Daiquiri", entries[0].Cocktail.Name, "newest first")
	assert.Equal(t, "Negroni", entries[1].Cocktail.Name)
}

func TestAddUnknownCocktail(t *testing.T) {
	svc, repo := newTestService(t)
	err := svc.Add(context.Background(), 99)
	assert.ErrorIs(t, err, cocktail.ErrRecipeNotFound)
	assert.Empty(t, repo.items)
}

func TestToggle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	on, err := svc.Toggle(ctx, 1)
	require.NoError(t, err)
	assert.True(t, on)
	fav, err := svc.IsFavorite(ctx, 1)
	require.NoError(t, err)
	assert.True(t, fav)

	on, err = svc.Toggle(ctx, 1)
	require.NoError(t, err)
	assert.False(t, on)
	fav, err = svc.IsFavorite(ctx, 1)
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestListSkipsRemovedCocktails(t *testing.T) {
	svc, repo := newTestService(t)
	repo.items[42] = Favorite{CocktailID: 42, AddedAt: time.Now()}
	require.NoError(t, svc.Add(context.Background(), 1))

	entries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].CocktailID)
}
