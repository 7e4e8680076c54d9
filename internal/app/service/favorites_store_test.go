package service

import (
	"context"
	"testing"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoritesStore_ToggleExample(t *testing.T) {
	factory, _, _ := setupStoreTest(t)
	favorites := factory.Favorites(Scope{Session: "s1"})
	ctx := context.Background()

	p := model.ProductSnapshot{ID: "7", Title: "Scarf", Price: "90.00 ر.ق", Image: "7.png"}

	added, err := favorites.Toggle(ctx, p)
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, favorites.IsFavorite(ctx, "7"))

	added, err = favorites.Toggle(ctx, p)
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, favorites.IsFavorite(ctx, "7"))
}

func TestFavoritesStore_TogglePairsRestoreMembership(t *testing.T) {
	factory, _, _ := setupStoreTest(t)
	favorites := factory.Favorites(Scope{Session: "s1"})
	ctx := context.Background()

	_, err := favorites.Add(ctx, snapshot("1", "300.00"))
	require.NoError(t, err)

	for _, id := range []string{"1", "2"} {
		before := favorites.IsFavorite(ctx, id)
		_, err := favorites.Toggle(ctx, snapshot(id, "10"))
		require.NoError(t, err)
		_, err = favorites.Toggle(ctx, snapshot(id, "10"))
		require.NoError(t, err)
		assert.Equal(t, before, favorites.IsFavorite(ctx, id), "id %s", id)
	}
}

func TestFavoritesStore_AddIsNoOpWhenPresent(t *testing.T) {
	factory, _, notifier := setupStoreTest(t)
	favorites := factory.Favorites(Scope{Session: "s1"})
	ctx := context.Background()

	changed, err := favorites.Add(ctx, snapshot("3", "180.00"))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = favorites.Add(ctx, model.ProductSnapshot{ID: "3", Title: "Renamed"})
	require.NoError(t, err)
	assert.False(t, changed)

	items := favorites.List(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "Product 3", items[0].Title)
	assert.Equal(t, "180.00", items[0].Price)
	assert.Equal(t, fixedNow.UnixMilli(), items[0].AddedAt)
	assert.Len(t, notifier.events, 1)
}

func TestFavoritesStore_SlugIdentity(t *testing.T) {
	factory, _, _ := setupStoreTest(t)
	favorites := factory.Favorites(Scope{Session: "s1"})
	ctx := context.Background()

	p := model.ProductSnapshot{Title: "مخور حرير", Price: "300.00 ر.ق"}
	added, err := favorites.Toggle(ctx, p)
	require.NoError(t, err)
	assert.True(t, added)

	items := favorites.List(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "مخور-حرير-300-00-ر-ق", items[0].ID)

	// Same title and price from another card collide on purpose.
	added, err = favorites.Toggle(ctx, model.ProductSnapshot{Title: "مخور حرير", Price: "300.00 ر.ق", Image: "other.png"})
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 0, favorites.Count(ctx))

	_, err = favorites.Add(ctx, model.ProductSnapshot{Price: "10"})
	assert.ErrorIs(t, err, ErrIdentityUnresolved)
}

func TestFavoritesStore_ClearKeepsEmptyList(t *testing.T) {
	factory, backend, notifier := setupStoreTest(t)
	favorites := factory.Favorites(Scope{Session: "s1", Origin: "tab-b"})
	ctx := context.Background()

	_, err := favorites.Add(ctx, snapshot("1", "1"))
	require.NoError(t, err)
	_, err = favorites.Add(ctx, snapshot("2", "2"))
	require.NoError(t, err)
	assert.Equal(t, 2, favorites.Count(ctx))

	require.NoError(t, favorites.Clear(ctx))
	assert.Equal(t, 0, favorites.Count(ctx))

	raw, ok, err := backend.Get(ctx, storage.Key("ghain", "s1", storage.FavoritesKey))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", raw)

	last := notifier.events[len(notifier.events)-1]
	assert.Equal(t, storage.FavoritesKey, last.Key)
	assert.Equal(t, 0, last.Count)
	assert.Equal(t, "tab-b", last.Origin)
}

func TestFavoritesStore_RemoveKeepsOthers(t *testing.T) {
	factory, _, _ := setupStoreTest(t)
	favorites := factory.Favorites(Scope{Session: "s1"})
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		_, err := favorites.Add(ctx, snapshot(id, "10"))
		require.NoError(t, err)
	}
	require.NoError(t, favorites.Remove(ctx, "2"))

	items := favorites.List(ctx)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "3", items[1].ID)
}
