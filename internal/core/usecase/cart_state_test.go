package usecase

import (
	"context"
	"storefront-service/internal/constants"
	"storefront-service/internal/core/domain"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartState_UpdateCartPersistsBeforePublishing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cart, err := f.state.UpdateCart(ctx, f.sessionID, func(c domain.Cart) domain.Cart {
		return c.WithQuantity(5, 2)
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Cart{5: 2}, cart)

	raw, found, err := f.store.Get(ctx, f.sessionID, constants.StorageKeyCart)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"5":2}`, raw)

	event, ok := f.bus.last()
	require.True(t, ok)
	assert.Equal(t, domain.EventCartUpdated, event.Type)
	assert.Equal(t, f.sessionID, event.SessionID)
	assert.Equal(t, domain.Cart{5: 2}, event.Cart)
}

func TestCartState_CorruptedStorageFallsBackToDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Set(ctx, f.sessionID, constants.StorageKeyCart, "{not json"))
	require.NoError(t, f.store.Set(ctx, f.sessionID, constants.StorageKeyProducts, "[[["))

	snapshot, err := f.state.Load(ctx, f.sessionID)
	require.NoError(t, err)
	assert.True(t, snapshot.Cart.IsEmpty())
	assert.Equal(t, 0, snapshot.Catalog.Len())
}

func TestCartState_MergeCatalogPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	catalog, added, err := f.state.MergeCatalogPage(ctx, f.sessionID, []domain.Product{product(1, 10), product(2, 20)})
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, catalog.Len())
	require.Len(t, f.bus.published(), 1)

	// Повтор той же страницы ничего не добавляет и не публикует
	_, added, err = f.state.MergeCatalogPage(ctx, f.sessionID, []domain.Product{product(2, 99)})
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Len(t, f.bus.published(), 1)

	snapshot, err := f.state.Load(ctx, f.sessionID)
	require.NoError(t, err)
	p, ok := snapshot.Catalog.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, "20", p.Price.String())
}

func TestCartState_ConcurrentUpdatesAreSerialized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := f.state.UpdateCart(ctx, f.sessionID, func(c domain.Cart) domain.Cart {
				return c.WithQuantity(1, c.Quantity(1)+1)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snapshot, err := f.state.Load(ctx, f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, workers, snapshot.Cart.Quantity(1))
	assert.Len(t, f.bus.published(), workers)
}

func TestCartState_Clear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.state.UpdateCart(ctx, f.sessionID, func(c domain.Cart) domain.Cart { return c.WithQuantity(3, 1) })
	require.NoError(t, err)
	require.NoError(t, f.state.SetPhone(ctx, f.sessionID, "+7 900"))

	require.NoError(t, f.state.Clear(ctx, f.sessionID))

	_, found, _ := f.store.Get(ctx, f.sessionID, constants.StorageKeyCart)
	assert.False(t, found)
	_, found, _ = f.store.Get(ctx, f.sessionID, constants.StorageKeyPhone)
	assert.False(t, found)

	event, ok := f.bus.last()
	require.True(t, ok)
	assert.True(t, event.Cart.IsEmpty())
}
