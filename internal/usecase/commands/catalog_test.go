//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"selfcare-backend/internal/infra/shop"
	"selfcare-backend/internal/pkg/clock"
	"selfcare-backend/internal/pkg/errs"
	"selfcare-backend/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShop struct {
	products []shop.Product
	err      error
}

func (s *fakeShop) ListAllProducts(ctx context.Context) ([]shop.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func newCatalogFixture(shopClient *fakeShop) (*memStore, commands.CatalogCommands) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return store, commands.NewCatalogCommands(&fakeUoW{store: store}, shopClient, clk)
}

func TestSyncCatalog_MirrorsAndDeactivates(t *testing.T) {
	store, cmd := newCatalogFixture(&fakeShop{products: []shop.Product{
		{ID: "p-1", Name: "Fibra 300", SKU: "FIB300", Price: 129.99, Currency: "ARS", Active: true},
		{ID: "p-2", Name: "Fibra 600", SKU: "FIB600", Price: 189.50, Currency: "ARS", Active: true},
	}})

	result, err := cmd.SyncCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, int64(0), result.Deactivated)

	row := store.products["p-1"]
	assert.Equal(t, int64(12_999), row.priceCents)
	assert.True(t, row.active)
}

func TestSyncCatalog_DeactivatesMissing(t *testing.T) {
	shopClient := &fakeShop{products: []shop.Product{
		{ID: "p-1", Name: "Fibra 300", SKU: "FIB300", Price: 129.99, Currency: "ARS", Active: true},
		{ID: "p-2", Name: "Fibra 600", SKU: "FIB600", Price: 189.50, Currency: "ARS", Active: true},
	}}
	store, cmd := newCatalogFixture(shopClient)

	_, err := cmd.SyncCatalog(context.Background())
	require.NoError(t, err)

	shopClient.products = shopClient.products[:1]
	result, err := cmd.SyncCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, int64(1), result.Deactivated)

	assert.True(t, store.products["p-1"].active)
	assert.False(t, store.products["p-2"].active)
}

func TestSyncCatalog_SkipsRowsWithoutID(t *testing.T) {
	store, cmd := newCatalogFixture(&fakeShop{products: []shop.Product{
		{ID: "", Name: "ghost"},
		{ID: "p-1", Name: "Fibra 300", Price: 129.99, Active: true},
	}})

	result, err := cmd.SyncCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Len(t, store.products, 1)
}

func TestSyncCatalog_ShopDown(t *testing.T) {
	store, cmd := newCatalogFixture(&fakeShop{err: &shop.ClientError{StatusCode: 502, Body: "bad gateway"}})

	_, err := cmd.SyncCatalog(context.Background())
	require.True(t, errs.Is(err, commands.ErrUpstreamUnavailable))
	assert.Empty(t, store.products)
}
