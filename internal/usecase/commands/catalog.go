package commands

import (
	"context"
	"math"

	"selfcare-backend/internal/domain/catalog"
	"selfcare-backend/internal/infra/shop"
	"selfcare-backend/internal/pkg/clock"
	"selfcare-backend/internal/pkg/errs"
	"selfcare-backend/internal/usecase/shared"

	"github.com/cockroachdb/errors"
)

type SyncCatalogResult struct {
	Synced      int
	Deactivated int64
}

type ShopProductLister interface {
	ListAllProducts(ctx context.Context) ([]shop.Product, error)
}

type CatalogCommands interface {
	SyncCatalog(ctx context.Context) (*SyncCatalogResult, error)
}

type catalogCommandsImpl struct {
	uow  shared.UnitOfWork
	shop ShopProductLister
	clk  clock.Clock
}

func NewCatalogCommands(uow shared.UnitOfWork, shopClient ShopProductLister, clk clock.Clock) CatalogCommands {
	return &catalogCommandsImpl{uow: uow, shop: shopClient, clk: clk}
}

// SyncCatalog refreshes the local mirror from the shop. Products missing from
// the shop listing are deactivated, never deleted, so orders keep their
// references.
func (c *catalogCommandsImpl) SyncCatalog(ctx context.Context) (*SyncCatalogResult, error) {
	products, err := c.shop.ListAllProducts(ctx)
	if err != nil {
		var shopErr *shop.ClientError
		if errors.As(err, &shopErr) {
			return nil, errs.Mark(err, ErrUpstreamUnavailable)
		}
		return nil, errs.Wrap(err, "failed to list shop products")
	}

	now := c.clk.Now()
	result := &SyncCatalogResult{}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		presentIDs := make([]string, 0, len(products))
		for _, p := range products {
			entity, err := catalog.NewProduct(p.ID, p.Name, p.SKU, toCents(p.Price), p.Currency, p.Active, now)
			if err != nil {
				// A row without a shop id cannot be mirrored; skip it.
				continue
			}
			if err := tx.Products().Upsert(ctx, tx.DB(), entity); err != nil {
				return err
			}
			presentIDs = append(presentIDs, p.ID)
		}

		deactivated, err := tx.Products().DeactivateMissing(ctx, tx.DB(), presentIDs)
		if err != nil {
			return err
		}
		result.Synced = len(presentIDs)
		result.Deactivated = deactivated
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return result, nil
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}
