package repository

import (
	"context"

	"selfcare-backend/internal/domain/catalog"
	"selfcare-backend/internal/infra"
	"selfcare-backend/internal/infra/db"
)

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// Upsert mirrors one shop product. The shop id is the stable key; local uuids
// survive re-syncs.
func (r *ProductRepository) Upsert(ctx context.Context, q db.Querier, p *catalog.Product) error {
	const query = `
INSERT INTO products (id, shop_id, name, sku, price_cents, currency, active, synced_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (shop_id) DO UPDATE
SET name = EXCLUDED.name,
    sku = EXCLUDED.sku,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency,
    active = EXCLUDED.active,
    synced_at = EXCLUDED.synced_at`

	_, err := q.Exec(ctx, query,
		p.ID(), p.ShopID(), p.Name(), p.SKU(), p.PriceCents(), p.Currency(), p.Active(), p.SyncedAt())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to upsert product", err)
	}
	return nil
}

// DeactivateMissing flags mirrored products the shop no longer lists.
func (r *ProductRepository) DeactivateMissing(ctx context.Context, q db.Querier, presentShopIDs []string) (int64, error) {
	const query = `
UPDATE products
SET active = false
WHERE active = true AND NOT (shop_id = ANY($1))`

	tag, err := q.Exec(ctx, query, presentShopIDs)
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to deactivate missing products", err)
	}
	return tag.RowsAffected(), nil
}
