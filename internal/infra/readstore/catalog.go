package readstore

import (
	"context"

	"selfcare-backend/internal/infra"
	"selfcare-backend/internal/infra/db"
	"selfcare-backend/internal/usecase/queries"
)

type CatalogReadStore struct {
	db db.Querier
}

func NewCatalogReadStore(q db.Querier) *CatalogReadStore {
	return &CatalogReadStore{db: q}
}

func (s *CatalogReadStore) ListProducts(ctx context.Context, activeOnly bool) ([]*queries.ProductView, error) {
	query := `
SELECT id, shop_id, name, sku, price_cents, currency, active, synced_at
FROM products`
	if activeOnly {
		query += `
WHERE active = true`
	}
	query += `
ORDER BY name`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list products", err)
	}
	defer rows.Close()

	var views []*queries.ProductView
	for rows.Next() {
		var view queries.ProductView
		if err := rows.Scan(&view.ID, &view.ShopID, &view.Name, &view.SKU,
			&view.PriceCents, &view.Currency, &view.Active, &view.SyncedAt); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan product row", err)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate products", err)
	}
	return views, nil
}
