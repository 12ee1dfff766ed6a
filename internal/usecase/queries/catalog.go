package queries

import "context"

type CatalogReadStore interface {
	ListProducts(ctx context.Context, activeOnly bool) ([]*ProductView, error)
}

type CatalogQueries interface {
	ListProducts(ctx context.Context, activeOnly bool) ([]*ProductView, error)
}

type catalogQueriesImpl struct {
	readStore CatalogReadStore
}

func NewCatalogQueries(readStore CatalogReadStore) CatalogQueries {
	return &catalogQueriesImpl{readStore: readStore}
}

func (q *catalogQueriesImpl) ListProducts(ctx context.Context, activeOnly bool) ([]*ProductView, error) {
	return q.readStore.ListProducts(ctx, activeOnly)
}
