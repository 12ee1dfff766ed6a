package queries

import (
	"context"
	"errors"

	"selfcare-backend/internal/infra/anatod"
	"selfcare-backend/internal/pkg/errs"
)

// UpstreamCustomerClient is the full read surface of the billing/CRM adapter.
type UpstreamCustomerClient interface {
	GetCustomer(ctx context.Context, clientID string) (*anatod.Customer, error)
	ListInvoices(ctx context.Context, clientID string) ([]anatod.Invoice, error)
	ListCollections(ctx context.Context, clientID string) ([]anatod.Collection, error)
	ListConnections(ctx context.Context, clientID string) (*anatod.ConnectionsAggregate, error)
}

type CustomerQueries interface {
	Overview(ctx context.Context, clientID string) (*anatod.Customer, error)
	Invoices(ctx context.Context, clientID string) ([]anatod.Invoice, error)
	Collections(ctx context.Context, clientID string) ([]anatod.Collection, error)
	// Connections is a best-effort aggregate: per-source failures are
	// reported inside the result, never raised.
	Connections(ctx context.Context, clientID string) (*anatod.ConnectionsAggregate, error)
}

type customerQueriesImpl struct {
	upstream UpstreamCustomerClient
}

func NewCustomerQueries(upstream UpstreamCustomerClient) CustomerQueries {
	return &customerQueriesImpl{upstream: upstream}
}

func (q *customerQueriesImpl) Overview(ctx context.Context, clientID string) (*anatod.Customer, error) {
	customer, err := q.upstream.GetCustomer(ctx, clientID)
	return customer, markUpstream(err)
}

func (q *customerQueriesImpl) Invoices(ctx context.Context, clientID string) ([]anatod.Invoice, error) {
	invoices, err := q.upstream.ListInvoices(ctx, clientID)
	return invoices, markUpstream(err)
}

func (q *customerQueriesImpl) Collections(ctx context.Context, clientID string) ([]anatod.Collection, error) {
	collections, err := q.upstream.ListCollections(ctx, clientID)
	return collections, markUpstream(err)
}

func (q *customerQueriesImpl) Connections(ctx context.Context, clientID string) (*anatod.ConnectionsAggregate, error) {
	return q.upstream.ListConnections(ctx, clientID)
}

func markUpstream(err error) error {
	if err == nil {
		return nil
	}
	var upstreamErr *anatod.UpstreamError
	if errors.As(err, &upstreamErr) {
		return errs.Mark(err, ErrUpstreamUnavailable)
	}
	return err
}
