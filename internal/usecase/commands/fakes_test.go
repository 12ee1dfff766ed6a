//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"sync"
	"time"

	"selfcare-backend/internal/domain/catalog"
	"selfcare-backend/internal/domain/credit"
	"selfcare-backend/internal/domain/order"
	"selfcare-backend/internal/infra"
	"selfcare-backend/internal/infra/anatod"
	"selfcare-backend/internal/infra/db"
	"selfcare-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the Postgres layer. Rows are plain
// value structs so snapshot/restore gives real rollback semantics.
type memStore struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]reservationRow
	orders       map[uuid.UUID]orderRow
	events       []eventRow
	products     map[string]productRow
}

type reservationRow struct {
	id          uuid.UUID
	clientID    string
	orderID     *uuid.UUID
	amountCents int64
	status      credit.Status
	createdAt   time.Time
	updatedAt   time.Time
}

type orderRow struct {
	id             uuid.UUID
	clientID       string
	orderType      string
	status         order.Status
	planChange     order.PlanChange
	ticketID       *string
	idempotencyKey *string
	createdAt      time.Time
	updatedAt      time.Time
}

type eventRow struct {
	id        uuid.UUID
	orderID   uuid.UUID
	eventType order.EventType
	payload   json.RawMessage
	createdAt time.Time
}

type productRow struct {
	id         uuid.UUID
	shopID     string
	name       string
	sku        string
	priceCents int64
	currency   string
	active     bool
	syncedAt   time.Time
}

func newMemStore() *memStore {
	return &memStore{
		reservations: make(map[uuid.UUID]reservationRow),
		orders:       make(map[uuid.UUID]orderRow),
		products:     make(map[string]productRow),
	}
}

func (s *memStore) seedReservation(res *credit.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[res.ID()] = reservationToRow(res)
}

func (s *memStore) seedOrder(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID()] = orderToRow(o)
}

func (s *memStore) reservation(id uuid.UUID) (reservationRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.reservations[id]
	return row, ok
}

func (s *memStore) order(id uuid.UUID) (orderRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.orders[id]
	return row, ok
}

func (s *memStore) eventsFor(orderID uuid.UUID) []eventRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []eventRow
	for _, e := range s.events {
		if e.orderID == orderID {
			out = append(out, e)
		}
	}
	return out
}

// fakeUoW serializes transactions on the store mutex, mirroring how the
// per-client advisory lock serializes real ones. Any error restores the
// pre-transaction snapshot.
type fakeUoW struct {
	store *memStore
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snapRes := maps.Clone(u.store.reservations)
	snapOrd := maps.Clone(u.store.orders)
	snapEvents := slices.Clone(u.store.events)
	snapProd := maps.Clone(u.store.products)

	tx := &fakeTx{store: u.store}
	if err := fn(ctx, tx); err != nil {
		u.store.reservations = snapRes
		u.store.orders = snapOrd
		u.store.events = snapEvents
		u.store.products = snapProd
		return err
	}
	return nil
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, q db.Querier) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(ctx, nil)
}

type fakeTx struct {
	store         *memStore
	lockedClients []string
}

func (t *fakeTx) Reservations() shared.ReservationRepository { return &fakeReservationRepo{t.store} }
func (t *fakeTx) Orders() shared.OrderRepository             { return &fakeOrderRepo{t.store} }
func (t *fakeTx) Products() shared.ProductRepository         { return &fakeProductRepo{t.store} }
func (t *fakeTx) DB() db.Querier                             { return nil }

func (t *fakeTx) LockClient(ctx context.Context, clientID string) error {
	t.lockedClients = append(t.lockedClients, clientID)
	return nil
}

type fakeReservationRepo struct {
	store *memStore
}

func (r *fakeReservationRepo) Create(ctx context.Context, q db.Querier, res *credit.Reservation) error {
	if _, ok := r.store.reservations[res.ID()]; ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "reservation already exists")
	}
	r.store.reservations[res.ID()] = reservationToRow(res)
	return nil
}

func (r *fakeReservationRepo) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*credit.Reservation, error) {
	row, ok := r.store.reservations[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	return rowToReservation(row), nil
}

func (r *fakeReservationRepo) GetForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*credit.Reservation, error) {
	return r.GetByID(ctx, q, id)
}

func (r *fakeReservationRepo) FindByOrderID(ctx context.Context, q db.Querier, orderID uuid.UUID) (*credit.Reservation, error) {
	for _, row := range r.store.reservations {
		if row.orderID != nil && *row.orderID == orderID {
			return rowToReservation(row), nil
		}
	}
	return nil, nil
}

func (r *fakeReservationRepo) SumReserved(ctx context.Context, q db.Querier, clientID string) (int64, error) {
	var total int64
	for _, row := range r.store.reservations {
		if row.clientID != clientID {
			continue
		}
		// Consumed holds stay committed; only released ones free headroom.
		if row.status == credit.StatusActive || row.status == credit.StatusConsumed {
			total += row.amountCents
		}
	}
	return total, nil
}

func (r *fakeReservationRepo) Save(ctx context.Context, q db.Querier, res *credit.Reservation) error {
	if _, ok := r.store.reservations[res.ID()]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	r.store.reservations[res.ID()] = reservationToRow(res)
	return nil
}

type fakeOrderRepo struct {
	store *memStore
}

func (r *fakeOrderRepo) Create(ctx context.Context, q db.Querier, o *order.Order) error {
	if o.IdempotencyKey() != nil {
		for _, row := range r.store.orders {
			if row.clientID == o.ClientID() && row.idempotencyKey != nil && *row.idempotencyKey == *o.IdempotencyKey() {
				return infra.NewRepoErr(infra.KindDuplicateKey, "idempotency key already used")
			}
		}
	}
	r.store.orders[o.ID()] = orderToRow(o)
	return nil
}

func (r *fakeOrderRepo) FindByIdempotencyKey(ctx context.Context, q db.Querier, clientID, key string) (*order.Order, error) {
	for _, row := range r.store.orders {
		if row.clientID == clientID && row.idempotencyKey != nil && *row.idempotencyKey == key {
			return rowToOrder(row), nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*order.Order, error) {
	row, ok := r.store.orders[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "order not found")
	}
	return rowToOrder(row), nil
}

func (r *fakeOrderRepo) GetForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*order.Order, error) {
	return r.GetByID(ctx, q, id)
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, q db.Querier, o *order.Order) error {
	row, ok := r.store.orders[o.ID()]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "order not found")
	}
	row.status = o.Status()
	row.updatedAt = o.UpdatedAt()
	r.store.orders[o.ID()] = row
	return nil
}

func (r *fakeOrderRepo) AppendEvent(ctx context.Context, q db.Querier, e *order.Event) error {
	if _, ok := r.store.orders[e.OrderID()]; !ok {
		return infra.NewRepoErr(infra.KindForeignKeyViolated, "order does not exist")
	}
	r.store.events = append(r.store.events, eventRow{
		id:        e.ID(),
		orderID:   e.OrderID(),
		eventType: e.Type(),
		payload:   e.Payload(),
		createdAt: e.CreatedAt(),
	})
	return nil
}

type fakeProductRepo struct {
	store *memStore
}

func (r *fakeProductRepo) Upsert(ctx context.Context, q db.Querier, p *catalog.Product) error {
	row, ok := r.store.products[p.ShopID()]
	if !ok {
		row = productRow{id: p.ID(), shopID: p.ShopID()}
	}
	row.name = p.Name()
	row.sku = p.SKU()
	row.priceCents = p.PriceCents()
	row.currency = p.Currency()
	row.active = p.Active()
	row.syncedAt = p.SyncedAt()
	r.store.products[p.ShopID()] = row
	return nil
}

func (r *fakeProductRepo) DeactivateMissing(ctx context.Context, q db.Querier, presentShopIDs []string) (int64, error) {
	present := make(map[string]struct{}, len(presentShopIDs))
	for _, id := range presentShopIDs {
		present[id] = struct{}{}
	}
	var count int64
	for shopID, row := range r.store.products {
		if _, ok := present[shopID]; ok || !row.active {
			continue
		}
		row.active = false
		r.store.products[shopID] = row
		count++
	}
	return count, nil
}

// fakeUpstream serves a canned customer snapshot, or fails like the real
// adapter does when the CRM is down.
type fakeUpstream struct {
	customer *anatod.Customer
	err      error

	mu    sync.Mutex
	calls int
}

func (u *fakeUpstream) GetCustomer(ctx context.Context, clientID string) (*anatod.Customer, error) {
	u.mu.Lock()
	u.calls++
	u.mu.Unlock()
	if u.err != nil {
		return nil, u.err
	}
	return u.customer, nil
}

func (u *fakeUpstream) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

func reservationToRow(res *credit.Reservation) reservationRow {
	return reservationRow{
		id:          res.ID(),
		clientID:    res.ClientID(),
		orderID:     res.OrderID(),
		amountCents: res.Amount().Cents(),
		status:      res.Status(),
		createdAt:   res.CreatedAt(),
		updatedAt:   res.UpdatedAt(),
	}
}

func rowToReservation(row reservationRow) *credit.Reservation {
	return credit.ReconstructReservation(
		row.id, row.clientID, row.orderID,
		credit.MustMoney(row.amountCents), row.status,
		row.createdAt, row.updatedAt,
	)
}

func orderToRow(o *order.Order) orderRow {
	return orderRow{
		id:             o.ID(),
		clientID:       o.ClientID(),
		orderType:      o.Type(),
		status:         o.Status(),
		planChange:     o.PlanChange(),
		ticketID:       o.TicketID(),
		idempotencyKey: o.IdempotencyKey(),
		createdAt:      o.CreatedAt(),
		updatedAt:      o.UpdatedAt(),
	}
}

func rowToOrder(row orderRow) *order.Order {
	return order.ReconstructOrder(
		row.id, row.clientID, row.orderType, row.status,
		row.planChange, row.ticketID, row.idempotencyKey,
		row.createdAt, row.updatedAt,
	)
}
