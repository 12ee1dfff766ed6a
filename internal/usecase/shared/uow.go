package shared

import (
	"context"

	"selfcare-backend/internal/domain/catalog"
	"selfcare-backend/internal/domain/credit"
	"selfcare-backend/internal/domain/order"
	"selfcare-backend/internal/domain/staff"
	"selfcare-backend/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single query operations using implicit transactions.
	WithDB(ctx context.Context, fn func(ctx context.Context, q db.Querier) error) error
}

type Tx interface {
	Reservations() ReservationRepository
	Orders() OrderRepository
	Products() ProductRepository
	DB() db.Querier
	// LockClient serializes every credit mutation for one customer. The
	// lock is transaction-scoped and released on commit/rollback.
	LockClient(ctx context.Context, clientID string) error
}

type ReservationRepository interface {
	Create(ctx context.Context, q db.Querier, res *credit.Reservation) error
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*credit.Reservation, error)
	GetForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*credit.Reservation, error)
	FindByOrderID(ctx context.Context, q db.Querier, orderID uuid.UUID) (*credit.Reservation, error)
	// SumReserved totals the holds still committed against the official
	// limit: ACTIVE and CONSUMED both count. A consumed hold keeps the
	// credit spoken for until the upstream limit reflects the purchase;
	// only RELEASED frees headroom.
	SumReserved(ctx context.Context, q db.Querier, clientID string) (int64, error)
	Save(ctx context.Context, q db.Querier, res *credit.Reservation) error
}

type OrderRepository interface {
	Create(ctx context.Context, q db.Querier, o *order.Order) error
	FindByIdempotencyKey(ctx context.Context, q db.Querier, clientID, key string) (*order.Order, error)
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*order.Order, error)
	GetForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*order.Order, error)
	UpdateStatus(ctx context.Context, q db.Querier, o *order.Order) error
	AppendEvent(ctx context.Context, q db.Querier, e *order.Event) error
}

type ProductRepository interface {
	Upsert(ctx context.Context, q db.Querier, p *catalog.Product) error
	DeactivateMissing(ctx context.Context, q db.Querier, presentShopIDs []string) (int64, error)
}

type StaffRepository interface {
	FindByEmail(ctx context.Context, q db.Querier, email string) (*staff.Staff, error)
}
