package repository

import (
	"context"
	"errors"
	"time"

	"selfcare-backend/internal/domain/staff"
	"selfcare-backend/internal/infra"
	"selfcare-backend/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type StaffRepository struct{}

func NewStaffRepository() *StaffRepository {
	return &StaffRepository{}
}

func (r *StaffRepository) FindByEmail(ctx context.Context, q db.Querier, email string) (*staff.Staff, error) {
	const query = `
SELECT id, email, password_hash, role, created_at
FROM staff
WHERE email = $1`

	var (
		id           uuid.UUID
		storedEmail  string
		passwordHash string
		role         string
		createdAt    time.Time
	)
	err := q.QueryRow(ctx, query, email).Scan(&id, &storedEmail, &passwordHash, &role, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "staff not found")
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find staff", err)
	}

	entity, err := staff.ReconstructStaff(id, storedEmail, passwordHash, staff.Role(role), createdAt)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "stored staff row invalid", err)
	}
	return entity, nil
}
