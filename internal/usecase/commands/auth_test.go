//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"selfcare-backend/internal/domain/staff"
	"selfcare-backend/internal/infra"
	"selfcare-backend/internal/infra/db"
	"selfcare-backend/internal/pkg/errs"
	"selfcare-backend/internal/pkg/jwt"
	"selfcare-backend/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStaffRepo struct {
	byEmail map[string]*staff.Staff
}

func (r *fakeStaffRepo) FindByEmail(ctx context.Context, q db.Querier, email string) (*staff.Staff, error) {
	account, ok := r.byEmail[email]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "staff not found")
	}
	return account, nil
}

func newAuthFixture(t *testing.T) (commands.AuthCommands, *jwt.Service) {
	t.Helper()
	hash, err := staff.HashPassword("s3cret-pass")
	require.NoError(t, err)
	account, err := staff.ReconstructStaff(uuid.New(), "operador@example.com", hash, staff.RoleOperator, time.Now().UTC())
	require.NoError(t, err)

	repo := &fakeStaffRepo{byEmail: map[string]*staff.Staff{account.Email(): account}}
	jwtService := jwt.NewService("test-secret", time.Hour)
	return commands.NewAuthCommands(&fakeUoW{store: newMemStore()}, repo, jwtService), jwtService
}

func TestLogin_Succeeds(t *testing.T) {
	cmd, jwtService := newAuthFixture(t)

	result, err := cmd.Login(context.Background(), "operador@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, staff.RoleOperator, result.Role)

	claims, err := jwtService.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.StaffID, claims.StaffID)
	assert.Equal(t, staff.RoleOperator.String(), claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	cmd, _ := newAuthFixture(t)

	_, err := cmd.Login(context.Background(), "operador@example.com", "nope")
	require.True(t, errs.Is(err, commands.ErrInvalidCredentials))
}

func TestLogin_UnknownAccount(t *testing.T) {
	cmd, _ := newAuthFixture(t)

	// Indistinguishable from a wrong password.
	_, err := cmd.Login(context.Background(), "nadie@example.com", "s3cret-pass")
	require.True(t, errs.Is(err, commands.ErrInvalidCredentials))
}
