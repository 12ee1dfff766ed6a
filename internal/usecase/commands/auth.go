package commands

import (
	"context"

	"selfcare-backend/internal/domain/staff"
	"selfcare-backend/internal/infra"
	"selfcare-backend/internal/infra/db"
	"selfcare-backend/internal/pkg/errs"
	"selfcare-backend/internal/pkg/jwt"
	"selfcare-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrInvalidCredentials = errs.New("invalid credentials")

type LoginResult struct {
	StaffID uuid.UUID
	Email   string
	Role    staff.Role
	Token   string
}

type AuthCommands interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	staffRepo  shared.StaffRepository
	jwtService *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, staffRepo shared.StaffRepository, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		staffRepo:  staffRepo,
		jwtService: jwtService,
	}
}

func (c *authCommandsImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var account *staff.Staff
	err := c.uow.WithDB(ctx, func(ctx context.Context, q db.Querier) error {
		found, err := c.staffRepo.FindByEmail(ctx, q, email)
		if err != nil {
			return err
		}
		account = found
		return nil
	})
	if err != nil {
		// Unknown account and wrong password are indistinguishable on purpose.
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := account.VerifyPassword(password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := c.jwtService.GenerateToken(account.ID(), account.Role())
	if err != nil {
		return nil, errs.Wrap(err, "failed to sign staff token")
	}

	return &LoginResult{
		StaffID: account.ID(),
		Email:   account.Email(),
		Role:    account.Role(),
		Token:   token,
	}, nil
}
