package staff

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid staff role")
)

// Staff is a back-office operator account. Customers never log in here; the
// portal front-end authenticates per customer against the upstream CRM.
type Staff struct {
	id           uuid.UUID
	email        string
	passwordHash string
	role         Role
	createdAt    time.Time
}

func ReconstructStaff(id uuid.UUID, email, passwordHash string, role Role, createdAt time.Time) (*Staff, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	return &Staff{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    createdAt,
	}, nil
}

func (s *Staff) VerifyPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Staff) ID() uuid.UUID        { return s.id }
func (s *Staff) Email() string        { return s.email }
func (s *Staff) Role() Role           { return s.role }
func (s *Staff) CreatedAt() time.Time { return s.createdAt }
