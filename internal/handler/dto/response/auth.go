package response

import (
	"selfcare-backend/internal/usecase/commands"

	"github.com/google/uuid"
)

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	Staff       StaffSummary `json:"staff"`
}

type StaffSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

func FromLoginResult(result *commands.LoginResult) LoginResponse {
	return LoginResponse{
		AccessToken: result.Token,
		Staff: StaffSummary{
			ID:    result.StaffID,
			Email: result.Email,
			Role:  result.Role.String(),
		},
	}
}
