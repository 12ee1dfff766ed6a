package response

import (
	"selfcare-backend/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type CreditProfileResponse struct {
	ClientID           string `json:"clientId"`
	OfficialLimitCents int64  `json:"officialLimitCents"`
	ReservedTotalCents int64  `json:"reservedTotalCents"`
	AvailableCents     int64  `json:"availableCents"`
	Currency           string `json:"currency"`
}

func FromCreditProfileView(view *queries.CreditProfileView) *CreditProfileResponse {
	var resp CreditProfileResponse
	_ = copier.Copy(&resp, view)
	return &resp
}
