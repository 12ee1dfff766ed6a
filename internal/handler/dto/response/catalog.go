package response

import (
	"time"

	"selfcare-backend/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ProductResponse struct {
	ID         uuid.UUID `json:"id"`
	ShopID     string    `json:"shopId"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	PriceCents int64     `json:"priceCents"`
	Currency   string    `json:"currency"`
	Active     bool      `json:"active"`
	SyncedAt   time.Time `json:"syncedAt"`
}

type SyncCatalogResponse struct {
	Synced      int   `json:"synced"`
	Deactivated int64 `json:"deactivated"`
}

func FromProductViews(views []*queries.ProductView) []*ProductResponse {
	out := make([]*ProductResponse, len(views))
	for i, view := range views {
		var resp ProductResponse
		_ = copier.Copy(&resp, view)
		out[i] = &resp
	}
	return out
}
