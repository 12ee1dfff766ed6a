package catalog

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyShopID = errors.New("shop product id is required")

// Product is a row in the local mirror of the e-commerce catalog. The mirror
// is best-effort reference data; the shop stays the source of truth.
type Product struct {
	id         uuid.UUID
	shopID     string
	name       string
	sku        string
	priceCents int64
	currency   string
	active     bool
	syncedAt   time.Time
}

func NewProduct(shopID, name, sku string, priceCents int64, currency string, active bool, syncedAt time.Time) (*Product, error) {
	if strings.TrimSpace(shopID) == "" {
		return nil, ErrEmptyShopID
	}
	if priceCents < 0 {
		priceCents = 0
	}
	if currency == "" {
		currency = "ARS"
	}
	return &Product{
		id:         uuid.New(),
		shopID:     shopID,
		name:       name,
		sku:        sku,
		priceCents: priceCents,
		currency:   currency,
		active:     active,
		syncedAt:   syncedAt,
	}, nil
}

func ReconstructProduct(id uuid.UUID, shopID, name, sku string, priceCents int64, currency string, active bool, syncedAt time.Time) *Product {
	return &Product{
		id:         id,
		shopID:     shopID,
		name:       name,
		sku:        sku,
		priceCents: priceCents,
		currency:   currency,
		active:     active,
		syncedAt:   syncedAt,
	}
}

func (p *Product) ID() uuid.UUID       { return p.id }
func (p *Product) ShopID() string      { return p.shopID }
func (p *Product) Name() string        { return p.name }
func (p *Product) SKU() string         { return p.sku }
func (p *Product) PriceCents() int64   { return p.priceCents }
func (p *Product) Currency() string    { return p.currency }
func (p *Product) Active() bool        { return p.active }
func (p *Product) SyncedAt() time.Time { return p.syncedAt }
