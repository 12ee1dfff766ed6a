//go:build unit

package anatod

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberField(t *testing.T) {
	tests := []struct {
		name string
		m    payload
		want float64
	}{
		{"plain number", payload{"scoring": 7.5}, 7.5},
		{"numeric string", payload{"scoring": "7.5"}, 7.5},
		{"comma decimal string", payload{"scoring": "7,5"}, 7.5},
		{"second candidate key wins", payload{"score": 3.0}, 3},
		{"non-numeric string coerces to zero", payload{"scoring": "n/a"}, 0},
		{"nil value coerces to zero", payload{"scoring": nil}, 0},
		{"absent key coerces to zero", payload{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, numberField(tt.m, scoringKeys), 1e-9)
		})
	}
}

func TestDisplayNumber(t *testing.T) {
	tests := []struct {
		name string
		m    payload
		want string
	}{
		{
			"joins type, pos and sequence with dashes",
			payload{"tipoComprobante": "A", "puntoVenta": "0001", "numero": "00004213"},
			"A-0001-00004213",
		},
		{
			"skips missing middle part",
			payload{"tipoComprobante": "B", "numero": "17"},
			"B-17",
		},
		{
			"falls back to raw id when all parts absent",
			payload{"id": "fac-789"},
			"fac-789",
		},
		{
			"numeric sequence is stringified",
			payload{"tipoComprobante": "A", "numero": float64(42)},
			"A-42",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayNumber(tt.m))
		})
	}
}

func TestConnectionStatus(t *testing.T) {
	tests := []struct {
		name string
		m    payload
		want ConnectionStatus
	}{
		{"cut flag lowercase n is active", payload{"corte": "n"}, ConnectionActive},
		{"cut flag N is active", payload{"corte": "N"}, ConnectionActive},
		{"cut flag S is inactive", payload{"corte": "S"}, ConnectionInactive},
		{"any other value is inactive", payload{"corte": "CORTADO"}, ConnectionInactive},
		{"absent flag defaults to active", payload{}, ConnectionActive},
		{"empty flag defaults to active", payload{"corte": ""}, ConnectionActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, connectionStatus(tt.m))
		})
	}
}

func TestMapCustomer(t *testing.T) {
	t.Run("maps renamed upstream keys", func(t *testing.T) {
		c := mapCustomer(payload{
			"codigoCliente":             "CLI-1001",
			"razonSocial":               "Perez, Ana",
			"scoring":                   "8",
			"purchaseAvailableOfficial": 100000.0,
		})

		assert.Equal(t, "CLI-1001", c.ID)
		assert.Equal(t, "Perez, Ana", c.FullName)
		assert.InDelta(t, 8.0, c.Scoring, 1e-9)
		assert.Equal(t, int64(100000_00), c.OfficialLimitCents)
	})

	t.Run("garbage numeric fields coerce to zero, never error", func(t *testing.T) {
		c := mapCustomer(payload{
			"id":                        "CLI-2",
			"scoring":                   "n/a",
			"purchaseAvailableOfficial": "",
		})

		assert.Zero(t, c.Scoring)
		assert.Zero(t, c.OfficialLimitCents)
	})
}

func TestMapInvoice(t *testing.T) {
	t.Run("voided flag drives status", func(t *testing.T) {
		inv := mapInvoice(payload{
			"id":      "f1",
			"importe": 1520.50,
			"anulada": "S",
		}, "ARS")

		assert.Equal(t, InvoiceVoided, inv.Status)
		assert.Equal(t, int64(152050), inv.AmountCents)
		assert.Equal(t, "ARS", inv.Currency)
	})

	t.Run("defaults to issued with parsed dates", func(t *testing.T) {
		inv := mapInvoice(payload{
			"id":               "f2",
			"importe":          "300",
			"fechaEmision":     "2025-02-01",
			"fechaVencimiento": "15/02/2025",
			"moneda":           "USD",
		}, "ARS")

		assert.Equal(t, InvoiceIssued, inv.Status)
		assert.Equal(t, "USD", inv.Currency)
		assert.NotNil(t, inv.IssuedAt)
		assert.NotNil(t, inv.DueDate)
		assert.Equal(t, 2025, inv.IssuedAt.Year())
		assert.Equal(t, 15, inv.DueDate.Day())
	})
}
