package anatod

import (
	"strconv"
	"strings"
	"time"
)

// The upstream API renames fields between versions and between record types.
// Each target attribute therefore has an ordered list of candidate keys,
// evaluated first-match-wins. Keeping these tables data-driven keeps the
// mapping testable without any HTTP involved.

type payload = map[string]any

var (
	idKeys          = []string{"id", "idCliente", "codigoCliente", "codigo"}
	fullNameKeys    = []string{"razonSocial", "nombreCompleto", "nombre", "fullName"}
	scoringKeys     = []string{"scoring", "score", "calificacion"}
	purchaseKeys    = []string{"purchaseAvailableOfficial", "limiteCompra", "disponibleCompra"}
	amountKeys      = []string{"importe", "monto", "total", "amount"}
	currencyKeys    = []string{"moneda", "currency"}
	descriptionKeys = []string{"descripcion", "detalle", "description"}
	issuedAtKeys    = []string{"fechaEmision", "fecha", "issuedAt"}
	dueDateKeys     = []string{"fechaVencimiento", "vencimiento", "dueDate"}
	receivedAtKeys  = []string{"fechaCobro", "fechaPago", "fecha"}
	methodKeys      = []string{"medioPago", "formaPago", "metodo"}
	voidedKeys      = []string{"anulada", "anulado", "voided"}
	invTypeKeys     = []string{"tipoComprobante", "tipo", "letra"}
	invPosKeys      = []string{"puntoVenta", "sucursal", "pos"}
	invSeqKeys      = []string{"numero", "nro", "secuencia"}
	connNameKeys    = []string{"nombre", "denominacion", "name"}
	connExtraKeys   = []string{"observaciones", "extra", "detalle"}
	connSourceKeys  = []string{"idServicio", "sourceId", "id"}
	connPlanKeys    = []string{"idPlan", "planId", "plan"}
	cutFlagKeys     = []string{"corte", "corteServicio", "cut"}
)

// stringField returns the first non-empty candidate, "" when none match.
func stringField(m payload, keys []string) string {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		case int64:
			return strconv.FormatInt(s, 10)
		case bool:
			return strconv.FormatBool(s)
		}
	}
	return ""
}

// numberField coerces tolerantly: numbers pass through, numeric strings are
// parsed, anything else (including absent keys) is 0. Never errors.
func numberField(m payload, keys []string) float64 {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case int64:
			return float64(n)
		case int:
			return float64(n)
		case string:
			cleaned := strings.TrimSpace(strings.ReplaceAll(n, ",", "."))
			if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
				return parsed
			}
		}
	}
	return 0
}

func boolField(m payload, keys []string) bool {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		switch b := v.(type) {
		case bool:
			return b
		case string:
			switch strings.ToUpper(strings.TrimSpace(b)) {
			case "S", "SI", "Y", "YES", "TRUE", "1":
				return true
			}
		case float64:
			return b != 0
		}
	}
	return false
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

func timeField(m payload, keys []string) *time.Time {
	raw := stringField(m, keys)
	if raw == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// toCents converts an upstream decimal amount into integer cents.
func toCents(amount float64) int64 {
	if amount < 0 {
		return int64(amount*100 - 0.5)
	}
	return int64(amount*100 + 0.5)
}

// displayNumber joins comprobante type / point of sale / sequence with "-",
// falling back to the raw id when all three are absent.
func displayNumber(m payload) string {
	parts := make([]string, 0, 3)
	for _, keys := range [][]string{invTypeKeys, invPosKeys, invSeqKeys} {
		if part := stringField(m, keys); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return stringField(m, idKeys)
	}
	return strings.Join(parts, "-")
}

// connectionStatus derives ACTIVE/INACTIVE from the upstream cut flag: when
// the flag is present and non-empty the service is active iff its uppercased
// value is "N"; an absent or empty flag defaults to active.
func connectionStatus(m payload) ConnectionStatus {
	flag := stringField(m, cutFlagKeys)
	if flag == "" {
		return ConnectionActive
	}
	if strings.ToUpper(flag) == "N" {
		return ConnectionActive
	}
	return ConnectionInactive
}

func mapCustomer(m payload) Customer {
	return Customer{
		ID:                 stringField(m, idKeys),
		FullName:           stringField(m, fullNameKeys),
		Scoring:            numberField(m, scoringKeys),
		OfficialLimitCents: toCents(numberField(m, purchaseKeys)),
	}
}

func mapInvoice(m payload, defaultCurrency string) Invoice {
	status := InvoiceIssued
	if boolField(m, voidedKeys) {
		status = InvoiceVoided
	}
	currency := stringField(m, currencyKeys)
	if currency == "" {
		currency = defaultCurrency
	}
	return Invoice{
		ID:            stringField(m, idKeys),
		DisplayNumber: displayNumber(m),
		AmountCents:   toCents(numberField(m, amountKeys)),
		Currency:      currency,
		IssuedAt:      timeField(m, issuedAtKeys),
		DueDate:       timeField(m, dueDateKeys),
		Status:        status,
		Description:   stringField(m, descriptionKeys),
	}
}

func mapCollection(m payload, defaultCurrency string) Collection {
	currency := stringField(m, currencyKeys)
	if currency == "" {
		currency = defaultCurrency
	}
	return Collection{
		ID:            stringField(m, idKeys),
		DisplayNumber: displayNumber(m),
		AmountCents:   toCents(numberField(m, amountKeys)),
		Currency:      currency,
		ReceivedAt:    timeField(m, receivedAtKeys),
		Method:        stringField(m, methodKeys),
	}
}

func mapConnection(m payload, serviceType string) Connection {
	return Connection{
		ID:       stringField(m, idKeys),
		Type:     serviceType,
		Name:     stringField(m, connNameKeys),
		Status:   connectionStatus(m),
		Extra:    stringField(m, connExtraKeys),
		SourceID: stringField(m, connSourceKeys),
		PlanID:   stringField(m, connPlanKeys),
	}
}
