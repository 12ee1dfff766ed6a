package anatod

import "time"

// Normalized DTOs. Upstream payloads are loosely-typed JSON with unstable key
// names; everything past this package is strongly typed.

type Customer struct {
	ID                 string
	FullName           string
	Scoring            float64
	OfficialLimitCents int64
}

type InvoiceStatus string

const (
	InvoiceIssued InvoiceStatus = "ISSUED"
	InvoiceVoided InvoiceStatus = "VOIDED"
)

type Invoice struct {
	ID            string
	DisplayNumber string
	AmountCents   int64
	Currency      string
	IssuedAt      *time.Time
	DueDate       *time.Time
	Status        InvoiceStatus
	Description   string
}

// Collection is a payment received from the customer.
type Collection struct {
	ID            string
	DisplayNumber string
	AmountCents   int64
	Currency      string
	ReceivedAt    *time.Time
	Method        string
}

type ConnectionStatus string

const (
	ConnectionActive   ConnectionStatus = "ACTIVE"
	ConnectionInactive ConnectionStatus = "INACTIVE"
)

// Connection is one provisioned service (internet, telephony or TV).
type Connection struct {
	ID       string
	Type     string
	Name     string
	Status   ConnectionStatus
	Extra    string
	SourceID string
	PlanID   string
}

// SourceError reports one upstream source that failed during a best-effort
// aggregate read.
type SourceError struct {
	Source  string
	Message string
}

// ConnectionsAggregate is the partial-success result of fanning out to the
// per-service upstream endpoints.
type ConnectionsAggregate struct {
	Connections []Connection
	Errors      []SourceError
}
