package response

import (
	"time"

	"selfcare-backend/internal/infra/anatod"
)

type CustomerResponse struct {
	ID                 string  `json:"id"`
	FullName           string  `json:"fullName"`
	Scoring            float64 `json:"scoring"`
	OfficialLimitCents int64   `json:"officialLimitCents"`
}

type InvoiceResponse struct {
	ID            string     `json:"id"`
	DisplayNumber string     `json:"displayNumber"`
	AmountCents   int64      `json:"amountCents"`
	Currency      string     `json:"currency"`
	IssuedAt      *time.Time `json:"issuedAt,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	Status        string     `json:"status"`
	Description   string     `json:"description,omitempty"`
}

type CollectionResponse struct {
	ID            string     `json:"id"`
	DisplayNumber string     `json:"displayNumber"`
	AmountCents   int64      `json:"amountCents"`
	Currency      string     `json:"currency"`
	ReceivedAt    *time.Time `json:"receivedAt,omitempty"`
	Method        string     `json:"method,omitempty"`
}

type ConnectionResponse struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Extra  string `json:"extra,omitempty"`
	PlanID string `json:"planId,omitempty"`
}

type SourceErrorResponse struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// ConnectionsResponse carries partial results: sources that answered are in
// Connections, sources that failed are listed in Errors.
type ConnectionsResponse struct {
	Connections []ConnectionResponse  `json:"connections"`
	Errors      []SourceErrorResponse `json:"errors,omitempty"`
}

func FromCustomer(customer *anatod.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                 customer.ID,
		FullName:           customer.FullName,
		Scoring:            customer.Scoring,
		OfficialLimitCents: customer.OfficialLimitCents,
	}
}

func FromInvoices(invoices []anatod.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		out[i] = InvoiceResponse{
			ID:            inv.ID,
			DisplayNumber: inv.DisplayNumber,
			AmountCents:   inv.AmountCents,
			Currency:      inv.Currency,
			IssuedAt:      inv.IssuedAt,
			DueDate:       inv.DueDate,
			Status:        string(inv.Status),
			Description:   inv.Description,
		}
	}
	return out
}

func FromCollections(collections []anatod.Collection) []CollectionResponse {
	out := make([]CollectionResponse, len(collections))
	for i, col := range collections {
		out[i] = CollectionResponse{
			ID:            col.ID,
			DisplayNumber: col.DisplayNumber,
			AmountCents:   col.AmountCents,
			Currency:      col.Currency,
			ReceivedAt:    col.ReceivedAt,
			Method:        col.Method,
		}
	}
	return out
}

func FromConnectionsAggregate(agg *anatod.ConnectionsAggregate) ConnectionsResponse {
	resp := ConnectionsResponse{
		Connections: make([]ConnectionResponse, len(agg.Connections)),
	}
	for i, conn := range agg.Connections {
		resp.Connections[i] = ConnectionResponse{
			ID:     conn.ID,
			Type:   conn.Type,
			Name:   conn.Name,
			Status: string(conn.Status),
			Extra:  conn.Extra,
			PlanID: conn.PlanID,
		}
	}
	for _, srcErr := range agg.Errors {
		resp.Errors = append(resp.Errors, SourceErrorResponse{
			Source:  srcErr.Source,
			Message: srcErr.Message,
		})
	}
	return resp
}
