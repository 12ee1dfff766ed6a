package anatod

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"selfcare-backend/internal/pkg/config"
	"selfcare-backend/internal/pkg/fanout"
)

const maxErrorBodyBytes = 512

// UpstreamError is any non-success answer from the billing/CRM API. Callers
// treat it as transient: report upward, never retry in place.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return "anatod request failed: " + e.Body
	}
	return fmt.Sprintf("anatod responded %d: %s", e.StatusCode, e.Body)
}

// Connection source names used by the fan-out and its per-source error report.
const (
	SourceInternet  = "internet"
	SourceTelephony = "telephony"
	SourceTV        = "tv"
)

var connectionPaths = map[string]string{
	SourceInternet:  "servicios/internet",
	SourceTelephony: "servicios/telefonia",
	SourceTV:        "servicios/tv",
}

type Client struct {
	baseURL    string
	apiKey     string
	currency   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg config.AnatodConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		currency:   cfg.Currency,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

func (c *Client) GetCustomer(ctx context.Context, clientID string) (*Customer, error) {
	var raw payload
	if err := c.getJSON(ctx, "clientes/"+url.PathEscape(clientID), &raw); err != nil {
		return nil, err
	}
	customer := mapCustomer(raw)
	if customer.ID == "" {
		customer.ID = clientID
	}
	return &customer, nil
}

func (c *Client) ListInvoices(ctx context.Context, clientID string) ([]Invoice, error) {
	var raw []payload
	if err := c.getJSON(ctx, "clientes/"+url.PathEscape(clientID)+"/facturas", &raw); err != nil {
		return nil, err
	}
	invoices := make([]Invoice, 0, len(raw))
	for _, m := range raw {
		invoices = append(invoices, mapInvoice(m, c.currency))
	}
	return invoices, nil
}

func (c *Client) ListCollections(ctx context.Context, clientID string) ([]Collection, error) {
	var raw []payload
	if err := c.getJSON(ctx, "clientes/"+url.PathEscape(clientID)+"/cobranzas", &raw); err != nil {
		return nil, err
	}
	collections := make([]Collection, 0, len(raw))
	for _, m := range raw {
		collections = append(collections, mapCollection(m, c.currency))
	}
	return collections, nil
}

// ListConnections fans out to the per-service endpoints concurrently. One
// source failing never fails the aggregate; the caller gets the connections
// that could be fetched plus an error entry per failed source.
func (c *Client) ListConnections(ctx context.Context, clientID string) (*ConnectionsAggregate, error) {
	tasks := make([]fanout.Task[[]Connection], 0, len(connectionPaths))
	for _, source := range []string{SourceInternet, SourceTelephony, SourceTV} {
		path := "clientes/" + url.PathEscape(clientID) + "/" + connectionPaths[source]
		serviceType := source
		tasks = append(tasks, fanout.Task[[]Connection]{
			Source: source,
			Run: func(ctx context.Context) ([]Connection, error) {
				var raw []payload
				if err := c.getJSON(ctx, path, &raw); err != nil {
					return nil, err
				}
				connections := make([]Connection, 0, len(raw))
				for _, m := range raw {
					connections = append(connections, mapConnection(m, serviceType))
				}
				return connections, nil
			},
		})
	}

	aggregate := &ConnectionsAggregate{}
	for _, result := range fanout.JoinSettled(ctx, tasks) {
		if !result.OK() {
			c.logger.Warn("connection source failed",
				"source", result.Source, "client_id", clientID, "error", result.Err.Error())
			aggregate.Errors = append(aggregate.Errors, SourceError{
				Source:  result.Source,
				Message: result.Err.Error(),
			})
			continue
		}
		aggregate.Connections = append(aggregate.Connections, result.Value...)
	}
	return aggregate, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/"+path, http.NoBody)
	if err != nil {
		return &UpstreamError{Body: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Body: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{StatusCode: resp.StatusCode, Body: "undecodable body: " + err.Error()}
	}
	return nil
}
