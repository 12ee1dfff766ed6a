package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"selfcare-backend/internal/pkg/config"
)

const maxErrorBodyBytes = 512

// Product is one catalog entry as the e-commerce platform reports it.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	SKU      string  `json:"sku"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Active   bool    `json:"active"`
}

type productPage struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
}

type ClientError struct {
	StatusCode int
	Body       string
}

func (e *ClientError) Error() string {
	if e.StatusCode == 0 {
		return "shop request failed: " + e.Body
	}
	return fmt.Sprintf("shop responded %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg config.ShopConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		pageSize:   cfg.PageSize,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// ListAllProducts walks the paginated listing to the end. The shop caps page
// size server-side, so the loop trusts total_pages rather than item count.
func (c *Client) ListAllProducts(ctx context.Context) ([]Product, error) {
	var all []Product
	for page := 1; ; page++ {
		result, err := c.listPage(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, result.Items...)

		if result.TotalPages == 0 || page >= result.TotalPages {
			break
		}
	}
	c.logger.Debug("fetched shop catalog", "products", len(all))
	return all, nil
}

func (c *Client) listPage(ctx context.Context, page int) (*productPage, error) {
	url := fmt.Sprintf("%s/api/products?page=%d&page_size=%d", c.baseURL, page, c.pageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &ClientError{Body: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ClientError{Body: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &ClientError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result productPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{StatusCode: resp.StatusCode, Body: "undecodable body: " + err.Error()}
	}
	return &result, nil
}
