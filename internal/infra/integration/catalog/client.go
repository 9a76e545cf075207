package catalog

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

// Client fetches the product catalog from an HTTP endpoint returning
// {"<id>": {"product_name", "manufacturer", "vehicle"}}.
type Client struct {
	http *resty.Client
	url  string
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetHeader("Accept", "application/json").
			SetTimeout(timeout),
		url: url,
	}
}

func (c *Client) ListCatalog(ctx context.Context) (entity.Catalog, error) {
	var body map[string]productDTO
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("catalog: fetch: status %d: %s", resp.StatusCode(), resp.String())
	}

	out := make(entity.Catalog, len(body))
	for key, p := range body {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("catalog: invalid product id %q", key)
		}
		out[id] = entity.Product{
			ID:           id,
			Name:         p.ProductName,
			Manufacturer: p.Manufacturer,
			Vehicle:      p.Vehicle,
		}
	}
	return out, nil
}
