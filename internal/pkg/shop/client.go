package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jcid-dev/MoodleLink/app/models"
)

// OrderSource loads order snapshots from the host commerce platform. Triggers
// only carry order IDs; the snapshot itself always comes from the shop so a
// delayed trigger still sees the current order state.
type OrderSource interface {
	GetOrder(ctx context.Context, orderID uint) (*models.Order, error)
}

// ErrOrderNotFound is returned when the shop does not know the order.
var ErrOrderNotFound = fmt.Errorf("shop: order not found")

// Client fetches orders from the shop REST API.
type Client struct {
	http *resty.Client
}

// NewClient creates a shop API client. The API key is sent as a bearer token.
func NewClient(baseURL, apiKey string) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetTimeout(15 * time.Second)

	return &Client{http: http}
}

func (c *Client) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/api/orders/" + strconv.FormatUint(uint64(orderID), 10))
	if err != nil {
		return nil, fmt.Errorf("shop: get order %d: %w", orderID, err)
	}
	if resp.StatusCode() == 404 {
		return nil, ErrOrderNotFound
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("shop: get order %d: unexpected status %d", orderID, resp.StatusCode())
	}

	var order models.Order
	if err := json.Unmarshal(resp.Body(), &order); err != nil {
		return nil, fmt.Errorf("shop: get order %d: invalid response: %w", orderID, err)
	}
	return &order, nil
}
