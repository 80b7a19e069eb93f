// Package market looks up current sell prices on warframe.market.
package market

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/syndicate-prices/internal/fetcher"
)

const (
	// DefaultBaseURL is the warframe.market v1 REST API.
	DefaultBaseURL = "https://api.warframe.market/v1"
	// DefaultLimit is how many of the cheapest prices are kept per item.
	DefaultLimit = 5
)

// Order is one marketplace listing.
type Order struct {
	OrderType string `json:"order_type"`
	Platinum  *int   `json:"platinum"`
	User      User   `json:"user"`
}

// User is the player behind an order.
type User struct {
	Status string `json:"status"`
}

type ordersResponse struct {
	Payload *struct {
		Orders []Order `json:"orders"`
	} `json:"payload"`
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithLimit sets how many prices LowestPrices keeps.
func WithLimit(k int) Option {
	return func(c *Client) {
		c.limit = k
	}
}

// Client queries item orders through a Fetcher.
type Client struct {
	fetcher fetcher.Fetcher
	baseURL string
	limit   int
}

// NewClient creates a marketplace client.
func NewClient(f fetcher.Fetcher, opts ...Option) *Client {
	c := &Client{
		fetcher: f,
		baseURL: DefaultBaseURL,
		limit:   DefaultLimit,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

var slugReplacer = strings.NewReplacer(" ", "_", "&", "and", "'", "")

// Slug derives the marketplace item identifier from a display name.
func Slug(name string) string {
	return strings.ToLower(slugReplacer.Replace(name))
}

// Orders fetches every order listed for the item.
func (c *Client) Orders(ctx context.Context, slug string) ([]Order, error) {
	endpoint := c.baseURL + "/items/" + url.PathEscape(slug) + "/orders"

	body, err := c.fetcher.Download(ctx, endpoint)
	if err != nil {
		return nil, eris.Wrapf(err, "market: fetch orders for %s", slug)
	}
	defer body.Close() //nolint:errcheck

	resp, err := fetcher.DecodeJSONObject[ordersResponse](body)
	if err != nil {
		return nil, eris.Wrapf(err, "market: decode orders for %s", slug)
	}
	if resp.Payload == nil || resp.Payload.Orders == nil {
		return nil, eris.Errorf("market: malformed orders envelope for %s", slug)
	}
	return resp.Payload.Orders, nil
}

// LowestPrices returns the cheapest online sell prices for the named item in
// ascending order. Failures are logged and yield an empty list.
func (c *Client) LowestPrices(ctx context.Context, name string) []int {
	slug := Slug(name)
	orders, err := c.Orders(ctx, slug)
	if err != nil {
		zap.L().Warn("market: no price data",
			zap.String("item", name),
			zap.String("slug", slug),
			zap.Error(err),
		)
		return []int{}
	}
	return LowestSellPrices(orders, c.limit)
}

// LowestSellPrices reduces orders to the k lowest sell prices from sellers
// that are not offline.
func LowestSellPrices(orders []Order, k int) []int {
	lowest := NewLowest(k)
	for _, o := range orders {
		if o.OrderType == "buy" || o.User.Status == "offline" {
			continue
		}
		if o.Platinum == nil {
			lowest.Add(Missing)
			continue
		}
		lowest.Add(*o.Platinum)
	}
	return lowest.Values()
}
