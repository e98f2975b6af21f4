// Package clob is used to call Polymarket CLOB endpoints.
package clob

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/daszybak/polymarket_tracker/internal/price"
	"github.com/daszybak/polymarket_tracker/pkg/httpclient"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

type MarketToken struct {
	Outcome string      `json:"outcome"`
	Price   price.Price `json:"price"`
	TokenID string      `json:"token_id"`
	Winner  bool        `json:"winner"`
}

type Market struct {
	ConditionID     string        `json:"condition_id"`
	Question        string        `json:"question"`
	Description     string        `json:"description"`
	Active          bool          `json:"active"`
	AcceptingOrders bool          `json:"accepting_orders"`
	Tokens          []MarketToken `json:"tokens"`
}

type MarketPage struct {
	Limit      int       `json:"limit"`
	Count      int       `json:"count"`
	Data       []*Market `json:"data"`
	NextCursor *string   `json:"next_cursor,omitempty"`
}

// SamplingMarkets returns the venue's current sample of active markets.
func (c *Client) SamplingMarkets() ([]*Market, error) {
	page, err := httpclient.GetResource[*MarketPage](c.httpClient, c.baseURL, "/sampling-markets", []int{200})
	if err != nil {
		return nil, fmt.Errorf("couldn't get sampling markets: %w", err)
	}
	return page.Data, nil
}

// SimplifiedMarkets returns condition IDs with their outcome tokens and
// current prices.
func (c *Client) SimplifiedMarkets() ([]*Market, error) {
	page, err := httpclient.GetResource[*MarketPage](c.httpClient, c.baseURL, "/sampling-simplified-markets", []int{200})
	if err != nil {
		return nil, fmt.Errorf("couldn't get simplified markets: %w", err)
	}
	return page.Data, nil
}

func (c *Client) GetMarkets(nextCursor *string) (*MarketPage, error) {
	endpoint := "/markets"
	if nextCursor != nil {
		endpoint += "?next_cursor=" + *nextCursor
	}
	markets, err := httpclient.GetResource[*MarketPage](c.httpClient, c.baseURL, endpoint, []int{200})
	if err != nil {
		return nil, fmt.Errorf("couldn't get markets page: %w", err)
	}
	return markets, nil
}

// GetAllMarkets walks the paginated /markets endpoint. The final page is
// marked with a base64-encoded "-1" cursor.
func (c *Client) GetAllMarkets() ([]*Market, error) {
	markets := []*Market{}
	firstPage, err := c.GetMarkets(nil)
	if err != nil {
		return nil, fmt.Errorf("couldn't get first page of markets: %w", err)
	}
	markets = append(markets, firstPage.Data...)
	nextCursor := firstPage.NextCursor
	if nextCursor == nil {
		return markets, nil
	}
	for {
		page, err := c.GetMarkets(nextCursor)
		if err != nil {
			return nil, fmt.Errorf("couldn't get markets for cursor %s: %w", *nextCursor, err)
		}
		markets = append(markets, page.Data...)
		if page.NextCursor == nil {
			break
		}
		decoded, _ := base64.StdEncoding.DecodeString(*page.NextCursor)
		if string(decoded) == "-1" {
			break
		}
		nextCursor = page.NextCursor
	}
	return markets, nil
}
