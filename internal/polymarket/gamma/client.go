// Package gamma consumes Polymarket Gamma endpoints.
package gamma

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

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

// TokenIDs handles the double-encoded JSON array from the API.
type TokenIDs []string

func (t *TokenIDs) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return json.Unmarshal([]byte(s), (*[]string)(t))
}

type Market struct {
	ID           string   `json:"id"`
	ConditionID  string   `json:"conditionId"`
	Question     string   `json:"question"`
	Slug         string   `json:"slug"`
	Outcomes     string   `json:"outcomes"`
	ClobTokenIDs TokenIDs `json:"clobTokenIds"`
}

// Volume handles the API sending traded volume as either a number or a
// quoted string.
type Volume float64

func (v *Volume) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*v = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("couldn't parse volume: %w", err)
		}
		*v = Volume(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Volume(f)
	return nil
}

type Event struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Slug    string    `json:"slug"`
	Volume  Volume    `json:"volume"`
	Active  bool      `json:"active"`
	Markets []*Market `json:"markets"`
}

// VolumeUSD is the event's traded volume in dollars.
func (e *Event) VolumeUSD() float64 {
	return float64(e.Volume)
}

type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

type SearchResult struct {
	Events []*Event `json:"events"`
	Tags   []*Tag   `json:"tags"`
}

// Search queries the public-search endpoint for active events matching the
// keyword.
func (c *Client) Search(query string, limit int) (*SearchResult, error) {
	params := url.Values{
		"q":              {query},
		"limit_per_type": {strconv.Itoa(limit)},
		"search_tags":    {"true"},
		"events_status":  {"active"},
	}

	result, err := httpclient.GetResource[*SearchResult](c.httpClient, c.baseURL, "/public-search?"+params.Encode(), []int{200})
	if err != nil {
		return nil, fmt.Errorf("couldn't search for %q: %w", query, err)
	}
	return result, nil
}

// Tags lists the venue's market categories.
func (c *Client) Tags() ([]*Tag, error) {
	return httpclient.GetResource[[]*Tag](c.httpClient, c.baseURL, "/tags", []int{200})
}

// EventBySlug resolves one event with its markets.
func (c *Client) EventBySlug(slug string) (*Event, error) {
	event, err := httpclient.GetResource[*Event](c.httpClient, c.baseURL, "/events/slug/"+url.PathEscape(slug), []int{200})
	if err != nil {
		return nil, fmt.Errorf("couldn't get event %s: %w", slug, err)
	}
	return event, nil
}
