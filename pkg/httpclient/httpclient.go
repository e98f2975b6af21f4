// Package httpclient provides a small helper for JSON GET endpoints.
package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
)

// GetResource fetches baseURL+endpoint and decodes the JSON response into T.
// Responses with a status code outside okStatuses are returned as errors.
func GetResource[T any](client *http.Client, baseURL, endpoint string, okStatuses []int) (T, error) {
	var resource T

	resp, err := client.Get(baseURL + endpoint)
	if err != nil {
		return resource, fmt.Errorf("couldn't get %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if !slices.Contains(okStatuses, resp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resource, fmt.Errorf("unexpected status %d for %s: %s", resp.StatusCode, endpoint, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(&resource); err != nil {
		return resource, fmt.Errorf("couldn't decode %s response: %w", endpoint, err)
	}

	return resource, nil
}
