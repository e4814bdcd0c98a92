// Package crunchbase implements the Crunchbase-backed data source:
// organizations from the search API with explicit funding stages, their
// founders as people, and investor edges.
package crunchbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
)

// identifier is the Crunchbase {value, uuid} pair
type identifier struct {
	Value string `json:"value"`
	UUID  string `json:"uuid"`
}

// orgProperties is the subset of organization properties the mapper reads
type orgProperties struct {
	Identifier          identifier   `json:"identifier"`
	ShortDescription    string       `json:"short_description"`
	LastFundingType     string       `json:"last_funding_type"`
	FoundedOn           string       `json:"founded_on"`
	Categories          []identifier `json:"categories"`
	LocationIdentifiers []identifier `json:"location_identifiers"`
	InvestorIdentifiers []identifier `json:"investor_identifiers"`
}

type orgEntity struct {
	UUID       string        `json:"uuid"`
	Properties orgProperties `json:"properties"`
}

type searchResponse struct {
	Entities []orgEntity `json:"entities"`
}

// founder is one entry of an organization's founders card
type founder struct {
	Identifier identifier `json:"identifier"`
	Title      string     `json:"title"`
	Bio        string     `json:"bio"`
}

type foundersResponse struct {
	Cards struct {
		Founders []founder `json:"founders"`
	} `json:"cards"`
}

// client is a minimal Crunchbase v4-style HTTP client
type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func newClient(baseURL, apiKey string, timeout time.Duration) *client {
	return &client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// searchOrganizations issues the source's primary call
func (c *client) searchOrganizations(ctx context.Context, query string, limit int) ([]orgEntity, error) {
	body := map[string]interface{}{
		"field_ids": []string{
			"identifier", "short_description", "last_funding_type",
			"founded_on", "categories", "location_identifiers", "investor_identifiers",
		},
		"limit": limit,
	}
	if query != "" {
		body["query"] = []map[string]interface{}{
			{
				"type":        "predicate",
				"field_id":    "description",
				"operator_id": "contains",
				"values":      []string{query},
			},
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/searches/organizations", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-cb-user-key", c.apiKey)

	var result searchResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return result.Entities, nil
}

// fetchFounders issues the per-organization sub-resource call
func (c *client) fetchFounders(ctx context.Context, uuid string) ([]founder, error) {
	url := fmt.Sprintf("%s/entities/organizations/%s?card_ids=founders", c.baseURL, uuid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create founders request: %w", err)
	}
	req.Header.Set("X-cb-user-key", c.apiKey)

	var result foundersResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return result.Cards.Founders, nil
}

func (c *client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := classifyStatus(resp); err != nil {
		return err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// classifyStatus maps HTTP status codes onto the pipeline error kinds
func classifyStatus(resp *http.Response) error {
	status := resp.StatusCode
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", interfaces.ErrNotFound, resp.Request.URL.Path)
	case status == http.StatusTooManyRequests || status == http.StatusForbidden:
		return &interfaces.RateLimitedError{RetryAfter: retryAfterHint(resp)}
	case status >= 500:
		return &interfaces.TransientError{StatusCode: status}
	default:
		return fmt.Errorf("unexpected status %d from %s", status, resp.Request.URL.Path)
	}
}

// retryAfterHint reads the Retry-After header in seconds; zero when absent
// or malformed, letting the retry policy apply its default
func retryAfterHint(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
