package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"trends-search/pkg/logger"
	"trends-search/pkg/volume"
)

// SearchVolumesPath is the JSON endpoint served by cmd/server
const SearchVolumesPath = "/api/search_volumes"

// APIError is the error body returned by the server for non-200 responses
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("search_volumes returned status %d: %s", e.StatusCode, e.Message)
}

// Client posts queries to a running trends-search server
type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
	log     *logger.Logger
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http: &fasthttp.Client{
			Name:         "trends-search-cli/1.0",
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		log: logger.GetLogger().WithField("component", "search_client"),
	}
}

// SearchVolumes implements volume.Searcher over POST /api/search_volumes
func (c *Client) SearchVolumes(ctx context.Context, q volume.Query) ([]volume.Record, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + SearchVolumesPath)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBody(body)

	c.log.WithField("terms_count", len(q.Terms)).Debug("Posting search volumes query")

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode()}
		if json.Unmarshal(resp.Body(), apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(resp.Body()))
		}
		return nil, apiErr
	}

	var records []volume.Record
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if records == nil {
		records = []volume.Record{}
	}
	return records, nil
}
