package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/thinkscotty/newscast/internal/models"
)

// APIError is a non-2xx response from the analysis API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

// Client calls the newscast JSON API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for the API at baseURL. Analysis can take a while, so
// the timeout should cover the source, translation and speech calls.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Analyze requests a fresh analysis for company.
func (c *Client) Analyze(ctx context.Context, company string, numArticles int) (*models.AnalysisResult, error) {
	path := "/analyze/" + url.PathEscape(company) + "?num_articles=" + strconv.Itoa(numArticles)

	var result models.AnalysisResult
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// History returns recent reports for company, newest first.
func (c *Client) History(ctx context.Context, company string, limit int) ([]models.ReportRecord, error) {
	path := "/history/" + url.PathEscape(company) + "?limit=" + strconv.Itoa(limit)

	var result struct {
		Reports []models.ReportRecord `json:"reports"`
	}
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return result.Reports, nil
}

func (c *Client) Health(ctx context.Context) error {
	var result struct {
		Status string `json:"status"`
	}
	return c.get(ctx, "/health", &result)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if id := requestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode api response: %w", err)
	}
	return nil
}

type ctxKey struct{}

// WithRequestID makes outgoing calls carry the id in the X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
