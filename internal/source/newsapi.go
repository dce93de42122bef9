package source

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/thinkscotty/newscast/internal/models"
)

// NewsAPI queries the newsapi.org "everything" endpoint.
type NewsAPI struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewNewsAPI(baseURL, apiKey string, httpClient *http.Client) *NewsAPI {
	return &NewsAPI{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *NewsAPI) Name() string {
	return "newsapi"
}

func (c *NewsAPI) Fetch(ctx context.Context, query string, limit int) ([]models.Article, error) {
	if c.apiKey == "" {
		slog.Error("NewsAPI key not set")
		return nil, unavailable("newsapi key not set")
	}

	params := url.Values{
		"q":        {query},
		"apiKey":   {c.apiKey},
		"language": {"en"},
		"sortBy":   {"publishedAt"},
		"pageSize": {strconv.Itoa(limit)},
	}
	reqURL := c.baseURL + "/v2/everything?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, unavailable("create request: %v", err)
	}
	req.Header.Set("User-Agent", userAgent)

	slog.Info("Fetching articles", "source", c.Name(), "query", query, "limit", limit)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Error fetching articles from NewsAPI", "error", err)
		return nil, unavailable("newsapi request: %v", err)
	}
	defer resp.Body.Close()

	var result struct {
		Status   string `json:"status"`
		Message  string `json:"message"`
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Content     string `json:"content"`
			URL         string `json:"url"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, unavailable("newsapi returned %d", resp.StatusCode)
		}
		return nil, unavailable("decode newsapi response: %v", err)
	}
	if resp.StatusCode != http.StatusOK || result.Status != "ok" {
		slog.Error("NewsAPI error", "status", resp.StatusCode, "message", result.Message)
		return nil, unavailable("newsapi returned %d: %s", resp.StatusCode, result.Message)
	}

	articles := make([]models.Article, 0, min(limit, len(result.Articles)))
	for _, item := range result.Articles {
		if len(articles) >= limit {
			break
		}
		articles = append(articles, models.Article{
			Title:   item.Title,
			Content: firstNonEmpty(item.Description, item.Content),
			URL:     item.URL,
		})
	}

	slog.Info("Fetched articles", "source", c.Name(), "query", query, "count", len(articles))
	if len(articles) == 0 {
		return nil, unavailable("no newsapi results for %q", query)
	}
	return articles, nil
}
