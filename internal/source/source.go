package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/thinkscotty/newscast/internal/config"
	"github.com/thinkscotty/newscast/internal/models"
)

// ErrUnavailable marks a soft failure: the caller should treat it as "no articles".
var ErrUnavailable = errors.New("article source unavailable")

// NoContent replaces missing article bodies.
const NoContent = "No content available"

const userAgent = "newscast/1.0 (+https://github.com/thinkscotty/newscast)"

// Source returns recent articles matching a query.
// On soft failure it returns an empty slice and an error wrapping ErrUnavailable.
type Source interface {
	Fetch(ctx context.Context, query string, limit int) ([]models.Article, error)
	Name() string
}

// New builds the source selected by cfg.Kind.
func New(cfg config.SourceConfig) (Source, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	httpClient := &http.Client{Timeout: timeout}

	switch strings.ToLower(cfg.Kind) {
	case "", "newsapi":
		if err := validateURL(cfg.NewsAPI.BaseURL); err != nil {
			return nil, fmt.Errorf("newsapi base url: %w", err)
		}
		return NewNewsAPI(cfg.NewsAPI.BaseURL, os.Getenv(cfg.NewsAPI.APIKeyEnv), httpClient), nil
	case "rss":
		if err := validateTemplate(cfg.RSS.URLTemplate); err != nil {
			return nil, fmt.Errorf("rss url template: %w", err)
		}
		return NewRSS(cfg.RSS.URLTemplate, httpClient), nil
	case "search":
		if err := validateTemplate(cfg.Search.URLTemplate); err != nil {
			return nil, fmt.Errorf("search url template: %w", err)
		}
		return NewSearch(cfg.Search.URLTemplate, cfg.Search.LinkSelector, cfg.Search.UserAgent, timeout), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

// validateURL checks that a URL is absolute and uses http or https.
func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("URL must use http or https scheme")
	}
	if parsed.Host == "" {
		return errors.New("URL must have a host")
	}
	return nil
}

// validateTemplate checks a URL template holding exactly one %s for the query.
func validateTemplate(tmpl string) error {
	if strings.Count(tmpl, "%s") != 1 {
		return errors.New("template must contain exactly one %s")
	}
	return validateURL(strings.Replace(tmpl, "%s", "query", 1))
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, fmt.Sprintf(format, args...))
}

// firstNonEmpty returns the first argument that is not blank, or NoContent.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return NoContent
}

func cleanText(s string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
