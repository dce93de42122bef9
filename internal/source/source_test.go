package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkscotty/newscast/internal/config"
)

func TestNew(t *testing.T) {
	cfg := config.DefaultConfig().Source

	tests := []struct {
		kind string
		want string
	}{
		{"", "newsapi"},
		{"newsapi", "newsapi"},
		{"RSS", "rss"},
		{"search", "search"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			cfg.Kind = tt.kind
			src, err := New(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, src.Name())
		})
	}

	cfg.Kind = "carrier-pigeon"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNewRejectsBadURLs(t *testing.T) {
	cfg := config.DefaultConfig().Source
	cfg.NewsAPI.BaseURL = "newsapi.org"
	_, err := New(cfg)
	assert.ErrorContains(t, err, "newsapi base url")

	cfg = config.DefaultConfig().Source
	cfg.Kind = "rss"
	cfg.RSS.URLTemplate = "https://news.google.com/rss/search"
	_, err = New(cfg)
	assert.ErrorContains(t, err, "exactly one %s")

	cfg = config.DefaultConfig().Source
	cfg.Kind = "search"
	cfg.Search.URLTemplate = "ftp://example.com/?q=%s"
	_, err = New(cfg)
	assert.ErrorContains(t, err, "http or https")
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, validateURL("https://example.com/a"))
	assert.Error(t, validateURL("mailto:someone@example.com"))
	assert.Error(t, validateURL("https://"))
	assert.Error(t, validateURL("/relative"))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
	assert.Equal(t, "b", firstNonEmpty("   ", "b"))
	assert.Equal(t, NoContent, firstNonEmpty("", ""))
	assert.Equal(t, NoContent, firstNonEmpty())
}
