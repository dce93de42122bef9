package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>"Acme" - Google News</title>
<item>
  <title>Acme opens new plant</title>
  <link>https://example.com/plant</link>
  <description>&lt;a href="https://example.com/plant"&gt;Acme opens a new plant&lt;/a&gt; in Ohio.</description>
</item>
<item>
  <title>Acme shares slide</title>
  <link>https://example.com/shares</link>
</item>
<item>
  <title>Third story</title>
  <link>https://example.com/third</link>
  <description>Plain text body.</description>
</item>
</channel>
</rss>`

func TestRSSFetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	src := NewRSS(srv.URL+"/rss?q=%s", srv.Client())
	articles, err := src.Fetch(context.Background(), "Acme Corp", 2)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "Acme Corp", gotQuery)
	assert.Equal(t, "Acme opens new plant", articles[0].Title)
	assert.Equal(t, "Acme opens a new plant in Ohio.", articles[0].Content)
	assert.Equal(t, "https://example.com/plant", articles[0].URL)
	assert.Equal(t, NoContent, articles[1].Content)
}

func TestRSSFetchBadFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a feed"))
	}))
	defer srv.Close()

	src := NewRSS(srv.URL+"/rss?q=%s", srv.Client())
	articles, err := src.Fetch(context.Background(), "Acme", 5)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, articles)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "plain text", stripHTML("plain   text"))
	assert.Equal(t, "Bold and link", stripHTML("<b>Bold</b> and <a href='x'>link</a>"))
	assert.Equal(t, "", stripHTML(""))
}
