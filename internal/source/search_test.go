package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articlePage(title string, paragraphs int) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html><html><head><title>" + title + "</title></head><body><article><h1>" + title + "</h1>")
	for i := 1; i <= paragraphs; i++ {
		fmt.Fprintf(&sb, "<p>Paragraph %d of the story about the company, with enough words for the readability parser to treat it as real article content.</p>", i)
	}
	sb.WriteString("</article></body></html>")
	return sb.String()
}

func searchServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><body>
<a class="title" href="javascript:void(0)">Script</a>
<a class="title" href="/news/one">One</a>
<a class="title" href="/news/one">One again</a>
<a class="title" href="/news/missing">Missing</a>
<a class="title" href="/news/two">Two</a>
<a class="other" href="/news/ignored">Ignored</a>
</body></html>`)
	})
	mux.HandleFunc("/news/one", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, articlePage("Story One", 7))
	})
	mux.HandleFunc("/news/two", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, articlePage("Story Two", 3))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchFetch(t *testing.T) {
	srv := searchServer(t)

	src := NewSearch(srv.URL+"/search?q=%s", "a.title", "", 5*time.Second)
	articles, err := src.Fetch(context.Background(), "Acme", 10)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, srv.URL+"/news/one", articles[0].URL)
	assert.NotEmpty(t, articles[0].Title)
	assert.Contains(t, articles[0].Content, "Paragraph 1")
	assert.Contains(t, articles[0].Content, "Paragraph 5")
	assert.NotContains(t, articles[0].Content, "Paragraph 6")
	assert.Equal(t, srv.URL+"/news/two", articles[1].URL)
}

func TestSearchFetchRespectsLimit(t *testing.T) {
	srv := searchServer(t)

	src := NewSearch(srv.URL+"/search?q=%s", "a.title", "", 5*time.Second)
	articles, err := src.Fetch(context.Background(), "Acme", 1)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, srv.URL+"/news/one", articles[0].URL)
}

func TestSearchFetchNoResults(t *testing.T) {
	srv := searchServer(t)

	src := NewSearch(srv.URL+"/search?q=%s", "a.nothing", "", 5*time.Second)
	articles, err := src.Fetch(context.Background(), "Acme", 5)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, articles)
}

func TestLeadParagraphs(t *testing.T) {
	html := "<div><p>One.</p><p>  </p><p>Two.</p><p>Three.</p></div>"
	assert.Equal(t, "One. Two.", leadParagraphs(html, 2))
	assert.Equal(t, "One. Two. Three.", leadParagraphs(html, 5))
	assert.Equal(t, "", leadParagraphs("<div>no paragraphs</div>", 5))
}
