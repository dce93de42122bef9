package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/thinkscotty/newscast/internal/models"
)

// RSS reads a news search feed such as Google News RSS.
type RSS struct {
	urlTemplate string
	parser      *gofeed.Parser
}

// NewRSS creates an RSS source. urlTemplate must contain one %s for the escaped query.
func NewRSS(urlTemplate string, httpClient *http.Client) *RSS {
	parser := gofeed.NewParser()
	parser.Client = httpClient
	parser.UserAgent = userAgent
	return &RSS{urlTemplate: urlTemplate, parser: parser}
}

func (r *RSS) Name() string {
	return "rss"
}

func (r *RSS) Fetch(ctx context.Context, query string, limit int) ([]models.Article, error) {
	feedURL := fmt.Sprintf(r.urlTemplate, url.QueryEscape(query))

	slog.Info("Fetching articles", "source", r.Name(), "query", query, "limit", limit)
	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		slog.Error("Error fetching RSS feed", "url", feedURL, "error", err)
		return nil, unavailable("rss fetch: %v", err)
	}

	var articles []models.Article
	for _, item := range feed.Items {
		if len(articles) >= limit {
			break
		}
		articles = append(articles, models.Article{
			Title:   cleanText(item.Title),
			Content: firstNonEmpty(stripHTML(item.Description), stripHTML(item.Content)),
			URL:     item.Link,
		})
	}

	slog.Info("Fetched articles", "source", r.Name(), "query", query, "count", len(articles))
	if len(articles) == 0 {
		return nil, unavailable("no rss items for %q", query)
	}
	return articles, nil
}

// stripHTML returns the visible text of an HTML fragment.
func stripHTML(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return cleanText(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return cleanText(fragment)
	}
	return cleanText(doc.Text())
}
