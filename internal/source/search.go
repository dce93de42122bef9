package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"

	"github.com/thinkscotty/newscast/internal/models"
)

const (
	maxParagraphs = 5
	noTitle       = "No Title Available"
)

// Search scrapes a search-results page for article links and extracts each article.
type Search struct {
	urlTemplate    string
	linkSelector   string
	userAgent      string
	requestTimeout time.Duration
	httpClient     *http.Client
}

// NewSearch creates a scraping source. urlTemplate must contain one %s for the escaped query.
func NewSearch(urlTemplate, linkSelector, ua string, timeout time.Duration) *Search {
	if ua == "" {
		ua = userAgent
	}
	return &Search{
		urlTemplate:    urlTemplate,
		linkSelector:   linkSelector,
		userAgent:      ua,
		requestTimeout: timeout,
		httpClient:     &http.Client{Timeout: timeout},
	}
}

func (s *Search) Name() string {
	return "search"
}

func (s *Search) Fetch(ctx context.Context, query string, limit int) ([]models.Article, error) {
	searchURL := fmt.Sprintf(s.urlTemplate, url.QueryEscape(query))

	slog.Info("Fetching articles", "source", s.Name(), "query", query, "limit", limit)
	links, err := s.resultLinks(searchURL, limit)
	if err != nil {
		slog.Error("Error scraping search results", "url", searchURL, "error", err)
		return nil, unavailable("search results: %v", err)
	}

	var articles []models.Article
	for _, link := range links {
		if ctx.Err() != nil {
			break
		}
		article, err := s.scrapeArticle(ctx, link)
		if err != nil {
			slog.Warn("Error scraping article", "url", link, "error", err)
			continue
		}
		articles = append(articles, article)
	}

	slog.Info("Fetched articles", "source", s.Name(), "query", query, "count", len(articles))
	if len(articles) == 0 {
		return nil, unavailable("no search results for %q", query)
	}
	return articles, nil
}

// resultLinks visits the search page and collects up to limit unique absolute links.
func (s *Search) resultLinks(searchURL string, limit int) ([]string, error) {
	c := colly.NewCollector(
		colly.UserAgent(s.userAgent),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.requestTimeout)

	var links []string
	seen := make(map[string]struct{})
	var mu sync.Mutex

	c.OnHTML(s.linkSelector, func(e *colly.HTMLElement) {
		mu.Lock()
		defer mu.Unlock()
		if len(links) >= limit {
			return
		}
		href := e.Request.AbsoluteURL(e.Attr("href"))
		if validateURL(href) != nil {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})

	var scrapeErr error
	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = fmt.Errorf("scrape error for %s: %w (status: %d)", searchURL, err, r.StatusCode)
	})

	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", searchURL, err)
	}
	c.Wait()

	if scrapeErr != nil {
		return nil, scrapeErr
	}
	return links, nil
}

// scrapeArticle downloads a page and keeps its title and first paragraphs.
func (s *Search) scrapeArticle(ctx context.Context, pageURL string) (models.Article, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return models.Article{}, fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return models.Article{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.Article{}, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Article{}, fmt.Errorf("fetch %s returned %d", pageURL, resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return models.Article{}, fmt.Errorf("decode charset: %w", err)
	}

	parsed, err := readability.FromReader(body, parsedURL)
	if err != nil {
		return models.Article{}, fmt.Errorf("extract content: %w", err)
	}

	content := leadParagraphs(parsed.Content, maxParagraphs)
	if content == "" {
		content = cleanText(parsed.TextContent)
	}
	if content == "" {
		return models.Article{}, fmt.Errorf("no content extracted from %s", pageURL)
	}

	title := cleanText(parsed.Title)
	if title == "" {
		title = noTitle
	}

	return models.Article{Title: title, Content: content, URL: pageURL}, nil
}

// leadParagraphs joins the text of the first n non-empty <p> elements.
func leadParagraphs(html string, n int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var paras []string
	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if text := cleanText(sel.Text()); text != "" {
			paras = append(paras, text)
		}
		return len(paras) < n
	})
	return strings.Join(paras, " ")
}
