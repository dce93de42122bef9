package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thinkscotty/newscast/internal/analysis"
	"github.com/thinkscotty/newscast/internal/models"
	"github.com/thinkscotty/newscast/internal/narrator"
	"github.com/thinkscotty/newscast/internal/source"
)

// ErrNotFound is returned when the source yields no articles for a company.
var ErrNotFound = errors.New("no articles found")

// InternalError wraps an unexpected fault during analysis.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	return e.Err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

type Summarizer interface {
	Summarize(text string) (string, error)
}

type Scorer interface {
	Score(text string) (models.Sentiment, error)
}

type TopicExtractor interface {
	Extract(text string) ([]string, error)
}

type Deduper interface {
	Dedupe(articles []models.Article) []models.Article
}

type Narrator interface {
	Narrate(ctx context.Context, report models.ComparativeReport, company, requestID string) (narrator.Narration, error)
}

// Store records the clip and report of a request atomically. It may be nil.
type Store interface {
	RecordAnalysis(c *models.Clip, r *models.ReportRecord) error
}

// Stages holds the collaborators of a Pipeline. Deduper and Store are optional.
type Stages struct {
	Source     source.Source
	Deduper    Deduper
	Summarizer Summarizer
	Scorer     Scorer
	Topics     TopicExtractor
	Narrator   Narrator
	Store      Store
}

// overfetchFactor widens the fetch when de-duplication may drop articles.
const overfetchFactor = 2

type Pipeline struct {
	stages Stages
}

func New(stages Stages) *Pipeline {
	return &Pipeline{stages: stages}
}

type ctxKey struct{}

// WithRequestID returns a context carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// AudioPath returns the retrieval path of a company's newest clip.
func AudioPath(company string) string {
	return "/audio/" + url.PathEscape(company)
}

// Analyze runs one request: fetch, per-article processing, aggregation,
// narration and recording. It returns ErrNotFound when no articles are found
// and an *InternalError for any unexpected fault.
func (p *Pipeline) Analyze(ctx context.Context, company string, numArticles int) (result *models.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic during analysis", "company", company, "panic", r, "stack", string(debug.Stack()))
			result = nil
			err = &InternalError{Err: fmt.Errorf("%v", r)}
		}
	}()

	company = strings.TrimSpace(company)
	numArticles = max(numArticles, 1)
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := slog.With("company", company, "request_id", requestID)
	start := time.Now()

	fetchLimit := numArticles
	if p.stages.Deduper != nil {
		fetchLimit *= overfetchFactor
	}

	articles, err := p.stages.Source.Fetch(ctx, company, fetchLimit)
	if err != nil {
		if !errors.Is(err, source.ErrUnavailable) {
			return nil, &InternalError{Err: fmt.Errorf("fetch articles: %w", err)}
		}
		log.Warn("Article source unavailable", "source", p.stages.Source.Name(), "error", err)
	}
	if p.stages.Deduper != nil {
		before := len(articles)
		articles = p.stages.Deduper.Dedupe(articles)
		if dropped := before - len(articles); dropped > 0 {
			log.Debug("Dropped near-duplicate articles", "count", dropped)
		}
	}
	if len(articles) > numArticles {
		articles = articles[:numArticles]
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNotFound, company)
	}

	processed := make([]models.ProcessedArticle, 0, len(articles))
	for _, a := range articles {
		processed = append(processed, p.process(log, a))
	}

	report := analysis.Compare(processed)

	narration, err := p.stages.Narrator.Narrate(ctx, report, company, requestID)
	if err != nil {
		return nil, &InternalError{Err: fmt.Errorf("narrate: %w", err)}
	}

	if p.stages.Store != nil {
		clip := &models.Clip{
			RequestID: requestID,
			Company:   company,
			Path:      narration.Path,
			SizeBytes: narration.SizeBytes,
			Fallback:  narration.Fallback,
		}
		dist := report.SentimentDistribution
		record := &models.ReportRecord{
			RequestID:    requestID,
			Company:      company,
			ArticleCount: len(processed),
			Positive:     dist[models.Positive],
			Negative:     dist[models.Negative],
			Neutral:      dist[models.Neutral],
			Coverage:     report.Coverage(),
		}
		if err := p.stages.Store.RecordAnalysis(clip, record); err != nil {
			// The janitor only sees indexed clips.
			if rmErr := os.Remove(narration.Path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				log.Warn("Failed to remove unrecorded clip", "path", narration.Path, "error", rmErr)
			}
			return nil, &InternalError{Err: fmt.Errorf("record analysis: %w", err)}
		}
	}

	log.Info("Analysis complete", "articles", len(processed), "fallback_audio", narration.Fallback,
		"duration", time.Since(start).Round(time.Millisecond))

	return &models.AnalysisResult{
		Company:             company,
		Articles:            processed,
		ComparativeAnalysis: report,
		Audio:               AudioPath(company),
		RequestID:           requestID,
	}, nil
}

// process summarizes, scores and tags one article. Stage failures are logged
// and the stage's safe default is kept.
func (p *Pipeline) process(log *slog.Logger, a models.Article) models.ProcessedArticle {
	summary, err := p.stages.Summarizer.Summarize(a.Content)
	if err != nil {
		log.Warn("Error summarizing article, using full text", "url", a.URL, "error", err)
	}
	sentiment, err := p.stages.Scorer.Score(summary)
	if err != nil {
		log.Warn("Error analyzing sentiment", "url", a.URL, "error", err)
	}
	topics, err := p.stages.Topics.Extract(summary)
	if err != nil {
		log.Warn("Error extracting topics", "url", a.URL, "error", err)
	}

	return models.ProcessedArticle{
		Title:     a.Title,
		Summary:   summary,
		Sentiment: sentiment,
		Topics:    topics,
		URL:       a.URL,
	}
}
