package models

import "time"

type Sentiment string

const (
	Positive Sentiment = "Positive"
	Negative Sentiment = "Negative"
	Neutral  Sentiment = "Neutral"
)

// Sentiments lists the labels in report order.
var Sentiments = []Sentiment{Positive, Negative, Neutral}

// Article is a raw record returned by an article source.
type Article struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

type ProcessedArticle struct {
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Sentiment Sentiment `json:"sentiment"`
	Topics    []string  `json:"topics"`
	URL       string    `json:"url"`
}

type ComparativeReport struct {
	SentimentDistribution map[Sentiment]int `json:"sentiment_distribution"`
	CoverageDifference    []string          `json:"coverage_difference"`
}

// Coverage returns the first coverage statement, or "" if there is none.
func (r ComparativeReport) Coverage() string {
	if len(r.CoverageDifference) == 0 {
		return ""
	}
	return r.CoverageDifference[0]
}

type AnalysisResult struct {
	Company             string             `json:"company"`
	Articles            []ProcessedArticle `json:"articles"`
	ComparativeAnalysis ComparativeReport  `json:"comparative_analysis"`
	Audio               string             `json:"audio"`
	RequestID           string             `json:"request_id"`
}

// Clip is a synthesized narration recorded in the store.
type Clip struct {
	ID         int64     `json:"id"`
	RequestID  string    `json:"request_id"`
	Company    string    `json:"company"`
	CompanyKey string    `json:"-"`
	Path       string    `json:"-"`
	SizeBytes  int64     `json:"size_bytes"`
	Fallback   bool      `json:"fallback"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReportRecord is one comparative report kept for the history endpoint.
type ReportRecord struct {
	ID           int64     `json:"id"`
	RequestID    string    `json:"request_id"`
	Company      string    `json:"company"`
	ArticleCount int       `json:"article_count"`
	Positive     int       `json:"positive"`
	Negative     int       `json:"negative"`
	Neutral      int       `json:"neutral"`
	Coverage     string    `json:"coverage"`
	CreatedAt    time.Time `json:"created_at"`
}
