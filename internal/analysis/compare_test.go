package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thinkscotty/newscast/internal/models"
)

func articles(labels ...models.Sentiment) []models.ProcessedArticle {
	out := make([]models.ProcessedArticle, len(labels))
	for i, l := range labels {
		out[i] = models.ProcessedArticle{Sentiment: l}
	}
	return out
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		labels   []models.Sentiment
		wantDist map[models.Sentiment]int
		want     string
	}{
		{
			name:     "mostly positive",
			labels:   []models.Sentiment{models.Positive, models.Positive, models.Negative},
			wantDist: map[models.Sentiment]int{models.Positive: 2, models.Negative: 1, models.Neutral: 0},
			want:     MostlyPositive,
		},
		{
			name:     "mostly negative",
			labels:   []models.Sentiment{models.Negative, models.Neutral, models.Neutral},
			wantDist: map[models.Sentiment]int{models.Positive: 0, models.Negative: 1, models.Neutral: 2},
			want:     MostlyNegative,
		},
		{
			name:     "tie is balanced",
			labels:   []models.Sentiment{models.Negative, models.Positive, models.Neutral},
			wantDist: map[models.Sentiment]int{models.Positive: 1, models.Negative: 1, models.Neutral: 1},
			want:     Balanced,
		},
		{
			name:     "empty is balanced",
			wantDist: map[models.Sentiment]int{models.Positive: 0, models.Negative: 0, models.Neutral: 0},
			want:     Balanced,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Compare(articles(tt.labels...))
			assert.Equal(t, tt.wantDist, report.SentimentDistribution)
			assert.Equal(t, []string{tt.want}, report.CoverageDifference)

			sum := 0
			for _, n := range report.SentimentDistribution {
				sum += n
			}
			assert.Equal(t, len(tt.labels), sum)
		})
	}
}
