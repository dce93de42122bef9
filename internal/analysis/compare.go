package analysis

import "github.com/thinkscotty/newscast/internal/models"

const (
	MostlyPositive = "Coverage is mostly positive, indicating strong public or market support."
	MostlyNegative = "Coverage is mostly negative, suggesting challenges or controversies."
	Balanced       = "Coverage is balanced between positive and negative sentiments."
)

// Compare tallies sentiments and picks one coverage statement.
// All three labels are always present in the distribution.
func Compare(articles []models.ProcessedArticle) models.ComparativeReport {
	dist := make(map[models.Sentiment]int, len(models.Sentiments))
	for _, s := range models.Sentiments {
		dist[s] = 0
	}
	for _, a := range articles {
		dist[a.Sentiment]++
	}

	var coverage string
	switch {
	case dist[models.Positive] > dist[models.Negative]:
		coverage = MostlyPositive
	case dist[models.Negative] > dist[models.Positive]:
		coverage = MostlyNegative
	default:
		coverage = Balanced
	}

	return models.ComparativeReport{
		SentimentDistribution: dist,
		CoverageDifference:    []string{coverage},
	}
}
