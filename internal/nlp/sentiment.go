package nlp

import (
	"fmt"

	"github.com/jonreiter/govader"

	"github.com/thinkscotty/newscast/internal/models"
)

const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// PolarityScorer returns a compound polarity score in [-1, 1].
type PolarityScorer interface {
	Compound(text string) float64
}

type vaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVader builds the VADER lexicon analyzer. It is expensive; build it once.
func NewVader() PolarityScorer {
	return &vaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *vaderScorer) Compound(text string) float64 {
	return v.analyzer.PolarityScores(text).Compound
}

type SentimentScorer struct {
	polarity PolarityScorer
}

func NewSentimentScorer(polarity PolarityScorer) *SentimentScorer {
	return &SentimentScorer{polarity: polarity}
}

// Score labels text by its compound score. Any failure yields Neutral and an error.
func (s *SentimentScorer) Score(text string) (label models.Sentiment, err error) {
	defer func() {
		if r := recover(); r != nil {
			label, err = models.Neutral, fmt.Errorf("sentiment analyzer panic: %v", r)
		}
	}()
	return Label(s.polarity.Compound(text)), nil
}

// Label maps a compound score onto a sentiment.
func Label(compound float64) models.Sentiment {
	switch {
	case compound >= positiveThreshold:
		return models.Positive
	case compound <= negativeThreshold:
		return models.Negative
	default:
		return models.Neutral
	}
}
