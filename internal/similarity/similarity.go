package similarity

import (
	"strings"
	"unicode"

	"github.com/thinkscotty/newscast/internal/models"
)

// Checker detects near-duplicate headlines, which news APIs return often
// when one wire story is syndicated by several outlets.
type Checker struct {
	threshold float64
	ngramSize int
}

// New creates a Checker. A threshold <= 0 disables de-duplication.
func New(threshold float64, ngramSize int) *Checker {
	if ngramSize <= 0 {
		ngramSize = 3
	}
	return &Checker{threshold: threshold, ngramSize: ngramSize}
}

// normalize lowercases, removes punctuation, and collapses whitespace.
func (c *Checker) normalize(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevSpace = false
		} else if !prevSpace {
			sb.WriteRune(' ')
			prevSpace = true
		}
	}
	return strings.TrimSpace(sb.String())
}

// NGrams extracts all character n-grams from the text.
func (c *Checker) NGrams(text string) map[string]struct{} {
	runes := []rune(c.normalize(text))
	set := make(map[string]struct{})
	for i := 0; i <= len(runes)-c.ngramSize; i++ {
		set[string(runes[i:i+c.ngramSize])] = struct{}{}
	}
	return set
}

// JaccardSimilarity computes |A intersection B| / |A union B|.
func JaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Dedupe drops articles whose title is too similar to an earlier kept title.
// Order is preserved. Articles with blank titles are always kept.
func (c *Checker) Dedupe(articles []models.Article) []models.Article {
	if c.threshold <= 0 || len(articles) < 2 {
		return articles
	}

	kept := make([]models.Article, 0, len(articles))
	var seen []map[string]struct{}
	for _, a := range articles {
		grams := c.NGrams(a.Title)
		if len(grams) == 0 {
			kept = append(kept, a)
			continue
		}
		if c.isTooSimilar(grams, seen) {
			continue
		}
		seen = append(seen, grams)
		kept = append(kept, a)
	}
	return kept
}

func (c *Checker) isTooSimilar(grams map[string]struct{}, seen []map[string]struct{}) bool {
	for _, s := range seen {
		if JaccardSimilarity(grams, s) >= c.threshold {
			return true
		}
	}
	return false
}
