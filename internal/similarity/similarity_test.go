package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thinkscotty/newscast/internal/models"
)

func TestNGrams(t *testing.T) {
	c := New(0.8, 3)
	grams := c.NGrams("Ab-C!")
	assert.Equal(t, map[string]struct{}{"ab ": {}, "b c": {}}, grams)
	assert.Empty(t, c.NGrams("ab"))
}

func TestJaccardSimilarity(t *testing.T) {
	a := map[string]struct{}{"x": {}, "y": {}}
	b := map[string]struct{}{"y": {}, "z": {}}
	assert.InDelta(t, 1.0/3.0, JaccardSimilarity(a, b), 1e-9)
	assert.Equal(t, 1.0, JaccardSimilarity(nil, nil))
	assert.Equal(t, 0.0, JaccardSimilarity(a, nil))
}

func TestDedupe(t *testing.T) {
	articles := []models.Article{
		{Title: "Tesla recalls 2 million vehicles over Autopilot", URL: "1"},
		{Title: "Tesla recalls 2 million vehicles over Autopilot - Reuters", URL: "2"},
		{Title: "Tesla opens factory in Mexico", URL: "3"},
		{Title: "", URL: "4"},
		{Title: "", URL: "5"},
	}

	got := New(0.8, 3).Dedupe(articles)

	var urls []string
	for _, a := range got {
		urls = append(urls, a.URL)
	}
	assert.Equal(t, []string{"1", "3", "4", "5"}, urls)
}

func TestDedupeDisabled(t *testing.T) {
	articles := []models.Article{{Title: "same"}, {Title: "same"}}
	assert.Len(t, New(0, 3).Dedupe(articles), 2)
}
