package nlp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSplitter struct {
	parts []string
	err   error
}

func (f fakeSplitter) Split(string) ([]string, error) {
	return f.parts, f.err
}

func TestSummarizeTruncates(t *testing.T) {
	s := NewSummarizer(fakeSplitter{parts: []string{"One.", "Two.", "Three."}}, 2)
	got, err := s.Summarize("One.  Two.\nThree.")
	require.NoError(t, err)
	assert.Equal(t, "One. Two.", got)
}

func TestSummarizeShortTextUnchanged(t *testing.T) {
	s := NewSummarizer(fakeSplitter{parts: []string{"One.", "Two."}}, 2)
	got, err := s.Summarize("One.   Two.")
	require.NoError(t, err)
	assert.Equal(t, "One.   Two.", got)
}

func TestSummarizeTokenizerFailure(t *testing.T) {
	s := NewSummarizer(fakeSplitter{err: errors.New("boom")}, 2)
	got, err := s.Summarize("Some text. More text. Even more.")
	assert.Error(t, err)
	assert.Equal(t, "Some text. More text. Even more.", got)
}

func TestSummarizeWithPunkt(t *testing.T) {
	splitter, err := NewPunktSplitter()
	require.NoError(t, err)
	s := NewSummarizer(splitter, 2)

	text := "Tesla reported record deliveries this quarter. Analysts were surprised by the numbers. The stock rose in early trading."
	got, err := s.Summarize(text)
	require.NoError(t, err)
	assert.Equal(t, "Tesla reported record deliveries this quarter. Analysts were surprised by the numbers.", got)

	again, err := s.Summarize(got)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestSummarizeIdempotentOnShortText(t *testing.T) {
	splitter, err := NewPunktSplitter()
	require.NoError(t, err)
	s := NewSummarizer(splitter, 2)

	for _, text := range []string{"", "One sentence only.", "First one. Second one."} {
		got, err := s.Summarize(text)
		require.NoError(t, err)
		assert.Equal(t, text, got)
	}
}
