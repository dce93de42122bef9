package nlp

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// SentenceSplitter breaks text into sentences.
type SentenceSplitter interface {
	Split(text string) ([]string, error)
}

// punktSplitter wraps the Punkt English model.
type punktSplitter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewPunktSplitter loads the bundled English Punkt model.
func NewPunktSplitter() (SentenceSplitter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load punkt model: %w", err)
	}
	return &punktSplitter{tokenizer: tokenizer}, nil
}

func (p *punktSplitter) Split(text string) (out []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("sentence tokenizer panic: %v", r)
		}
	}()

	for _, s := range p.tokenizer.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

// Summarizer produces extractive summaries from the leading sentences.
type Summarizer struct {
	splitter  SentenceSplitter
	sentences int
}

func NewSummarizer(splitter SentenceSplitter, sentences int) *Summarizer {
	if sentences <= 0 {
		sentences = 2
	}
	return &Summarizer{splitter: splitter, sentences: sentences}
}

// Summarize returns the first N sentences joined by spaces, or text unchanged
// when it has N or fewer. On tokenizer failure it returns text unchanged and the error.
func (s *Summarizer) Summarize(text string) (string, error) {
	parts, err := s.splitter.Split(text)
	if err != nil {
		return text, fmt.Errorf("summarize: %w", err)
	}
	if len(parts) <= s.sentences {
		return text, nil
	}
	return strings.Join(parts[:s.sentences], " "), nil
}
