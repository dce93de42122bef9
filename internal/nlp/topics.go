package nlp

import (
	"fmt"
	"sort"
	"strings"
)

const (
	maxTopics     = 3
	NoTopics      = "No Topics Identified"
	TopicsFailure = "Error in Topic Extraction"
)

// TopicExtractor picks the most frequent content words of a text.
type TopicExtractor struct {
	stopwords Stopwords
	splitter  SentenceSplitter
}

// NewTopicExtractor tokenizes each sentence found by splitter separately.
// A nil splitter treats the whole text as one sentence.
func NewTopicExtractor(stopwords Stopwords, splitter SentenceSplitter) *TopicExtractor {
	return &TopicExtractor{stopwords: stopwords, splitter: splitter}
}

// Extract returns up to three tokens by descending frequency, ties in order of
// first appearance. It never returns an empty slice. If sentence splitting
// fails the text is tokenized as a single sentence and the error is returned
// with the topics.
func (t *TopicExtractor) Extract(text string) (topics []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			topics, err = []string{TopicsFailure}, fmt.Errorf("topic extraction panic: %v", r)
		}
	}()

	sentences := []string{text}
	if t.splitter != nil {
		parts, splitErr := t.splitter.Split(text)
		if splitErr != nil {
			err = fmt.Errorf("split sentences: %w", splitErr)
		} else {
			sentences = parts
		}
	}

	counts := make(map[string]int)
	var order []string
	for _, sentence := range sentences {
		for _, tok := range Words(sentence) {
			if !IsAlnum(tok) {
				continue
			}
			word := strings.ToLower(tok)
			if t.stopwords.Contains(word) {
				continue
			}
			if counts[word] == 0 {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	if len(order) == 0 {
		return []string{NoTopics}, err
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxTopics {
		order = order[:maxTopics]
	}
	return order, err
}
