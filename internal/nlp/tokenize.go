package nlp

import (
	"strings"
	"unicode"
)

// contractionSuffixes are split off a word the way Treebank tokenizers do ("company's" -> "company", "'s").
var contractionSuffixes = []string{"n't", "'s", "'re", "'ve", "'ll", "'d", "'m"}

// Words splits one sentence into word and punctuation tokens. A period is
// split off only at the end of the sentence, so "Inc." and "e.g." inside it
// stay whole.
func Words(text string) []string {
	var tokens []string
	text = strings.ReplaceAll(text, "’", "'")
	fields := strings.Fields(text)
	for i, field := range fields {
		tokens = append(tokens, splitField(field, i == len(fields)-1)...)
	}
	return tokens
}

func splitField(field string, last bool) []string {
	runes := []rune(field)

	start := 0
	var lead []string
	for start < len(runes) && isPunct(runes[start]) {
		lead = append(lead, string(runes[start]))
		start++
	}

	end := len(runes)
	var trail []string
	for end > start && isPunct(runes[end-1]) {
		if runes[end-1] == '.' && !last {
			break
		}
		trail = append([]string{string(runes[end-1])}, trail...)
		end--
	}

	tokens := lead
	if core := string(runes[start:end]); core != "" {
		tokens = append(tokens, splitContraction(core)...)
	}
	return append(tokens, trail...)
}

func splitContraction(word string) []string {
	lower := strings.ToLower(word)
	for _, suffix := range contractionSuffixes {
		if len(lower) > len(suffix) && strings.HasSuffix(lower, suffix) {
			cut := len(word) - len(suffix)
			return []string{word[:cut], word[cut:]}
		}
	}
	return []string{word}
}

func isPunct(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// IsAlnum reports whether s is non-empty and made only of letters and digits.
func IsAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
