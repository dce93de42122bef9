package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Hello, world!", []string{"Hello", ",", "world", "!"}},
		{"Tesla's shares don't fall.", []string{"Tesla", "'s", "shares", "do", "n't", "fall", "."}},
		{"Apple’s profit", []string{"Apple", "'s", "profit"}},
		{"($100)", []string{"(", "$", "100", ")"}},
		{"self-driving U.S.", []string{"self-driving", "U.S", "."}},
		{"Tesla Inc. signed, e.g. a deal.", []string{"Tesla", "Inc.", "signed", ",", "e.g.", "a", "deal", "."}},
		{"Acme Corp.) rose", []string{"Acme", "Corp.", ")", "rose"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.input))
		})
	}
}

func TestIsAlnum(t *testing.T) {
	assert.True(t, IsAlnum("abc123"))
	assert.True(t, IsAlnum("Über"))
	assert.False(t, IsAlnum(""))
	assert.False(t, IsAlnum("self-driving"))
	assert.False(t, IsAlnum("'s"))
}
