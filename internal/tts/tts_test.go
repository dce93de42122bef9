package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	assert.Empty(t, Chunk("   ", 10))
	assert.Equal(t, []string{"one two", "three"}, Chunk("one two three", 8))
	assert.Equal(t, []string{"abcde", "fgh x"}, Chunk("abcdefgh x", 5))

	long := strings.Repeat("सकारात्मक ", 40)
	for _, c := range Chunk(long, 100) {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 100)
	}
}

func TestSynthesizeConcatenatesChunks(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "hi", q.Get("tl"))
		assert.Equal(t, "tw-ob", q.Get("client"))
		seen = append(seen, q.Get("q"))
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("[" + q.Get("idx") + "]"))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	text := strings.Repeat("word ", 30) // 149 runes
	audio, err := c.Synthesize(context.Background(), text, "hi")
	require.NoError(t, err)
	assert.Equal(t, "[0][1]", string(audio))
	assert.Len(t, seen, 2)
}

func TestSynthesizeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.Synthesize(context.Background(), "hello", "hi")
	assert.Error(t, err)

	_, err = c.Synthesize(context.Background(), "  ", "hi")
	assert.Error(t, err)
}
