package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "gtx", q.Get("client"))
		assert.Equal(t, "en", q.Get("sl"))
		assert.Equal(t, "hi", q.Get("tl"))
		assert.Equal(t, "Coverage is balanced. Really.", q.Get("q"))
		w.Write([]byte(`[[["कवरेज संतुलित है। ","Coverage is balanced. ",null,null,10],["सच में।","Really.",null,null,3]],null,"en"]`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	got, err := c.Translate(context.Background(), "Coverage is balanced. Really.", "en", "hi")
	require.NoError(t, err)
	assert.Equal(t, "कवरेज संतुलित है। सच में।", got)
}

func TestTranslateFailureReturnsOriginal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	got, err := c.Translate(context.Background(), "hello", "en", "hi")
	assert.Error(t, err)
	assert.Equal(t, "hello", got)
}

func TestTranslateSameLanguageSkipsRequest(t *testing.T) {
	c := New("http://127.0.0.1:0", time.Second)
	got, err := c.Translate(context.Background(), "hello", "en", "en")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestParseGTX(t *testing.T) {
	_, err := parseGTX([]byte(`{}`))
	assert.Error(t, err)
	_, err = parseGTX([]byte(`[]`))
	assert.Error(t, err)
	_, err = parseGTX([]byte(`[[]]`))
	assert.Error(t, err)
}
