package narrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkscotty/newscast/internal/analysis"
	"github.com/thinkscotty/newscast/internal/models"
)

type fakeTranslator struct {
	err error
}

func (f fakeTranslator) Translate(_ context.Context, text, _, target string) (string, error) {
	if f.err != nil {
		return text, f.err
	}
	return "[" + target + "] " + text, nil
}

// fakeSynth renders text as bytes and fails for any text containing failOn.
type fakeSynth struct {
	failOn string
	calls  []string
}

func (f *fakeSynth) Synthesize(_ context.Context, text, lang string) ([]byte, error) {
	f.calls = append(f.calls, text)
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, errors.New("tts backend unavailable")
	}
	return []byte(lang + ":" + text), nil
}

func report() models.ComparativeReport {
	return analysis.Compare([]models.ProcessedArticle{
		{Sentiment: models.Positive}, {Sentiment: models.Positive}, {Sentiment: models.Negative},
	})
}

func TestCompose(t *testing.T) {
	n := New(fakeTranslator{}, &fakeSynth{}, "hi", t.TempDir())
	text, err := n.Compose(context.Background(), report(), "Tesla")
	require.NoError(t, err)
	assert.Equal(t, "Tesla की खबरों का विश्लेषण: सकारात्मक 2, नकारात्मक 1, तटस्थ 0। कवरेज में मुख्य अंतर: [hi] "+analysis.MostlyPositive, text)
}

func TestComposeTranslationFailureKeepsEnglish(t *testing.T) {
	n := New(fakeTranslator{err: errors.New("quota")}, &fakeSynth{}, "en", t.TempDir())
	text, err := n.Compose(context.Background(), report(), "Tesla")
	assert.Error(t, err)
	assert.Equal(t, "News analysis for Tesla: positive 2, negative 1, neutral 0. Main coverage difference: "+analysis.MostlyPositive, text)
}

func TestNarrateWritesClip(t *testing.T) {
	dir := t.TempDir()
	synth := &fakeSynth{}
	n := New(fakeTranslator{}, synth, "hi", dir)

	got, err := n.Narrate(context.Background(), report(), "Acme Corp", "req-1")
	require.NoError(t, err)
	assert.False(t, got.Fallback)
	assert.Equal(t, filepath.Join(dir, "audio_Acme_Corp_req-1.mp3"), got.Path)

	data, err := os.ReadFile(got.Path)
	require.NoError(t, err)
	assert.Equal(t, "hi:"+got.Text, string(data))
	assert.Equal(t, int64(len(data)), got.SizeBytes)
}

func TestNarrateFallsBackWhenSynthesisFails(t *testing.T) {
	dir := t.TempDir()
	synth := &fakeSynth{failOn: "Tesla"}
	n := New(fakeTranslator{}, synth, "hi", dir)

	got, err := n.Narrate(context.Background(), report(), "Tesla", "req-2")
	require.NoError(t, err)
	assert.True(t, got.Fallback)
	assert.Equal(t, templates["hi"].failure, got.Text)

	data, err := os.ReadFile(got.Path)
	require.NoError(t, err)
	assert.Equal(t, "hi:"+templates["hi"].failure, string(data))
	assert.Len(t, synth.calls, 2)
}

func TestNarrateFailsWhenFallbackFails(t *testing.T) {
	n := New(fakeTranslator{}, &fakeSynth{failOn: ":"}, "en", t.TempDir())
	_, err := n.Narrate(context.Background(), report(), "Tesla", "req-3")
	assert.Error(t, err)
}

func TestConcurrentRequestsGetDistinctClips(t *testing.T) {
	dir := t.TempDir()
	n := New(fakeTranslator{}, &fakeSynth{}, "en", dir)

	a, err := n.Narrate(context.Background(), report(), "Tesla", "req-a")
	require.NoError(t, err)
	b, err := n.Narrate(context.Background(), report(), "Tesla", "req-b")
	require.NoError(t, err)
	assert.NotEqual(t, a.Path, b.Path)
	assert.FileExists(t, a.Path)
	assert.FileExists(t, b.Path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temp files must not be left behind")
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "Acme_Corp", Slug("Acme Corp"))
	assert.Equal(t, "etcpasswd", Slug("../../etc/passwd"))
	assert.Equal(t, "unknown", Slug(" /.. "))
	assert.Equal(t, "टाटा_मोटर्स", Slug("टाटा मोटर्स"))
}
