package narrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/thinkscotty/newscast/internal/models"
	"github.com/thinkscotty/newscast/internal/translate"
	"github.com/thinkscotty/newscast/internal/tts"
)

type phrases struct {
	status  string // company, positive, negative, neutral, coverage
	noData  string
	failure string
}

var templates = map[string]phrases{
	"hi": {
		status:  "%s की खबरों का विश्लेषण: सकारात्मक %d, नकारात्मक %d, तटस्थ %d। कवरेज में मुख्य अंतर: %s",
		noData:  "कोई डेटा उपलब्ध नहीं है।",
		failure: "त्रुटि: ऑडियो उत्पन्न नहीं हो सका।",
	},
	"en": {
		status:  "News analysis for %s: positive %d, negative %d, neutral %d. Main coverage difference: %s",
		noData:  "No data available.",
		failure: "Error: audio could not be generated.",
	},
}

// Narration describes a clip written to disk.
type Narration struct {
	Path      string
	Text      string
	SizeBytes int64
	// Fallback is set when the status text could not be synthesized and the
	// failure phrase was used instead.
	Fallback bool
}

type Narrator struct {
	translator translate.Translator
	synth      tts.Synthesizer
	lang       string
	audioDir   string
}

func New(translator translate.Translator, synth tts.Synthesizer, lang, audioDir string) *Narrator {
	return &Narrator{translator: translator, synth: synth, lang: lang, audioDir: audioDir}
}

func (n *Narrator) phrases() phrases {
	if p, ok := templates[n.lang]; ok {
		return p
	}
	return templates["en"]
}

// Compose builds the spoken status text. A translation failure leaves the
// coverage statement in English and is returned alongside the text.
func (n *Narrator) Compose(ctx context.Context, report models.ComparativeReport, company string) (string, error) {
	coverage, err := n.translator.Translate(ctx, report.Coverage(), "en", n.lang)
	if err != nil {
		coverage = report.Coverage()
		err = fmt.Errorf("translate coverage: %w", err)
	}

	dist := report.SentimentDistribution
	text := fmt.Sprintf(n.phrases().status,
		company, dist[models.Positive], dist[models.Negative], dist[models.Neutral], coverage)
	return text, err
}

// Narrate composes, synthesizes, and writes the clip for one request. If the
// status text cannot be synthesized, the failure phrase is synthesized instead.
// An error is returned only when no clip could be written.
func (n *Narrator) Narrate(ctx context.Context, report models.ComparativeReport, company, requestID string) (Narration, error) {
	text, err := n.Compose(ctx, report, company)
	if err != nil {
		slog.Warn("Translation failed, narrating coverage in English", "company", company, "error", err)
	}
	if strings.TrimSpace(text) == "" {
		text = n.phrases().noData
	}

	narration := Narration{Text: text}
	audio, err := n.synth.Synthesize(ctx, text, n.lang)
	if err != nil {
		slog.Error("Error generating TTS, using fallback phrase", "company", company, "error", err)
		narration.Fallback = true
		narration.Text = n.phrases().failure
		audio, err = n.synth.Synthesize(ctx, narration.Text, n.lang)
		if err != nil {
			return Narration{}, fmt.Errorf("synthesize fallback phrase: %w", err)
		}
	}

	path := ClipPath(n.audioDir, company, requestID)
	if err := writeFileAtomic(path, audio); err != nil {
		return Narration{}, fmt.Errorf("write clip: %w", err)
	}
	narration.Path = path
	narration.SizeBytes = int64(len(audio))

	slog.Info("TTS generated", "company", company, "path", path, "fallback", narration.Fallback)
	return narration, nil
}

// ClipPath returns the file for a request's clip. Clips are keyed by request
// so concurrent requests for one company never share a file.
func ClipPath(dir, company, requestID string) string {
	return filepath.Join(dir, fmt.Sprintf("audio_%s_%s.mp3", Slug(company), Slug(requestID)))
}

// Slug turns spaces into underscores and drops characters unsafe in file names.
func Slug(s string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "unknown"
	}
	return sb.String()
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".clip-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
