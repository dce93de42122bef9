package config

import (
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Source   SourceConfig   `yaml:"source"`
	NLP      NLPConfig      `yaml:"nlp"`
	Narrator NarratorConfig `yaml:"narrator"`
	Janitor  JanitorConfig  `yaml:"janitor"`
	UI       UIConfig       `yaml:"ui"`
}

type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
	// APIKeyHash is a bcrypt hash; when set, the JSON API requires the key.
	APIKeyHash string `yaml:"api_key_hash"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type SourceConfig struct {
	Kind            string        `yaml:"kind"` // "newsapi", "rss" or "search"
	MaxArticles     int           `yaml:"max_articles"`
	DefaultArticles int           `yaml:"default_articles"`
	TimeoutSeconds  int           `yaml:"timeout_seconds"`
	DedupThreshold  float64       `yaml:"dedup_threshold"`
	NewsAPI         NewsAPIConfig `yaml:"newsapi"`
	RSS             RSSConfig     `yaml:"rss"`
	Search          SearchConfig  `yaml:"search"`
}

type NewsAPIConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

type RSSConfig struct {
	URLTemplate string `yaml:"url_template"`
}

type SearchConfig struct {
	URLTemplate  string `yaml:"url_template"`
	LinkSelector string `yaml:"link_selector"`
	UserAgent    string `yaml:"user_agent"`
}

type NLPConfig struct {
	SummarySentences int `yaml:"summary_sentences"`
}

type NarratorConfig struct {
	Language                string `yaml:"language"`
	AudioDir                string `yaml:"audio_dir"`
	TranslateURL            string `yaml:"translate_url"`
	TTSURL                  string `yaml:"tts_url"`
	TranslateTimeoutSeconds int    `yaml:"translate_timeout_seconds"`
	TTSTimeoutSeconds       int    `yaml:"tts_timeout_seconds"`
}

type JanitorConfig struct {
	Schedule       string `yaml:"schedule"`
	RetentionHours int    `yaml:"retention_hours"`
}

type UIConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIURL  string `yaml:"api_url"` // empty means this server
	APIKey  string `yaml:"api_key"`
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                7860,
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 120,
		},
		Database: DatabaseConfig{
			Path: "./newscast.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Source: SourceConfig{
			Kind:            "newsapi",
			MaxArticles:     15,
			DefaultArticles: 10,
			TimeoutSeconds:  10,
			DedupThreshold:  0.85,
			NewsAPI: NewsAPIConfig{
				BaseURL:   "https://newsapi.org",
				APIKeyEnv: "NEWSAPI_KEY",
			},
			RSS: RSSConfig{
				URLTemplate: "https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en",
			},
			Search: SearchConfig{
				URLTemplate:  "https://www.bing.com/news/search?q=%s",
				LinkSelector: "a.title",
				UserAgent:    "Mozilla/5.0",
			},
		},
		NLP: NLPConfig{
			SummarySentences: 2,
		},
		Narrator: NarratorConfig{
			Language:                "hi",
			AudioDir:                os.TempDir(),
			TranslateURL:            "https://translate.googleapis.com/translate_a/single",
			TTSURL:                  "https://translate.google.com/translate_tts",
			TranslateTimeoutSeconds: 10,
			TTSTimeoutSeconds:       30,
		},
		Janitor: JanitorConfig{
			Schedule:       "@hourly",
			RetentionHours: 24,
		},
		UI: UIConfig{
			Enabled: true,
		},
	}
}

// Load reads a YAML config file and merges it over defaults.
// If the file does not exist, defaults are returned without error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("No config file found, using defaults", "path", path)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SlogLevel maps the configured level name onto a slog level.
func (c LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
