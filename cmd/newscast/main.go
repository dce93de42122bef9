package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/thinkscotty/newscast/internal/auth"
	"github.com/thinkscotty/newscast/internal/config"
	"github.com/thinkscotty/newscast/internal/database"
	"github.com/thinkscotty/newscast/internal/narrator"
	"github.com/thinkscotty/newscast/internal/nlp"
	"github.com/thinkscotty/newscast/internal/pipeline"
	"github.com/thinkscotty/newscast/internal/scheduler"
	"github.com/thinkscotty/newscast/internal/server"
	"github.com/thinkscotty/newscast/internal/similarity"
	"github.com/thinkscotty/newscast/internal/source"
	"github.com/thinkscotty/newscast/internal/translate"
	"github.com/thinkscotty/newscast/internal/tts"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	hashKey := flag.String("hash-key", "", "Print the bcrypt hash of an API key for server.api_key_hash and exit")
	genKey := flag.Bool("gen-key", false, "Generate a new API key, print it with its hash and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("newscast %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	if *genKey || *hashKey != "" {
		runKeyCommand(*hashKey, *genKey)
		os.Exit(0)
	}

	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to read .env file", "error", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Logging.SlogLevel()})))
	slog.Info("Starting newscast", "version", version, "source", cfg.Source.Kind, "language", cfg.Narrator.Language)

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Database initialized", "path", cfg.Database.Path)

	if err := os.MkdirAll(cfg.Narrator.AudioDir, 0o755); err != nil {
		slog.Error("Failed to create audio directory", "path", cfg.Narrator.AudioDir, "error", err)
		os.Exit(1)
	}

	src, err := source.New(cfg.Source)
	if err != nil {
		slog.Error("Failed to configure article source", "error", err)
		os.Exit(1)
	}

	// Models are loaded once and shared by every request.
	splitter, err := nlp.NewPunktSplitter()
	if err != nil {
		slog.Error("Failed to load sentence tokenizer", "error", err)
		os.Exit(1)
	}

	narr := narrator.New(
		translate.New(cfg.Narrator.TranslateURL, time.Duration(cfg.Narrator.TranslateTimeoutSeconds)*time.Second),
		tts.New(cfg.Narrator.TTSURL, time.Duration(cfg.Narrator.TTSTimeoutSeconds)*time.Second),
		cfg.Narrator.Language,
		cfg.Narrator.AudioDir,
	)

	pipe := pipeline.New(pipeline.Stages{
		Source:     src,
		Deduper:    similarity.New(cfg.Source.DedupThreshold, 3),
		Summarizer: nlp.NewSummarizer(splitter, cfg.NLP.SummarySentences),
		Scorer:     nlp.NewSentimentScorer(nlp.NewVader()),
		Topics:     nlp.NewTopicExtractor(nlp.EnglishStopwords(), splitter),
		Narrator:   narr,
		Store:      db,
	})

	janitor := scheduler.New(db, cfg.Janitor.Schedule, time.Duration(cfg.Janitor.RetentionHours)*time.Hour)
	srv := server.New(cfg, pipe, db, version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := janitor.Run(ctx); err != nil {
			slog.Error("Clip janitor failed", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func runKeyCommand(key string, generate bool) {
	if generate {
		var err error
		key, err = auth.GenerateKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Key generation failed: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("API key: %s\n", key)
	}

	hash, err := auth.HashKey(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hashing failed: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("server.api_key_hash: %q\n", hash)
}
