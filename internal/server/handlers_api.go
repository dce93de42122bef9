package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thinkscotty/newscast/internal/database"
	"github.com/thinkscotty/newscast/internal/models"
	"github.com/thinkscotty/newscast/internal/pipeline"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// articleCount parses num_articles, applying the default and clamping to [1, max].
func (s *Server) articleCount(raw string) (int, error) {
	if raw == "" {
		return s.clampArticles(s.cfg.Source.DefaultArticles), nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.New("num_articles must be an integer")
	}
	return s.clampArticles(n), nil
}

func (s *Server) clampArticles(n int) int {
	return min(max(n, 1), max(s.cfg.Source.MaxArticles, 1))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	company := strings.TrimSpace(r.PathValue("company"))
	if company == "" {
		jsonError(w, "Company name is required", http.StatusBadRequest)
		return
	}

	n, err := s.articleCount(r.URL.Query().Get("num_articles"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), company, n)
	if err != nil {
		if errors.Is(err, pipeline.ErrNotFound) {
			jsonError(w, "No articles found for "+company, http.StatusNotFound)
			return
		}
		slog.Error("API: analysis failed", "company", company, "error", err)
		jsonError(w, "Internal server error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(w, result)
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	company := r.PathValue("company")

	clip, err := s.store.LatestClip(company)
	if err != nil {
		if !errors.Is(err, database.ErrNoClip) {
			slog.Error("API: failed to look up clip", "company", company, "error", err)
		}
		jsonError(w, "Audio file not found", http.StatusNotFound)
		return
	}

	f, err := os.Open(clip.Path)
	if err != nil {
		slog.Warn("API: clip file missing", "path", clip.Path, "error", err)
		jsonError(w, "Audio file not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		jsonError(w, "Audio file not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filepath.Base(clip.Path)))
	http.ServeContent(w, r, filepath.Base(clip.Path), info.ModTime(), f)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"status": "API is running"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	company := strings.TrimSpace(r.PathValue("company"))

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, maxHistoryLimit)
		}
	}

	reports, err := s.store.ListReports(company, limit)
	if err != nil {
		slog.Error("API: failed to list reports", "company", company, "error", err)
		jsonError(w, "Failed to list reports", http.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []models.ReportRecord{}
	}

	jsonResponse(w, map[string]any{"company": company, "reports": reports})
}

func jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
