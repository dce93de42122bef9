package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/thinkscotty/newscast/internal/client"
	"github.com/thinkscotty/newscast/internal/models"
	"github.com/thinkscotty/newscast/internal/pipeline"
)

const uiHistoryLimit = 5

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index", http.StatusOK, map[string]any{
		"Title":       "Company news sentiment",
		"NumArticles": s.cfg.Source.DefaultArticles,
	})
}

// handleReport runs an analysis through the JSON API and renders the result.
// API failures are shown on the page rather than as an HTTP error.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	company := strings.TrimSpace(r.URL.Query().Get("company"))
	data := map[string]any{
		"Title":   "Report",
		"Company": company,
	}

	if company == "" {
		data["Error"] = "Please enter a company name."
		data["NumArticles"] = s.cfg.Source.DefaultArticles
		s.render(w, "index", http.StatusBadRequest, data)
		return
	}

	n, err := s.articleCount(r.URL.Query().Get("num_articles"))
	if err != nil {
		data["Error"] = "Number of articles must be a whole number."
		data["NumArticles"] = s.cfg.Source.DefaultArticles
		s.render(w, "index", http.StatusBadRequest, data)
		return
	}
	data["NumArticles"] = n

	ctx := client.WithRequestID(r.Context(), pipeline.RequestID(r.Context()))
	result, err := s.api.Analyze(ctx, company, n)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			data["Error"] = apiErr.Message
		} else {
			slog.Error("UI: API call failed", "company", company, "error", err)
			data["Error"] = "The analysis service could not be reached."
		}
		s.render(w, "report", http.StatusOK, data)
		return
	}

	data["Result"] = result
	data["AudioURL"] = s.audioURL(result.Audio)
	data["Total"] = len(result.Articles)
	data["Sentiments"] = models.Sentiments

	history, err := s.api.History(ctx, company, uiHistoryLimit+1)
	if err != nil {
		slog.Warn("UI: failed to load history", "company", company, "error", err)
	}
	// The first entry is the report just produced.
	if len(history) > 0 && history[0].RequestID == result.RequestID {
		history = history[1:]
	}
	if len(history) > uiHistoryLimit {
		history = history[:uiHistoryLimit]
	}
	data["History"] = history

	s.render(w, "report", http.StatusOK, data)
}

// audioURL makes an API audio path playable from the browser.
func (s *Server) audioURL(path string) string {
	if s.cfg.UI.APIURL == "" {
		return path
	}
	return strings.TrimRight(s.cfg.UI.APIURL, "/") + path
}
