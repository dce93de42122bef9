package server

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	newscast "github.com/thinkscotty/newscast"
	"github.com/thinkscotty/newscast/internal/client"
	"github.com/thinkscotty/newscast/internal/config"
	"github.com/thinkscotty/newscast/internal/models"
)

// Analyzer runs one analysis request.
type Analyzer interface {
	Analyze(ctx context.Context, company string, numArticles int) (*models.AnalysisResult, error)
}

// Store serves recorded clips and report history.
type Store interface {
	LatestClip(company string) (models.Clip, error)
	ListReports(company string, limit int) ([]models.ReportRecord, error)
}

type Server struct {
	cfg      config.Config
	analyzer Analyzer
	store    Store
	api      *client.Client
	version  string
	pages    map[string]*template.Template
	keyCache sync.Map // sha256(key) -> struct{}; keys already verified against the hash
	httpSrv  *http.Server
}

func New(cfg config.Config, analyzer Analyzer, store Store, version string) *Server {
	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		store:    store,
		version:  version,
	}
	if cfg.UI.Enabled {
		s.api = client.New(s.apiBaseURL(), cfg.UI.APIKey,
			time.Duration(cfg.Server.WriteTimeoutSeconds)*time.Second)
	}
	return s
}

// apiBaseURL is where the web UI sends API calls: the configured URL, or this server.
func (s *Server) apiBaseURL() string {
	if s.cfg.UI.APIURL != "" {
		return s.cfg.UI.APIURL
	}
	host := s.cfg.Server.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(s.cfg.Server.Port))
}

// Handler loads templates and returns the full middleware-wrapped router.
func (s *Server) Handler() (http.Handler, error) {
	if err := s.loadTemplates(); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	mux := http.NewServeMux()
	s.routes(mux)

	return recoveryMiddleware(requestIDMiddleware(loggingMiddleware(mux))), nil
}

// Start sets up routes and starts the HTTP server.
func (s *Server) Start() error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	slog.Info("Starting server", "addr", addr)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) routes(mux *http.ServeMux) {
	// JSON API. /analyze and /history need the API key when one is configured.
	mux.Handle("GET /analyze/{company}", s.requireAPIKey(http.HandlerFunc(s.handleAnalyze)))
	mux.Handle("GET /history/{company}", s.requireAPIKey(http.HandlerFunc(s.handleHistory)))
	mux.HandleFunc("GET /audio/{company}", s.handleAudio)
	mux.HandleFunc("GET /health", s.handleHealth)

	if !s.cfg.UI.Enabled {
		return
	}

	staticFS, _ := fs.Sub(newscast.StaticFS, "web/static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /report", s.handleReport)
}

func (s *Server) loadTemplates() error {
	funcMap := template.FuncMap{
		"timeAgo": func(t time.Time) string {
			if t.IsZero() {
				return "Never"
			}
			return humanize.Time(t)
		},
		"ordinal": humanize.Ordinal,
		"percent": func(n, total int) int {
			if total == 0 {
				return 0
			}
			return n * 100 / total
		},
		"lower": func(s models.Sentiment) string {
			return strings.ToLower(string(s))
		},
		"join": strings.Join,
		"inc":  func(i int) int { return i + 1 },
		"seq": func(from, to int) []int {
			var out []int
			for i := from; i <= to; i++ {
				out = append(out, i)
			}
			return out
		},
	}

	s.pages = make(map[string]*template.Template)

	for _, page := range []string{"index", "report"} {
		t, err := template.New("base.html").Funcs(funcMap).ParseFS(newscast.TemplateFS,
			"web/templates/layouts/base.html",
			"web/templates/partials/*.html",
			"web/templates/pages/"+page+".html",
		)
		if err != nil {
			return fmt.Errorf("parse template %s: %w", page, err)
		}
		s.pages[page] = t
	}
	return nil
}

// render executes a full page template.
func (s *Server) render(w http.ResponseWriter, page string, status int, data map[string]any) {
	tmpl, ok := s.pages[page]
	if !ok {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	data["Version"] = s.version
	data["MaxArticles"] = s.cfg.Source.MaxArticles
	data["DefaultArticles"] = s.cfg.Source.DefaultArticles

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		slog.Error("Template execution error", "page", page, "error", err)
	}
}
