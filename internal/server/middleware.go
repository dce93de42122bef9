package server

import (
	"crypto/sha256"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thinkscotty/newscast/internal/auth"
	"github.com/thinkscotty/newscast/internal/pipeline"
)

const requestIDHeader = "X-Request-ID"

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(sw, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start).String(),
			"request_id", pipeline.RequestID(r.Context()),
		)
	})
}

func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic recovered", "error", err, "path", r.URL.Path, "stack", string(debug.Stack()))
				jsonError(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags each request with a fresh id. Clip files are keyed
// by it, so an incoming X-Request-ID is only logged, never reused.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		if upstream := r.Header.Get(requestIDHeader); upstream != "" {
			slog.Debug("Upstream request id", "request_id", id, "upstream_id", upstream)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(pipeline.WithRequestID(r.Context(), id)))
	})
}

// requireAPIKey checks for a valid API key via Bearer token or query parameter.
// It is a no-op when no key hash is configured.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hash := s.cfg.Server.APIKeyHash
		if hash == "" {
			next.ServeHTTP(w, r)
			return
		}

		var providedKey string
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			providedKey = strings.TrimPrefix(h, "Bearer ")
		}
		if providedKey == "" {
			providedKey = r.URL.Query().Get("api_key")
		}

		if providedKey == "" {
			jsonError(w, "API key required", http.StatusUnauthorized)
			return
		}

		sum := sha256.Sum256([]byte(providedKey))
		if _, ok := s.keyCache.Load(sum); ok {
			next.ServeHTTP(w, r)
			return
		}

		if err := auth.CheckKey(providedKey, hash); err != nil {
			if !errors.Is(err, auth.ErrInvalidKey) {
				slog.Error("API key hash is malformed", "error", err)
				jsonError(w, "API key not configured", http.StatusInternalServerError)
				return
			}
			jsonError(w, "Invalid API key", http.StatusUnauthorized)
			return
		}
		s.keyCache.Store(sum, struct{}{})

		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
