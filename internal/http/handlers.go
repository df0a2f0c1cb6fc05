package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mensa/internal/core"
)

// handleReport renders the annual report, by default for the configured year.
// A different year can be requested with ?year=.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	year := parseYear(r, s.defaultYear)

	if html, ok := s.cache.Get(year); ok {
		writeHTML(w, html)
		return
	}

	// Generating means a full upstream fetch; give it room.
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	html, err := s.reports.GenerateHTML(ctx, year)
	if err != nil {
		if errors.Is(err, core.ErrNoData) {
			http.Error(w, "no transactions recorded for this year", http.StatusNotFound)
			return
		}
		slog.ErrorContext(ctx, "Report generation failed", "year", year, "error", err)
		http.Error(w, "report generation failed", http.StatusBadGateway)
		return
	}

	s.cache.Set(year, html)
	writeHTML(w, html)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeHTML(w http.ResponseWriter, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(html)
}

// parseYear extracts the report year from query parameters, falling back to
// the default for missing or malformed values.
func parseYear(r *http.Request, defaultYear int) int {
	v := strings.TrimSpace(r.URL.Query().Get("year"))
	if v == "" {
		return defaultYear
	}
	year, err := strconv.Atoi(v)
	if err != nil || year < 2000 || year > 2100 {
		return defaultYear
	}
	return year
}
