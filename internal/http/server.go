// Package http serves the rendered annual report.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	applog "mensa/internal/log"
)

// ReportGenerator produces the self-contained report document for one year.
type ReportGenerator interface {
	GenerateHTML(ctx context.Context, year int) ([]byte, error)
}

type Server struct {
	http.Server
	reports     ReportGenerator
	defaultYear int

	// Rendered documents cached per year: one report covers a whole year of
	// data, so a short TTL is plenty.
	cache *reportCache
}

func NewServer(addr string, reports ReportGenerator, defaultYear int) *Server {
	s := &Server{
		reports:     reports,
		defaultYear: defaultYear,
		cache:       newReportCache(10 * time.Minute),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleReport)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.Server = http.Server{
		Addr:           addr,
		Handler:        applog.RequestLogger(mux),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   90 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s
}

// reportCache is a small TTL cache of rendered documents keyed by year.
type reportCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[int]cachedReport
}

type cachedReport struct {
	html      []byte
	expiresAt time.Time
}

func newReportCache(ttl time.Duration) *reportCache {
	return &reportCache{
		ttl:   ttl,
		items: make(map[int]cachedReport),
	}
}

func (c *reportCache) Get(year int) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[year]
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		delete(c.items, year)
		return nil, false
	}
	return item.html, true
}

func (c *reportCache) Set(year int, html []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[year] = cachedReport{
		html:      html,
		expiresAt: time.Now().Add(c.ttl),
	}
}
