// Package campus is the client for the upstream campus-card transactions
// API. It authenticates with a two-legged OAuth client-credentials exchange
// and fetches a calendar year of transactions in monthly windows.
package campus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/errgroup"

	"mensa/internal/core"
)

const defaultConcurrency = 4

// Config carries everything needed to talk to the upstream API.
type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	// Concurrency bounds the number of monthly windows fetched in parallel.
	Concurrency int
	Timeout     time.Duration
}

// Client fetches raw transactions. The embedded http.Client injects bearer
// tokens and refreshes them transparently (oauth2.TokenSource semantics).
type Client struct {
	httpClient  *http.Client
	baseURL     string
	concurrency int
}

// NewClient builds a client whose requests are authenticated via the
// client-credentials flow against cfg.TokenURL.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("campus: missing base URL")
	}
	if cfg.TokenURL == "" {
		return nil, errors.New("campus: missing token URL")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("campus: missing client credentials")
	}

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	credentials := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}

	// Both the token exchange and the API calls go through the same pooled
	// transport.
	base := &http.Client{
		Timeout:   timeout,
		Transport: newTransport(),
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	return &Client{
		httpClient:  credentials.Client(ctx),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		concurrency: concurrency,
	}, nil
}

// FetchYear retrieves all transactions whose pay time falls in the given
// calendar year (UTC+8 boundaries). Months are fetched concurrently, bounded
// by the configured concurrency, and merged back in month order.
func (c *Client) FetchYear(ctx context.Context, year int) ([]core.RawTransaction, error) {
	months := make([][]core.RawTransaction, 12)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for month := 1; month <= 12; month++ {
		g.Go(func() error {
			start := monthStart(year, month)
			end := monthStart(year, month+1)
			txs, err := c.fetchWindow(gctx, start, end)
			if err != nil {
				return fmt.Errorf("month %d: %w", month, err)
			}
			months[month-1] = txs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []core.RawTransaction
	for _, txs := range months {
		all = append(all, txs...)
	}
	return all, nil
}

// fetchWindow fetches the half-open window [start, end) of epoch seconds.
func (c *Client) fetchWindow(ctx context.Context, start, end int64) ([]core.RawTransaction, error) {
	query := url.Values{
		"start_time": {strconv.FormatInt(start, 10)},
		"end_time":   {strconv.FormatInt(end, 10)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/transactions?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request transactions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("upstream status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var txs []core.RawTransaction
	if err := json.NewDecoder(resp.Body).Decode(&txs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return txs, nil
}

// monthStart returns the epoch second at which the given month begins in the
// fixed UTC+8 civil timezone. month 13 rolls over to January of year+1.
func monthStart(year, month int) int64 {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Unix() - core.SecondsEastOfUTC
}

// newTransport mirrors the pooling and timeout settings we use for all
// outbound API traffic.
func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
}
