package campus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"mensa/internal/core"
)

const (
	testClientID     = "card-client"
	testClientSecret = "card-secret"
	testToken        = "test-access-token"
)

// newUpstream fakes the campus-card API: a client-credentials token endpoint
// plus a transactions endpoint that returns one record per requested month.
func newUpstream(t *testing.T, tokenCalls, dataCalls *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id, secret, ok := r.BasicAuth()
		if !ok {
			_ = r.ParseForm()
			id, secret = r.FormValue("client_id"), r.FormValue("client_secret")
		}
		if id != testClientID || secret != testClientSecret {
			http.Error(w, "invalid client", http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": testToken,
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		dataCalls.Add(1)
		if got := r.Header.Get("Authorization"); got != "Bearer "+testToken {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		start, err := strconv.ParseInt(r.URL.Query().Get("start_time"), 10, 64)
		if err != nil {
			http.Error(w, "bad start_time", http.StatusBadRequest)
			return
		}
		month := int(core.ShiftedTime(start).Month())

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]core.RawTransaction{
			{
				Merchant:  fmt.Sprintf("食堂%d", month),
				Amount:    -float64(month),
				OrderTime: start + 3600,
				PayTime:   start + 3600,
			},
		})
	})

	return httptest.NewServer(mux)
}

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:      baseURL,
		TokenURL:     baseURL + "/oauth/token",
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Concurrency:  3,
		Timeout:      5 * time.Second,
	}
}

func TestFetchYear(t *testing.T) {
	var tokenCalls, dataCalls atomic.Int32
	upstream := newUpstream(t, &tokenCalls, &dataCalls)
	defer upstream.Close()

	client, err := NewClient(context.Background(), testConfig(upstream.URL))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	txs, err := client.FetchYear(context.Background(), 2023)
	if err != nil {
		t.Fatalf("FetchYear returned error: %v", err)
	}

	if len(txs) != 12 {
		t.Fatalf("got %d transactions, want 12", len(txs))
	}
	if dataCalls.Load() != 12 {
		t.Errorf("data endpoint hit %d times, want 12", dataCalls.Load())
	}
	if tokenCalls.Load() == 0 {
		t.Error("token endpoint never hit")
	}

	// Windows merge back in month order regardless of fetch order.
	for i, tx := range txs {
		wantMerchant := fmt.Sprintf("食堂%d", i+1)
		if tx.Merchant != wantMerchant {
			t.Errorf("txs[%d].Merchant = %q, want %q", i, tx.Merchant, wantMerchant)
		}
		if month := int(core.ShiftedTime(tx.PayTime).Month()); month != i+1 {
			t.Errorf("txs[%d] pay time in month %d, want %d", i, month, i+1)
		}
	}
}

func TestFetchYearUpstreamError(t *testing.T) {
	var tokenCalls, dataCalls atomic.Int32
	upstream := newUpstream(t, &tokenCalls, &dataCalls)
	defer upstream.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			upstream.Config.Handler.ServeHTTP(w, r)
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer broken.Close()

	cfg := testConfig(broken.URL)
	cfg.TokenURL = upstream.URL + "/oauth/token"
	client, err := NewClient(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if _, err := client.FetchYear(context.Background(), 2023); err == nil {
		t.Fatal("expected error from failing upstream")
	}
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing base URL", cfg: Config{TokenURL: "http://t", ClientID: "a", ClientSecret: "b"}},
		{name: "missing token URL", cfg: Config{BaseURL: "http://b", ClientID: "a", ClientSecret: "b"}},
		{name: "missing client id", cfg: Config{BaseURL: "http://b", TokenURL: "http://t", ClientSecret: "b"}},
		{name: "missing client secret", cfg: Config{BaseURL: "http://b", TokenURL: "http://t", ClientID: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(context.Background(), tt.cfg); err == nil {
				t.Error("expected configuration error")
			}
		})
	}
}

func TestMonthStart(t *testing.T) {
	// January 1st 00:00 at UTC+8 is 16:00 UTC the previous day.
	start := monthStart(2023, 1)
	if got := core.ShiftedTime(start); got.Year() != 2023 || got.Month() != time.January || got.Day() != 1 || got.Hour() != 0 {
		t.Errorf("monthStart(2023, 1) shifted = %v, want 2023-01-01 00:00", got)
	}

	// Month 13 rolls over into January of the next year.
	if monthStart(2023, 13) != monthStart(2024, 1) {
		t.Error("monthStart(2023, 13) should equal monthStart(2024, 1)")
	}
}
