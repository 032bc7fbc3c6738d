package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/z-marketing/zcoin/internal/config"
)

func configFor(provider string) config.Config {
	return config.Config{UpstreamProvider: provider, UpstreamAPIKey: "key"}
}

func TestCoinGeckoProviderFetchQuote(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/markets" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("x-cg-demo-api-key"); got != "test-key" {
			t.Errorf("expected demo api key header test-key, got %q", got)
		}
		if got := r.URL.Query().Get("ids"); got != "bitcoin" {
			t.Errorf("expected ids query bitcoin, got %q", got)
		}
		if got := r.URL.Query().Get("vs_currency"); got != "usd" {
			t.Errorf("expected vs_currency usd, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","name":"Bitcoin","image":"https://img.example/btc.png","current_price":45000.2,"market_cap":1500000000000,"total_volume":2300000000,"price_change_percentage_24h":3.21}]`))
	}))
	defer ts.Close()

	p := NewCoinGeckoProvider(ts.URL, "test-key")
	q, err := p.FetchQuote(context.Background(), " Bitcoin ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if q.ID != "bitcoin" || q.Symbol != "btc" || q.Image != "https://img.example/btc.png" {
		t.Fatalf("unexpected quote: %+v", q)
	}
	if q.CurrentPrice != 45000.2 || q.PriceChangePercentage24h != 3.21 {
		t.Fatalf("unexpected numeric fields: %+v", q)
	}
}

func TestCoinGeckoProviderFetchQuote_MissingPrice(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"bitcoin","current_price":null}]`))
	}))
	defer ts.Close()

	p := NewCoinGeckoProvider(ts.URL, "test-key")
	_, err := p.FetchQuote(context.Background(), "bitcoin")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "no usd price") {
		t.Fatalf("expected missing price error, got %v", err)
	}
}

func TestCoinGeckoProviderFetchQuote_UnknownID(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	p := NewCoinGeckoProvider(ts.URL, "test-key")
	if _, err := p.FetchQuote(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown id, got nil")
	}
}

func TestCoinGeckoProviderFetchListings(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("order") != "market_cap_desc" || query.Get("per_page") != "25" || query.Get("page") != "1" {
			t.Errorf("unexpected listings query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","name":"Bitcoin"},{"id":"ethereum","symbol":"eth","name":"Ethereum"}]`))
	}))
	defer ts.Close()

	p := NewCoinGeckoProvider(ts.URL, "test-key")
	listings, err := p.FetchListings(context.Background(), 25)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}
	if listings[0].Symbol != "BTC" || listings[1].ID != "ethereum" {
		t.Fatalf("unexpected listings: %+v", listings)
	}
}

func TestCoinGeckoProviderProHeader(t *testing.T) {
	t.Parallel()

	p := NewCoinGeckoProvider(CoinGeckoDefaultBaseURL("pro"), "pro-key")
	if p.http.apiKeyHeader != "x-cg-pro-api-key" {
		t.Fatalf("expected pro header, got %q", p.http.apiKeyHeader)
	}
}

func TestMissingProviderFetch(t *testing.T) {
	t.Parallel()

	p := NewMissingProvider("mobula")
	_, err := p.FetchQuote(context.Background(), "bitcoin")
	if err == nil || !strings.Contains(err.Error(), `"mobula" not configured`) {
		t.Fatalf("expected not configured error, got %v", err)
	}
	if _, err := p.FetchListings(context.Background(), 10); err == nil {
		t.Fatal("expected listings error, got nil")
	}
}
