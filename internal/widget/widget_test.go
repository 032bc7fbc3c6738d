package widget

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"github.com/z-marketing/zcoin/internal/market"
)

func TestParseParamsDefaults(t *testing.T) {
	t.Parallel()

	p := ParseParams("bitcoin", url.Values{})
	want := Params{Coin: "bitcoin", Theme: ThemeLight, Accent: "#4F46E5", Background: "#FFFFFF", Padding: 16}
	if p != want {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}

func TestParseParamsFallbacks(t *testing.T) {
	t.Parallel()

	q := url.Values{
		"theme":      {"neon"},
		"padding":    {"-4"},
		"responsive": {"yes"},
	}
	p := ParseParams("eth", q)
	if p.Theme != ThemeLight {
		t.Fatalf("expected unknown theme to fall back to light, got %q", p.Theme)
	}
	if p.Padding != DefaultPadding {
		t.Fatalf("expected invalid padding to fall back to 16, got %d", p.Padding)
	}
	if p.Responsive {
		t.Fatal("expected responsive only for the literal true")
	}

	p = ParseParams("eth", url.Values{"padding": {"abc"}})
	if p.Padding != DefaultPadding {
		t.Fatalf("expected non-numeric padding to fall back to 16, got %d", p.Padding)
	}
}

func TestResolveStyle(t *testing.T) {
	t.Parallel()

	custom := Params{Theme: ThemeCustom, Accent: "#FF0000", Background: "#00FF00"}
	cases := []struct {
		params Params
		want   Style
	}{
		{Params{Theme: ThemeLight}, Style{Background: "#FFFFFF", Foreground: "#000000", Accent: "#4F46E5"}},
		{Params{Theme: ThemeDark, Accent: "#FF0000"}, Style{Background: "#1F2937", Foreground: "#FFFFFF", Accent: "#60A5FA"}},
		{custom, Style{Background: "#00FF00", Foreground: "#000000", Accent: "#FF0000"}},
		{Params{Theme: "other"}, Style{Background: "#FFFFFF", Foreground: "#000000", Accent: "#4F46E5"}},
	}
	for _, tc := range cases {
		if got := ResolveStyle(tc.params); got != tc.want {
			t.Fatalf("theme %q: expected %+v, got %+v", tc.params.Theme, tc.want, got)
		}
	}
}

func TestRenderStates(t *testing.T) {
	t.Parallel()

	p := ParseParams("bitcoin", url.Values{"theme": {"dark"}, "padding": {"24"}})
	quote := market.Quote{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc", CurrentPrice: 45000.2, MarketCap: 1.5e12, TotalVolume: 2.3e9, PriceChangePercentage24h: -1.25}

	var loaded bytes.Buffer
	if err := Render(&loaded, LoadedView(p, quote, StreamPath("bitcoin"))); err != nil {
		t.Fatalf("render loaded: %v", err)
	}
	body := loaded.String()
	for _, want := range []string{"$45,000.20", "$1.500T", "$2.300B", "BTC", "1.25", "#1F2937", "padding: 24px", `id="loaded">`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in loaded widget", want)
		}
	}

	var failed bytes.Buffer
	if err := Render(&failed, ErrorView(p, StreamPath("bitcoin"))); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(failed.String(), ErrorMessage) || !strings.Contains(failed.String(), `id="error">`) {
		t.Fatal("expected visible error message in failed widget")
	}

	var loading bytes.Buffer
	if err := Render(&loading, LoadingView(p, StreamPath("bitcoin"))); err != nil {
		t.Fatalf("render loading: %v", err)
	}
	if !strings.Contains(loading.String(), `id="loading">`) {
		t.Fatal("expected visible loading skeleton")
	}
}

func TestViewState(t *testing.T) {
	t.Parallel()

	if got := (View{}).State(); got != "loading" {
		t.Fatalf("expected loading, got %q", got)
	}
	if got := (View{Card: &Card{}}).State(); got != "loaded" {
		t.Fatalf("expected loaded, got %q", got)
	}
	if got := (View{Card: &Card{}, Failed: true}).State(); got != "error" {
		t.Fatalf("expected error to win, got %q", got)
	}
}

func TestBuildEmbed(t *testing.T) {
	t.Parallel()

	req := ParseEmbedRequest(url.Values{
		"coin":       {"ethereum"},
		"theme":      {"custom"},
		"accent":     {"#FF0000"},
		"background": {"#000000"},
		"padding":    {"20"},
		"responsive": {"true"},
		"width":      {"1200"},
	})
	if req.Width != MaxWidth || req.Height != DefaultHeight {
		t.Fatalf("expected clamped width and default height, got %dx%d", req.Width, req.Height)
	}

	embed := BuildEmbed("https://widgets.example.com/", req)
	wantURL := "https://widgets.example.com/widget/ethereum?theme=custom&accent=%23FF0000&background=%23000000&padding=20&responsive=true"
	if embed.URL != wantURL {
		t.Fatalf("unexpected url:\n got  %s\n want %s", embed.URL, wantURL)
	}
	for _, want := range []string{`width="800"`, `height="700"`, `frameborder="0"`, `src="` + wantURL + `"`} {
		if !strings.Contains(embed.IFrame, want) {
			t.Fatalf("expected %s in iframe %q", want, embed.IFrame)
		}
	}
}

func TestParseEmbedRequestDefaults(t *testing.T) {
	t.Parallel()

	req := ParseEmbedRequest(url.Values{"width": {"120"}})
	if req.Coin != DefaultCoin {
		t.Fatalf("expected default coin bitcoin, got %q", req.Coin)
	}
	if req.Width != MinWidth {
		t.Fatalf("expected width clamped to %d, got %d", MinWidth, req.Width)
	}

	req = ParseEmbedRequest(url.Values{})
	if req.Width != DefaultWidth {
		t.Fatalf("expected default width %d, got %d", DefaultWidth, req.Width)
	}
}

func TestFilterListings(t *testing.T) {
	t.Parallel()

	listings := []market.Listing{
		market.SyntheticListing,
		{ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC"},
		{ID: "ethereum", Name: "Ethereum", Symbol: "ETH"},
	}

	if got := FilterListings(listings, ""); len(got) != 3 {
		t.Fatalf("expected all listings for empty query, got %d", len(got))
	}
	got := FilterListings(listings, "eth")
	if len(got) != 1 || got[0].ID != "ethereum" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
	got = FilterListings(listings, "QUACK")
	if len(got) != 1 || got[0] != market.SyntheticListing {
		t.Fatalf("expected symbol match ignoring case, got %+v", got)
	}
}
