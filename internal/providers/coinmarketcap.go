package providers

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/z-marketing/zcoin/internal/market"
)

const (
	coinMarketCapDefaultBaseURL = "https://pro-api.coinmarketcap.com/v1"
	coinMarketCapImageURL       = "https://s2.coinmarketcap.com/static/img/coins/64x64/%d.png"
	coinMarketCapAPIKeyHeader   = "X-CMC_PRO_API_KEY"
)

type CoinMarketCapProvider struct {
	http jsonClient
}

type cmcQuotesResponse struct {
	Data map[string]cmcAsset `json:"data"`
}

type cmcListingsResponse struct {
	Data []cmcAsset `json:"data"`
}

type cmcAsset struct {
	ID     int64                    `json:"id"`
	Name   string                   `json:"name"`
	Symbol string                   `json:"symbol"`
	Slug   string                   `json:"slug"`
	Quote  map[string]*cmcQuoteUnit `json:"quote"`
}

type cmcQuoteUnit struct {
	Price            float64 `json:"price"`
	Volume24h        float64 `json:"volume_24h"`
	PercentChange24h float64 `json:"percent_change_24h"`
	MarketCap        float64 `json:"market_cap"`
}

func NewCoinMarketCapProvider(baseURL, apiKey string) *CoinMarketCapProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = coinMarketCapDefaultBaseURL
	}
	return &CoinMarketCapProvider{
		http: newJSONClient("coinmarketcap", baseURL, apiKey, coinMarketCapAPIKeyHeader),
	}
}

func (p *CoinMarketCapProvider) Name() string {
	return "coinmarketcap"
}

func (p *CoinMarketCapProvider) FetchQuote(ctx context.Context, slug string) (market.Quote, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return market.Quote{}, fmt.Errorf("coinmarketcap: slug is required")
	}

	query := url.Values{}
	query.Set("slug", slug)

	var payload cmcQuotesResponse
	if err := p.http.getJSON(ctx, "/cryptocurrency/quotes/latest", query, &payload); err != nil {
		return market.Quote{}, err
	}

	asset, ok := pickQuoteAsset(payload.Data, slug)
	if !ok {
		return market.Quote{}, fmt.Errorf("coinmarketcap: no quote data for %q", slug)
	}
	usd := asset.Quote["USD"]
	if usd == nil {
		return market.Quote{}, fmt.Errorf("coinmarketcap: quote for %q has no USD entry", slug)
	}

	return market.Quote{
		ID:                       asset.Slug,
		Symbol:                   asset.Symbol,
		Name:                     asset.Name,
		Image:                    fmt.Sprintf(coinMarketCapImageURL, asset.ID),
		CurrentPrice:             usd.Price,
		MarketCap:                usd.MarketCap,
		TotalVolume:              usd.Volume24h,
		PriceChangePercentage24h: usd.PercentChange24h,
	}, nil
}

// pickQuoteAsset prefers the entry whose slug matches the request and
// otherwise falls back to the lowest numeric id so the choice is stable.
func pickQuoteAsset(data map[string]cmcAsset, slug string) (cmcAsset, bool) {
	if len(data) == 0 {
		return cmcAsset{}, false
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseInt(keys[i], 10, 64)
		b, errB := strconv.ParseInt(keys[j], 10, 64)
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})

	for _, k := range keys {
		if strings.EqualFold(data[k].Slug, slug) {
			return data[k], true
		}
	}
	return data[keys[0]], true
}

func (p *CoinMarketCapProvider) FetchListings(ctx context.Context, limit int) ([]market.Listing, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("coinmarketcap: limit must be positive")
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("sort", "market_cap")
	query.Set("sort_dir", "desc")

	var payload cmcListingsResponse
	if err := p.http.getJSON(ctx, "/cryptocurrency/listings/latest", query, &payload); err != nil {
		return nil, err
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("coinmarketcap: listings response has no data")
	}

	listings := make([]market.Listing, 0, len(payload.Data))
	for _, asset := range payload.Data {
		listings = append(listings, market.Listing{
			ID:     asset.Slug,
			Name:   asset.Name,
			Symbol: asset.Symbol,
		})
	}
	return listings, nil
}
