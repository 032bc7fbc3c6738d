package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/z-marketing/zcoin/internal/market"
)

const (
	coinGeckoPublicBaseURL = "https://api.coingecko.com/api/v3"
	coinGeckoProBaseURL    = "https://pro-api.coingecko.com/api/v3"
)

type CoinGeckoProvider struct {
	http       jsonClient
	vsCurrency string
}

type coinGeckoMarket struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	Image                    string   `json:"image"`
	CurrentPrice             *float64 `json:"current_price"`
	MarketCap                float64  `json:"market_cap"`
	TotalVolume              float64  `json:"total_volume"`
	PriceChangePercentage24h float64  `json:"price_change_percentage_24h"`
}

func NewCoinGeckoProvider(baseURL, apiKey string) *CoinGeckoProvider {
	resolvedBaseURL := strings.TrimRight(baseURL, "/")
	if resolvedBaseURL == "" {
		resolvedBaseURL = coinGeckoPublicBaseURL
	}

	header := "x-cg-demo-api-key"
	if strings.Contains(resolvedBaseURL, "pro-api.coingecko.com") {
		header = "x-cg-pro-api-key"
	}

	return &CoinGeckoProvider{
		http:       newJSONClient("coingecko", resolvedBaseURL, apiKey, header),
		vsCurrency: "usd",
	}
}

func (p *CoinGeckoProvider) Name() string {
	return "coingecko"
}

func (p *CoinGeckoProvider) FetchQuote(ctx context.Context, slug string) (market.Quote, error) {
	id := normalizeID(slug)
	if id == "" {
		return market.Quote{}, fmt.Errorf("coingecko: slug is required")
	}

	query := url.Values{}
	query.Set("vs_currency", p.vsCurrency)
	query.Set("ids", id)

	var payload []coinGeckoMarket
	if err := p.http.getJSON(ctx, "/coins/markets", query, &payload); err != nil {
		return market.Quote{}, err
	}

	for _, row := range payload {
		if row.ID != id {
			continue
		}
		if row.CurrentPrice == nil {
			return market.Quote{}, fmt.Errorf("coingecko: quote for %q has no %s price", id, p.vsCurrency)
		}
		return market.Quote{
			ID:                       row.ID,
			Symbol:                   row.Symbol,
			Name:                     row.Name,
			Image:                    row.Image,
			CurrentPrice:             *row.CurrentPrice,
			MarketCap:                row.MarketCap,
			TotalVolume:              row.TotalVolume,
			PriceChangePercentage24h: row.PriceChangePercentage24h,
		}, nil
	}
	return market.Quote{}, fmt.Errorf("coingecko: no quote data for %q", id)
}

func (p *CoinGeckoProvider) FetchListings(ctx context.Context, limit int) ([]market.Listing, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("coingecko: limit must be positive")
	}

	query := url.Values{}
	query.Set("vs_currency", p.vsCurrency)
	query.Set("order", "market_cap_desc")
	query.Set("per_page", strconv.Itoa(limit))
	query.Set("page", "1")

	var payload []coinGeckoMarket
	if err := p.http.getJSON(ctx, "/coins/markets", query, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, fmt.Errorf("coingecko: listings response has no data")
	}

	listings := make([]market.Listing, 0, len(payload))
	for _, row := range payload {
		listings = append(listings, market.Listing{
			ID:     row.ID,
			Name:   row.Name,
			Symbol: strings.ToUpper(row.Symbol),
		})
	}
	return listings, nil
}

func normalizeID(id string) string {
	return strings.TrimSpace(strings.ToLower(id))
}

func CoinGeckoDefaultBaseURL(plan string) string {
	if strings.EqualFold(plan, "pro") {
		return coinGeckoProBaseURL
	}
	return coinGeckoPublicBaseURL
}
