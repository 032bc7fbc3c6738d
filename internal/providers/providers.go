package providers

import (
	"context"

	"github.com/z-marketing/zcoin/internal/market"
)

// MarketDataProvider is the upstream REST API the cache proxies sit in front of.
type MarketDataProvider interface {
	Name() string
	FetchQuote(ctx context.Context, slug string) (market.Quote, error)
	FetchListings(ctx context.Context, limit int) ([]market.Listing, error)
}
