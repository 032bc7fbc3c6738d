package providers

import (
	"context"
	"fmt"

	"github.com/z-marketing/zcoin/internal/market"
)

// MissingProvider stands in when the configured upstream name is unknown so
// the server still starts and reports every fetch as an upstream failure.
type MissingProvider struct {
	Requested string
}

func NewMissingProvider(requested string) MissingProvider {
	return MissingProvider{Requested: requested}
}

func (p MissingProvider) Name() string {
	return "missing"
}

func (p MissingProvider) FetchQuote(ctx context.Context, slug string) (market.Quote, error) {
	return market.Quote{}, fmt.Errorf("market data provider %q not configured", p.Requested)
}

func (p MissingProvider) FetchListings(ctx context.Context, limit int) ([]market.Listing, error) {
	return nil, fmt.Errorf("market data provider %q not configured", p.Requested)
}
