package prices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/z-marketing/zcoin/internal/cache"
	"github.com/z-marketing/zcoin/internal/logger"
	"github.com/z-marketing/zcoin/internal/market"
	"github.com/z-marketing/zcoin/internal/providers"
	"github.com/z-marketing/zcoin/internal/telemetry"
)

const (
	listingsKey = "listings"

	DefaultQuoteTTL      = 30 * time.Second
	DefaultListingsTTL   = 300 * time.Second
	DefaultListingsLimit = 100
)

var ErrMissingSlug = errors.New("missing slug parameter")

// UpstreamError reports a failed provider call. Op is "quote" or "listings".
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

type Service struct {
	provider providers.MarketDataProvider
	quotes   *cache.TTL[market.Quote]
	listings *cache.TTL[[]market.Listing]
	limit    int
	log      *logger.Entry
}

type Option func(*Service)

func WithListingsLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

func WithLogger(log *logger.Log) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log.WithComponent("prices")
		}
	}
}

func NewService(provider providers.MarketDataProvider, quotes *cache.TTL[market.Quote], listings *cache.TTL[[]market.Listing], opts ...Option) *Service {
	s := &Service{
		provider: provider,
		quotes:   quotes,
		listings: listings,
		limit:    DefaultListingsLimit,
		log:      logger.GetLogger().WithComponent("prices"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote returns the quote for slug, from cache while the entry is younger
// than the quote TTL and from the provider otherwise.
func (s *Service) Quote(ctx context.Context, slug string) (market.Quote, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return market.Quote{}, ErrMissingSlug
	}

	if q, ok := s.quotes.Get(slug); ok {
		telemetry.CacheHit("quotes")
		return q, nil
	}
	telemetry.CacheMiss("quotes")

	start := time.Now()
	q, err := s.provider.FetchQuote(ctx, slug)
	if err != nil {
		telemetry.UpstreamError("quote")
		s.log.WithError(err).WithFields(logger.Fields{"slug": slug, "provider": s.provider.Name()}).Warn("quote fetch failed")
		return market.Quote{}, &UpstreamError{Op: "quote", Err: err}
	}
	logger.LogDuration(s.log, "fetch_quote", time.Since(start), logger.Fields{"slug": slug})

	s.quotes.Set(slug, q)
	return q, nil
}

// Listings returns the top listings with market.SyntheticListing first.
func (s *Service) Listings(ctx context.Context) ([]market.Listing, error) {
	if cached, ok := s.listings.Get(listingsKey); ok {
		telemetry.CacheHit("listings")
		return cloneListings(cached), nil
	}
	telemetry.CacheMiss("listings")

	start := time.Now()
	fetched, err := s.provider.FetchListings(ctx, s.limit)
	if err != nil {
		telemetry.UpstreamError("listings")
		s.log.WithError(err).WithFields(logger.Fields{"provider": s.provider.Name()}).Warn("listings fetch failed")
		return nil, &UpstreamError{Op: "listings", Err: err}
	}
	logger.LogDuration(s.log, "fetch_listings", time.Since(start), logger.Fields{"count": len(fetched)})

	listings := make([]market.Listing, 0, len(fetched)+1)
	listings = append(listings, market.SyntheticListing)
	listings = append(listings, fetched...)

	s.listings.Set(listingsKey, listings)
	return cloneListings(listings), nil
}

func cloneListings(in []market.Listing) []market.Listing {
	out := make([]market.Listing, len(in))
	copy(out, in)
	return out
}
