package providers

import (
	"strings"

	"github.com/z-marketing/zcoin/internal/config"
)

func NewFromConfig(cfg config.Config) MarketDataProvider {
	name := strings.TrimSpace(strings.ToLower(cfg.UpstreamProvider))

	switch name {
	case "", "coinmarketcap", "cmc":
		return NewCoinMarketCapProvider(cfg.UpstreamBaseURL, cfg.UpstreamAPIKey)
	case "coingecko":
		baseURL := cfg.UpstreamBaseURL
		if baseURL == "" {
			baseURL = CoinGeckoDefaultBaseURL("public")
		}
		return NewCoinGeckoProvider(baseURL, cfg.UpstreamAPIKey)
	case "coingecko-pro":
		baseURL := cfg.UpstreamBaseURL
		if baseURL == "" {
			baseURL = CoinGeckoDefaultBaseURL("pro")
		}
		return NewCoinGeckoProvider(baseURL, cfg.UpstreamAPIKey)
	default:
		return NewMissingProvider(name)
	}
}
