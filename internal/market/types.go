package market

// Quote is a point-in-time USD snapshot for one asset. Values are replaced
// wholesale on refresh, never patched.
type Quote struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	Image                    string  `json:"image"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	TotalVolume              float64 `json:"total_volume"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
}

type Listing struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// SyntheticListing is not listed upstream and always heads the coin list.
var SyntheticListing = Listing{
	ID:     "richquack",
	Name:   "RichQuack",
	Symbol: "QUACK",
}
