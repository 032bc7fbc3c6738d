package widget

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/z-marketing/zcoin/internal/market"
)

var printer = message.NewPrinter(language.English)

func invalid(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// FormatPrice renders a USD price with precision that adapts to magnitude:
// exponential below 1e-5, eight decimals below 1, grouped cents otherwise.
func FormatPrice(price float64) string {
	if invalid(price) || price <= 0 {
		return "$0"
	}
	if price < 0.00001 {
		return exponential(price)
	}
	if price < 1 {
		return "$" + decimal.NewFromFloat(price).StringFixed(8)
	}
	return "$" + printer.Sprint(number.Decimal(price, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// exponential renders 1e-7 as "1.00×10⁻7".
func exponential(v float64) string {
	s := strconv.FormatFloat(v, 'e', 2, 64)
	mantissa, exp, ok := strings.Cut(s, "e-")
	if !ok {
		return s
	}
	exp = strings.TrimLeft(exp, "0")
	return mantissa + "×10⁻" + exp
}

// FormatLargeNumber abbreviates market cap and volume figures.
func FormatLargeNumber(v float64) string {
	if v == 0 || invalid(v) {
		return "$0"
	}
	switch {
	case v >= 1e12:
		return "$" + decimal.NewFromFloat(v/1e12).StringFixed(3) + "T"
	case v >= 1e9:
		return "$" + decimal.NewFromFloat(v/1e9).StringFixed(3) + "B"
	case v >= 1e6:
		return "$" + decimal.NewFromFloat(v/1e6).StringFixed(3) + "M"
	}
	return "$" + printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatChange returns the magnitude of a 24h percent change with two
// decimals and whether the change is strictly positive.
func FormatChange(pct float64) (string, bool) {
	if invalid(pct) {
		return "0.00", false
	}
	return decimal.NewFromFloat(math.Abs(pct)).StringFixed(2), pct > 0
}

// Card is a quote with every display field already formatted.
type Card struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	Image     string `json:"image"`
	Price     string `json:"price"`
	MarketCap string `json:"market_cap"`
	Volume    string `json:"volume"`
	Change    string `json:"change"`
	ChangeUp  bool   `json:"change_up"`
}

func NewCard(q market.Quote) Card {
	change, up := FormatChange(q.PriceChangePercentage24h)
	return Card{
		ID:        q.ID,
		Name:      q.Name,
		Symbol:    strings.ToUpper(q.Symbol),
		Image:     q.Image,
		Price:     FormatPrice(q.CurrentPrice),
		MarketCap: FormatLargeNumber(q.MarketCap),
		Volume:    FormatLargeNumber(q.TotalVolume),
		Change:    change,
		ChangeUp:  up,
	}
}
