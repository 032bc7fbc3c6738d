package widget

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/z-marketing/zcoin/internal/market"
)

const (
	DefaultCoin   = "bitcoin"
	DefaultWidth  = 480
	DefaultHeight = 700
	MinWidth      = 300
	MaxWidth      = 800
)

type EmbedRequest struct {
	Params
	Width  int
	Height int
}

type Embed struct {
	URL    string `json:"url"`
	IFrame string `json:"iframe"`
}

func ParseEmbedRequest(q url.Values) EmbedRequest {
	coin := strings.TrimSpace(q.Get("coin"))
	if coin == "" {
		coin = DefaultCoin
	}
	req := EmbedRequest{
		Params: ParseParams(coin, q),
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
	if w, err := strconv.Atoi(strings.TrimSpace(q.Get("width"))); err == nil {
		req.Width = clamp(w, MinWidth, MaxWidth)
	}
	if h, err := strconv.Atoi(strings.TrimSpace(q.Get("height"))); err == nil && h > 0 {
		req.Height = h
	}
	return req
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WidgetPath is the page path for coin, without a query.
func WidgetPath(coin string) string {
	return "/widget/" + url.PathEscape(coin)
}

// StreamPath is the websocket path serving live updates for coin.
func StreamPath(coin string) string {
	return WidgetPath(coin) + "/stream"
}

// BuildEmbed returns the widget URL under origin and a ready-to-paste iframe tag.
func BuildEmbed(origin string, req EmbedRequest) Embed {
	src := strings.TrimRight(origin, "/") + WidgetPath(req.Coin) + "?" + req.RawQuery()
	iframe := fmt.Sprintf("<iframe\n  width=\"%d\"\n  height=\"%d\"\n  frameborder=\"0\"\n  src=\"%s\"\n></iframe>", req.Width, req.Height, src)
	return Embed{URL: src, IFrame: iframe}
}

// FilterListings keeps entries whose name, symbol or id contains query,
// ignoring case. An empty query keeps everything.
func FilterListings(listings []market.Listing, query string) []market.Listing {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]market.Listing, 0, len(listings))
	for _, l := range listings {
		if query == "" ||
			strings.Contains(strings.ToLower(l.Name), query) ||
			strings.Contains(strings.ToLower(l.Symbol), query) ||
			strings.Contains(strings.ToLower(l.ID), query) {
			out = append(out, l)
		}
	}
	return out
}
