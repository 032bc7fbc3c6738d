package widget

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeCustom = "custom"

	DefaultAccent     = "#4F46E5"
	DefaultBackground = "#FFFFFF"
	DefaultPadding    = 16
)

// Params are the display options carried on a widget URL.
type Params struct {
	Coin       string
	Theme      string
	Accent     string
	Background string
	Padding    int
	Responsive bool
}

// ParseParams reads display options from q, falling back to defaults for
// anything missing or unusable.
func ParseParams(coin string, q url.Values) Params {
	p := Params{
		Coin:       strings.TrimSpace(coin),
		Theme:      ThemeLight,
		Accent:     DefaultAccent,
		Background: DefaultBackground,
		Padding:    DefaultPadding,
		Responsive: q.Get("responsive") == "true",
	}

	switch theme := strings.ToLower(strings.TrimSpace(q.Get("theme"))); theme {
	case ThemeLight, ThemeDark, ThemeCustom:
		p.Theme = theme
	}
	if accent := strings.TrimSpace(q.Get("accent")); accent != "" {
		p.Accent = accent
	}
	if background := strings.TrimSpace(q.Get("background")); background != "" {
		p.Background = background
	}
	if padding, err := strconv.Atoi(strings.TrimSpace(q.Get("padding"))); err == nil && padding > 0 {
		p.Padding = padding
	}
	return p
}

// RawQuery encodes the options in a fixed order: theme, accent, background,
// padding, responsive.
func (p Params) RawQuery() string {
	var b strings.Builder
	b.WriteString("theme=")
	b.WriteString(url.QueryEscape(p.Theme))
	b.WriteString("&accent=")
	b.WriteString(url.QueryEscape(p.Accent))
	b.WriteString("&background=")
	b.WriteString(url.QueryEscape(p.Background))
	b.WriteString("&padding=")
	b.WriteString(strconv.Itoa(p.Padding))
	b.WriteString("&responsive=")
	b.WriteString(strconv.FormatBool(p.Responsive))
	return b.String()
}
