package widget

type Style struct {
	Background string
	Foreground string
	Accent     string
}

var (
	lightStyle = Style{Background: "#FFFFFF", Foreground: "#000000", Accent: "#4F46E5"}
	darkStyle  = Style{Background: "#1F2937", Foreground: "#FFFFFF", Accent: "#60A5FA"}
)

// ResolveStyle maps a theme name to colors. Only the custom theme reads the
// caller's accent and background.
func ResolveStyle(p Params) Style {
	switch p.Theme {
	case ThemeDark:
		return darkStyle
	case ThemeCustom:
		return Style{Background: p.Background, Foreground: "#000000", Accent: p.Accent}
	default:
		return lightStyle
	}
}
