package widget

import (
	_ "embed"
	"html/template"
	"io"

	"github.com/z-marketing/zcoin/internal/market"
)

const ErrorMessage = "Failed to load data. Please try again later."

//go:embed templates/widget.html.tmpl
var widgetHTML string

var widgetTemplate = template.Must(template.New("widget").Parse(widgetHTML))

// View is everything the widget page needs. A nil Card with Failed unset
// renders the loading skeleton.
type View struct {
	Params     Params
	Style      Style
	Card       *Card
	Failed     bool
	StreamPath string
}

func (v View) State() string {
	switch {
	case v.Failed:
		return "error"
	case v.Card != nil:
		return "loaded"
	default:
		return "loading"
	}
}

func (v View) ErrorMessage() string {
	return ErrorMessage
}

func LoadingView(p Params, streamPath string) View {
	return View{Params: p, Style: ResolveStyle(p), StreamPath: streamPath}
}

func LoadedView(p Params, q market.Quote, streamPath string) View {
	card := NewCard(q)
	return View{Params: p, Style: ResolveStyle(p), Card: &card, StreamPath: streamPath}
}

func ErrorView(p Params, streamPath string) View {
	return View{Params: p, Style: ResolveStyle(p), Failed: true, StreamPath: streamPath}
}

func Render(w io.Writer, v View) error {
	return widgetTemplate.Execute(w, v)
}
