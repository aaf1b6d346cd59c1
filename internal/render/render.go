// Package render turns a selected variant into a standalone HTML creative.
// Pure string substitution; no campaign or signal logic lives here.
package render

import (
	"html/template"
	"strings"

	"ad-decision-engine/internal/decision"
)

// Names lists the available template names.
var Names = []string{"default", "minimal", "hero", "split", "banner"}

var templates = template.Must(template.New("default").Parse(tmplDefault))

func init() {
	template.Must(templates.New("minimal").Parse(tmplMinimal))
	template.Must(templates.New("hero").Parse(tmplHero))
	template.Must(templates.New("split").Parse(tmplSplit))
	template.Must(templates.New("banner").Parse(tmplBanner))
}

// Params sizes the creative and carries the click-through URL.
type Params struct {
	Width    int
	Height   int
	ClickURL string
}

type data struct {
	Headline string
	BodyText string
	CTAText  string
	ClickURL string
	ImageURL string
	Width    int
	Height   int
}

// Ad renders the variant with the named template. Unknown names fall back
// to the default template.
func Ad(v decision.Variant, name string, p Params) (string, error) {
	if p.Width <= 0 {
		p.Width = 400
	}
	if p.Height <= 0 {
		p.Height = 300
	}
	if templates.Lookup(name) == nil {
		name = "default"
	}

	var b strings.Builder
	err := templates.ExecuteTemplate(&b, name, data{
		Headline: v.Headline,
		BodyText: v.BodyText,
		CTAText:  v.CTAText,
		ClickURL: p.ClickURL,
		ImageURL: v.ImageURL,
		Width:    p.Width,
		Height:   p.Height,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
