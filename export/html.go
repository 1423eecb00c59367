// ABOUTME: Renders a speaker handout as a standalone HTML page from the Markdown outline via goldmark.
// ABOUTME: Raw HTML in slide text is not passed through; goldmark's default renderer omits it.
package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/2389-research/deckforge/deck"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var handoutPage = template.Must(template.New("handout").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: {{.Font}}, sans-serif; max-width: 52rem; margin: 2rem auto; color: #{{.Dark}}; }
h1, h2, h3 { color: #{{.Primary}}; }
pre { background: #{{.CodeBackground}}; color: #{{.CodeForeground}}; padding: 1rem; overflow-x: auto; }
blockquote { border-left: 4px solid #{{.Primary}}; margin-left: 0; padding-left: 1rem; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// HandoutStyle supplies the colors and font of the handout page.
type HandoutStyle struct {
	Font           string
	Primary        deck.RGB
	Dark           deck.RGB
	CodeBackground deck.RGB
	CodeForeground deck.RGB
}

// HTML converts the Markdown outline of p into a styled handout page.
func HTML(p *deck.Presentation, style HandoutStyle) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(p)), &body); err != nil {
		return "", fmt.Errorf("convert outline: %w", err)
	}

	title := p.Title
	if title == "" {
		title = "Untitled deck"
	}
	font := style.Font
	if font == "" {
		font = "Calibri"
	}

	var page bytes.Buffer
	err := handoutPage.Execute(&page, struct {
		Title          string
		Font           string
		Primary        string
		Dark           string
		CodeBackground string
		CodeForeground string
		Body           template.HTML
	}{
		Title:          title,
		Font:           font,
		Primary:        style.Primary.Hex(),
		Dark:           style.Dark.Hex(),
		CodeBackground: style.CodeBackground.Hex(),
		CodeForeground: style.CodeForeground.Hex(),
		Body:           template.HTML(body.String()),
	})
	if err != nil {
		return "", fmt.Errorf("render handout: %w", err)
	}
	return page.String(), nil
}
