// ABOUTME: Exports a Presentation as a deterministic Markdown outline with speaker notes.
// ABOUTME: One section per slide in display order; bullets, columns, fenced code, and a notes quote block.
package export

import (
	"fmt"
	"strings"

	"github.com/2389-research/deckforge/deck"
)

// Markdown renders the deck outline. Slides appear in display order.
func Markdown(p *deck.Presentation) string {
	var out strings.Builder

	title := p.Title
	if title == "" {
		title = "Untitled deck"
	}
	fmt.Fprintf(&out, "# %s\n", title)
	if p.Author != "" {
		fmt.Fprintln(&out)
		fmt.Fprintf(&out, "_%s_\n", p.Author)
	}

	for i, s := range p.Slides() {
		fmt.Fprintln(&out)
		fmt.Fprintf(&out, "## %d. %s\n", i+1, oneLine(s.TitleText()))

		switch l := s.Layout.(type) {
		case *deck.TitleLayout:
			if l.Subtitle != nil {
				fmt.Fprintln(&out)
				fmt.Fprintf(&out, "*%s*\n", oneLine(strings.Join(l.Subtitle.Texts(), " ")))
			}
			if l.Footer != nil {
				fmt.Fprintln(&out)
				fmt.Fprintln(&out, oneLine(strings.Join(l.Footer.Texts(), " ")))
			}
		case *deck.ContentLayout:
			writeBullets(&out, l.Body)
		case *deck.TwoColumnLayout:
			for _, col := range []deck.Column{l.Left, l.Right} {
				fmt.Fprintln(&out)
				fmt.Fprintf(&out, "### %s\n", oneLine(strings.Join(col.Heading.Texts(), " ")))
				writeBullets(&out, col.Body)
			}
		case *deck.CodeLayout:
			code := strings.Join(l.Panel.Foreground.Texts(), "\n")
			fence := "```"
			for strings.Contains(code, fence) {
				fence += "`"
			}
			fmt.Fprintln(&out)
			fmt.Fprintln(&out, fence)
			fmt.Fprintln(&out, code)
			fmt.Fprintln(&out, fence)
		}

		if s.HasNotes() {
			fmt.Fprintln(&out)
			fmt.Fprintln(&out, "> **Notes**")
			fmt.Fprintln(&out, ">")
			for _, line := range strings.Split(s.Notes, "\n") {
				if line == "" {
					fmt.Fprintln(&out, ">")
					continue
				}
				fmt.Fprintf(&out, "> %s  \n", line)
			}
		}
	}
	return out.String()
}

func writeBullets(out *strings.Builder, tb *deck.TextBox) {
	if tb == nil || len(tb.Paragraphs) == 0 {
		return
	}
	fmt.Fprintln(out)
	for _, text := range tb.Texts() {
		if strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(out, "- %s\n", oneLine(text))
	}
}

// oneLine collapses line breaks so a value stays inside one Markdown construct.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
