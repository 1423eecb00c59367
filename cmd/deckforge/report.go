// ABOUTME: Lipgloss styles and renderers for the deckforge success report and error line.
// ABOUTME: Styles degrade to plain text when stdout is not a terminal.
package main

import (
	"fmt"
	"strings"

	"github.com/2389-research/deckforge/history"
	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(10)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// renderReport formats the path and slide count of a finished run.
func renderReport(res result) string {
	var b strings.Builder
	b.WriteString(successStyle.Render("Presentation saved to: "+res.Output) + "\n")
	row := func(label, value string) {
		b.WriteString("  " + labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("slides", fmt.Sprintf("%d", res.Slides))
	row("notes", fmt.Sprintf("%d", res.Notes))
	if res.BuildID != "" {
		row("build", res.BuildID)
	}
	for _, extra := range res.Extras {
		row("also", extra)
	}
	return b.String()
}

// renderServing announces the preview server address.
func renderServing(addr string, slides int) string {
	return successStyle.Render("Serving deck at: http://"+addr) + "\n" +
		"  " + labelStyle.Render("slides") + valueStyle.Render(fmt.Sprintf("%d", slides)) + "\n"
}

// renderHistory lists recorded builds, one per line.
func renderHistory(builds []history.Build) string {
	if len(builds) == 0 {
		return labelStyle.Render("no builds recorded") + "\n"
	}
	var b strings.Builder
	for _, build := range builds {
		b.WriteString(valueStyle.Render(build.BuildID.String()) + "  " +
			labelStyle.Render(build.CreatedAt.Format("2006-01-02 15:04")) + " " +
			fmt.Sprintf("%d slides  %s  %s", build.Slides, shortDigest(build.Digest), build.Output) + "\n")
	}
	return b.String()
}

// shortDigest abbreviates a hex digest for listings.
func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

// renderBuild shows one build and its slide index.
func renderBuild(build history.Build) string {
	var b strings.Builder
	b.WriteString(successStyle.Render(build.Title) + "\n")
	row := func(label, value string) {
		b.WriteString("  " + labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("build", build.BuildID.String())
	row("deck", build.DeckID)
	row("output", build.Output)
	row("sha256", build.Digest)
	row("created", build.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	for _, s := range build.Index {
		marker := " "
		if s.HasNotes {
			marker = "*"
		}
		b.WriteString(fmt.Sprintf("  %2d %s %-10s %s\n", s.Number, marker, s.Kind, s.Title))
	}
	return b.String()
}

func renderError(err error) string {
	return errorStyle.Render("error:") + " " + err.Error()
}
