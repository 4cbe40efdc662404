package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
)

// Preview describes what a broadcast run would do.
type Preview struct {
	Groups   []string
	Markdown string // message converted to markdown
	Delays   [3]time.Duration
	Width    int
	Style    string // glamour style, "dark" when empty
}

// RenderPreview writes the group list, the delays and the rendered message.
func RenderPreview(w io.Writer, p Preview) error {
	width := p.Width
	if width < 20 {
		width = 80
	}
	style := p.Style
	if style == "" {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	body, err := r.Render(p.Markdown)
	if err != nil {
		return fmt.Errorf("render message: %w", err)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Groups"))
	b.WriteString("\n")
	for i, g := range p.Groups {
		b.WriteString(indexStyle.Render(fmt.Sprintf("%3d ", i+1)))
		if g == "" {
			b.WriteString(skippedStyle.Render("(blank, skipped)"))
		} else {
			b.WriteString(groupStyle.Render(g))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Schedule"))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(fmt.Sprintf(
		"%s between messages, %s between joins, %s between cycles",
		p.Delays[0], p.Delays[1], p.Delays[2],
	)))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render("Message"))
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(body, "\n "))
	b.WriteString("\n")

	_, err = io.WriteString(w, b.String())
	return err
}
