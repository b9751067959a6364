package output

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// Markdown renders md for the terminal, wrapped at width. Plain printers
// get the text back unchanged, as does any rendering failure.
func (p *Printer) Markdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" || p.plain {
		return md
	}
	if width < 20 {
		width = 20
	}

	cfg := styles.LightStyleConfig
	if p.r.HasDarkBackground() {
		cfg = styles.DarkStyleConfig
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStyles(cfg),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := tr.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
