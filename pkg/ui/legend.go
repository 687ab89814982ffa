package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/netscope/pkg/style"
)

// legendMarkdown describes the drawing conventions and lists every key
// binding.
func legendMarkdown(k keyMap) string {
	var b strings.Builder
	b.WriteString("# Legend\n\n")
	b.WriteString("| Mark | Meaning |\n|---|---|\n")
	rows := [][2]string{
		{"◉ blue", "You, with a soft glow"},
		{"● green", "Staking pools"},
		{"• lime", "Accounts connected to you (personal view)"},
		{"• grey", "Other accounts and validators"},
		{"━ blue", "Your own activity"},
		{"┄ purple", "Private transfers"},
		{"─ faint", "Public transfers"},
		{fmt.Sprintf("`%s`", style.PrivateEdgeMarker), "Your private transfer, amount hidden (personal view)"},
		{fmt.Sprintf("`%s`", style.MaskedLabel), "Private account label (personal view)"},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r[0], r[1])
	}

	b.WriteString("\n## Keys\n\n| Key | Action |\n|---|---|\n")
	for _, group := range k.FullHelp() {
		for _, kb := range group {
			h := kb.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
	b.WriteString("\nDrag to pan, scroll to zoom, click a node to select it.\n")
	return b.String()
}

// renderLegend renders the legend for a terminal of the given width. The raw
// markdown is returned when glamour cannot render it.
func renderLegend(k keyMap, width int) string {
	md := legendMarkdown(k)
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
