package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/netscope/pkg/model"
)

// truncateRunesHelper truncates a string to max visual width (cells), adding suffix if needed.
// Uses go-runewidth to handle wide characters correctly.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	targetWidth := maxWidth - suffixWidth
	return runewidth.Truncate(s, targetWidth, "") + suffix
}

// padRight pads s with spaces to exactly width cells, truncating if longer.
func padRight(s string, width int) string {
	s = truncateRunesHelper(s, width, "…")
	if w := runewidth.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// formatZoom renders a zoom factor as a whole percentage.
func formatZoom(z float64) string {
	return fmt.Sprintf("%d%%", int(z*100+0.5))
}

// nodeOrder returns the distinct node IDs of g in document order. Tab cycles
// through this list.
func nodeOrder(g *model.Graph) []string {
	if g == nil {
		return nil
	}
	seen := make(map[string]bool, len(g.Nodes))
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		ids = append(ids, n.ID)
	}
	return ids
}

// cycle returns the ID after (or before, when step is negative) current,
// wrapping at both ends. An empty or unknown current starts at the first or
// last ID.
func cycle(ids []string, current string, step int) string {
	if len(ids) == 0 {
		return ""
	}
	for i, id := range ids {
		if id == current {
			return ids[((i+step)%len(ids)+len(ids))%len(ids)]
		}
	}
	if step < 0 {
		return ids[len(ids)-1]
	}
	return ids[0]
}
