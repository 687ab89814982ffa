package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/netscope/pkg/model"
	"github.com/vanderheijden86/netscope/pkg/style"
)

// Layout of the screen, in cells.
const (
	panelWidth    = 34
	minPanelWidth = 90 // below this terminal width the side panel is hidden
	chromeRows    = 2  // status bar + help line
)

// Adaptive colours for the chrome around the canvas. The canvas itself uses
// the renderer's palette from package style.
var (
	ColorText    = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	ColorBorder  = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"}
	ColorBgBar   = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#1E1F29"}

	ColorPrimary = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#3B82F6"}
	ColorPrivate = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#8B5CF6"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#10B981"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
)

// kindColor returns the swatch colour for a node kind, matching the canvas.
func kindColor(k model.Kind, connected bool, mode model.ViewMode) lipgloss.TerminalColor {
	return ThemeFg(style.Hex(style.NodeFill(k, connected, mode)))
}

// kindGlyph is the marker drawn before a node in the side panel.
func kindGlyph(k model.Kind) string {
	switch k {
	case model.KindSelf:
		return "◉"
	case model.KindPool:
		return "●"
	default:
		return "•"
	}
}
