package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme holds the pre-built styles for the chrome. Styles are created once
// instead of per frame.
type Theme struct {
	Renderer *lipgloss.Renderer

	Header      lipgloss.Style
	PanelBorder lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Muted       lipgloss.Style
	Private     lipgloss.Style

	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	StatusInfo  lipgloss.Style
	StatusError lipgloss.Style
}

// DefaultTheme returns the adaptive theme used by the explorer.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{Renderer: r}

	t.Header = r.NewStyle().
		Background(ColorPrimary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0A0B0F"}).
		Bold(true).
		Padding(0, 1)

	t.PanelBorder = r.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ColorBorder).
		PaddingLeft(1)

	t.Label = r.NewStyle().Foreground(ColorSubtext).Width(10)
	t.Value = r.NewStyle().Foreground(ColorText)
	t.Muted = r.NewStyle().Foreground(ColorMuted)
	t.Private = r.NewStyle().Foreground(ColorPrivate)

	t.StatusBar = r.NewStyle().Background(ThemeBg("#1E1F29")).Foreground(ColorSubtext)
	t.StatusKey = r.NewStyle().Background(ColorPrimary).Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Padding(0, 1)
	t.StatusInfo = r.NewStyle().Foreground(ColorSuccess)
	t.StatusError = r.NewStyle().Foreground(ColorDanger).Bold(true)

	return t
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
