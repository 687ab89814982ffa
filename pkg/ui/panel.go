package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/netscope/pkg/model"
	"github.com/vanderheijden86/netscope/pkg/style"
)

// hiddenValue replaces detail values of private nodes in personal view.
const hiddenValue = "hidden"

type detailRow struct {
	label, value string
}

// detailRows lists the kind-specific fields of a node.
func detailRows(d model.Details) []detailRow {
	switch d := d.(type) {
	case model.SelfDetails:
		return []detailRow{{"Balance", d.Balance}, {"Private", d.PrivateBalance}}
	case model.PoolDetails:
		return []detailRow{{"TVL", d.TVL}, {"Validators", fmt.Sprint(d.Validators)}}
	case model.ValidatorDetails:
		return []detailRow{{"Earnings", d.Earnings}, {"Uptime", d.Uptime}}
	case model.ClientDetails:
		return []detailRow{{"Jobs", fmt.Sprint(d.Jobs)}, {"Spent", d.Spent}}
	default:
		return nil
	}
}

// focusedNode returns the selected node, or the hovered one when nothing is
// selected.
func (m Model) focusedNode() (*model.Node, bool) {
	sel := m.ctrl.Selection()
	id := sel.Selected
	if id == "" {
		id = sel.Hovered
	}
	if id == "" {
		return nil, false
	}
	return m.ctrl.Graph().Node(id)
}

// renderPanel draws the side panel with the focused node's details, or a
// network overview when nothing is focused.
func (m Model) renderPanel(width, height int) string {
	inner := width - 2
	var lines []string
	add := func(s string) { lines = append(lines, s) }
	row := func(label, value string) {
		add(m.theme.Label.Render(padRight(label, 10)) + m.theme.Value.Render(truncateRunesHelper(value, inner-10, "…")))
	}

	mode := m.ctrl.ViewMode()
	if n, ok := m.focusedNode(); ok {
		masked := mode == model.ViewPersonal && n.IsPrivate && n.Kind != model.KindSelf
		connected := m.connected[n.ID]

		add(m.theme.Header.Render(padRight("Node", inner-2)))
		add("")
		swatch := m.theme.Renderer.NewStyle().Foreground(kindColor(n.Kind, connected, mode)).Render(kindGlyph(n.Kind))
		add(swatch + " " + m.theme.Value.Bold(true).Render(n.Kind.String()))
		add("")
		row("ID", n.ID)
		row("Label", style.DisplayLabel(*n, mode))
		for _, r := range detailRows(n.Details) {
			v := r.value
			if masked {
				v = hiddenValue
			}
			row(r.label, v)
		}
		row("Degree", fmt.Sprint(m.analyzer.Degree(n.ID)))
		if n.IsPrivate {
			add(m.theme.Private.Render("private"))
		}
		if m.ctrl.Selection().Selected == n.ID {
			add("")
			add(m.theme.Muted.Render("y copies the id"))
		}
	} else {
		add(m.theme.Header.Render(padRight("Network", inner-2)))
		add("")
		for _, k := range model.Kinds {
			row(k.String(), fmt.Sprint(m.stats.ByKind[k]))
		}
		row("Parts", fmt.Sprint(m.stats.Components))
		if m.stats.MaxDegreeNode != "" {
			row("Hub", fmt.Sprintf("%s (%d)", m.stats.MaxDegreeNode, m.stats.MaxDegree))
		}
		if m.stats.DanglingEdges > 0 {
			row("Dangling", fmt.Sprint(m.stats.DanglingEdges))
		}
		add("")
		add(m.theme.Muted.Render("Click a node or press tab"))
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return m.theme.PanelBorder.
		Width(inner).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

// renderStatusBar shows the layout, view and graph statistics on the left and
// the latest status message on the right.
func (m Model) renderStatusBar() string {
	s := m.stats
	algo := string(m.ctrl.Algorithm())
	if m.layoutBusy {
		algo = "computing " + string(m.pendingAlgo) + "…"
	}
	left := fmt.Sprintf(" %s │ %s │ %d nodes · %d edges · %d private · density %.3f · avg deg %.2f │ zoom %s ",
		algo, m.ctrl.ViewMode(), s.Nodes, s.Edges, s.PrivateEdges, s.Density, s.AvgDegree,
		formatZoom(m.ctrl.Viewport().Zoom))
	key := m.theme.StatusKey.Render("netscope")

	msg := m.statusMsg
	msgStyle := m.theme.StatusInfo
	if m.statusIsError {
		msgStyle = m.theme.StatusError
	}

	avail := m.width - lipgloss.Width(key)
	left = truncateRunesHelper(left, avail, "…")
	right := ""
	if msg != "" {
		room := avail - lipgloss.Width(left) - 1
		if room > 3 {
			right = msgStyle.Render(truncateRunesHelper(msg, room, "…") + " ")
		}
	}
	gap := max(avail-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return key + m.theme.StatusBar.Render(left+strings.Repeat(" ", gap)) + right
}
