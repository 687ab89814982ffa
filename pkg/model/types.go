// Package model defines the graph snapshot types shared by layout, rendering,
// hit-testing and the interactive hosts.
package model

import (
	"fmt"
	"strings"
)

// Kind identifies what a node represents in the network.
type Kind int

const (
	KindSelf Kind = iota
	KindPool
	KindValidator
	KindClient
)

// Kinds lists every node kind in display order (Self first).
var Kinds = []Kind{KindSelf, KindPool, KindValidator, KindClient}

func (k Kind) String() string {
	switch k {
	case KindSelf:
		return "you"
	case KindPool:
		return "pool"
	case KindValidator:
		return "validator"
	case KindClient:
		return "client"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Order returns the rank of the kind in display order. Unknown kinds sort last.
func (k Kind) Order() int {
	for i, kk := range Kinds {
		if kk == k {
			return i
		}
	}
	return len(Kinds)
}

// ParseKind accepts the wire names used by graph files.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "you", "self":
		return KindSelf, nil
	case "pool":
		return KindPool, nil
	case "validator":
		return KindValidator, nil
	case "client", "account":
		return KindClient, nil
	default:
		return 0, fmt.Errorf("unknown node type %q", s)
	}
}

// EdgeKind describes the relationship an edge carries. The set is open; these
// are the kinds the sample network uses.
type EdgeKind string

const (
	EdgeStake      EdgeKind = "stake"
	EdgeDelegation EdgeKind = "delegation"
	EdgeOwnership  EdgeKind = "ownership"
	EdgeJob        EdgeKind = "job"
	EdgePayment    EdgeKind = "payment"
	EdgeRewards    EdgeKind = "rewards"
)

// ViewMode switches between the network-wide view and the viewer's own view.
// Personal mode highlights neighbours of Self and masks private labels.
type ViewMode string

const (
	ViewGlobal   ViewMode = "global"
	ViewPersonal ViewMode = "personal"
)

// ParseViewMode validates a view mode name.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case ViewGlobal:
		return ViewGlobal, nil
	case ViewPersonal:
		return ViewPersonal, nil
	default:
		return "", fmt.Errorf("unknown view mode %q (want global or personal)", s)
	}
}

// Toggle returns the other view mode.
func (m ViewMode) Toggle() ViewMode {
	if m == ViewPersonal {
		return ViewGlobal
	}
	return ViewPersonal
}

// Point is a 2D coordinate. Whether it is in world or screen space depends on
// the caller.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

// Mid returns the midpoint between p and q.
func (p Point) Mid(q Point) Point { return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2} }

func (p Point) String() string { return fmt.Sprintf("(%.1f,%.1f)", p.X, p.Y) }

// DistSq returns the squared Euclidean distance between p and q.
func (p Point) DistSq(q Point) float64 {
	d := p.Sub(q)
	return d.X*d.X + d.Y*d.Y
}

// Selection tracks the hovered and selected node IDs. Empty means none.
type Selection struct {
	Hovered  string
	Selected string
}

// Highlighted reports whether id is hovered or selected.
func (s Selection) Highlighted(id string) bool {
	return id != "" && (s.Hovered == id || s.Selected == id)
}
