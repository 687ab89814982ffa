package loader

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/netscope/pkg/model"
)

// FromGraph converts a graph back into its wire document. Self activity is
// always written explicitly.
func FromGraph(g *model.Graph) File {
	var f File
	if g == nil {
		return f
	}
	if self, ok := g.Self(); ok {
		f.Self = self.ID
	}
	for _, n := range g.Nodes {
		rec := NodeRecord{ID: n.ID, Type: n.Kind.String(), Label: n.Label, Private: n.IsPrivate}
		switch d := n.Details.(type) {
		case model.SelfDetails:
			rec.Balance, rec.PrivateBalance = d.Balance, d.PrivateBalance
		case model.PoolDetails:
			rec.TVL, rec.Validators = d.TVL, d.Validators
		case model.ValidatorDetails:
			rec.Earnings, rec.Uptime = d.Earnings, d.Uptime
		case model.ClientDetails:
			rec.Jobs, rec.Spent = d.Jobs, d.Spent
		}
		f.Nodes = append(f.Nodes, rec)
	}
	for _, e := range g.Edges {
		sa := e.IsSelfActivity
		f.Edges = append(f.Edges, EdgeRecord{
			From:         e.From,
			To:           e.To,
			Type:         string(e.Kind),
			Amount:       e.Amount,
			Private:      e.IsPrivate,
			SelfActivity: &sa,
		})
	}
	return f
}

// Write encodes g in the given format.
func Write(w io.Writer, g *model.Graph, format Format) error {
	f := FromGraph(g)
	switch format {
	case FormatJSON, FormatAuto:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("encoding JSON graph: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("encoding YAML graph: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding YAML graph: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return nil
}
