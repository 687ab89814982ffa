// Package loader decodes graph documents (JSON or YAML) into model graphs.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/netscope/pkg/metrics"
	"github.com/vanderheijden86/netscope/pkg/model"
)

// Format names a graph document encoding.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for file extensions no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported graph format")

// DetectFormat picks the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ParseOptions configures decoding.
type ParseOptions struct {
	// WarningHandler is called with non-fatal problems such as dangling edges.
	// If nil, warnings are printed to os.Stderr.
	WarningHandler func(string)

	// Format forces a decoder. FormatAuto sniffs the content.
	Format Format

	// SelfID overrides which node is the viewer. It wins over the document's
	// own "self" field.
	SelfID string
}

func (o ParseOptions) warn() func(string) {
	if o.WarningHandler != nil {
		return o.WarningHandler
	}
	return func(msg string) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
}

// LoadFile reads and decodes a graph document. The format comes from the
// extension unless opts.Format is set.
func LoadFile(path string, opts ParseOptions) (*model.Graph, error) {
	defer metrics.Timer(metrics.GraphLoad)()

	if opts.Format == FormatAuto {
		f, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		opts.Format = f
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph file: %w", err)
	}
	defer file.Close()

	g, err := Parse(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse decodes a graph document from r.
func Parse(r io.Reader, opts ParseOptions) (*model.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading graph stream: %w", err)
	}
	f, err := Decode(data, opts.Format)
	if err != nil {
		return nil, err
	}
	return Build(f, opts)
}

// Decode unmarshals raw bytes into the wire document.
func Decode(data []byte, format Format) (File, error) {
	data = stripBOM(data)
	if format == FormatAuto {
		format = sniff(data)
	}

	var f File
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &f); err != nil {
			return File{}, fmt.Errorf("invalid JSON graph: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return File{}, fmt.Errorf("invalid YAML graph: %w", err)
		}
	default:
		return File{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return f, nil
}

// sniff treats anything starting with an object brace as JSON.
func sniff(data []byte) Format {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return FormatJSON
	}
	return FormatYAML
}

// Build converts a wire document into a graph. Unknown node types are an
// error; data problems such as dangling edges are reported as warnings and
// kept in the graph for layout and rendering to skip.
func Build(f File, opts ParseOptions) (*model.Graph, error) {
	warn := opts.warn()
	selfID := opts.SelfID
	if selfID == "" {
		selfID = f.Self
	}

	g := &model.Graph{
		Nodes: make([]model.Node, 0, len(f.Nodes)),
		Edges: make([]model.Edge, 0, len(f.Edges)),
	}
	found := selfID == ""
	for i, rec := range f.Nodes {
		kind, err := model.ParseKind(rec.Type)
		if err != nil {
			return nil, fmt.Errorf("node %d (%q): %w", i, rec.ID, err)
		}
		if rec.ID == "" {
			warn(model.DataError{Kind: "empty_id", Detail: fmt.Sprintf("node %d has no id; skipped", i)}.Error())
			continue
		}
		if selfID != "" {
			switch {
			case rec.ID == selfID:
				kind = model.KindSelf
				found = true
			case kind == model.KindSelf:
				kind = model.KindClient
				if rec.Spent == "" && rec.Balance != "" {
					rec.Spent = rec.Balance
					warn(fmt.Sprintf("node %q is no longer the viewer; treating it as a client with its balance %s as spent", rec.ID, rec.Balance))
				} else {
					warn(fmt.Sprintf("node %q is no longer the viewer; treating it as a client", rec.ID))
				}
			}
		}
		g.Nodes = append(g.Nodes, model.Node{
			ID:        rec.ID,
			Kind:      kind,
			Label:     rec.Label,
			IsPrivate: rec.Private,
			Details:   details(kind, rec),
		})
	}
	if !found {
		warn(fmt.Sprintf("self node %q not found", selfID))
	}

	self := ""
	if n, ok := g.Self(); ok {
		self = n.ID
	}
	for _, rec := range f.Edges {
		e := model.Edge{
			From:      rec.From,
			To:        rec.To,
			Kind:      model.EdgeKind(rec.Type),
			Amount:    rec.Amount,
			IsPrivate: rec.Private,
		}
		if rec.SelfActivity != nil {
			e.IsSelfActivity = *rec.SelfActivity
		} else {
			e.IsSelfActivity = self != "" && (rec.From == self || rec.To == self)
		}
		g.Edges = append(g.Edges, e)
	}

	for _, de := range g.Validate() {
		warn(de.Error())
	}
	return g, nil
}

func details(kind model.Kind, rec NodeRecord) model.Details {
	switch kind {
	case model.KindSelf:
		return model.SelfDetails{Balance: rec.Balance, PrivateBalance: rec.PrivateBalance}
	case model.KindPool:
		return model.PoolDetails{TVL: rec.TVL, Validators: rec.Validators}
	case model.KindValidator:
		return model.ValidatorDetails{Earnings: rec.Earnings, Uptime: rec.Uptime}
	case model.KindClient:
		return model.ClientDetails{Jobs: rec.Jobs, Spent: rec.Spent}
	default:
		return nil
	}
}

// stripBOM removes the UTF-8 Byte Order Mark if present
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
