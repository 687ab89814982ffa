package datasource

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/netscope/pkg/debug"
	"github.com/vanderheijden86/netscope/pkg/loader"
	"github.com/vanderheijden86/netscope/pkg/metrics"
	"github.com/vanderheijden86/netscope/pkg/model"
)

// Load detects the source at path and reads it. An empty path yields the
// sample network.
func Load(ctx context.Context, path string, opts loader.ParseOptions) (*model.Graph, DataSource, error) {
	src, err := Detect(path)
	if err != nil {
		return nil, DataSource{}, err
	}
	g, err := LoadFromSource(ctx, src, opts)
	return g, src, err
}

// LoadFromSource loads a graph from a specific DataSource, dispatching to the
// appropriate reader based on source type.
func LoadFromSource(ctx context.Context, source DataSource, opts loader.ParseOptions) (*model.Graph, error) {
	defer debug.LogEnterExit("datasource.Load " + string(source.Type))()

	switch source.Type {
	case SourceTypeSample:
		return loader.Parse(bytes.NewReader(sampleYAML), withFormat(opts, loader.FormatYAML))

	case SourceTypeSQLite:
		defer metrics.Timer(metrics.GraphLoad)()
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		return reader.LoadGraph(ctx, opts)

	case SourceTypeJSON:
		return loader.LoadFile(source.Path, withFormat(opts, loader.FormatJSON))

	case SourceTypeYAML:
		return loader.LoadFile(source.Path, withFormat(opts, loader.FormatYAML))

	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

func withFormat(opts loader.ParseOptions, f loader.Format) loader.ParseOptions {
	opts.Format = f
	return opts
}

// Save writes g to path as a data export; the extension picks JSON, YAML or
// SQLite.
func Save(ctx context.Context, path string, g *model.Graph) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return WriteSQLite(ctx, path, g)
	}
	f, err := loader.DetectFormat(path)
	if err != nil {
		return err
	}
	return writeDocument(path, g, f)
}

// IsDataExport reports whether path names a data export rather than an image.
func IsDataExport(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3", ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func writeDocument(path string, g *model.Graph, f loader.Format) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return loader.Write(out, g, f)
}
