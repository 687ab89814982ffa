// Package datasource detects where a graph snapshot comes from (a JSON or
// YAML document, a SQLite database, or the built-in sample network) and loads
// it through the matching reader.
package datasource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vanderheijden86/netscope/pkg/loader"
)

// SourceType identifies the type of data source
type SourceType string

const (
	SourceTypeSample SourceType = "sample"
	SourceTypeJSON   SourceType = "json"
	SourceTypeYAML   SourceType = "yaml"
	SourceTypeSQLite SourceType = "sqlite"
)

// ErrNoSource is returned when a path names nothing readable.
var ErrNoSource = errors.New("no graph source")

// sqliteMagic is the first 16 bytes of every SQLite 3 database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// DataSource describes one graph source.
type DataSource struct {
	Type    SourceType `json:"type"`
	Path    string     `json:"path,omitempty"`
	ModTime time.Time  `json:"mod_time,omitempty"`
	Size    int64      `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	if s.Type == SourceTypeSample {
		return "built-in sample network"
	}
	return fmt.Sprintf("%s (%s, %d bytes, mod=%s)", s.Path, s.Type, s.Size, s.ModTime.Format(time.RFC3339))
}

// Detect classifies path. An empty path selects the built-in sample. Known
// extensions decide first; otherwise the SQLite header is sniffed.
func Detect(path string) (DataSource, error) {
	if path == "" {
		return DataSource{Type: SourceTypeSample}, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DataSource{}, fmt.Errorf("%w: %s does not exist", ErrNoSource, path)
		}
		return DataSource{}, fmt.Errorf("cannot stat graph source: %w", err)
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("%w: %s is a directory", ErrNoSource, path)
	}
	src := DataSource{Path: path, ModTime: info.ModTime(), Size: info.Size()}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		src.Type = SourceTypeSQLite
		return src, nil
	}
	if f, err := loader.DetectFormat(path); err == nil {
		src.Type = formatSource(f)
		return src, nil
	}

	isDB, err := hasSQLiteHeader(path)
	if err != nil {
		return DataSource{}, err
	}
	if isDB {
		src.Type = SourceTypeSQLite
		return src, nil
	}
	return DataSource{}, fmt.Errorf("%w: %s", loader.ErrUnsupportedFormat, path)
}

func formatSource(f loader.Format) SourceType {
	if f == loader.FormatYAML {
		return SourceTypeYAML
	}
	return SourceTypeJSON
}

func hasSQLiteHeader(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("cannot open graph source: %w", err)
	}
	defer f.Close()

	head := make([]byte, len(sqliteMagic))
	if _, err := io.ReadFull(f, head); err != nil {
		return false, nil
	}
	return bytes.Equal(head, sqliteMagic), nil
}
