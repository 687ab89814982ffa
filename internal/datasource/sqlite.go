package datasource

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/netscope/pkg/loader"
	"github.com/vanderheijden86/netscope/pkg/model"
)

// SQLiteReader provides read access to a graph database
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	return &SQLiteReader{db: db, path: source.Path}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadGraph reads every node and edge and builds the graph with the same
// rules as the file formats.
func (r *SQLiteReader) LoadGraph(ctx context.Context, opts loader.ParseOptions) (*model.Graph, error) {
	var f loader.File
	var err error
	if f.Nodes, err = r.loadNodes(ctx); err != nil {
		return nil, err
	}
	if f.Edges, err = r.loadEdges(ctx); err != nil {
		return nil, err
	}
	return loader.Build(f, opts)
}

func (r *SQLiteReader) loadNodes(ctx context.Context) ([]loader.NodeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, label, private, balance, private_balance, tvl, validators,
		       earnings, uptime, jobs, spent
		FROM nodes
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query nodes in %s: %w", r.path, err)
	}
	defer rows.Close()

	var out []loader.NodeRecord
	for rows.Next() {
		var (
			rec                       loader.NodeRecord
			label, balance, pbal, tvl sql.NullString
			earn, up, spent           sql.NullString
			private                   sql.NullBool
			validators, jobs          sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.Type, &label, &private, &balance, &pbal, &tvl,
			&validators, &earn, &up, &jobs, &spent); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		rec.Label = label.String
		rec.Private = private.Bool
		rec.Balance = balance.String
		rec.PrivateBalance = pbal.String
		rec.TVL = tvl.String
		rec.Validators = int(validators.Int64)
		rec.Earnings = earn.String
		rec.Uptime = up.String
		rec.Jobs = int(jobs.Int64)
		rec.Spent = spent.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read nodes: %w", err)
	}
	return out, nil
}

func (r *SQLiteReader) loadEdges(ctx context.Context) ([]loader.EdgeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT src, dst, type, amount, private, self_activity
		FROM edges
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query edges in %s: %w", r.path, err)
	}
	defer rows.Close()

	var out []loader.EdgeRecord
	for rows.Next() {
		var (
			rec           loader.EdgeRecord
			typ, amount   sql.NullString
			private, self sql.NullBool
		)
		if err := rows.Scan(&rec.From, &rec.To, &typ, &amount, &private, &self); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		rec.Type = typ.String
		rec.Amount = amount.String
		rec.Private = private.Bool
		if self.Valid {
			v := self.Bool
			rec.SelfActivity = &v
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read edges: %w", err)
	}
	return out, nil
}

// CountNodes returns the number of node rows.
func (r *SQLiteReader) CountNodes(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count nodes: %w", err)
	}
	return n, nil
}
