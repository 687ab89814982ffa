package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/vanderheijden86/netscope/pkg/loader"
	"github.com/vanderheijden86/netscope/pkg/model"
)

// SchemaVersion is recorded in the meta table of written databases.
const SchemaVersion = 1

const schemaSQL = `
	CREATE TABLE nodes (
		id TEXT NOT NULL,
		type TEXT NOT NULL,
		label TEXT,
		private INTEGER NOT NULL DEFAULT 0,
		balance TEXT,
		private_balance TEXT,
		tvl TEXT,
		validators INTEGER,
		earnings TEXT,
		uptime TEXT,
		jobs INTEGER,
		spent TEXT
	);
	CREATE TABLE edges (
		src TEXT NOT NULL,
		dst TEXT NOT NULL,
		type TEXT,
		amount TEXT,
		private INTEGER NOT NULL DEFAULT 0,
		self_activity INTEGER
	);
	CREATE INDEX idx_edges_src ON edges(src);
	CREATE INDEX idx_edges_dst ON edges(dst);
	CREATE TABLE meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
`

// WriteSQLite writes g to a new database at path, replacing any existing
// file. Self activity is stored explicitly for every edge.
func WriteSQLite(ctx context.Context, path string, g *model.Graph) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	f := loader.FromGraph(g)
	if err := insertNodes(ctx, tx, f.Nodes); err != nil {
		return err
	}
	if err := insertEdges(ctx, tx, f.Edges); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES ('schema_version', ?), ('self', ?)`,
		fmt.Sprint(SchemaVersion), f.Self); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertNodes(ctx context.Context, tx *sql.Tx, nodes []loader.NodeRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (id, type, label, private, balance, private_balance,
		                   tvl, validators, earnings, uptime, jobs, spent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare node insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range nodes {
		if _, err := stmt.ExecContext(ctx, n.ID, n.Type, n.Label, n.Private, n.Balance, n.PrivateBalance,
			n.TVL, n.Validators, n.Earnings, n.Uptime, n.Jobs, n.Spent); err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}
	return nil
}

func insertEdges(ctx context.Context, tx *sql.Tx, edges []loader.EdgeRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO edges (src, dst, type, amount, private, self_activity)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare edge insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range edges {
		var self sql.NullBool
		if e.SelfActivity != nil {
			self = sql.NullBool{Bool: *e.SelfActivity, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, e.From, e.To, e.Type, e.Amount, e.Private, self); err != nil {
			return fmt.Errorf("insert edge %s -> %s: %w", e.From, e.To, err)
		}
	}
	return nil
}
