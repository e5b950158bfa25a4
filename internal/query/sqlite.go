// Package query builds an ephemeral SQLite index over a loaded catalog for
// sorted listings and price statistics. The catalog file stays the source of
// truth; the index lives in memory and is never written to disk.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/prodcat/prodcat/internal/catalog"
	_ "modernc.org/sqlite"
)

// DB wraps an in-memory SQLite connection.
type DB struct {
	db *sql.DB
}

// Sort keys accepted by List.
const (
	SortNone  = ""
	SortName  = "name"
	SortPrice = "price"
)

// ListOptions filters and orders List results.
type ListOptions struct {
	SortBy string // SortNone keeps file order
	Desc   bool
	Min    *int64 // inclusive lower price bound
	Max    *int64 // inclusive upper price bound
}

// Stats summarises catalog prices. Min, Max and Avg are zero for an empty catalog.
type Stats struct {
	Count int     `json:"count"`
	Sum   int64   `json:"sum"`
	Min   int64   `json:"min"`
	Max   int64   `json:"max"`
	Avg   float64 `json:"avg"`
}

// Open creates an empty in-memory index.
func Open(ctx context.Context) (*DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := createSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(ctx context.Context, db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS products (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			price INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_products_price ON products(price);
		CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Rebuild clears the index and loads every record of c, keeping file order.
func (d *DB) Rebuild(ctx context.Context, c catalog.Catalog) (int, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM products"); err != nil {
		return 0, fmt.Errorf("clearing products table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO products (position, name, price) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range c {
		if _, err := stmt.ExecContext(ctx, i, r.Name, r.Price); err != nil {
			return 0, fmt.Errorf("inserting %q: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(c), nil
}

// List returns records matching opts. Ties keep file order.
func (d *DB) List(ctx context.Context, opts ListOptions) (catalog.Catalog, error) {
	var where []string
	var args []any
	if opts.Min != nil {
		where = append(where, "price >= ?")
		args = append(args, *opts.Min)
	}
	if opts.Max != nil {
		where = append(where, "price <= ?")
		args = append(args, *opts.Max)
	}

	var order string
	switch opts.SortBy {
	case SortNone:
		order = "position"
		if opts.Desc {
			order = "position DESC"
		}
	case SortName, SortPrice:
		order = opts.SortBy
		if opts.Desc {
			order += " DESC"
		}
		order += ", position"
	default:
		return nil, fmt.Errorf("unknown sort key %q (valid: %s, %s)", opts.SortBy, SortName, SortPrice)
	}

	q := "SELECT name, price FROM products"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY " + order

	rows, err := d.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	out := catalog.Catalog{}
	for rows.Next() {
		var r catalog.Record
		if err := rows.Scan(&r.Name, &r.Price); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats computes count, sum, min, max and average price.
func (d *DB) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	var min, max sql.NullInt64
	var avg sql.NullFloat64

	row := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(price), 0), MIN(price), MAX(price), AVG(price)
		FROM products`)
	if err := row.Scan(&s.Count, &s.Sum, &min, &max, &avg); err != nil {
		return Stats{}, fmt.Errorf("computing stats: %w", err)
	}

	s.Min = min.Int64
	s.Max = max.Int64
	s.Avg = avg.Float64
	return s, nil
}
