package introspect

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Reader answers catalog queries against a live PostgreSQL database
// through information_schema. It is read-only and does not retry:
// any failure is fatal to the calling generation run.
type Reader struct {
	pool       *pgxpool.Pool
	schemaName string
}

// NewReader creates a catalog reader over the given pool. schemaName
// defaults to "public" when empty.
func NewReader(pool *pgxpool.Pool, schemaName string) *Reader {
	if schemaName == "" {
		schemaName = "public"
	}
	return &Reader{pool: pool, schemaName: schemaName}
}

// ListTables returns the names of all base tables in the active schema.
func (r *Reader) ListTables(ctx context.Context) ([]string, error) {
	query := `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_schema = $1 AND table_type = 'BASE TABLE'
	ORDER BY table_name;
	`

	rows, err := r.pool.Query(ctx, query, r.schemaName)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tables = append(tables, name)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating table rows: %w", rows.Err())
	}

	return tables, nil
}

// ListColumns returns the existing column names for each of the given
// tables, in a single batched query. An empty table set returns an
// empty map without touching the database.
func (r *Reader) ListColumns(ctx context.Context, tables []string) (map[string][]string, error) {
	columns := map[string][]string{}
	if len(tables) == 0 {
		return columns, nil
	}

	query := `
	SELECT table_name, column_name
	FROM information_schema.columns
	WHERE table_schema = $1 AND table_name = ANY($2)
	ORDER BY table_name, ordinal_position;
	`

	rows, err := r.pool.Query(ctx, query, r.schemaName, tables)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		columns[table] = append(columns[table], column)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating column rows: %w", rows.Err())
	}

	return columns, nil
}
