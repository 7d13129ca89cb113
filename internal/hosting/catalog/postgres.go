package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"confgate/internal/hosting"
)

// PostgresCatalog reads type listings from the resource_types table. The
// store is pure I/O; folder normalization matches the other backends.
//
// Schema:
//
//	CREATE TABLE resource_types (
//	    folder    TEXT NOT NULL,
//	    type_name TEXT NOT NULL,
//	    PRIMARY KEY (folder, type_name)
//	);
type PostgresCatalog struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed catalog.
func NewPostgres(db *sql.DB) (*PostgresCatalog, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &PostgresCatalog{db: db}, nil
}

// ListTypes returns the sorted type names registered for the domain's folder.
func (c *PostgresCatalog) ListTypes(ctx context.Context, d hosting.Domain) ([]string, error) {
	query := `
		SELECT type_name
		FROM resource_types
		WHERE folder = $1
		ORDER BY type_name
	`
	rows, err := c.db.QueryContext(ctx, query, folderKey(d.Folder))
	if err != nil {
		return nil, fmt.Errorf("list resource types: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan resource type: %w", err)
		}
		types = append(types, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resource types: %w", err)
	}
	return types, nil
}

// SetTypes replaces the listing for a folder. Used by provisioning and
// integration tests.
func (c *PostgresCatalog) SetTypes(ctx context.Context, folder string, types ...string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set resource types: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM resource_types WHERE folder = $1`, folderKey(folder)); err != nil {
		return fmt.Errorf("clear resource types: %w", err)
	}
	if len(types) > 0 {
		// Batch insert using unnest for O(1) round trips instead of O(n)
		query := `
			INSERT INTO resource_types (folder, type_name)
			SELECT $1, unnest($2::text[])
			ON CONFLICT (folder, type_name) DO NOTHING
		`
		if _, err := tx.ExecContext(ctx, query, folderKey(folder), pq.Array(types)); err != nil {
			return fmt.Errorf("insert resource types batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set resource types: %w", err)
	}
	return nil
}
