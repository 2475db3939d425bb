package repository

import (
	"context"
	"errors"
	"fmt"

	"address-resolver/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgx used here; both *pgxpool.Pool and *pgx.Conn satisfy it
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const schema = `
	CREATE TABLE IF NOT EXISTS facilities (
		id BIGSERIAL PRIMARY KEY,
		directory VARCHAR(32) NOT NULL,
		position INTEGER NOT NULL,
		name VARCHAR(255) NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		address VARCHAR(255) NOT NULL,
		division VARCHAR(64) NOT NULL DEFAULT '',
		state VARCHAR(8) NOT NULL DEFAULT '',
		UNIQUE (directory, position)
	);
	CREATE INDEX IF NOT EXISTS facilities_address_idx ON facilities (address);
`

// FacilityRepository stores the facility directories in PostgreSQL
type FacilityRepository struct {
	db DB
}

// NewFacilityRepository creates a new PostgreSQL facility repository
func NewFacilityRepository(db DB) *FacilityRepository {
	return &FacilityRepository{db: db}
}

// CreateSchema creates the facilities table if it does not exist
func (r *FacilityRepository) CreateSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// LoadFacilities returns every facility grouped by directory, in the order they were stored
func (r *FacilityRepository) LoadFacilities(ctx context.Context) (models.FacilityTable, error) {
	sql := `
		SELECT
			directory,
			name,
			latitude,
			longitude,
			address,
			division,
			state
		FROM facilities
		ORDER BY directory, position
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute facilities query: %w", err)
	}
	defer rows.Close()

	table := models.FacilityTable{}
	for rows.Next() {
		var directory string
		var f models.Facility
		err := rows.Scan(
			&directory,
			&f.Name,
			&f.Latitude,
			&f.Longitude,
			&f.Address,
			&f.Division,
			&f.State,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan facility: %w", err)
		}
		table[directory] = append(table[directory], f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return table, nil
}

// ReplaceFacilities swaps the stored table for table in one transaction and
// returns the number of rows written
func (r *FacilityRepository) ReplaceFacilities(ctx context.Context, table models.FacilityTable) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, "DELETE FROM facilities"); err != nil {
		return 0, fmt.Errorf("repository: failed to clear facilities: %w", err)
	}

	var rows [][]any
	for _, directory := range []string{models.DirectoryDepots, models.DirectoryRailTerminals} {
		for i, f := range table[directory] {
			rows = append(rows, []any{directory, i, f.Name, f.Latitude, f.Longitude, f.Address, f.Division, f.State})
		}
	}

	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"facilities"},
		[]string{"directory", "position", "name", "latitude", "longitude", "address", "division", "state"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to copy facilities: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository: failed to commit: %w", err)
	}
	return n, nil
}

// CountFacilities returns the number of stored facilities
func (r *FacilityRepository) CountFacilities(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM facilities").Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("repository: failed to count facilities: %w", err)
	}
	return count, nil
}
