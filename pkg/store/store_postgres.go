package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/kotrzina/meteoam/pkg/utils"
)

const (
	tablePrefix = "meteoam_"
)

// PostgresRegistry keeps crawled locations in Postgres
type PostgresRegistry struct {
	db  *sql.DB
	ctx context.Context
}

func NewPostgresRegistry(ctx context.Context, dsn string) (*PostgresRegistry, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	registry := &PostgresRegistry{
		db:  db,
		ctx: ctx,
	}

	if err := registry.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return registry, nil
}

func (r *PostgresRegistry) migrate() error {
	migrations := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %slocations (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			region TEXT NOT NULL,
			name_with_region TEXT NOT NULL,
			search_name TEXT NOT NULL,
			crawled_at TIMESTAMPTZ NOT NULL
		)`, tablePrefix),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %slocations_search_name_idx ON %slocations (search_name)`,
			tablePrefix, tablePrefix),
	}

	for _, migration := range migrations {
		if _, err := r.db.ExecContext(r.ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

func (r *PostgresRegistry) Close() error {
	return r.db.Close()
}

func (r *PostgresRegistry) UpsertLocation(location Location) error {
	query := fmt.Sprintf(`
		INSERT INTO %slocations (id, name, region, name_with_region, search_name, crawled_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = $2, region = $3, name_with_region = $4, search_name = $5, crawled_at = $6
	`, tablePrefix)
	_, err := r.db.ExecContext(r.ctx, query,
		int64(location.ID),
		location.Name,
		location.Region,
		location.NameWithRegion,
		utils.NormalizeText(location.Name),
		location.CrawledAt,
	)
	return err
}

func (r *PostgresRegistry) GetLocation(id uint64) (Location, error) {
	query := fmt.Sprintf(`SELECT id, name, region, name_with_region, crawled_at FROM %slocations WHERE id = $1`, tablePrefix)
	location, err := scanLocation(r.db.QueryRowContext(r.ctx, query, int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return Location{}, ErrNotFound
	}

	return location, err
}

func (r *PostgresRegistry) SearchLocations(query string, limit int) ([]Location, error) {
	if limit <= 0 {
		limit = 100
	}

	sqlQuery := fmt.Sprintf(`
		SELECT id, name, region, name_with_region, crawled_at FROM %slocations
		WHERE search_name LIKE $1
		ORDER BY id ASC
		LIMIT $2
	`, tablePrefix)
	pattern := "%" + escapeLike(utils.NormalizeText(query)) + "%"
	rows, err := r.db.QueryContext(r.ctx, sqlQuery, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	locations := []Location{}
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}

	return locations, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLocation(row scanner) (Location, error) {
	var (
		location Location
		id       int64
	)
	if err := row.Scan(&id, &location.Name, &location.Region, &location.NameWithRegion, &location.CrawledAt); err != nil {
		return Location{}, err
	}
	location.ID = uint64(id)

	return location, nil
}

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeReplacer.Replace(s)
}
