// Package postgis reads point rows out of a PostGIS-backed geo_points
// table and hands them back as rtree.Entry values, so a Tree can be
// bulk-loaded from data that already lives in Postgres. It is
// deliberately one-directional: this package is an entries-in source,
// never a tree persistence layer. Tree structure itself is rebuilt by
// rtree.Build on every process start, never serialized to or from the
// database.
package postgis

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/kass/go-geo-index/pkg/models"
	"github.com/kass/go-geo-index/pkg/rtree"
)

// Source wraps a PostGIS connection used to pull entries for
// rtree.Build.
type Source struct {
	db *sql.DB
}

// Open connects to a PostGIS database and verifies the connection.
func Open(host, user, password, dbname string, port int) (*Source, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Source{db: db}, nil
}

// InitSchema creates the geo_points table and its geometry column. It
// prepares a fresh database; reading from an already-populated one does
// not require it.
func (s *Source) InitSchema() error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis;`,
		`CREATE TABLE IF NOT EXISTS geo_points (
			id TEXT PRIMARY KEY,
			name TEXT,
			location GEOMETRY(POINT, 4326)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_geo_points_location ON geo_points USING GIST(location);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("execute %q: %w", stmt, err)
		}
	}
	return nil
}

// Seed bulk-inserts entries into geo_points, batching commits so a
// single large seed doesn't hold one transaction open for its
// entirety.
func (s *Source) Seed(entries []rtree.Entry[models.POI]) error {
	const batchSize = 10000

	stmt, err := s.db.Prepare(`
		INSERT INTO geo_points (id, name, location)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326))
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	txStmt := tx.Stmt(stmt)

	for i, e := range entries {
		lat, lon := e.MBR.Center()
		if _, err := txStmt.Exec(e.Payload.ID, e.Payload.Name, lon, lat); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert point %s: %w", e.Payload.ID, err)
		}
		if (i+1)%batchSize == 0 {
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("commit batch: %w", err)
			}
			tx, err = s.db.Begin()
			if err != nil {
				return fmt.Errorf("begin next transaction: %w", err)
			}
			txStmt = tx.Stmt(stmt)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit final batch: %w", err)
	}
	return nil
}

// Entries loads every row of geo_points as a zero-area point entry,
// ready to feed rtree.Build.
func (s *Source) Entries() ([]rtree.Entry[models.POI], error) {
	rows, err := s.db.Query(`SELECT id, name, ST_X(location), ST_Y(location) FROM geo_points`)
	if err != nil {
		return nil, fmt.Errorf("query geo_points: %w", err)
	}
	defer rows.Close()

	var entries []rtree.Entry[models.POI]
	for rows.Next() {
		var id string
		var name sql.NullString
		var lon, lat float64
		if err := rows.Scan(&id, &name, &lon, &lat); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		entries = append(entries, rtree.Entry[models.POI]{
			MBR:     rtree.MBR{X1: float32(lat), Y1: float32(lon), X2: float32(lat), Y2: float32(lon)},
			Payload: models.POI{ID: id, Name: name.String},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}

// EntriesInBox loads rows whose geometry intersects box (box.X is the
// latitude range, box.Y the longitude range), pushing the spatial
// filter down to PostGIS's own GIST index rather than pulling the
// whole table and filtering client-side.
func (s *Source) EntriesInBox(box rtree.MBR) ([]rtree.Entry[models.POI], error) {
	rows, err := s.db.Query(`
		SELECT id, name, ST_X(location), ST_Y(location)
		FROM geo_points
		WHERE location && ST_MakeEnvelope($1, $2, $3, $4, 4326)
	`, box.Y1, box.X1, box.Y2, box.X2)
	if err != nil {
		return nil, fmt.Errorf("query geo_points: %w", err)
	}
	defer rows.Close()

	var entries []rtree.Entry[models.POI]
	for rows.Next() {
		var id string
		var name sql.NullString
		var lon, lat float64
		if err := rows.Scan(&id, &name, &lon, &lat); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		entries = append(entries, rtree.Entry[models.POI]{
			MBR:     rtree.MBR{X1: float32(lat), Y1: float32(lon), X2: float32(lat), Y2: float32(lon)},
			Payload: models.POI{ID: id, Name: name.String},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}

// Count returns the number of rows in geo_points.
func (s *Source) Count() (int64, error) {
	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM geo_points").Scan(&count); err != nil {
		return 0, fmt.Errorf("count points: %w", err)
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *Source) Close() error {
	return s.db.Close()
}
