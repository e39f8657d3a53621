package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps read access to the station documents table.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL, table string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool, table: TableIdent(table)}, nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// TableIdent quotes a possibly schema-qualified table name.
func TableIdent(table string) string {
	return pgx.Identifier(strings.Split(strings.TrimSpace(table), ".")).Sanitize()
}

// ElectionResult is one "electionYYYY" field of a station document.
type ElectionResult struct {
	Year       int                `json:"year"`
	TotalVotes int                `json:"total_votes"`
	Candidates map[string]float64 `json:"candidates"`
}

// Station is a stored polling station document.
type Station struct {
	ID        string          `json:"id"`
	Doc       json.RawMessage `json:"doc"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Election decodes the record stored for year, if any.
func (st Station) Election(year int) (ElectionResult, bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(st.Doc, &fields); err != nil {
		return ElectionResult{}, false, fmt.Errorf("decode station %s: %w", st.ID, err)
	}
	raw, ok := fields["election"+strconv.Itoa(year)]
	if !ok {
		return ElectionResult{}, false, nil
	}
	var rec ElectionResult
	if err := json.Unmarshal(raw, &rec); err != nil {
		return ElectionResult{}, false, fmt.Errorf("decode station %s election %d: %w", st.ID, year, err)
	}
	return rec, true, nil
}

// Assembly summarises the stations stored for one assembly constituency.
type Assembly struct {
	ID       string `json:"ac_id"`
	Name     string `json:"ac_name"`
	Stations int    `json:"stations"`
}

func getStationSQL(table string) string {
	return `
    SELECT id, doc, updated_at
    FROM ` + table + `
    WHERE id = $1
`
}

// GetStation returns one station document, or nil when it does not exist.
func (s *Store) GetStation(ctx context.Context, id string) (*Station, error) {
	var st Station
	var doc []byte
	err := s.pool.QueryRow(ctx, getStationSQL(s.table), id).Scan(&st.ID, &doc, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	st.Doc = doc
	return &st, nil
}

func listAssembliesSQL(table string) string {
	return `
    SELECT doc->>'ac_id' AS ac_id, COALESCE(MAX(doc->>'ac_name'), '') AS ac_name, COUNT(*)
    FROM ` + table + `
    WHERE doc->>'ac_id' IS NOT NULL
    GROUP BY 1
    ORDER BY length(doc->>'ac_id'), 1
`
}

// ListAssemblies returns the distinct assemblies with their station counts.
func (s *Store) ListAssemblies(ctx context.Context) ([]Assembly, error) {
	rows, err := s.pool.Query(ctx, listAssembliesSQL(s.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Assembly, 0)
	for rows.Next() {
		var a Assembly
		if err := rows.Scan(&a.ID, &a.Name, &a.Stations); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// listStationsSQL orders ids like "108-2" before "108-10". A positive limit
// adds a LIMIT $2 clause.
func listStationsSQL(table string, limit int) string {
	sql := `
    SELECT id, doc, updated_at
    FROM ` + table + `
    WHERE doc->>'ac_id' = $1
    ORDER BY length(id), id`
	if limit > 0 {
		sql += `
    LIMIT $2`
	}
	return sql
}

// ListStations returns the station documents of one assembly. A limit of zero
// or less returns all of them.
func (s *Store) ListStations(ctx context.Context, assemblyID string, limit int) ([]Station, error) {
	args := []any{assemblyID}
	if limit > 0 {
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, listStationsSQL(s.table, limit), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Station, 0)
	for rows.Next() {
		var st Station
		var doc []byte
		if err := rows.Scan(&st.ID, &doc, &st.UpdatedAt); err != nil {
			return nil, err
		}
		st.Doc = doc
		out = append(out, st)
	}
	return out, rows.Err()
}
