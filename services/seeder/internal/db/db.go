package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/pollbooth/services/seeder/internal/models"
)

// MaxBatchSize is the hard per-batch document limit; batches must stay below it.
const MaxBatchSize = 500

// Store writes station documents into a jsonb table keyed by document id.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

// New connects to the database and binds the store to table, which may be
// schema-qualified ("pollbooth.polling_stations").
func New(ctx context.Context, databaseURL, table string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, table: tableIdent(table)}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func tableIdent(table string) string {
	return pgx.Identifier(strings.Split(strings.TrimSpace(table), ".")).Sanitize()
}

func schemaSQL(ident string) []string {
	var stmts []string
	if i := strings.Index(ident, `"."`); i > 0 {
		stmts = append(stmts, `CREATE SCHEMA IF NOT EXISTS `+ident[:i+1])
	}
	stmts = append(stmts, `CREATE TABLE IF NOT EXISTS `+ident+` (
    id TEXT PRIMARY KEY,
    doc JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`)
	return stmts
}

// EnsureSchema creates the documents table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaSQL(s.table) {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// upsertSQL merges the new top-level fields into the stored document, leaving
// unrelated fields untouched.
func upsertSQL(ident string) string {
	return `INSERT INTO ` + ident + ` AS t (id, doc, created_at, updated_at)
VALUES ($1, $2::jsonb, NOW(), NOW())
ON CONFLICT (id) DO UPDATE
SET doc = t.doc || EXCLUDED.doc,
    updated_at = NOW()`
}

// Commit upserts docs as one batch. The batch runs in a single implicit
// transaction, so either every document in it lands or none does.
func (s *Store) Commit(ctx context.Context, docs []models.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if len(docs) >= MaxBatchSize {
		return fmt.Errorf("batch of %d documents exceeds limit %d", len(docs), MaxBatchSize-1)
	}

	batch := &pgx.Batch{}
	query := upsertSQL(s.table)
	for _, d := range docs {
		payload, err := json.Marshal(d.Fields)
		if err != nil {
			return fmt.Errorf("encode %s: %w", d.ID, err)
		}
		batch.Queue(query, d.ID, string(payload))
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for _, d := range docs {
		if _, err := res.Exec(); err != nil {
			return fmt.Errorf("upsert %s: %w", d.ID, err)
		}
	}

	return res.Close()
}

// AssemblyRefs scans every station document for its ac_id and ac_name, in
// document id order.
func (s *Store) AssemblyRefs(ctx context.Context) ([]models.AssemblyRef, error) {
	rows, err := s.pool.Query(ctx, `
SELECT COALESCE(doc->>'ac_id', ''), COALESCE(doc->>'ac_name', '')
FROM `+s.table+`
ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("scan assemblies: %w", err)
	}
	defer rows.Close()

	refs := make([]models.AssemblyRef, 0)
	for rows.Next() {
		var ref models.AssemblyRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		if ref.ID == "" || ref.Name == "" {
			continue
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
