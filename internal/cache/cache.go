// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists trust reports and per-user access history in
// a local SQLite database keyed by normalized entity string.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/trust-engine/pkg/types"
)

const dbFile = "trust.db"

// Store manages the report cache SQLite database.
type Store struct {
	db         *sql.DB
	maxHistory int
	now        func() time.Time
}

// NewStore opens or creates the cache database at dataDir/trust.db and
// creates the schema if it does not exist.
func NewStore(cfg types.CacheConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 {
		maxHistory = 50
	}

	s := &Store{
		db:         db,
		maxHistory: maxHistory,
		now:        time.Now,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			key TEXT PRIMARY KEY,
			cached_at TEXT NOT NULL,
			query TEXT,
			report TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS access_history (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			entity_key TEXT NOT NULL REFERENCES reports(key),
			accessed_at TEXT NOT NULL,
			trust_score INTEGER,
			product_name TEXT,
			vendor TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_user ON access_history(user_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Lookup returns the cache entry for a normalized key, or nil on a
// miss. A hit is returned unconditionally; there is no expiry check —
// staleness policy is the caller's concern, layered on CachedAt.
func (s *Store) Lookup(ctx context.Context, key string) (*types.CacheEntry, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil, fmt.Errorf("empty cache key: %w", types.ErrInvalidInput)
	}

	var (
		cachedAt   string
		query      string
		reportJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT cached_at, query, report FROM reports WHERE key = ?`, key,
	).Scan(&cachedAt, &query, &reportJSON)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying cache: %w", err)
	}

	entry := &types.CacheEntry{Key: key, Query: query}
	if t, parseErr := time.Parse(time.RFC3339Nano, cachedAt); parseErr == nil {
		entry.CachedAt = t
	}

	var report types.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("decoding cached report %s: %w", key, err)
	}
	entry.Report = &report

	return entry, nil
}

// LookupByEntity tries a small ordered set of candidate keys derived
// from the registry record — explicit cache ID, then entity ID, then
// the normalized canonical name — and returns the first hit, or nil.
func (s *Store) LookupByEntity(ctx context.Context, e *types.Entity) (*types.CacheEntry, error) {
	if e == nil {
		return nil, nil
	}
	for _, candidate := range []string{e.CacheID, e.ID, e.Name} {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		if candidate == "" {
			continue
		}
		entry, err := s.Lookup(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			return entry, nil
		}
	}
	return nil, nil
}

// Put writes a cache entry for the given key. The write is idempotent:
// storing the same key again replaces the document, so a retry after a
// partial failure is safe. The key must carry the same normalization
// used by Lookup, which Put enforces by normalizing again.
func (s *Store) Put(ctx context.Context, key, query string, report *types.Report) (*types.CacheEntry, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil, fmt.Errorf("empty cache key: %w", types.ErrInvalidInput)
	}
	if report == nil {
		return nil, fmt.Errorf("nil report for key %s: %w", key, types.ErrInvalidInput)
	}

	if report.AssessmentID == "" {
		report.AssessmentID = uuid.NewString()
	}
	if report.GeneratedAt == "" {
		report.GeneratedAt = s.now().UTC().Format(time.RFC3339)
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}

	cachedAt := s.now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (key, cached_at, query, report) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			cached_at=excluded.cached_at, query=excluded.query, report=excluded.report`,
		key, cachedAt.Format(time.RFC3339Nano), query, string(reportJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("storing report %s: %w", key, err)
	}

	return &types.CacheEntry{
		Key:      key,
		CachedAt: cachedAt,
		Query:    query,
		Report:   report,
	}, nil
}

// RecordAccess appends an access record to the user's history. The key
// must already resolve to a cache hit; otherwise it fails with
// ErrNotFound. Records are append-only and never mutated.
func (s *Store) RecordAccess(ctx context.Context, userID, key string) error {
	entry, err := s.Lookup(ctx, key)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("no cached report for %q: %w", key, types.ErrNotFound)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO access_history (id, user_id, entity_key, accessed_at, trust_score, product_name, vendor)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, entry.Key,
		s.now().UTC().Format(time.RFC3339Nano),
		entry.Report.TrustScore.Score, entry.Report.ProductName, entry.Report.Vendor,
	)
	if err != nil {
		return fmt.Errorf("recording access for %s: %w", entry.Key, err)
	}
	return nil
}

// History returns the user's access records in append order, newest
// last, limited to the configured maximum.
func (s *Store) History(ctx context.Context, userID string) ([]types.AccessRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, entity_key, accessed_at, trust_score, product_name, vendor
		 FROM access_history WHERE user_id = ? ORDER BY rowid LIMIT ?`,
		userID, s.maxHistory,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var records []types.AccessRecord
	for rows.Next() {
		var (
			r          types.AccessRecord
			accessedAt string
			score      sql.NullInt64
			product    sql.NullString
			vendor     sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.EntityKey, &accessedAt, &score, &product, &vendor); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339Nano, accessedAt); parseErr == nil {
			r.AccessedAt = t
		}
		if score.Valid {
			r.TrustScore = int(score.Int64)
		}
		if product.Valid {
			r.ProductName = product.String
		}
		if vendor.Valid {
			r.Vendor = vendor.String
		}
		records = append(records, r)
	}

	return records, rows.Err()
}
