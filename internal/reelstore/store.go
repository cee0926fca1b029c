// Package reelstore persists an index of rendered reels in SQLite so
// repeated requests for the same concept can reuse earlier output.
package reelstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users then delete the database and let it rebuild.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Reel is one recorded render.
type Reel struct {
	ID              int64
	CacheKey        string
	Topic           string
	Subtopic        string
	Concept         string
	Script          string
	DurationSeconds float64
	OutputPath      string
	Degraded        bool
	CreatedAt       time.Time
}

// Store manages reel persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the reel database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Record inserts or replaces the row for the reel's cache key.
func (s *Store) Record(ctx context.Context, reel Reel) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO reels (cache_key, topic, subtopic, concept, script, duration_seconds, output_path, degraded, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
ON CONFLICT(cache_key) DO UPDATE SET
    topic = excluded.topic,
    subtopic = excluded.subtopic,
    concept = excluded.concept,
    script = excluded.script,
    duration_seconds = excluded.duration_seconds,
    output_path = excluded.output_path,
    degraded = excluded.degraded,
    created_at = excluded.created_at`,
		reel.CacheKey, reel.Topic, reel.Subtopic, reel.Concept, reel.Script,
		reel.DurationSeconds, reel.OutputPath, boolToInt(reel.Degraded))
	if err != nil {
		return fmt.Errorf("record reel: %w", err)
	}
	return nil
}

// Lookup returns the reel recorded under cacheKey, or nil when absent.
func (s *Store) Lookup(ctx context.Context, cacheKey string) (*Reel, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, cache_key, topic, subtopic, concept, script, duration_seconds, output_path, degraded, created_at
FROM reels WHERE cache_key = ?`, cacheKey)
	reel, err := scanReel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup reel: %w", err)
	}
	return &reel, nil
}

// List returns the most recently recorded reels, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Reel, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, cache_key, topic, subtopic, concept, script, duration_seconds, output_path, degraded, created_at
FROM reels ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reels: %w", err)
	}
	defer rows.Close()

	var reels []Reel
	for rows.Next() {
		reel, err := scanReel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reel: %w", err)
		}
		reels = append(reels, reel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reels: %w", err)
	}
	return reels, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReel(row rowScanner) (Reel, error) {
	var reel Reel
	var degraded int
	var createdAt string
	err := row.Scan(&reel.ID, &reel.CacheKey, &reel.Topic, &reel.Subtopic, &reel.Concept,
		&reel.Script, &reel.DurationSeconds, &reel.OutputPath, &degraded, &createdAt)
	if err != nil {
		return Reel{}, err
	}
	reel.Degraded = degraded != 0
	if parsed, parseErr := time.Parse("2006-01-02 15:04:05", createdAt); parseErr == nil {
		reel.CreatedAt = parsed.UTC()
	}
	return reel, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// CacheKey derives the stable identity for a concept's reel. A forced key
// embeds a random suffix so a fresh render never collides with the cached
// one.
func CacheKey(topic, subtopic, concept string, forceUnique bool) string {
	sum := sha256.Sum256([]byte(topic + ":" + subtopic + ":" + concept))
	key := hex.EncodeToString(sum[:16])
	if forceUnique {
		key += "-" + uuid.NewString()
	}
	return key
}
