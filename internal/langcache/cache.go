package langcache

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"trackscan/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the cache with 'trackscan cache clear'.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Entry is one cached lookup result.
type Entry struct {
	// Key identifies the lookup: "imdb:tt...", "tmdb:123", or "title:query".
	Key string
	// Language is the 3-letter tag-form code ("fre", "chi").
	Language string
	// Title is the human-readable movie title, kept for 'cache list'.
	Title    string
	CachedAt time.Time
}

// Cache provides access to the language cache. A Cache opened with an empty
// path is a no-op: lookups miss and stores succeed without touching disk.
type Cache struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open initializes or connects to the cache database. An empty path yields a
// disabled no-op cache.
func Open(path string, logger *slog.Logger) (*Cache, error) {
	logger = logging.NewComponentLogger(logger, "langcache")

	path = strings.TrimSpace(path)
	if path == "" {
		return &Cache{logger: logger}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{db: db, path: path, logger: logger}
	if err := cache.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

// Enabled reports whether the cache is backed by a database.
func (c *Cache) Enabled() bool { return c.db != nil }

// Path returns the database location, empty when disabled.
func (c *Cache) Path() string { return c.path }

// Close releases the database handle.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup returns the cached language for a key, if present.
func (c *Cache) Lookup(ctx context.Context, key string) (Entry, bool) {
	key = strings.TrimSpace(key)
	if key == "" || c.db == nil {
		return Entry{}, false
	}

	row := c.db.QueryRowContext(ctx,
		"SELECT key, language, title, cached_at FROM languages WHERE key = ?", key)
	var entry Entry
	var cachedAt string
	if err := row.Scan(&entry.Key, &entry.Language, &entry.Title, &cachedAt); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.logger.Warn("cache lookup failed", logging.String("key", key), logging.Error(err))
		}
		return Entry{}, false
	}
	if parsed, err := time.Parse(time.RFC3339, cachedAt); err == nil {
		entry.CachedAt = parsed
	}
	return entry, true
}

// Store inserts or replaces an entry.
func (c *Cache) Store(ctx context.Context, entry Entry) error {
	entry.Key = strings.TrimSpace(entry.Key)
	if entry.Key == "" {
		return errors.New("cache key cannot be empty")
	}
	if strings.TrimSpace(entry.Language) == "" {
		return errors.New("cache language cannot be empty")
	}
	if c.db == nil {
		return nil
	}

	if entry.CachedAt.IsZero() {
		entry.CachedAt = time.Now().UTC()
	}
	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO languages (key, language, title, cached_at) VALUES (?, ?, ?, ?)",
		entry.Key, entry.Language, entry.Title, entry.CachedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("persist cache entry: %w", err)
	}

	c.logger.Debug("cached language lookup",
		logging.String("key", entry.Key),
		logging.String("language", entry.Language))
	return nil
}

// List returns all entries, newest first.
func (c *Cache) List(ctx context.Context) ([]Entry, error) {
	if c.db == nil {
		return nil, nil
	}

	rows, err := c.db.QueryContext(ctx,
		"SELECT key, language, title, cached_at FROM languages ORDER BY cached_at DESC, key ASC")
	if err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var cachedAt string
		if err := rows.Scan(&entry.Key, &entry.Language, &entry.Title, &cachedAt); err != nil {
			return nil, fmt.Errorf("scan cache entry: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, cachedAt); err == nil {
			entry.CachedAt = parsed
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear removes all entries.
func (c *Cache) Clear(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	if _, err := c.db.ExecContext(ctx, "DELETE FROM languages"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Count returns the number of cached entries.
func (c *Cache) Count(ctx context.Context) (int, error) {
	if c.db == nil {
		return 0, nil
	}
	var count int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM languages").Scan(&count); err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return count, nil
}

func (c *Cache) initSchema(ctx context.Context) error {
	var tableExists int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return c.createSchema(ctx)
	}

	var version int
	err = c.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'trackscan cache clear' or delete %s)",
			ErrSchemaMismatch, version, schemaVersion, c.path)
	}
	return nil
}

func (c *Cache) createSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
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
	return tx.Commit()
}

// KeyForID builds a cache key for an external-ID lookup.
func KeyForID(source, value string) string {
	return source + ":" + value
}

// KeyForTitle builds a cache key for a title search.
func KeyForTitle(title string, year int) string {
	title = strings.ToLower(strings.TrimSpace(title))
	if year > 0 {
		return fmt.Sprintf("title:%s (%d)", title, year)
	}
	return "title:" + title
}
