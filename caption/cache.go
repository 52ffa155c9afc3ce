package caption

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Cache stores generated captions keyed by image SHA-1.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if needed) the caption cache at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open caption cache: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS captions (
			image_sha1 TEXT PRIMARY KEY,
			caption    TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("caption cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get returns the cached caption for an image hash, if present.
func (c *Cache) Get(ctx context.Context, imageSHA1 string) (string, bool, error) {
	var caption string
	err := c.db.QueryRowContext(ctx,
		`SELECT caption FROM captions WHERE image_sha1 = ?`, imageSHA1).Scan(&caption)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return caption, true, nil
}

// Put stores a caption for an image hash, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, imageSHA1, caption string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO captions (image_sha1, caption, created_at) VALUES (?, ?, ?)`,
		imageSHA1, caption, time.Now().Unix())
	return err
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
