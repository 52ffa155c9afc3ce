package caption

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
)

// Describer combines the service client with the cache. The cache is
// consulted first; cache write failures are logged, never fatal.
type Describer struct {
	client *Client
	cache  *Cache
	logger *slog.Logger
}

// NewDescriber wires a client and an optional cache (nil disables caching).
func NewDescriber(client *Client, cache *Cache, logger *slog.Logger) *Describer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Describer{client: client, cache: cache, logger: logger}
}

// DescribeFile returns a description for the image file at path.
func (d *Describer) DescribeFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	sum := sha1.Sum(data)
	key := hex.EncodeToString(sum[:])

	if d.cache != nil {
		caption, ok, err := d.cache.Get(ctx, key)
		if err != nil {
			d.logger.Warn("caption cache read failed", "error", err)
		} else if ok {
			d.logger.Debug("caption cache hit", "image", filepath.Base(path))
			return caption, nil
		}
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	caption, err := d.client.Describe(ctx, data, mimeType)
	if err != nil {
		return "", err
	}

	if d.cache != nil {
		if err := d.cache.Put(ctx, key, caption); err != nil {
			d.logger.Warn("caption cache write failed", "error", err)
		}
	}
	return caption, nil
}
