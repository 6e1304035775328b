package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
)

// FileCache keeps rendered pages as <dir>/<id>.html in front of another
// Fetcher.
type FileCache struct {
	dir    string
	next   Fetcher
	logger zerolog.Logger
}

func NewFileCache(dir string, next Fetcher, logger zerolog.Logger) *FileCache {
	return &FileCache{dir: dir, next: next, logger: logger}
}

func (c *FileCache) path(patchID int) string {
	return filepath.Join(c.dir, strconv.Itoa(patchID)+".html")
}

func (c *FileCache) Fetch(ctx context.Context, patchID int) (string, error) {
	data, err := os.ReadFile(c.path(patchID))
	if err == nil {
		c.logger.Debug().Int("patch_id", patchID).Msg("page cache hit")
		return string(data), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to read cached page %d: %w", patchID, err)
	}

	html, err := c.next.Fetch(ctx, patchID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		c.logger.Warn().Err(err).Str("dir", c.dir).Msg("failed to create page cache")
		return html, nil
	}
	if err := os.WriteFile(c.path(patchID), []byte(html), 0o644); err != nil {
		c.logger.Warn().Err(err).Int("patch_id", patchID).Msg("failed to cache page")
	}
	return html, nil
}

func (c *FileCache) Close() error {
	return c.next.Close()
}
