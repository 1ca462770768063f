package snapshot

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"recipe-browser/internal/infrastructure/config"
	"recipe-browser/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client downloads a catalog snapshot bundle when no local data exists. The
// bundle is a JSON array of recipe documents carrying their own language and
// category fields; the importer picks it up like any other source file.
type Client struct {
	config *config.CatalogConfig
	client *resty.Client
}

// NewClient creates the snapshot client.
func NewClient(cfg *config.CatalogConfig) *Client {
	timeout := cfg.SnapshotTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second)

	return &Client{
		config: cfg,
		client: client,
	}
}

// Download fetches the snapshot and writes it under destDir as a bundle the
// importer will walk.
func (c *Client) Download(ctx context.Context, destDir string) error {
	if c.config.SnapshotURL == "" {
		return fmt.Errorf("no snapshot url configured")
	}

	common.LogInfo("downloading catalog snapshot",
		zap.String("url", c.config.SnapshotURL),
	)
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		Get(c.config.SnapshotURL)
	if err != nil {
		return fmt.Errorf("failed to download snapshot: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("snapshot server returned %d", resp.StatusCode())
	}

	// Bundle documents carry explicit language and category fields, so the
	// path-derived metadata of this location is never used.
	dest := filepath.Join(destDir, "snapshot", "bundle.json")
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := os.WriteFile(dest, resp.Body(), 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	common.LogInfo("catalog snapshot downloaded",
		zap.Int("bytes", len(resp.Body())),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("path", dest),
	)
	return nil
}
