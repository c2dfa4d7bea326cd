// Package transfer implements the FileTransfer port over HTTP. Downloads are
// written to a temporary file first and renamed into place only on success,
// so a partial transfer never masquerades as a finished download.
package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sargamapp/sargam/internal/ports"
)

// HTTPTransfer downloads files over HTTP.
type HTTPTransfer struct {
	http   *http.Client
	logger *slog.Logger
}

// NewHTTPTransfer creates a transfer with the given per-request timeout.
func NewHTTPTransfer(timeout time.Duration, logger *slog.Logger) *HTTPTransfer {
	return &HTTPTransfer{
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Fetch downloads url into destPath. The destination directory must exist.
// On any error the destination file is left untouched.
func (t *HTTPTransfer) Fetch(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		if err == nil {
			err = closeErr
		}
		return fmt.Errorf("failed to write download: %w", err)
	}

	if err := os.Rename(tmpName, destPath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to move download into place: %w", err)
	}

	t.logger.Debug("file fetched",
		slog.String("url", url),
		slog.String("dest", destPath),
		slog.Int64("bytes", written))

	return nil
}

// Verify interface implementation
var _ ports.FileTransfer = (*HTTPTransfer)(nil)
