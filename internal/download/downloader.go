// Package download fetches catalog artifacts into a local directory.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jonesrussell/formharvest/internal/catalog"
	"github.com/jonesrussell/formharvest/internal/common/transport"
	"github.com/jonesrussell/formharvest/internal/logger"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Outcome describes the result of one artifact fetch attempt.
type Outcome string

const (
	// OutcomeDownloaded means the artifact was fetched and written to disk.
	OutcomeDownloaded Outcome = "downloaded"
	// OutcomeSkippedExists means a file with the record's name was
	// already on disk and nothing was fetched.
	OutcomeSkippedExists Outcome = "skipped_exists"
	// OutcomeSkippedNoFilename means the record carries no filename to
	// save under.
	OutcomeSkippedNoFilename Outcome = "skipped_no_filename"
	// OutcomeFailed means the fetch or write failed. The record stays
	// valid for metadata regardless.
	OutcomeFailed Outcome = "failed"
)

// Config holds the settings for a Downloader.
type Config struct {
	// Dir is the destination directory. Created if missing.
	Dir string
	// UserAgent is sent on every artifact request.
	UserAgent string
	// RequestTimeout bounds each artifact fetch.
	RequestTimeout time.Duration
}

// Downloader writes catalog artifacts into a destination directory. It
// uses its own HTTP client, separate from the catalog page session.
type Downloader struct {
	client    *http.Client
	dir       string
	userAgent string
	logger    logger.Interface
}

// NewDownloader creates the destination directory and returns a
// Downloader writing into it.
func NewDownloader(cfg Config, log logger.Interface) (*Downloader, error) {
	if cfg.Dir == "" {
		return nil, ErrDirRequired
	}
	if log == nil {
		return nil, ErrLoggerRequired
	}
	if err := os.MkdirAll(cfg.Dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	return &Downloader{
		client: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport.New(),
		},
		dir:       cfg.Dir,
		userAgent: cfg.UserAgent,
		logger:    log,
	}, nil
}

// Fetch downloads the record's artifact. The existence check is by
// filename only, so a file already on disk is never re-fetched or
// rewritten. Failures are logged and reported in the outcome, never
// returned, and a single failure affects only its own record.
func (d *Downloader) Fetch(ctx context.Context, rec *catalog.FormRecord) Outcome {
	if rec.Filename == "" {
		return OutcomeSkippedNoFilename
	}

	path := filepath.Join(d.dir, rec.Filename)
	if _, err := os.Stat(path); err == nil {
		d.logger.Info("Artifact already downloaded", "filename", rec.Filename)
		return OutcomeSkippedExists
	}

	d.logger.Info("Downloading artifact", "filename", rec.Filename, "url", rec.ArtifactURL)

	body, err := d.fetchArtifact(ctx, rec.ArtifactURL)
	if err != nil {
		d.logger.Error("Failed to download artifact",
			"filename", rec.Filename,
			"url", rec.ArtifactURL,
			"error", err)
		return OutcomeFailed
	}

	if writeErr := os.WriteFile(path, body, filePerm); writeErr != nil {
		d.logger.Error("Failed to write artifact", "path", path, "error", writeErr)
		return OutcomeFailed
	}

	d.logger.Info("Saved artifact", "filename", rec.Filename, "bytes", len(body))

	return OutcomeDownloaded
}

// fetchArtifact performs the single GET for an artifact URL. There are
// no retries; the caller decides what a failure means.
func (d *Downloader) fetchArtifact(ctx context.Context, artifactURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, doErr := d.client.Do(req)
	if doErr != nil {
		return nil, fmt.Errorf("failed to fetch artifact: %w", doErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, fmt.Errorf("failed to read artifact body: %w", readErr)
	}

	return body, nil
}
