// Package crawler walks a paginated forms catalog, extracting and
// classifying listing rows, downloading accepted artifacts, and
// persisting the accepted records when the walk finishes.
package crawler

import "errors"

var (
	// ErrSourceRequired is returned when no source is provided.
	ErrSourceRequired = errors.New("source is required")

	// ErrSessionRequired is returned when no page session is provided.
	ErrSessionRequired = errors.New("session is required")

	// ErrDownloaderRequired is returned when no artifact downloader is provided.
	ErrDownloaderRequired = errors.New("downloader is required")

	// ErrMetadataWriterRequired is returned when no metadata writer is provided.
	ErrMetadataWriterRequired = errors.New("metadata writer is required")

	// ErrLoggerRequired is returned when no logger is provided.
	ErrLoggerRequired = errors.New("logger is required")

	// ErrNoResponse is returned when a visit completes without any
	// response reaching the session.
	ErrNoResponse = errors.New("no response received")

	// ErrUnexpectedStatus is returned when a catalog page responds with
	// a non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
)
