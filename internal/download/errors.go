package download

import "errors"

var (
	// ErrDirRequired is returned when no destination directory is configured.
	ErrDirRequired = errors.New("download directory is required")

	// ErrLoggerRequired is returned when no logger is provided.
	ErrLoggerRequired = errors.New("logger is required")

	// ErrUnexpectedStatus is returned when an artifact responds with a
	// non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
)
