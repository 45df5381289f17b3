// Package logger provides logging functionality for the application.
package logger

// Default configuration values.
const (
	// DefaultLevel is the default logging level.
	DefaultLevel = InfoLevel
	// DefaultEncoding is the default log encoding format.
	DefaultEncoding = "console"
	// DefaultLogFile is the log file the harvester writes alongside the console.
	DefaultLogFile = "formharvest.log"
)

// Default output paths.
var (
	// DefaultOutputPaths is the default list of paths to write log output to.
	DefaultOutputPaths = []string{"stdout", DefaultLogFile}
	// DefaultErrorOutputPaths is the default list of paths to write internal logger errors to.
	DefaultErrorOutputPaths = []string{"stderr"}
)
