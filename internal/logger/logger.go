package logger

import (
	"io"
	"log"
	"os"
)

var (
	// Default logger
	defaultLogger *log.Logger

	// Verbose mode
	verbose bool

	// Silent mode
	silent bool
)

// Init sets the verbosity modes. The output destination is left alone so a
// log file installed via SetOutput survives later Init calls; diagnostics
// default to stderr, keeping report output on stdout clean for redirection.
func Init(verboseMode bool, silentMode bool) {
	verbose = verboseMode
	silent = silentMode
}

// SetOutput sets the output destination for the logger
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// Info logs an informational message
func Info(format string, v ...interface{}) {
	if !silent {
		defaultLogger.Printf("[INFO] "+format, v...)
	}
}

// Debug logs a debug message (only in verbose mode)
func Debug(format string, v ...interface{}) {
	if verbose && !silent {
		defaultLogger.Printf("[DEBUG] "+format, v...)
	}
}

// Warn logs a warning message
func Warn(format string, v ...interface{}) {
	if !silent {
		defaultLogger.Printf("[WARN] "+format, v...)
	}
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	defaultLogger.Printf("[ERROR] "+format, v...)
}

// IsVerbose returns true if verbose mode is enabled
func IsVerbose() bool {
	return verbose
}

func init() {
	// Usable before Init for early failures.
	defaultLogger = log.New(os.Stderr, "", log.LstdFlags)
}
