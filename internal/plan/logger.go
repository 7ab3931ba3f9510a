package plan

import (
	"io"
	"log"
	"os"
)

// Planning and execution narrate through one stderr logger. Debug, info and
// warn lines appear only in verbose mode; errors always print. Verbosity
// defaults from TSPARAM_VERBOSE=1 and the CLI flips it with SetVerbose.
var (
	verbose = os.Getenv("TSPARAM_VERBOSE") == "1"
	logger  = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
)

// SetVerbose toggles the gated levels at runtime.
func SetVerbose(on bool) { verbose = on }

// SetOutput redirects log output; tests capture it this way.
func SetOutput(w io.Writer) { logger.SetOutput(w) }

func logf(level, format string, args ...interface{}) {
	logger.Printf("["+level+"] "+format, args...)
}

// Debugf writes a debug line in verbose mode.
func Debugf(format string, args ...interface{}) {
	if verbose {
		logf("DEBUG", format, args...)
	}
}

// Infof writes an info line in verbose mode.
func Infof(format string, args ...interface{}) {
	if verbose {
		logf("INFO", format, args...)
	}
}

// Warnf writes a warning line in verbose mode.
func Warnf(format string, args ...interface{}) {
	if verbose {
		logf("WARN", format, args...)
	}
}

// Errorf writes regardless of verbosity.
func Errorf(format string, args ...interface{}) {
	logf("ERROR", format, args...)
}
