package ir

import (
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// pkgLogger is the package-wide structured logger. The teacher's go.mod
// already declares charmbracelet/log as a dependency but never exercises
// it (its logging is all stdlib log.Printf through cgo shims); this module
// is its first real caller, used throughout decode/encode/session code for
// debug-level diagnostics that never affect control flow.
var pkgLogger atomic.Pointer[log.Logger]

func init() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "irdecoder",
	})
	l.SetLevel(log.WarnLevel)
	pkgLogger.Store(l)
}

// SetLogger replaces the package-wide logger, letting a host application
// route irdecoder's diagnostics into its own logging pipeline.
func SetLogger(l *log.Logger) {
	pkgLogger.Store(l)
}

func logger() *log.Logger {
	return pkgLogger.Load()
}
