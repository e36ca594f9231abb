// Package monitoring holds the process-wide diagnostic logger. Sweeps run
// for hours, so progress lines go through one redirectable hook instead of
// log.Printf calls scattered through the solver packages.
package monitoring

import "log"

// Logf emits a diagnostic line. It defaults to log.Printf and may be
// replaced via SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. A nil argument installs a no-op
// logger, which tests use to keep solve progress out of test output.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
