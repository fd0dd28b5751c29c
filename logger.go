package surfplay

import "log"

var pkgLogger Logger = log.Default()

// Anything that can print formatted lines. [*log.Logger] satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

// Replaces the package logger. Source open failures and session errors
// raised inside callbacks are only ever reported here.
func SetLogger(logger Logger) {
	pkgLogger = logger
}
