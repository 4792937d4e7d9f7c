// Package logger defines the logging surface used across the library and a
// zerolog-backed implementation of it.
package logger

// Logger is the minimal logging interface the controllers and clients write
// to. Arguments are alternating key/value pairs.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Noop discards everything. It is the default when no logger is configured.
type Noop struct{}

func (Noop) Error(string, ...any) {}
func (Noop) Warn(string, ...any)  {}
func (Noop) Info(string, ...any)  {}
func (Noop) Debug(string, ...any) {}
