// Package logging provides the structured logger used across the seating tools.
package logging

// Logger defines methods for structured logging.
// All methods accept key-value pairs for structured fields.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(msg string, keysAndValues ...any)

	// Info logs a message at info level.
	Info(msg string, keysAndValues ...any)

	// Warn logs a message at warn level.
	Warn(msg string, keysAndValues ...any)

	// Error logs a message at error level.
	Error(msg string, keysAndValues ...any)
}
