// Package logger builds the application's slog loggers.
//
// New returns a JSON stdout logger with an env-configured level. When
// SENTRY_DSN is set, warnings and errors are additionally forwarded to
// Sentry through a fan-out handler; errors create Sentry issues.
// NewNope returns a discard logger for tests.
package logger
