package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level written to stdout: debug, info, warn, error.
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// SentryDSN enables the Sentry handler when set. Empty DSN means
	// stdout-only logging, which is the right default for local dev.
	SentryDSN         string `env:"SENTRY_DSN"`
	SentryEnvironment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
}

// New creates a JSON-formatted stdout logger. When a Sentry DSN is
// configured, warnings and errors are additionally forwarded to Sentry;
// if Sentry initialization fails the logger degrades to stdout only.
func New(cfg Config) *slog.Logger {
	stdoutHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})

	if cfg.SentryDSN == "" {
		return slog.New(stdoutHandler)
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		EnableLogs:  true,
	}); err != nil {
		log := slog.New(stdoutHandler)
		log.Error("failed to initialize sentry", slog.String("error", err.Error()))
		return log
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	return slog.New(newMultiHandler(stdoutHandler, sentryHandler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
