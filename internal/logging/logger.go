package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config controls logger construction.
type Config struct {
	Level       string
	Format      string
	Service     string
	Version     string
	Environment string
	SentryDSN   string
	Output      io.Writer
}

// NewLogger returns a structured logger with sane defaults.
// Errors are additionally forwarded to Sentry when a DSN is configured.
func NewLogger(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	level := parseLevel(cfg.Level)

	handler := baseHandler(out, cfg.Format, level)
	if cfg.SentryDSN != "" {
		if sentryHandler, err := newSentryHandler(cfg); err == nil {
			handler = slogmulti.Fanout(handler, sentryHandler)
		} else {
			slog.New(handler).Warn("sentry disabled", "error", err)
		}
	}

	attrs := WithCommon(nil, cfg.Service, cfg.Version)
	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}
	return slog.New(handler)
}

// Flush waits for buffered Sentry events; a no-op when Sentry is not configured.
func Flush(timeout time.Duration) {
	if sentry.CurrentHub().Client() == nil {
		return
	}
	sentry.Flush(timeout)
}

func baseHandler(out io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		return slog.NewJSONHandler(out, opts)
	case FormatConsole:
		zl := zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
		return slogzerolog.Option{Level: level, Logger: &zl}.NewZerologHandler()
	default:
		return slog.NewTextHandler(out, opts)
	}
}

func newSentryHandler(cfg Config) (slog.Handler, error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     cfg.Version,
	})
	if err != nil {
		return nil, err
	}
	return slogsentry.Option{Level: slog.LevelError}.NewSentryHandler(), nil
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
