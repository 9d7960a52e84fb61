// Package logger builds the service's structured logger: JSON to stdout,
// request-scoped attributes pulled from the context, and an optional Sentry
// fan-out for warnings and errors.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// ContextExtractor pulls one attribute out of a request context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// Options configures New.
type Options struct {
	Level       slog.Level
	Output      io.Writer
	SentryDSN   string
	Environment string
	Extractors  []ContextExtractor
}

// New creates a JSON logger. When SentryDSN is set, warnings are sent to
// Sentry as logs and errors as events; a failed Sentry init falls back to
// stdout only.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	var handler slog.Handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: opts.Level})

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryDSN,
			Environment: opts.Environment,
			EnableLogs:  true,
		})
		if err != nil {
			slog.New(handler).Error("sentry init failed", slog.String("error", err.Error()))
		} else {
			sentryHandler := sentryslog.Option{
				EventLevel: []slog.Level{slog.LevelError},
				LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
			}.NewSentryHandler(context.Background())
			handler = &fanout{handlers: []slog.Handler{handler, sentryHandler}}
		}
	}

	return slog.New(&extracting{next: handler, extractors: compact(opts.Extractors)})
}

// Flush waits up to timeout for buffered Sentry events to be sent. It is a
// no-op when Sentry was never initialized.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// NewNope returns a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func compact(in []ContextExtractor) []ContextExtractor {
	out := make([]ContextExtractor, 0, len(in))
	for _, ex := range in {
		if ex != nil {
			out = append(out, ex)
		}
	}
	return out
}
