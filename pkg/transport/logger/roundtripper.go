package logger

import (
	"log/slog"
	"net/http"
	"time"
)

// New returns a transport middleware that logs outbound requests using structured logging.
func New(handler slog.Handler) func(next http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return &roundTripper{handler: handler, next: next}
	}
}

type roundTripper struct {
	handler slog.Handler
	next    http.RoundTripper
}

func (l *roundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	attrs := []slog.Attr{
		slog.String("http_scheme", r.URL.Scheme),
		slog.String("http_method", r.Method),
		slog.String("uri", r.URL.String()),
	}

	if r.ContentLength > 0 {
		attrs = append(attrs, slog.Int64("req_byte_length", r.ContentLength))
	}

	logger := slog.New(l.handler.WithAttrs(attrs))
	logger.Log(ctx, slog.LevelDebug, "request started")

	start := time.Now()
	resp, err := l.next.RoundTrip(r)
	elapsed := slog.Float64("resp_elapsed_ms", float64(time.Since(start).Nanoseconds())/1000000.0)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "request failed",
			slog.String("error", err.Error()),
			elapsed,
		)

		return nil, err
	}

	logger.LogAttrs(ctx, slog.LevelDebug, "request complete",
		slog.Int("resp_status", resp.StatusCode),
		elapsed,
	)

	return resp, nil
}
