package web

import (
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"newsdesk/internal/telemetry"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument wraps every request in a span, a latency observation and an
// access log line.
func (s *Server) instrument(next http.Handler) http.Handler {
	tracer := telemetry.Tracer("web")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := tracer.Start(r.Context(), r.Method+" "+route(r.URL.Path))
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", route(r.URL.Path)),
			attribute.Int("http.status_code", rec.status),
		)
		elapsed := time.Since(start)
		requestDuration.WithLabelValues(route(r.URL.Path), strconv.Itoa(rec.status)).Observe(elapsed.Seconds())
		s.log().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", elapsed),
		)
	})
}

// route bounds the label cardinality to the known paths.
func route(path string) string {
	switch path {
	case "/", "/start", "/choose", "/restart", "/trail.pdf", "/healthz", "/metrics":
		return path
	default:
		return "other"
	}
}
