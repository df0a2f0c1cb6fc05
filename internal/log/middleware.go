package log

import (
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs every request with method, path, status and duration.
// 4xx responses log at Warn, 5xx at Error.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		switch {
		case rec.status >= 500:
			level = slog.LevelError
		case rec.status >= 400:
			level = slog.LevelWarn
		}

		slog.Default().Log(r.Context(), level, "HTTP request completed",
			FieldComponent, ComponentHTTP,
			FieldMethod, r.Method,
			FieldPath, r.URL.Path,
			FieldQuery, r.URL.RawQuery,
			FieldStatusCode, rec.status,
			FieldDuration, time.Since(start).Milliseconds(),
		)
	})
}
