package middleware

import (
	"net/http"
	"time"

	"machflow/pkg/metrics"
)

// MetricsMiddleware records every request's duration and status. The endpoint
// label is the matched mux pattern so that id-carrying paths do not explode
// the label cardinality; unmatched requests fall back to the raw path.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		rw := &statusRecorder{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		endpoint := r.Pattern
		if endpoint == "" {
			endpoint = r.URL.Path
		}

		metrics.RecordHttpRequest(
			r.Method,
			endpoint,
			http.StatusText(rw.status),
			time.Since(startTime),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	return rw.ResponseWriter.Write(b)
}
