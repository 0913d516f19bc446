package web

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/demofrager/whoami/internal/metrics"
)

const unknown = "unknown"

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for metrics and logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// observe counts every request and, when enabled, writes one access log
// entry for it. Scrapes of /metrics and static assets are not recorded.
func (s *Server) observe(next http.Handler) http.Handler {
	access := s.log.Named("access")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" || strings.HasPrefix(r.URL.Path, "/static/") {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// The mux records the matched route on r.
		endpoint := endpointLabel(r.Pattern)
		country := clientCountry(r)
		metrics.RecordRequest(r.Method, endpoint, strconv.Itoa(rec.status), country)

		if s.opts.LogIPs {
			access.Info("request",
				zap.String("ip", clientIP(r)),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("endpoint", endpoint),
				zap.Int("status", rec.status),
				zap.String("country", country),
				zap.String("user_agent", r.UserAgent()),
			)
		}
	})
}

// endpointLabel turns a mux pattern like "GET /venting/{slug}" into
// "/venting/{slug}". Unmatched requests are "not_found".
func endpointLabel(pattern string) string {
	if pattern == "" {
		return "not_found"
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		pattern = path
	}
	return strings.TrimSuffix(pattern, "{$}")
}

// clientIP prefers proxy headers over the connection address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	if r.RemoteAddr == "" {
		return unknown
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func clientCountry(r *http.Request) string {
	if c := r.Header.Get("CF-IPCountry"); c != "" {
		return c
	}
	if c := r.Header.Get("X-Geo-Country"); c != "" {
		return c
	}
	return unknown
}
