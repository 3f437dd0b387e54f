package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/ahrav/go-medals/infrastructure/middleware"
	"github.com/ahrav/go-medals/internal/ports"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// routeOf returns the path template of the matched route, e.g.
// "/api/countries/{name}", falling back to the raw path.
func routeOf(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

// Tracing wraps each request in an OpenTelemetry span named after its
// route.
func Tracing() mux.MiddlewareFunc {
	tracer := otel.Tracer(middleware.TracerName)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := routeOf(r)
			ctx, span := tracer.Start(r.Context(), r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.route", route),
					attribute.String("http.method", r.Method),
				),
			)
			defer span.End()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			span.SetAttributes(attribute.Int("http.status_code", rec.status))
			if rec.status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rec.status))
			}
		})
	}
}

// Metrics records request counts and latency in collector and logs each
// request at debug level. A nil collector only logs.
func Metrics(collector ports.MetricsCollector, logger logrus.FieldLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			route := routeOf(r)
			if collector != nil {
				collector.RecordLatency(middleware.OperationHTTPRequest, elapsed, map[string]string{
					"route":  route,
					"method": r.Method,
				})
				collector.RecordCounter(middleware.MetricHTTPRequests, 1, map[string]string{
					"route":  route,
					"method": r.Method,
					"code":   strconv.Itoa(rec.status),
				})
			}
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"method":   r.Method,
					"path":     r.URL.Path,
					"status":   rec.status,
					"duration": elapsed,
				}).Debug("request served")
			}
		})
	}
}

// RateLimit rejects requests beyond limit per second (with burst) with 429.
// One token bucket is shared by all clients.
func RateLimit(limit rate.Limit, burst int, collector ports.MetricsCollector) mux.MiddlewareFunc {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				if collector != nil {
					collector.RecordCounter(middleware.MetricRateLimited, 1, map[string]string{"route": routeOf(r)})
				}
				w.Header().Set("Retry-After", "1")
				RespondWithError(w, http.StatusTooManyRequests, Error{Message: "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
