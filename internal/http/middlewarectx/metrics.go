package middlewarectx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "devprocess"

// requestsTotal считает обработанные HTTP-запросы по методу, шаблону пути и статусу.
var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "http_requests_total",
		Help:      "Total number of processed HTTP requests.",
	},
	[]string{"method", "path", "status"},
)

// requestDuration измеряет длительность обработки запроса.
var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP request handling.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "path"},
)

// MetricsMiddleware собирает счетчик запросов и гистограмму длительности.
//
// Путь берется из шаблона маршрута chi, а не из сырого URL, чтобы
// не плодить метки на каждый uid.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		routePath := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePath = rctx.RoutePattern()
		}
		requestsTotal.WithLabelValues(r.Method, routePath, strconv.Itoa(ww.Status())).Inc()
		requestDuration.WithLabelValues(r.Method, routePath).Observe(time.Since(start).Seconds())
	})
}
