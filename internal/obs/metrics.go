package obs

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	CoursesAddedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_courses_added_total",
			Help: "Total number of courses added to the catalog",
		},
	)
	CoursesDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_courses_deleted_total",
			Help: "Total number of courses deleted from the catalog",
		},
	)
	ValidationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_validation_failures_total",
			Help: "Total number of add-course validation failures by kind",
		},
		[]string{"kind"},
	)
	StoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_store_errors_total",
			Help: "Total number of record store failures by operation",
		},
		[]string{"operation"},
	)
	CatalogPageViewsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_page_views_total",
			Help: "Total number of catalog page renders",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(CoursesAddedTotal)
	prometheus.MustRegister(CoursesDeletedTotal)
	prometheus.MustRegister(ValidationFailuresTotal)
	prometheus.MustRegister(StoreErrorsTotal)
	prometheus.MustRegister(CatalogPageViewsTotal)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			// fallback when route pattern is unavailable
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// RecordCourseAdded counts a successful catalog append.
func RecordCourseAdded() { CoursesAddedTotal.Inc() }

// RecordCourseDeleted counts a successful catalog delete.
func RecordCourseDeleted() { CoursesDeletedTotal.Inc() }

// RecordValidationFailure counts an add-course validation failure.
// Kind is "missing_field" or "validation".
func RecordValidationFailure(kind string) {
	ValidationFailuresTotal.WithLabelValues(kind).Inc()
}

// RecordStoreError counts a record store failure for the named operation.
func RecordStoreError(operation string) {
	StoreErrorsTotal.WithLabelValues(operation).Inc()
}

// RecordCatalogPageView counts one catalog page render.
func RecordCatalogPageView() { CatalogPageViewsTotal.Inc() }
