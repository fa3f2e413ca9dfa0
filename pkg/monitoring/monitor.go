package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	ChatSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_submissions_total",
			Help: "Chat submissions by outcome",
		},
		[]string{"outcome", "embedding_type"},
	)

	EmbeddingToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_toggles_total",
			Help: "Embedding mode toggle attempts by outcome",
		},
		[]string{"outcome"},
	)

	UnresolvedCitations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "citation_markers_unresolved_total",
			Help: "Citation markers left unlinked because no citation matched",
		},
	)

	BackendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Duration of calls to the chat backend",
			Buckets: []float64{0.25, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"endpoint", "status"},
	)
)

var once sync.Once

func Init() {
	once.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(ChatSubmissions)
		prometheus.MustRegister(EmbeddingToggles)
		prometheus.MustRegister(UnresolvedCitations)
		prometheus.MustRegister(BackendDuration)
	})
}

// ObserveBackend 记录一次后端调用耗时，status 为 HTTP 状态码，传输错误时为 0
func ObserveBackend(endpoint string, status int, start time.Time) {
	BackendDuration.WithLabelValues(endpoint, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
