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

	// LedgerMessages 按消息类型和结果（ok 或错误种类）计数
	LedgerMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_messages_total",
			Help: "Total number of ledger execute and query messages",
		},
		[]string{"type", "msg", "result"},
	)

	LedgerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_message_duration_seconds",
			Help:    "Duration of ledger message handling",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"type", "msg"},
	)

	BadgesMinted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_badges_minted_total",
			Help: "Total number of badges minted",
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(LedgerMessages)
		prometheus.MustRegister(LedgerDuration)
		prometheus.MustRegister(BadgesMinted)
	})
}

// ObserveMessage 记录一条账本消息
func ObserveMessage(kind, msg, result string, duration time.Duration) {
	LedgerMessages.WithLabelValues(kind, msg, result).Inc()
	LedgerDuration.WithLabelValues(kind, msg).Observe(duration.Seconds())
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
