package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notekeep_auth_attempts_total",
			Help: "Authentication attempts by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	TokensSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notekeep_tokens_swept_total",
			Help: "Expired access tokens removed by the sweeper",
		},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notekeep_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.LinearBuckets(0.05, 0.05, 10),
		},
		[]string{"method", "route", "status"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(AuthAttempts)
		prometheus.MustRegister(TokensSwept)
		prometheus.MustRegister(RequestDuration)
	})
}

func ObserveAuth(operation, outcome string) {
	AuthAttempts.WithLabelValues(operation, outcome).Inc()
}

func AddSwept(n int64) {
	if n > 0 {
		TokensSwept.Add(float64(n))
	}
}

// Middleware records latency under the matched route pattern, not the raw path.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
