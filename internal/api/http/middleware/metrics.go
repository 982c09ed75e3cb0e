package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	infralog "github.com/titledger/v1/pkg/interfaces/infrastructure/log"
)

// Metrics API请求指标中间件
// 按方法、路由模板与状态码统计请求量和时延
type Metrics struct {
	logger infralog.Logger

	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics 创建请求指标中间件
func NewMetrics(logger infralog.Logger) *Metrics {
	m := &Metrics{
		logger: logger,
		requestCounter: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tdl",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "HTTP请求总数",
		}, []string{"method", "path", "status"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tdl",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP请求处理时长（秒）",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	if logger != nil {
		logger.Debug("✅ API请求指标已注册")
	}
	return m
}

// Middleware 返回gin中间件
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// 使用路由模板而非原始路径，避免按ID展开的高基数标签
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.requestCounter.WithLabelValues(c.Request.Method, path, status).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
