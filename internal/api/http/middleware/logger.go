package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	infralog "github.com/titledger/v1/pkg/interfaces/infrastructure/log"
)

// Logger 请求日志中间件
// 记录所有API请求的方法、路径、状态与耗时（复用系统统一日志接口）
type Logger struct {
	logger infralog.Logger
}

// NewLogger 创建请求日志中间件
func NewLogger(logger infralog.Logger) *Logger {
	return &Logger{logger: logger}
}

// Middleware 返回gin中间件
func (m *Logger) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		// 优先使用底层zap记录器输出结构化日志
		if zl := m.logger.GetZapLogger(); zl != nil {
			fields := []zap.Field{
				zap.String("request_id", GetRequestID(c)),
				zap.String("method", c.Request.Method),
				zap.String("path", path),
				zap.String("query", query),
				zap.String("caller", string(GetCaller(c))),
				zap.Int("status", status),
				zap.Duration("latency", latency),
				zap.String("client_ip", c.ClientIP()),
			}
			if len(c.Errors) > 0 {
				fields = append(fields, zap.String("errors", c.Errors.String()))
			}
			switch {
			case status >= 500:
				zl.Error("HTTP request", fields...)
			case status >= 400:
				zl.Warn("HTTP request", fields...)
			default:
				zl.Info("HTTP request", fields...)
			}
			return
		}

		// 回退：无底层zap时输出文本日志
		msg := fmt.Sprintf("HTTP request | id=%s method=%s path=%s status=%d latency=%s caller=%s",
			GetRequestID(c), c.Request.Method, path, status, latency.String(), GetCaller(c))
		switch {
		case status >= 500:
			m.logger.Error(msg)
		case status >= 400:
			m.logger.Warn(msg)
		default:
			m.logger.Info(msg)
		}
	}
}
