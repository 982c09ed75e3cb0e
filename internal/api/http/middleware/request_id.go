package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 请求追踪标识头部
const RequestIDHeader = "X-Request-ID"

// requestIDContextKey 请求标识在gin上下文中的键
const requestIDContextKey = "tdl-request-id"

// RequestID 请求标识中间件
//
// 客户端携带X-Request-ID时沿用，否则生成新的uuid；
// 标识同时写入响应头，便于跨系统日志关联。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDContextKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID 从gin上下文读取请求标识
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDContextKey)
}
