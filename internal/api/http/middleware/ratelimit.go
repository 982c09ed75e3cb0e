package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	httptypes "github.com/titledger/v1/internal/api/http/types"
)

// RateLimit 按客户端IP的令牌桶限流中间件
//
// 查询操作宽松限流，状态变更操作严格限流。核心引擎自身串行化
// 写入，这里只挡住明显异常的请求洪峰。
type RateLimit struct {
	limiters   map[string]*rateLimiter
	mu         sync.RWMutex
	readLimit  int // 读操作QPS
	writeLimit int // 写操作QPS
}

// rateLimiter 单客户端令牌桶
type rateLimiter struct {
	tokens     int
	maxTokens  int
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimit 创建限流中间件
func NewRateLimit(readLimit, writeLimit int) *RateLimit {
	if readLimit <= 0 {
		readLimit = 200
	}
	if writeLimit <= 0 {
		writeLimit = 50
	}
	return &RateLimit{
		limiters:   make(map[string]*rateLimiter),
		readLimit:  readLimit,
		writeLimit: writeLimit,
	}
}

// Middleware 返回gin中间件
func (m *RateLimit) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := m.readLimit
		if c.Request.Method != http.MethodGet {
			limit = m.writeLimit
		}

		if !m.allowRequest(c.ClientIP(), limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httptypes.ErrorResponse{
				Error: "请求频率超限，请稍后重试",
			})
			return
		}
		c.Next()
	}
}

// allowRequest 检查指定客户端是否允许本次请求
func (m *RateLimit) allowRequest(clientID string, limit int) bool {
	m.mu.Lock()
	limiter, exists := m.limiters[clientID]
	if !exists {
		limiter = &rateLimiter{
			tokens:     limit,
			maxTokens:  limit,
			lastRefill: time.Now(),
		}
		m.limiters[clientID] = limiter
	}
	m.mu.Unlock()

	return limiter.consume()
}

// consume 消费一个令牌，按秒整批补充
func (r *rateLimiter) consume() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	tokensToAdd := int(now.Sub(r.lastRefill).Seconds()) * r.maxTokens
	if tokensToAdd > 0 {
		r.tokens += tokensToAdd
		if r.tokens > r.maxTokens {
			r.tokens = r.maxTokens
		}
		r.lastRefill = now
	}

	if r.tokens > 0 {
		r.tokens--
		return true
	}
	return false
}
