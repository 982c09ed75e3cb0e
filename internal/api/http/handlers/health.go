// health.go 实现健康检查端点
//
// 🏥 **Kubernetes风格健康检查**
//
// 提供三层端点：
// - /health: 完整健康报告（存储与各引擎账面规模）
// - /health/live: 存活检查（进程是否响应）
// - /health/ready: 就绪检查（存储是否可用）

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	deedsInterface "github.com/titledger/v1/pkg/interfaces/deeds"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	validatorsInterface "github.com/titledger/v1/pkg/interfaces/validators"
)

// HealthHandlers 健康检查处理器
type HealthHandlers struct {
	logger    log.Logger
	startTime time.Time
	store     storage.KVStore
	registry  deedsInterface.Registry
	directory validatorsInterface.Directory
	version   string
}

// NewHealthHandlers 创建健康检查处理器
func NewHealthHandlers(
	logger log.Logger,
	store storage.KVStore,
	registry deedsInterface.Registry,
	directory validatorsInterface.Directory,
	version string,
) *HealthHandlers {
	return &HealthHandlers{
		logger:    logger,
		startTime: time.Now(),
		store:     store,
		registry:  registry,
		directory: directory,
		version:   version,
	}
}

// RegisterRoutes 注册健康检查路由
func (h *HealthHandlers) RegisterRoutes(r *gin.RouterGroup) {
	health := r.Group("/health")
	{
		health.GET("", h.GetHealth)
		health.GET("/live", h.GetLiveness)
		health.GET("/ready", h.GetReadiness)
	}
}

// GetHealth 获取完整健康报告
//
// GET /api/v1/health
//
// 返回整体状态、存储可用性与两本账的账面规模。任一组件异常时
// 整体状态降级为degraded，但HTTP状态保持200由编排层自行判读。
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	ctx := c.Request.Context()
	components := make(map[string]interface{})
	healthy := true

	// 存储可用性
	if err := h.checkStorage(ctx); err != nil {
		components["storage"] = gin.H{"status": "unhealthy", "error": err.Error()}
		healthy = false
	} else {
		components["storage"] = gin.H{"status": "healthy"}
	}

	// 资产登记账面规模
	if count, err := h.registry.Count(ctx); err != nil {
		components["deeds"] = gin.H{"status": "unhealthy", "error": err.Error()}
		healthy = false
	} else {
		components["deeds"] = gin.H{"status": "healthy", "assets": count}
	}

	// 验证方目录规模
	if records, err := h.directory.List(ctx); err != nil {
		components["validators"] = gin.H{"status": "unhealthy", "error": err.Error()}
		healthy = false
	} else {
		components["validators"] = gin.H{"status": "healthy", "registered": len(records)}
	}

	status := "healthy"
	if !healthy {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     status,
		"version":    h.version,
		"timestamp":  time.Now().Format(time.RFC3339),
		"uptime":     time.Since(h.startTime).String(),
		"components": components,
	})
}

// GetLiveness 存活检查
//
// GET /api/v1/health/live
func (h *HealthHandlers) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetReadiness 就绪检查
//
// GET /api/v1/health/ready
//
// 存储不可用时返回503，编排层据此摘除流量。
func (h *HealthHandlers) GetReadiness(c *gin.Context) {
	if err := h.checkStorage(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// checkStorage 探测底层存储可用性
func (h *HealthHandlers) checkStorage(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, err := h.store.Exists(ctx, []byte("health/probe"))
	return err
}
