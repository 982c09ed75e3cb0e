// Package http 提供TDL的HTTP API服务
//
// 🌐 **HTTP接入层**
//
// 基于gin的REST服务：所有业务端点挂在 /api/v1 下，调用方身份
// 经 X-TDL-Caller 请求头断言后透传给核心引擎，接入层自身不做
// 任何业务裁决。服务生命周期由fx钩子管理。
package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/titledger/v1/internal/api/http/handlers"
	"github.com/titledger/v1/internal/api/http/middleware"
	"github.com/titledger/v1/pkg/constants"
	"github.com/titledger/v1/pkg/interfaces/config"
	deedsInterface "github.com/titledger/v1/pkg/interfaces/deeds"
	fractionsInterface "github.com/titledger/v1/pkg/interfaces/fractions"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	treasuryInterface "github.com/titledger/v1/pkg/interfaces/treasury"
	validatorsInterface "github.com/titledger/v1/pkg/interfaces/validators"
	vaultInterface "github.com/titledger/v1/pkg/interfaces/vault"
)

// Server HTTP服务器
//
// 持有gin路由引擎与全部核心引擎接口，负责路由装配和服务启停。
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     config.Provider
	logger     log.Logger

	store     storage.KVStore
	registry  deedsInterface.Registry
	directory validatorsInterface.Directory
	ledger    treasuryInterface.Ledger
	vault     vaultInterface.Vault
	fractions fractionsInterface.Engine
}

// NewServer 创建HTTP服务器并注册fx生命周期钩子
func NewServer(
	lifecycle fx.Lifecycle,
	provider config.Provider,
	logger log.Logger,
	store storage.KVStore,
	registry deedsInterface.Registry,
	directory validatorsInterface.Directory,
	ledger treasuryInterface.Ledger,
	vault vaultInterface.Vault,
	fractions fractionsInterface.Engine,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		router:    gin.New(),
		config:    provider,
		logger:    logger,
		store:     store,
		registry:  registry,
		directory: directory,
		ledger:    ledger,
		vault:     vault,
		fractions: fractions,
	}

	server.setupRoutes()

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Stop(ctx)
		},
	})

	return server
}

// Router 暴露底层gin引擎（测试用）
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupRoutes 装配中间件与全部API端点
func (s *Server) setupRoutes() {
	apiOptions := s.config.GetAPI()

	// 全局中间件：恢复 → 请求ID → 限流 → CORS → 指标 → 日志 → 身份
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.NewRateLimit(0, 0).Middleware())
	if apiOptions != nil && apiOptions.HTTP.CORSEnabled {
		s.router.Use(s.corsMiddleware(apiOptions.HTTP.CORSOrigins))
	}
	if apiOptions == nil || apiOptions.HTTP.MetricsEnabled {
		s.router.Use(middleware.NewMetrics(s.logger).Middleware())
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	s.router.Use(middleware.NewLogger(s.logger).Middleware())
	s.router.Use(middleware.CallerIdentity())

	v1 := s.router.Group("/api/v1")

	handlers.NewHealthHandlers(s.logger, s.store, s.registry, s.directory, constants.Version).RegisterRoutes(v1)
	handlers.NewDeedHandlers(s.registry, s.logger).RegisterRoutes(v1)
	handlers.NewValidatorHandlers(s.directory, s.logger).RegisterRoutes(v1)
	handlers.NewTreasuryHandlers(s.ledger, s.logger).RegisterRoutes(v1)
	handlers.NewVaultHandlers(s.vault, s.logger).RegisterRoutes(v1)
	handlers.NewFractionHandlers(s.fractions, s.logger).RegisterRoutes(v1)
	handlers.NewSubdivisionHandlers(s.fractions, s.logger).RegisterRoutes(v1)

	s.logger.Info("✅ HTTP路由装配完成")
}

// corsMiddleware 跨域响应头中间件
func (s *Server) corsMiddleware(origins []string) gin.HandlerFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowAll || allowed[origin]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", strings.Join([]string{
				"Content-Type", middleware.CallerHeader, middleware.RequestIDHeader,
			}, ", "))
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Start 启动HTTP服务器
//
// 读取配置的监听地址，缺省回退到 0.0.0.0:28680。监听在后台协程
// 中运行，正常关闭返回的 http.ErrServerClosed 不视为错误。
func (s *Server) Start() error {
	var host string
	var port int

	apiOptions := s.config.GetAPI()
	if apiOptions != nil && apiOptions.HTTP.Enabled {
		host = apiOptions.HTTP.Host
		port = apiOptions.HTTP.Port
	} else {
		s.logger.Info("HTTP API未在配置中启用，使用默认监听地址")
	}
	if port == 0 {
		port = constants.DefaultHTTPPort
	}
	if host == "" {
		host = constants.DefaultHTTPHost
	}

	readTimeout := 15 * time.Second
	writeTimeout := 15 * time.Second
	if apiOptions != nil {
		if apiOptions.HTTP.ReadTimeout > 0 {
			readTimeout = apiOptions.HTTP.ReadTimeout
		}
		if apiOptions.HTTP.WriteTimeout > 0 {
			writeTimeout = apiOptions.HTTP.WriteTimeout
		}
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("❌ HTTP服务器运行失败: %v", err)
		} else {
			s.logger.Info("✅ HTTP服务器正常关闭")
		}
	}()

	s.logger.Infof("✅ HTTP服务器启动成功，监听地址: %s", addr)
	s.logger.Infof("📡 API端点: http://%s/api/v1/", addr)
	return nil
}

// Stop 优雅关闭HTTP服务器
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("正在关闭HTTP服务器")

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(stopCtx); err != nil {
		s.logger.Errorf("HTTP服务器关闭出错: %v", err)
		return err
	}
	s.logger.Info("HTTP服务器已关闭")
	return nil
}
