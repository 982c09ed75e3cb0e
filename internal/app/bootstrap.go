package app

import (
	"context"
	"fmt"
	"time"

	"github.com/titledger/v1/internal/api"
	config "github.com/titledger/v1/internal/config"
	"github.com/titledger/v1/internal/core/deeds"
	"github.com/titledger/v1/internal/core/diagnostics"
	"github.com/titledger/v1/internal/core/fractions"
	"github.com/titledger/v1/internal/core/infrastructure/event"
	log "github.com/titledger/v1/internal/core/infrastructure/log"
	"github.com/titledger/v1/internal/core/infrastructure/storage"
	"github.com/titledger/v1/internal/core/treasury"
	"github.com/titledger/v1/internal/core/validators"
	"github.com/titledger/v1/internal/core/vault"
	"go.uber.org/fx"
)

// Framework layers
const (
	// 基础设施层
	LayerInfrastructure = "infrastructure"
	// 通信与数据层
	LayerCommunication = "communication"
	// 业务逻辑层
	LayerBusiness = "business"
	// 应用层
	LayerApplication = "application"
)

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts  *options
	fxApp *fx.App
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{
		opts: opts,
	}
}

// SetupInfrastructureLayer 设置基础设施层模块
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		config.Module(), // 1. 配置(不依赖其他)
		log.Module(),    // 2. 日志(依赖配置)
	}
}

// SetupCommunicationLayer 设置通信与数据层模块
func (b *Bootstrap) SetupCommunicationLayer() []fx.Option {
	return []fx.Option{
		// 通信与数据层模块（依赖基础设施层）
		event.Module(),   // 事件总线(依赖配置)
		storage.Module(), // 存储(依赖配置和日志)
	}
}

// SetupBusinessLayer 设置业务逻辑层模块
func (b *Bootstrap) SetupBusinessLayer() []fx.Option {
	// 业务逻辑层模块(依赖通信与数据层)
	// 注意：加载顺序必须遵循模块间的依赖关系，从底层基础模块到上层应用模块
	// 核心引擎的依赖顺序：
	// 验证方目录 -> 资产登记 -> 支付金库 -> 费用账本 -> 份额引擎
	return []fx.Option{
		// 第一层：验证方目录（最基础，被登记引擎和费用账本依赖）
		validators.Module(),

		// 第二层：资产登记（依赖验证方目录）
		deeds.Module(),

		// 第二层半：支付金库（独立的余额账本，被费用账本依赖）
		vault.Module(),

		// 第三层：费用账本（依赖金库、登记引擎和验证方目录）
		treasury.Module(),

		// 第四层：份额引擎（依赖登记引擎的事务内操作）
		fractions.Module(),

		// 引擎周边服务：诊断采集器订阅全部领域事件
		diagnostics.Module(),
	}
}

// SetupApplicationLayer 设置应用层模块
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	// 应用层模块(依赖所有其他层)
	// 应用层模块通常包括API服务、外部接口等
	modules := []fx.Option{
		AppModule, // 应用核心模块
	}

	// 条件性添加API模块
	if b.opts.enableAPI {
		modules = append(modules, api.Module()) // API服务(REST)
		fmt.Println("🌐 API模块已启用")
	} else {
		fmt.Println("⚠️  API模块已禁用")
	}

	return modules
}

// SetupModules 设置所有应用模块
func (b *Bootstrap) SetupModules() ([]fx.Option, error) {
	var allModules []fx.Option

	// 按照依赖顺序添加各层模块
	infraModules := b.SetupInfrastructureLayer()
	allModules = append(allModules, infraModules...)

	commModules := b.SetupCommunicationLayer()
	allModules = append(allModules, commModules...)

	businessModules := b.SetupBusinessLayer()
	allModules = append(allModules, businessModules...)

	appModules := b.SetupApplicationLayer()
	allModules = append(allModules, appModules...)

	return allModules, nil
}

// CreateFxApp 创建并配置fx应用
func (b *Bootstrap) CreateFxApp() error {
	// 获取所有模块
	modules, err := b.SetupModules()
	if err != nil {
		return err
	}

	// 配置fx应用选项
	appOptions := []fx.Option{
		// 加载所有模块
		fx.Options(modules...),

		// 禁用fx内部日志
		fx.NopLogger,

		// 生命周期钩子
		fx.Invoke(func(lifecycle fx.Lifecycle) {
			lifecycle.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					fmt.Println("准备启动应用")
					return nil
				},
				OnStop: func(ctx context.Context) error {
					fmt.Println("准备停止应用")
					return nil
				},
			})
		}),
	}

	// 创建fx应用
	b.fxApp = fx.New(appOptions...)
	return nil
}

// StartApp 启动应用程序
func (b *Bootstrap) StartApp(ctx context.Context) error {
	fmt.Println("正在启动应用...")

	if err := b.fxApp.Start(ctx); err != nil {
		fmt.Printf("启动失败: %v\n", err)
		return fmt.Errorf("启动应用失败: %w", err)
	}

	return nil
}

// StopApp 停止应用程序
func (b *Bootstrap) StopApp(ctx context.Context) error {
	fmt.Println("正在停止应用...")

	if err := b.fxApp.Stop(ctx); err != nil {
		fmt.Printf("停止失败: %v\n", err)
		return fmt.Errorf("停止应用失败: %w", err)
	}

	return nil
}

// BootstrapApp 执行完整的引导过程并返回应用实例
func BootstrapApp(options ...Option) (App, error) {
	// 处理配置选项
	opts := newOptions(options...)

	// 创建引导对象
	bootstrap := NewBootstrap(opts)

	// 创建fx应用
	if err := bootstrap.CreateFxApp(); err != nil {
		return nil, fmt.Errorf("创建应用失败: %w", err)
	}

	// 启动应用 - 使用有超时的启动Context
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer startupCancel()

	// 启动应用组件
	if err := bootstrap.StartApp(startupCtx); err != nil {
		return nil, err
	}

	// 创建应用实例
	app := &internalApp{
		fxApp:     bootstrap.fxApp,
		bootstrap: bootstrap,
	}

	return app, nil
}
