// Package event 提供事件管理功能
package event

import (
	"context"

	"go.uber.org/fx"

	eventconfig "github.com/titledger/v1/internal/config/event"
	"github.com/titledger/v1/pkg/interfaces/config"
	eventInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
)

// ModuleParams 事件模块输入依赖
type ModuleParams struct {
	fx.In

	Provider  config.Provider // 配置提供者
	Logger    log.Logger      `optional:"true"` // 日志记录器（可选）
	Lifecycle fx.Lifecycle    // 生命周期管理
}

// ModuleOutput 事件模块输出服务
type ModuleOutput struct {
	fx.Out

	EventBus eventInterface.EventBus // 事件总线
}

// ProvideEventBus 创建事件总线服务
func ProvideEventBus(params ModuleParams) (ModuleOutput, error) {
	eventCfg := eventconfig.NewFromOptions(params.Provider.GetEvent())

	eventBus := New(eventCfg)

	// 停机前排空异步处理器，避免提交后事件丢失
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			eventBus.WaitAsync()
			return nil
		},
	})

	if params.Logger != nil {
		params.Logger.Info("事件总线已初始化")
	}

	return ModuleOutput{
		EventBus: eventBus,
	}, nil
}

// Module 返回事件模块
func Module() fx.Option {
	return fx.Module("event",
		fx.Provide(ProvideEventBus),
	)
}
