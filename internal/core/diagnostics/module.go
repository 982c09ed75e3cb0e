// Package diagnostics 提供诊断采集模块
package diagnostics

import (
	"go.uber.org/fx"

	eventInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
)

// ModuleParams 诊断模块输入依赖
type ModuleParams struct {
	fx.In

	EventBus eventInterface.EventBus // 事件总线
	Logger   log.Logger              `optional:"true"` // 日志记录器（可选）
}

// ProvideCollector 创建诊断采集器
func ProvideCollector(params ModuleParams) (*Collector, error) {
	return New(params.EventBus, params.Logger)
}

// Module 返回诊断模块
//
// 采集器没有下游消费者，通过fx.Invoke在装配期完成订阅注册。
func Module() fx.Option {
	return fx.Module("diagnostics",
		fx.Provide(ProvideCollector),
		fx.Invoke(func(c *Collector) error {
			return c.Start()
		}),
	)
}
