// Package fractions 提供份额引擎模块
package fractions

import (
	"go.uber.org/fx"

	ledgerconfig "github.com/titledger/v1/internal/config/ledger"
	deedsinternal "github.com/titledger/v1/internal/core/deeds/interfaces"
	"github.com/titledger/v1/pkg/interfaces/config"
	fractionsInterface "github.com/titledger/v1/pkg/interfaces/fractions"
	eventInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
)

// ModuleParams 份额引擎模块输入依赖
type ModuleParams struct {
	fx.In

	Provider   config.Provider          // 配置提供者
	KVStore    storage.KVStore          // 共享键值存储
	TxRegistry deedsinternal.TxRegistry // 事务内登记操作
	EventBus   eventInterface.EventBus  // 事件总线
	Logger     log.Logger               `optional:"true"` // 日志记录器（可选）
}

// ModuleOutput 份额引擎模块输出服务
type ModuleOutput struct {
	fx.Out

	Engine fractionsInterface.Engine // 份额与地块划分引擎
}

// ProvideEngine 创建份额引擎服务
func ProvideEngine(params ModuleParams) (ModuleOutput, error) {
	ledgerCfg := ledgerconfig.NewFromOptions(params.Provider.GetLedger())

	engine, err := New(params.KVStore, params.TxRegistry, params.EventBus, ledgerCfg, params.Logger)
	if err != nil {
		return ModuleOutput{}, err
	}

	return ModuleOutput{Engine: engine}, nil
}

// Module 返回份额引擎模块
func Module() fx.Option {
	return fx.Module("fractions",
		fx.Provide(ProvideEngine),
	)
}
