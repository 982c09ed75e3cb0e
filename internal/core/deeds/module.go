// Package deeds 提供资产登记模块
package deeds

import (
	"go.uber.org/fx"

	ledgerconfig "github.com/titledger/v1/internal/config/ledger"
	internalInterface "github.com/titledger/v1/internal/core/deeds/interfaces"
	validatorsinternal "github.com/titledger/v1/internal/core/validators/interfaces"
	"github.com/titledger/v1/pkg/interfaces/config"
	deedsInterface "github.com/titledger/v1/pkg/interfaces/deeds"
	eventInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	validatorsInterface "github.com/titledger/v1/pkg/interfaces/validators"
)

// ModuleParams 资产登记模块输入依赖
type ModuleParams struct {
	fx.In

	Provider    config.Provider                // 配置提供者
	KVStore     storage.KVStore                // 共享键值存储
	MemoryStore storage.MemoryStore            `optional:"true"` // 读缓存（可选）
	Directory   validatorsInterface.Directory  // 验证方目录
	TxDirectory validatorsinternal.TxDirectory // 验证方事务内读取
	EventBus    eventInterface.EventBus        // 事件总线
	Logger      log.Logger                     `optional:"true"` // 日志记录器（可选）
}

// ModuleOutput 资产登记模块输出服务
type ModuleOutput struct {
	fx.Out

	Registry   deedsInterface.Registry      // 资产登记引擎
	TxRegistry internalInterface.TxRegistry // 事务内登记操作（费用账本/份额引擎使用）
}

// ProvideRegistry 创建资产登记服务
func ProvideRegistry(params ModuleParams) (ModuleOutput, error) {
	ledgerCfg := ledgerconfig.NewFromOptions(params.Provider.GetLedger())

	registry, err := New(
		params.KVStore,
		params.MemoryStore,
		params.Directory,
		params.TxDirectory,
		params.EventBus,
		ledgerCfg,
		params.Logger,
	)
	if err != nil {
		return ModuleOutput{}, err
	}

	return ModuleOutput{
		Registry:   registry,
		TxRegistry: registry,
	}, nil
}

// Module 返回资产登记模块
func Module() fx.Option {
	return fx.Module("deeds",
		fx.Provide(ProvideRegistry),
	)
}
