// Package treasury 提供费用账本模块
package treasury

import (
	"go.uber.org/fx"

	ledgerconfig "github.com/titledger/v1/internal/config/ledger"
	deedsinternal "github.com/titledger/v1/internal/core/deeds/interfaces"
	validatorsinternal "github.com/titledger/v1/internal/core/validators/interfaces"
	vaultinternal "github.com/titledger/v1/internal/core/vault/interfaces"
	"github.com/titledger/v1/pkg/interfaces/config"
	deedsInterface "github.com/titledger/v1/pkg/interfaces/deeds"
	eventInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	treasuryInterface "github.com/titledger/v1/pkg/interfaces/treasury"
)

// ModuleParams 费用账本模块输入依赖
type ModuleParams struct {
	fx.In

	Provider    config.Provider                // 配置提供者
	KVStore     storage.KVStore                // 共享键值存储
	TxVault     vaultinternal.TxVault          // 事务内金库划转
	Registry    deedsInterface.Registry        // 资产登记引擎
	TxRegistry  deedsinternal.TxRegistry       // 事务内落账
	TxDirectory validatorsinternal.TxDirectory // 事务内验证方读取
	EventBus    eventInterface.EventBus        // 事件总线
	Logger      log.Logger                     `optional:"true"` // 日志记录器（可选）
}

// ModuleOutput 费用账本模块输出服务
type ModuleOutput struct {
	fx.Out

	Ledger treasuryInterface.Ledger // 费用与佣金账本
}

// ProvideLedger 创建费用账本服务
func ProvideLedger(params ModuleParams) (ModuleOutput, error) {
	ledgerCfg := ledgerconfig.NewFromOptions(params.Provider.GetLedger())

	ledger, err := New(
		params.KVStore,
		params.TxVault,
		params.Registry,
		params.TxRegistry,
		params.TxDirectory,
		params.EventBus,
		ledgerCfg,
		params.Logger,
	)
	if err != nil {
		return ModuleOutput{}, err
	}

	return ModuleOutput{Ledger: ledger}, nil
}

// Module 返回费用账本模块
func Module() fx.Option {
	return fx.Module("treasury",
		fx.Provide(ProvideLedger),
	)
}
