// Package vault 提供支付金库模块
package vault

import (
	"go.uber.org/fx"

	ledgerconfig "github.com/titledger/v1/internal/config/ledger"
	internalInterface "github.com/titledger/v1/internal/core/vault/interfaces"
	"github.com/titledger/v1/pkg/interfaces/config"
	eventInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	vaultInterface "github.com/titledger/v1/pkg/interfaces/vault"
)

// ModuleParams 支付金库模块输入依赖
type ModuleParams struct {
	fx.In

	Provider config.Provider         // 配置提供者
	KVStore  storage.KVStore         // 共享键值存储
	EventBus eventInterface.EventBus // 事件总线
	Logger   log.Logger              `optional:"true"` // 日志记录器（可选）
}

// ModuleOutput 支付金库模块输出服务
type ModuleOutput struct {
	fx.Out

	Vault   vaultInterface.Vault      // 支付金库
	TxVault internalInterface.TxVault // 事务内划转（费用账本使用）
}

// ProvideVault 创建支付金库服务
func ProvideVault(params ModuleParams) (ModuleOutput, error) {
	ledgerCfg := ledgerconfig.NewFromOptions(params.Provider.GetLedger())

	vault, err := New(params.KVStore, params.EventBus, ledgerCfg, params.Logger)
	if err != nil {
		return ModuleOutput{}, err
	}

	return ModuleOutput{
		Vault:   vault,
		TxVault: vault,
	}, nil
}

// Module 返回支付金库模块
func Module() fx.Option {
	return fx.Module("vault",
		fx.Provide(ProvideVault),
	)
}
