// Package validators 提供验证方目录模块
package validators

import (
	"go.uber.org/fx"

	ledgerconfig "github.com/titledger/v1/internal/config/ledger"
	internalInterface "github.com/titledger/v1/internal/core/validators/interfaces"
	"github.com/titledger/v1/pkg/interfaces/config"
	eventInterface "github.com/titledger/v1/pkg/interfaces/infrastructure/event"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	validatorsInterface "github.com/titledger/v1/pkg/interfaces/validators"
)

// ModuleParams 验证方目录模块输入依赖
type ModuleParams struct {
	fx.In

	Provider config.Provider         // 配置提供者
	KVStore  storage.KVStore         // 共享键值存储
	EventBus eventInterface.EventBus // 事件总线
	Logger   log.Logger              `optional:"true"` // 日志记录器（可选）
}

// ModuleOutput 验证方目录模块输出服务
type ModuleOutput struct {
	fx.Out

	Directory   validatorsInterface.Directory // 验证方目录
	TxDirectory internalInterface.TxDirectory // 事务内记录读取（登记引擎使用）
}

// ProvideDirectory 创建验证方目录服务
func ProvideDirectory(params ModuleParams) (ModuleOutput, error) {
	ledgerCfg := ledgerconfig.NewFromOptions(params.Provider.GetLedger())

	directory, err := New(params.KVStore, params.EventBus, ledgerCfg, params.Logger)
	if err != nil {
		return ModuleOutput{}, err
	}

	return ModuleOutput{
		Directory:   directory,
		TxDirectory: directory,
	}, nil
}

// Module 返回验证方目录模块
func Module() fx.Option {
	return fx.Module("validators",
		fx.Provide(ProvideDirectory),
	)
}
