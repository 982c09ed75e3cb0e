package http

import (
	"go.uber.org/fx"

	"github.com/titledger/v1/pkg/interfaces/config"
	deedsInterface "github.com/titledger/v1/pkg/interfaces/deeds"
	fractionsInterface "github.com/titledger/v1/pkg/interfaces/fractions"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	treasuryInterface "github.com/titledger/v1/pkg/interfaces/treasury"
	validatorsInterface "github.com/titledger/v1/pkg/interfaces/validators"
	vaultInterface "github.com/titledger/v1/pkg/interfaces/vault"
)

// ModuleParams HTTP模块输入依赖
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  config.Provider
	Logger    log.Logger
	KVStore   storage.KVStore
	Registry  deedsInterface.Registry
	Directory validatorsInterface.Directory
	Ledger    treasuryInterface.Ledger
	Vault     vaultInterface.Vault
	Fractions fractionsInterface.Engine
}

// ProvideServer 创建HTTP服务器
func ProvideServer(params ModuleParams) *Server {
	return NewServer(
		params.Lifecycle,
		params.Provider,
		params.Logger,
		params.KVStore,
		params.Registry,
		params.Directory,
		params.Ledger,
		params.Vault,
		params.Fractions,
	)
}

// Module 返回HTTP API模块
//
// 服务器没有下游消费者，通过fx.Invoke强制实例化并挂接生命周期。
func Module() fx.Option {
	return fx.Module("http",
		fx.Provide(ProvideServer),
		fx.Invoke(func(*Server) {}),
	)
}
