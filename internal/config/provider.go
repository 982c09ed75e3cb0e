package config

import (
	"github.com/titledger/v1/internal/config/api"
	"github.com/titledger/v1/internal/config/event"
	"github.com/titledger/v1/internal/config/ledger"
	"github.com/titledger/v1/internal/config/log"
	"github.com/titledger/v1/internal/config/storage/badger"
	"github.com/titledger/v1/internal/config/storage/bolt"
	"github.com/titledger/v1/internal/config/storage/memory"
	"github.com/titledger/v1/pkg/interfaces/config"
	"github.com/titledger/v1/pkg/types"
)

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

// NewProvider 创建配置提供者
// 环境变量覆盖在此应用一次，之后所有区域配置都基于覆盖后的结果
func NewProvider(appConfig *types.AppConfig) config.Provider {
	applyEnvOverrides(appConfig)
	return &Provider{
		appConfig: appConfig,
	}
}

// GetAPI 获取API服务配置
func (p *Provider) GetAPI() *api.APIOptions {
	// 直接传递用户API配置给api.New，让它处理默认值和转换
	var userAPIConfig *types.UserAPIConfig
	if p.appConfig != nil && p.appConfig.API != nil {
		userAPIConfig = p.appConfig.API
	}

	return api.New(userAPIConfig).GetOptions()
}

// GetLedger 获取账本业务配置
func (p *Provider) GetLedger() *ledger.LedgerOptions {
	var userLedgerConfig *types.UserLedgerConfig
	if p.appConfig != nil && p.appConfig.Ledger != nil {
		userLedgerConfig = p.appConfig.Ledger
	}

	return ledger.New(userLedgerConfig).GetOptions()
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *log.LogOptions {
	var userLogConfig *types.UserLogConfig
	if p.appConfig != nil && p.appConfig.Log != nil {
		userLogConfig = p.appConfig.Log
	}

	return log.New(userLogConfig).GetOptions()
}

// GetEvent 获取事件配置
func (p *Provider) GetEvent() *event.EventOptions {
	var userEventConfig *types.UserEventConfig
	if p.appConfig != nil && p.appConfig.Event != nil {
		userEventConfig = p.appConfig.Event
	}

	return event.New(userEventConfig).GetOptions()
}

// GetBadger 获取Badger存储配置
func (p *Provider) GetBadger() *badger.BadgerOptions {
	var userStorageConfig *types.UserStorageConfig
	if p.appConfig != nil && p.appConfig.Storage != nil {
		userStorageConfig = p.appConfig.Storage
	}

	return badger.New(userStorageConfig).GetOptions()
}

// GetBolt 获取Bolt存储配置
func (p *Provider) GetBolt() *bolt.BoltOptions {
	var userStorageConfig *types.UserStorageConfig
	if p.appConfig != nil && p.appConfig.Storage != nil {
		userStorageConfig = p.appConfig.Storage
	}

	return bolt.New(userStorageConfig).GetOptions()
}

// GetMemory 获取内存缓存配置
func (p *Provider) GetMemory() *memory.MemoryOptions {
	return memory.New(nil).GetOptions()
}
