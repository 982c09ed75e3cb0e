// Package config provides configuration provider interfaces.
package config

import (
	apiconfig "github.com/titledger/v1/internal/config/api"
	eventconfig "github.com/titledger/v1/internal/config/event"
	ledgerconfig "github.com/titledger/v1/internal/config/ledger"
	logconfig "github.com/titledger/v1/internal/config/log"
	badgerconfig "github.com/titledger/v1/internal/config/storage/badger"
	boltconfig "github.com/titledger/v1/internal/config/storage/bolt"
	memoryconfig "github.com/titledger/v1/internal/config/storage/memory"
)

// Provider 配置提供者接口
type Provider interface {
	// GetAPI 获取API服务配置
	GetAPI() *apiconfig.APIOptions

	// GetLedger 获取账本业务配置（管理员、托管身份、默认验证方、存储引擎）
	GetLedger() *ledgerconfig.LedgerOptions

	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetEvent 获取事件配置
	GetEvent() *eventconfig.EventOptions

	// GetBadger 获取Badger存储配置
	GetBadger() *badgerconfig.BadgerOptions

	// GetBolt 获取Bolt存储配置
	GetBolt() *boltconfig.BoltOptions

	// GetMemory 获取内存缓存配置
	GetMemory() *memoryconfig.MemoryOptions
}
