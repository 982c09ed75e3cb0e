package ledger

import (
	configtypes "github.com/titledger/v1/pkg/types"
)

// LedgerOptions 账本业务配置选项
// 定义账本运行所需的身份与引擎选择
type LedgerOptions struct {
	// === 身份配置 ===
	Admin            string `json:"admin"`             // 管理员身份
	EngineIdentity   string `json:"engine_identity"`   // 份额引擎托管身份
	TreasuryIdentity string `json:"treasury_identity"` // 金库托管账户身份
	DefaultValidator string `json:"default_validator"` // 默认验证方身份（可为空）

	// === 存储配置 ===
	StorageEngine string `json:"storage_engine"` // 账本存储引擎：badger | bolt
	CacheEnabled  bool   `json:"cache_enabled"`  // 是否启用资产记录读缓存
}

// 存储引擎名称
const (
	// EngineBadger BadgerDB存储引擎
	EngineBadger = "badger"
	// EngineBolt bbolt存储引擎
	EngineBolt = "bolt"
)

// Config 账本配置实现
type Config struct {
	options *LedgerOptions
}

// New 创建账本配置实现
func New(userConfig interface{}) *Config {
	// 1. 先创建完整的默认配置
	defaultOptions := createDefaultLedgerOptions()

	// 2. 如果有用户配置，应用用户配置覆盖默认值
	if userConfig != nil {
		applyUserLedgerConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// NewFromOptions 从LedgerOptions创建配置实现
func NewFromOptions(options *LedgerOptions) *Config {
	return &Config{
		options: options,
	}
}

// createDefaultLedgerOptions 创建默认账本配置
func createDefaultLedgerOptions() *LedgerOptions {
	return &LedgerOptions{
		Admin:            defaultAdmin,
		EngineIdentity:   defaultEngineIdentity,
		TreasuryIdentity: defaultTreasuryIdentity,
		DefaultValidator: defaultDefaultValidator,
		StorageEngine:    defaultStorageEngine,
		CacheEnabled:     defaultCacheEnabled,
	}
}

// applyUserLedgerConfig 应用用户账本配置覆盖默认值
func applyUserLedgerConfig(options *LedgerOptions, userConfig interface{}) {
	// 只处理JSON配置文件中实际出现的字段
	if ledgerConfig, ok := userConfig.(*configtypes.UserLedgerConfig); ok && ledgerConfig != nil {
		if ledgerConfig.Admin != nil {
			options.Admin = *ledgerConfig.Admin
		}
		if ledgerConfig.EngineIdentity != nil {
			options.EngineIdentity = *ledgerConfig.EngineIdentity
		}
		if ledgerConfig.TreasuryIdentity != nil {
			options.TreasuryIdentity = *ledgerConfig.TreasuryIdentity
		}
		if ledgerConfig.DefaultValidator != nil {
			options.DefaultValidator = *ledgerConfig.DefaultValidator
		}
		if ledgerConfig.StorageEngine != nil {
			options.StorageEngine = *ledgerConfig.StorageEngine
		}
		if ledgerConfig.CacheEnabled != nil {
			options.CacheEnabled = *ledgerConfig.CacheEnabled
		}
	}
}

// GetOptions 获取完整的账本配置选项
func (c *Config) GetOptions() *LedgerOptions {
	return c.options
}

// === 身份配置访问方法 ===

// GetAdmin 获取管理员身份
func (c *Config) GetAdmin() string {
	return c.options.Admin
}

// GetEngineIdentity 获取份额引擎托管身份
func (c *Config) GetEngineIdentity() string {
	return c.options.EngineIdentity
}

// GetTreasuryIdentity 获取金库托管账户身份
func (c *Config) GetTreasuryIdentity() string {
	return c.options.TreasuryIdentity
}

// GetDefaultValidator 获取默认验证方身份
func (c *Config) GetDefaultValidator() string {
	return c.options.DefaultValidator
}

// === 存储配置访问方法 ===

// GetStorageEngine 获取账本存储引擎
func (c *Config) GetStorageEngine() string {
	if c.options.StorageEngine == "" {
		return EngineBadger
	}
	return c.options.StorageEngine
}

// IsCacheEnabled 是否启用读缓存
func (c *Config) IsCacheEnabled() bool {
	return c.options.CacheEnabled
}
