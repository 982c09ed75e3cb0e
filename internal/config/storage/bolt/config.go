package bolt

import (
	"path/filepath"
	"time"

	configtypes "github.com/titledger/v1/pkg/types"
	"github.com/titledger/v1/pkg/utils"
)

// BoltOptions bbolt存储配置选项
// 专注于基础设施核心功能的简化配置
type BoltOptions struct {
	// === 基础配置 ===
	Path     string        `json:"path"`      // 数据库文件路径
	FileMode uint32        `json:"file_mode"` // 数据库文件权限
	Timeout  time.Duration `json:"timeout"`   // 打开数据库的文件锁超时

	// === 持久化配置 ===
	NoSync bool `json:"no_sync"` // 是否关闭每次提交的fsync（仅测试环境）
}

// Config bbolt配置实现
type Config struct {
	options *BoltOptions
}

// New 创建bbolt配置实现
func New(userConfig interface{}) *Config {
	defaultOptions := createDefaultBoltOptions()

	// 如果有用户配置，应用用户配置覆盖默认值
	if userConfig != nil {
		applyUserConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// NewFromOptions 从BoltOptions创建配置实现
func NewFromOptions(options *BoltOptions) *Config {
	return &Config{
		options: options,
	}
}

// createDefaultBoltOptions 创建默认bbolt配置
func createDefaultBoltOptions() *BoltOptions {
	return &BoltOptions{
		Path:     getDefaultPath(),
		FileMode: defaultFileMode,
		Timeout:  defaultTimeout,
		NoSync:   defaultNoSync,
	}
}

// applyUserConfig 应用用户配置覆盖默认值
//
// 路径构建规则：
// - 如果配置了 storage.data_root，使用 {data_root}/bolt/ledger.db
// - 如果未配置，使用默认值 ./data/bolt/ledger.db
func applyUserConfig(options *BoltOptions, userConfig interface{}) {
	if storageConfig, ok := userConfig.(*configtypes.UserStorageConfig); ok && storageConfig != nil {
		if storageConfig.DataRoot != nil {
			boltPath := filepath.Join(*storageConfig.DataRoot, "bolt", defaultFileName)
			options.Path = utils.ResolveDataPath(boltPath)
		}
	}
}

// GetOptions 获取完整的bbolt配置选项
func (c *Config) GetOptions() *BoltOptions {
	return c.options
}

// === 基础配置访问方法 ===

// GetPath 获取数据库文件路径
func (c *Config) GetPath() string {
	return c.options.Path
}

// GetFileMode 获取数据库文件权限
func (c *Config) GetFileMode() uint32 {
	return c.options.FileMode
}

// GetTimeout 获取文件锁超时
func (c *Config) GetTimeout() time.Duration {
	return c.options.Timeout
}

// IsNoSync 是否关闭fsync
func (c *Config) IsNoSync() bool {
	return c.options.NoSync
}
