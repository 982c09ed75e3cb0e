package event

import (
	configtypes "github.com/titledger/v1/pkg/types"
)

// EventOptions 事件系统配置选项
// 专注于基础设施核心功能的简化配置
type EventOptions struct {
	// === 基础配置 ===
	Enabled    bool `json:"enabled"`     // 是否启用事件系统
	BufferSize int  `json:"buffer_size"` // 事件缓冲区大小
	MaxWorkers int  `json:"max_workers"` // 最大工作者数量

	// === 基础限制 ===
	MaxSubscribers int `json:"max_subscribers"` // 最大订阅者数量

	// === 历史记录配置 ===
	EnableHistory bool `json:"enable_history"` // 是否记录事件历史
	HistoryLimit  int  `json:"history_limit"`  // 事件历史最大条数
}

// Config 事件配置实现
type Config struct {
	options *EventOptions
}

// New 创建事件配置实现
func New(userConfig interface{}) *Config {
	// 1. 先创建完整的默认配置
	defaultOptions := createDefaultEventOptions()

	// 2. 如果有用户配置，应用用户配置覆盖默认值
	if userConfig != nil {
		applyUserEventConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// NewFromOptions 从EventOptions创建配置实现
func NewFromOptions(options *EventOptions) *Config {
	return &Config{
		options: options,
	}
}

// createDefaultEventOptions 创建默认事件配置
func createDefaultEventOptions() *EventOptions {
	return &EventOptions{
		// 基础配置
		Enabled:    defaultEnabled,
		BufferSize: defaultBufferSize,
		MaxWorkers: defaultMaxWorkers,

		// 基础限制
		MaxSubscribers: defaultMaxSubscribers,

		// 历史记录配置
		EnableHistory: defaultEnableHistory,
		HistoryLimit:  defaultHistoryLimit,
	}
}

// applyUserEventConfig 应用用户事件配置覆盖默认值
func applyUserEventConfig(options *EventOptions, userConfig interface{}) {
	// 只处理JSON配置文件中实际出现的字段
	if eventConfig, ok := userConfig.(*configtypes.UserEventConfig); ok && eventConfig != nil {
		if eventConfig.Enabled != nil {
			options.Enabled = *eventConfig.Enabled
		}
		if eventConfig.EnableHistory != nil {
			options.EnableHistory = *eventConfig.EnableHistory
		}
	}
}

// GetOptions 获取完整的事件配置选项
func (c *Config) GetOptions() *EventOptions {
	return c.options
}

// === 基础配置访问方法 ===

// IsEnabled 是否启用事件系统
func (c *Config) IsEnabled() bool {
	return c.options.Enabled
}

// GetBufferSize 获取事件缓冲区大小
func (c *Config) GetBufferSize() int {
	return c.options.BufferSize
}

// GetMaxWorkers 获取最大工作者数量
func (c *Config) GetMaxWorkers() int {
	return c.options.MaxWorkers
}

// GetMaxSubscribers 获取最大订阅者数量
func (c *Config) GetMaxSubscribers() int {
	return c.options.MaxSubscribers
}

// === 历史记录配置访问方法 ===

// IsHistoryEnabled 是否记录事件历史
func (c *Config) IsHistoryEnabled() bool {
	return c.options.EnableHistory
}

// GetHistoryLimit 获取事件历史最大条数
func (c *Config) GetHistoryLimit() int {
	return c.options.HistoryLimit
}
