package api

import (
	"time"

	"github.com/titledger/v1/pkg/types"
)

// APIOptions API服务配置选项
// 整个API模块的统一配置入口
type APIOptions struct {
	// HTTP API配置
	HTTP HTTPConfig `json:"http"`
}

// HTTPConfig HTTP API配置
type HTTPConfig struct {
	// 基础配置
	Enabled bool   `json:"enabled"` // 是否启用HTTP服务（总开关）
	Host    string `json:"host"`    // 监听地址
	Port    int    `json:"port"`    // 监听端口

	// 超时配置
	Timeout      time.Duration `json:"timeout"`       // 请求超时时间
	ReadTimeout  time.Duration `json:"read_timeout"`  // 读取超时时间
	WriteTimeout time.Duration `json:"write_timeout"` // 写入超时时间

	// CORS配置
	CORSEnabled bool     `json:"cors_enabled"` // 是否启用CORS
	CORSOrigins []string `json:"cors_origins"` // 允许的CORS源

	// 指标端点
	MetricsEnabled bool `json:"metrics_enabled"` // 是否暴露 /metrics

	// 限流和安全
	MaxRequestSize int `json:"max_request_size"` // 最大请求大小(字节)
}

// Config API配置实现
type Config struct {
	options *APIOptions
}

// New 创建API配置实现
func New(userConfig *types.UserAPIConfig) *Config {
	// 1. 先创建完整的默认配置
	defaultOptions := createDefaultAPIOptions()

	// 2. 如果有用户配置，则转换并覆盖默认配置
	if userConfig != nil {
		convertAndMergeUserConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// createDefaultAPIOptions 创建默认API配置
func createDefaultAPIOptions() *APIOptions {
	return &APIOptions{
		HTTP: HTTPConfig{
			Enabled:        defaultHTTPEnabled,
			Host:           defaultHTTPHost,
			Port:           defaultHTTPPort,
			Timeout:        defaultHTTPTimeout,
			ReadTimeout:    defaultHTTPReadTimeout,
			WriteTimeout:   defaultHTTPWriteTimeout,
			CORSEnabled:    defaultCORSEnabled,
			CORSOrigins:    append([]string{}, defaultCORSOrigins...), // 复制切片
			MetricsEnabled: defaultMetricsEnabled,
			MaxRequestSize: defaultMaxRequestSize,
		},
	}
}

// convertAndMergeUserConfig 转换并合并用户配置到API选项
// 只处理JSON配置文件中实际出现的字段
func convertAndMergeUserConfig(options *APIOptions, userConfig *types.UserAPIConfig) {
	if userConfig.HTTPEnabled != nil {
		options.HTTP.Enabled = *userConfig.HTTPEnabled
	}
	if userConfig.HTTPPort != nil {
		options.HTTP.Port = *userConfig.HTTPPort
	}
	if userConfig.HTTPCorsEnabled != nil {
		options.HTTP.CORSEnabled = *userConfig.HTTPCorsEnabled
	}
	if len(userConfig.HTTPCorsOrigins) > 0 {
		options.HTTP.CORSOrigins = append([]string{}, userConfig.HTTPCorsOrigins...)
	}
	if userConfig.MetricsEnabled != nil {
		options.HTTP.MetricsEnabled = *userConfig.MetricsEnabled
	}
}

// GetOptions 获取完整的API配置选项
func (c *Config) GetOptions() *APIOptions {
	return c.options
}

// === HTTP配置访问方法 ===

// IsHTTPEnabled 是否启用HTTP服务
func (c *Config) IsHTTPEnabled() bool {
	return c.options.HTTP.Enabled
}

// GetHTTPHost 获取HTTP监听地址
func (c *Config) GetHTTPHost() string {
	return c.options.HTTP.Host
}

// GetHTTPPort 获取HTTP监听端口
func (c *Config) GetHTTPPort() int {
	return c.options.HTTP.Port
}

// GetHTTPTimeout 获取请求超时时间
func (c *Config) GetHTTPTimeout() time.Duration {
	return c.options.HTTP.Timeout
}

// IsCORSEnabled 是否启用CORS
func (c *Config) IsCORSEnabled() bool {
	return c.options.HTTP.CORSEnabled
}

// GetCORSOrigins 获取允许的CORS源
func (c *Config) GetCORSOrigins() []string {
	return c.options.HTTP.CORSOrigins
}

// IsMetricsEnabled 是否暴露指标端点
func (c *Config) IsMetricsEnabled() bool {
	return c.options.HTTP.MetricsEnabled
}
