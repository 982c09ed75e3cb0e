// Package types provides configuration type definitions.
package types

// AppConfig 应用程序根配置
// 只包含JSON配置文件解析所需的结构，不包含任何内部字段
// 默认值和完整配置结构在 internal/config/*/defaults.go 和 internal/config/*/config.go 中定义
type AppConfig struct {
	// 应用程序基本信息
	AppName *string `json:"app_name,omitempty"` // 应用名称
	DataDir *string `json:"data_dir,omitempty"` // 数据目录路径
	Version *string `json:"version,omitempty"`  // 应用版本

	// Environment 运行环境：dev | test | prod
	// 只影响日志级别、默认端口等运维属性，不影响业务语义
	Environment *string `json:"environment,omitempty"`

	// API服务配置
	API *UserAPIConfig `json:"api,omitempty"`

	// 账本业务配置（管理员、托管身份、默认验证方、存储引擎）
	Ledger *UserLedgerConfig `json:"ledger,omitempty"`

	// 存储配置
	Storage *UserStorageConfig `json:"storage,omitempty"`

	// 日志配置
	Log *UserLogConfig `json:"log,omitempty"`

	// 事件系统配置
	Event *UserEventConfig `json:"event,omitempty"`
}

// UserAPIConfig 用户API配置
// 只包含JSON配置文件中实际出现的字段
type UserAPIConfig struct {
	HTTPEnabled *bool `json:"http_enabled,omitempty"` // 是否启用HTTP服务（默认true）
	HTTPPort    *int  `json:"http_port,omitempty"`    // HTTP监听端口

	// HTTP CORS 配置
	HTTPCorsEnabled *bool    `json:"http_cors_enabled,omitempty"` // 是否启用CORS（默认true）
	HTTPCorsOrigins []string `json:"http_cors_origins,omitempty"` // 允许的CORS源（默认["*"]）

	// 指标端点开关
	MetricsEnabled *bool `json:"metrics_enabled,omitempty"` // 是否暴露 /metrics（默认true）
}

// UserLedgerConfig 用户账本业务配置
// 对应配置文件中的 ledger 字段
type UserLedgerConfig struct {
	// Admin 管理员身份（注册验证方、费率与白名单设置、服务费提取）
	Admin *string `json:"admin,omitempty"`

	// EngineIdentity 份额引擎的托管身份（锁定资产时记录的托管人）
	EngineIdentity *string `json:"engine_identity,omitempty"`

	// TreasuryIdentity 金库托管账户身份（铸造费在支付代币账本中的归集账户）
	TreasuryIdentity *string `json:"treasury_identity,omitempty"`

	// DefaultValidator 默认验证方身份（创建资产未指定验证方时使用，可为空）
	DefaultValidator *string `json:"default_validator,omitempty"`

	// StorageEngine 账本存储引擎：badger | bolt
	StorageEngine *string `json:"storage_engine,omitempty"`

	// CacheEnabled 是否启用资产记录读缓存
	CacheEnabled *bool `json:"cache_enabled,omitempty"`
}

// UserStorageConfig 用户存储配置
// 只包含JSON配置文件中实际出现的字段
type UserStorageConfig struct {
	DataRoot *string `json:"data_root,omitempty"` // 数据根目录
	InMemory *bool   `json:"in_memory,omitempty"` // Badger内存模式（开发/测试）
}

// UserLogConfig 用户日志配置
// 只包含JSON配置文件中实际出现的字段
type UserLogConfig struct {
	Level    *string `json:"level,omitempty"`     // 日志级别：debug, info, warn, error, fatal
	FilePath *string `json:"file_path,omitempty"` // 日志文件路径
}

// UserEventConfig 用户事件系统配置
// 只包含JSON配置文件中实际出现的字段
type UserEventConfig struct {
	Enabled       *bool `json:"enabled,omitempty"`        // 是否启用事件系统
	EnableHistory *bool `json:"enable_history,omitempty"` // 是否记录事件历史
}

// Environment 运行环境
type Environment string

const (
	// EnvDev 开发环境
	EnvDev Environment = "dev"
	// EnvTest 测试环境
	EnvTest Environment = "test"
	// EnvProd 生产环境
	EnvProd Environment = "prod"
)

// GetEnvironment 返回运行环境
func (c *AppConfig) GetEnvironment() Environment {
	if c.Environment == nil || *c.Environment == "" {
		return EnvDev // 默认 dev
	}
	return Environment(*c.Environment)
}

// 配置辅助函数
// 这些函数帮助创建指针类型的配置值，区分"未设置"和"设置为零值"

// BoolPtr 创建bool指针，用于明确表示用户设置了该值
func BoolPtr(v bool) *bool {
	return &v
}

// IntPtr 创建int指针，用于明确表示用户设置了该值
func IntPtr(v int) *int {
	return &v
}

// StringPtr 创建string指针，用于明确表示用户设置了该值
func StringPtr(v string) *string {
	return &v
}

// UInt64Ptr 创建uint64指针，用于明确表示用户设置了该值
func UInt64Ptr(v uint64) *uint64 {
	return &v
}
