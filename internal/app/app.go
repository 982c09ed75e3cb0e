package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/titledger/v1/pkg/interfaces/config"
	"github.com/titledger/v1/pkg/types"
	"go.uber.org/fx"
)

// AppModule 应用模块定义
var AppModule = fx.Options(
	// 提供应用配置选项，供config模块使用
	fx.Provide(ProvideAppOptions),
)

// ProvideAppOptions 提供应用配置选项实例
// 这个函数为依赖注入系统提供config.AppOptions接口的实现
func ProvideAppOptions(lifecycle fx.Lifecycle) config.AppOptions {
	fmt.Println("🔧 开始加载应用配置...")

	// 加载配置：内嵌配置优先，其次配置文件，最后默认值
	appOptions := loadConfig()

	// 在应用启动时记录日志
	lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			fmt.Println("✅ 应用配置选项已初始化")
			return nil
		},
	})

	return appOptions
}

// 🔧 零值陷阱处理说明：
// 配置文件结构（types.AppConfig）为了区分"用户未设置"和"用户设置为零值"，
// 统一使用指针类型：
// - nil: 表示用户未在配置文件中设置该字段，将使用系统默认值
// - &value: 表示用户明确设置了该值，即使是零值（如0、false、""）也会被采用
//
// 示例：
// "cache_enabled": false → 用户明确关闭资产读缓存
// 省略"cache_enabled"字段 → 使用系统默认值（启用缓存）
//
// 这种设计避免了以下问题：
// 1. 用户想设置0但被默认值覆盖
// 2. 用户想设置false但被默认的true覆盖
// 3. 用户想设置空字符串但被默认字符串覆盖

// loadConfig 加载应用配置
// 优先级：内嵌配置 > 配置文件 > 默认值
func loadConfig() config.AppOptions {
	// 首先创建默认配置
	defaultOptions := newOptions()

	// 内嵌配置优先：编译期或入口程序注入的配置直接解析，跳过文件读取
	if len(globalEmbeddedConfig) > 0 {
		var appConfig types.AppConfig
		if err := json.Unmarshal(globalEmbeddedConfig, &appConfig); err != nil {
			fmt.Printf("解析内嵌配置失败: %v，使用默认配置\n", err)
			return defaultOptions
		}

		fmt.Println("已加载内嵌配置")
		defaultOptions.appConfig = &appConfig

		if err := createDataDirectories(defaultOptions); err != nil {
			fmt.Printf("⚠️  创建数据目录失败: %v\n", err)
		}
		return defaultOptions
	}

	// 确定配置文件路径
	configPath := getConfigFilePath()

	// 检查配置文件是否存在
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("配置文件 %s 不存在，使用默认配置\n", configPath)
		return defaultOptions
	}

	// 读取文件内容
	data, err := os.ReadFile(configPath)
	if err != nil {
		fmt.Printf("读取配置文件失败: %v，使用默认配置\n", err)
		return defaultOptions
	}

	// 解析JSON配置为标准的AppConfig结构
	var appConfig types.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		fmt.Printf("解析配置文件失败: %v，使用默认配置\n", err)
		return defaultOptions
	}

	fmt.Printf("已成功加载配置文件: %s\n", configPath)

	// 使用解析后的AppConfig更新选项
	defaultOptions.appConfig = &appConfig

	// 根据配置自动创建数据目录
	if err := createDataDirectories(defaultOptions); err != nil {
		fmt.Printf("⚠️  创建数据目录失败: %v\n", err)
		// 不返回错误，允许系统继续运行，但记录问题
	}

	return defaultOptions
}

// createDataDirectories 根据配置自动创建数据目录结构
func createDataDirectories(opts config.AppOptions) error {
	appConfig := opts.GetAppConfig()
	if appConfig == nil {
		return fmt.Errorf("无法获取应用配置")
	}

	var directories []string

	// 1. 创建存储目录
	if appConfig.Storage != nil && appConfig.Storage.DataRoot != nil {
		storagePath := *appConfig.Storage.DataRoot
		directories = append(directories, storagePath)
		fmt.Printf("📁 检测到存储路径: %s\n", storagePath)
	}

	// 2. 创建日志目录
	if appConfig.Log != nil && appConfig.Log.FilePath != nil {
		logPath := *appConfig.Log.FilePath
		logDir := filepath.Dir(logPath)
		directories = append(directories, logDir)
		fmt.Printf("📝 检测到日志路径: %s\n", logDir)
	}

	// 创建所有目录
	for _, dir := range directories {
		if dir == "" {
			continue
		}

		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建目录 %s 失败: %v", dir, err)
		}

		fmt.Printf("✅ 目录已创建: %s\n", dir)
	}

	return nil
}

// App 是TDL应用的对外接口
type App interface {
	// Stop 停止应用
	Stop() error

	// Wait 等待应用收到退出信号
	Wait()
}

// internalApp TDL应用的内部实现
type internalApp struct {
	fxApp     *fx.App
	bootstrap *Bootstrap
}

// Stop 停止应用
func (a *internalApp) Stop() error {
	fmt.Println("🛑 停止应用...")

	// 停止fx应用（包括所有生命周期钩子）
	// 保留充足的超时时间，确保存储引擎有足够时间完成同步和关闭
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	return a.bootstrap.StopApp(ctx)
}

// Wait 等待应用收到退出信号
func (a *internalApp) Wait() {
	fmt.Println("🔄 应用正在运行，按 Ctrl+C 停止...")

	// 创建信号通道
	signals := make(chan os.Signal, 1)

	// 监听中断信号和终止信号
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	// 阻塞等待信号
	sig := <-signals
	fmt.Printf("\n🛑 收到信号 %v，正在优雅退出...\n", sig)

	// 调用Stop方法停止应用
	if err := a.Stop(); err != nil {
		fmt.Printf("⚠️ 停止应用时出错: %v\n", err)
	}
}

// Start 启动TDL应用
func Start(appOptions ...Option) (App, error) {
	// 处理选项
	opts := newOptions(appOptions...)

	// 如果指定了配置文件路径，设置全局变量
	if opts.configFilePath != "" {
		SetConfigFilePath(opts.configFilePath)
	}

	// 如果提供了内嵌配置，设置全局变量（优先级高于配置文件）
	if len(opts.embeddedConfig) > 0 {
		SetEmbeddedConfig(opts.embeddedConfig)
	}

	return BootstrapApp(appOptions...)
}

// globalConfigPath 全局配置文件路径变量
var globalConfigPath string

// globalEmbeddedConfig 全局内嵌配置内容
var globalEmbeddedConfig []byte

// SetConfigFilePath 设置全局配置文件路径
func SetConfigFilePath(path string) {
	globalConfigPath = path
}

// SetEmbeddedConfig 设置全局内嵌配置内容
func SetEmbeddedConfig(configBytes []byte) {
	globalEmbeddedConfig = configBytes
}

// getConfigFilePath 获取配置文件路径
func getConfigFilePath() string {
	// 1. 优先使用环境变量 TDL_CONFIG_PATH
	if envPath := os.Getenv("TDL_CONFIG_PATH"); envPath != "" {
		return envPath
	}

	// 2. 其次使用全局变量（通过SetConfigFilePath设置）
	if globalConfigPath != "" {
		return globalConfigPath
	}

	// 3. 最后使用默认配置路径
	return "configs/development/config.json" // 使用开发环境默认配置
}
