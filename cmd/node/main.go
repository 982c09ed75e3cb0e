package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/titledger/v1/configs"
	"github.com/titledger/v1/internal/app"
	"github.com/titledger/v1/internal/app/version"
	"github.com/titledger/v1/pkg/types"
)

func main() {
	// 检查是否是子命令（例如：config init）
	if len(os.Args) > 1 && os.Args[1] == "config" {
		if len(os.Args) > 2 && os.Args[2] == "init" {
			configInitCommand(os.Args[3:])
			return
		}
	}

	var (
		env         string // 内嵌环境配置：dev | test | prod
		configPath  string // 用户配置文件路径
		httpPort    int    // HTTP端口（节点级覆盖）
		dataDir     string // 数据目录（节点级覆盖）
		admin       string // 管理员身份（节点级覆盖）
		showHelp    bool   // 显示帮助
		showVersion bool   // 显示版本
	)

	flag.StringVar(&env, "env", "", "内嵌环境配置：dev（开发）| test（测试）| prod（生产）")
	flag.StringVar(&configPath, "config", "", "配置文件路径（优先于--env）")
	flag.IntVar(&httpPort, "http-port", 0, "HTTP端口（节点级覆盖，不影响配置文件）")
	flag.StringVar(&dataDir, "data-dir", "", "数据目录（节点级覆盖，不影响配置文件）")
	flag.StringVar(&admin, "admin", "", "管理员身份（节点级覆盖，不影响配置文件）")
	flag.BoolVar(&showHelp, "help", false, "显示帮助信息")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.Parse()

	// 显示版本
	if showVersion {
		fmt.Println(version.GetFullVersion())
		return
	}

	// 显示帮助
	if showHelp {
		showHelpInfo()
		return
	}

	// 确定配置来源
	// 优先级：--config > TDL_CONFIG_PATH环境变量 > --env内嵌配置 > 内嵌开发配置
	var configData []byte
	var configSource string

	switch {
	case configPath != "":
		data, err := os.ReadFile(configPath)
		if err != nil {
			fmt.Printf("❌ 读取配置文件失败: %v\n", err)
			os.Exit(1)
		}
		configData = data
		configSource = configPath

	case os.Getenv("TDL_CONFIG_PATH") != "":
		envPath := os.Getenv("TDL_CONFIG_PATH")
		data, err := os.ReadFile(envPath)
		if err != nil {
			fmt.Printf("❌ 读取配置文件失败: %v\n", err)
			os.Exit(1)
		}
		configData = data
		configSource = envPath + " (TDL_CONFIG_PATH)"

	default:
		if env == "" {
			env = "dev"
		}
		switch strings.ToLower(env) {
		case "dev", "development":
			configData = configs.GetDevelopmentConfig()
			configSource = "内嵌开发配置"
		case "test", "testing":
			configData = configs.GetTestingConfig()
			configSource = "内嵌测试配置"
		case "prod", "production":
			configData = configs.GetProductionConfig()
			configSource = "内嵌生产配置"
		default:
			fmt.Printf("❌ 错误: 无效的环境 '%s'\n", env)
			fmt.Println("💡 有效选项: dev | test | prod")
			os.Exit(1)
		}
	}

	// 解析配置
	var appConfig types.AppConfig
	if err := json.Unmarshal(configData, &appConfig); err != nil {
		fmt.Fprintf(os.Stderr, "❌ 解析配置文件失败: %v\n", err)
		os.Exit(1)
	}

	// 验证配置文件中必须包含 environment 字段
	if appConfig.Environment == nil || *appConfig.Environment == "" {
		fmt.Println("❌ 错误: 配置文件缺少 environment 字段")
		fmt.Println("💡 请在配置文件中添加 environment 字段（dev | test | prod）")
		os.Exit(1)
	}

	// 验证 environment 字段值
	envValue := strings.ToLower(*appConfig.Environment)
	if envValue != "dev" && envValue != "test" && envValue != "prod" {
		fmt.Printf("❌ 错误: 配置文件中的 environment 字段值无效: %s\n", *appConfig.Environment)
		fmt.Println("💡 有效选项: dev | test | prod")
		os.Exit(1)
	}

	// 应用节点级覆盖（端口、数据目录、管理员）
	applyNodeOverrides(&appConfig, httpPort, dataDir, admin)

	// 验证配置
	if err := validateConfig(&appConfig); err != nil {
		fmt.Printf("❌ 配置验证失败: %v\n", err)
		os.Exit(1)
	}

	// 重新序列化为JSON（作为内嵌配置传入）
	finalConfigData, err := json.Marshal(&appConfig)
	if err != nil {
		fmt.Printf("❌ 序列化配置失败: %v\n", err)
		os.Exit(1)
	}

	// 输出启动信息
	fmt.Println("🚀 正在启动 tdl-node")
	fmt.Printf("   运行环境: %s\n", *appConfig.Environment)
	fmt.Printf("   配置来源: %s\n", configSource)
	if appConfig.Ledger != nil && appConfig.Ledger.StorageEngine != nil {
		fmt.Printf("   存储引擎: %s\n", *appConfig.Ledger.StorageEngine)
	}

	// 启动节点
	startOptions := []app.Option{
		app.WithEmbeddedConfig(finalConfigData),
		app.WithAPI(), // 启用API
	}

	nodeApp, err := app.Start(startOptions...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 节点启动失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ 节点启动成功！")

	// 等待退出信号
	nodeApp.Wait()
}

// applyNodeOverrides 应用节点级覆盖配置（端口、数据目录等）
func applyNodeOverrides(appConfig *types.AppConfig, httpPort int, dataDir, admin string) {
	// 覆盖HTTP端口
	if httpPort > 0 {
		if appConfig.API == nil {
			appConfig.API = &types.UserAPIConfig{}
		}
		appConfig.API.HTTPPort = types.IntPtr(httpPort)
		fmt.Printf("   端口覆盖: HTTP=%d\n", httpPort)
	}

	// 覆盖数据目录
	if dataDir != "" {
		if appConfig.Storage == nil {
			appConfig.Storage = &types.UserStorageConfig{}
		}
		appConfig.Storage.DataRoot = types.StringPtr(dataDir)
		fmt.Printf("   数据目录覆盖: %s\n", dataDir)
	}

	// 覆盖管理员身份
	if admin != "" {
		if appConfig.Ledger == nil {
			appConfig.Ledger = &types.UserLedgerConfig{}
		}
		appConfig.Ledger.Admin = types.StringPtr(admin)
		fmt.Printf("   管理员覆盖: %s\n", admin)
	}
}

// validateConfig 验证配置的关键字段
func validateConfig(appConfig *types.AppConfig) error {
	// HTTP端口范围
	if appConfig.API != nil && appConfig.API.HTTPPort != nil {
		port := *appConfig.API.HTTPPort
		if port < 1 || port > 65535 {
			return fmt.Errorf("无效的HTTP端口: %d", port)
		}
	}

	// 存储引擎名称
	if appConfig.Ledger != nil && appConfig.Ledger.StorageEngine != nil {
		engine := strings.ToLower(*appConfig.Ledger.StorageEngine)
		if engine != "badger" && engine != "bolt" {
			return fmt.Errorf("无效的存储引擎: %s（有效选项: badger | bolt）", engine)
		}
	}

	// 金库托管身份与份额引擎托管身份不能相同：
	// 两者在支付代币账本和资产托管中承担不同职责，混用会导致对账混乱
	if appConfig.Ledger != nil &&
		appConfig.Ledger.TreasuryIdentity != nil &&
		appConfig.Ledger.EngineIdentity != nil &&
		*appConfig.Ledger.TreasuryIdentity == *appConfig.Ledger.EngineIdentity {
		return fmt.Errorf("treasury_identity 和 engine_identity 不能相同: %s", *appConfig.Ledger.TreasuryIdentity)
	}

	return nil
}

// showHelpInfo 显示帮助信息
func showHelpInfo() {
	fmt.Println("🏦 TDL 产权契据账本节点")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  tdl-node [选项]")
	fmt.Println("  tdl-node config init --out <path>   # 生成配置文件模板")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("配置优先级:")
	fmt.Println("  --config > TDL_CONFIG_PATH环境变量 > --env内嵌配置 > 内嵌开发配置")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  tdl-node                                  # 零配置启动（内嵌开发配置）")
	fmt.Println("  tdl-node --env test                       # 使用内嵌测试配置")
	fmt.Println("  tdl-node --config ./my-config.json        # 使用自定义配置")
	fmt.Println("  tdl-node --env prod --admin ops-admin     # 生产配置+管理员覆盖")
	fmt.Println()
	fmt.Println("环境变量覆盖（容器部署）:")
	fmt.Println("  TDL_CONFIG_PATH     配置文件路径")
	fmt.Println("  TDL_HTTP_PORT       HTTP端口")
	fmt.Println("  TDL_DATA_DIR        数据目录")
	fmt.Println("  TDL_LOG_LEVEL       日志级别")
	fmt.Println("  TDL_ADMIN           管理员身份")
	fmt.Println("  TDL_STORAGE_ENGINE  存储引擎（badger | bolt）")
}
