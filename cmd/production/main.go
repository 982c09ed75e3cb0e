package main

import (
	"flag"
	"fmt"

	"github.com/titledger/v1/cmd/common"
	"github.com/titledger/v1/configs"
)

func main() {
	// 环境配置（嵌入式）
	envConfig := &common.EnvironmentConfig{
		Name:           "production",
		DisplayName:    "生产环境",
		Icon:           "🚀",
		ConfigPath:     "configs/production/config.json",
		EmbeddedConfig: configs.GetProductionConfig(),
		Features: []string{
			"生产级默认参数",
			"CORS默认关闭",
			"持久化存储",
		},
		Warnings: []string{
			"管理员与托管身份应通过 TDL_ADMIN 等环境变量注入，不要使用默认值",
			"请配置监控抓取 /metrics 端点",
		},
	}

	// 命令行参数定义
	var (
		showHelp    = flag.Bool("help", false, "显示帮助信息")
		showVersion = flag.Bool("version", false, "显示版本信息")
	)
	flag.Parse()

	// 显示帮助信息
	if *showHelp {
		common.ShowEnvironmentHelp(envConfig)
		fmt.Println()
		fmt.Println("选项:")
		flag.PrintDefaults()
		return
	}

	// 显示版本信息
	if *showVersion {
		common.ShowEnvironmentVersion(envConfig)
		return
	}

	// 使用嵌入配置启动
	common.StartWithEmbeddedConfig(envConfig)
}
