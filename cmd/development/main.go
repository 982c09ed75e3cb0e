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
		Name:           "development",
		DisplayName:    "开发环境",
		Icon:           "🔧",
		ConfigPath:     "configs/development/config.json",
		EmbeddedConfig: configs.GetDevelopmentConfig(),
		Features: []string{
			"开发调试优化",
			"详细日志输出",
			"默认管理员身份开箱即用",
			"零配置启动",
		},
		Warnings: []string{},
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
