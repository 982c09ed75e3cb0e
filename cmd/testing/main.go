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
		Name:           "testing",
		DisplayName:    "测试环境",
		Icon:           "🧪",
		ConfigPath:     "configs/testing/config.json",
		EmbeddedConfig: configs.GetTestingConfig(),
		Features: []string{
			"CI/CD优化",
			"内存存储模式，进程退出即清空",
			"自动化测试友好",
			"快速启动停止",
		},
		Warnings: []string{
			"存储为内存模式，所有数据在进程退出后丢失",
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
