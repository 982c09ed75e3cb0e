// Package common 提供各环境启动入口共享的启动逻辑
package common

import (
	"fmt"
	"os"

	"github.com/titledger/v1/internal/app"
	"github.com/titledger/v1/internal/app/version"
)

// EnvironmentConfig 环境配置信息
type EnvironmentConfig struct {
	Name           string // 环境名称（development/testing/production）
	DisplayName    string // 显示名称
	Icon           string // 环境图标
	ConfigPath     string // 配置文件路径（用于显示）
	EmbeddedConfig []byte // 嵌入的配置内容

	// 环境特点描述
	Features []string

	// 特殊提示信息
	Warnings []string
}

// StartWithEmbeddedConfig 使用嵌入配置启动节点
func StartWithEmbeddedConfig(config *EnvironmentConfig) {
	fmt.Printf("%s 正在启动TDL%s节点...\n", config.Icon, config.DisplayName)
	fmt.Printf("📁 配置: %s (嵌入式配置)\n", config.ConfigPath)

	// 验证嵌入配置
	if len(config.EmbeddedConfig) == 0 {
		fmt.Println("❌ 错误: 未找到嵌入的配置内容")
		fmt.Println("💡 这可能是构建过程中的问题")
		os.Exit(1)
	}

	// 显示环境特有的警告
	for _, warning := range config.Warnings {
		if warning != "" {
			fmt.Printf("⚠️  警告: %s\n", warning)
		}
	}

	// 启动应用程序（嵌入配置 + API服务）
	startOptions := []app.Option{
		app.WithEmbeddedConfig(config.EmbeddedConfig),
		app.WithAPI(),
	}

	nodeApp, err := app.Start(startOptions...)
	if err != nil {
		fmt.Printf("❌ 应用程序启动失败: %v\n", err)
		os.Exit(1)
	}

	// 打印启动成功信息
	fmt.Printf("✅ TDL%s节点启动成功！\n", config.DisplayName)

	// 根据环境显示不同的特色信息
	switch config.Name {
	case "development":
		fmt.Println("🔄 开发服务运行中，身份与费率可通过API随时调整")
	case "testing":
		fmt.Println("🧪 适合集成测试、自动化验证（存储为内存模式）")
	case "production":
		fmt.Println("🚀 生产级服务，请配置相应的监控和日志收集")
	}

	fmt.Println("🔄 服务正在后台运行，按 Ctrl+C 停止...")

	// 等待终止信号
	nodeApp.Wait()
	fmt.Printf("✅ TDL%s节点已停止\n", config.DisplayName)
}

// ShowEnvironmentHelp 显示环境特定的帮助信息
func ShowEnvironmentHelp(config *EnvironmentConfig) {
	fmt.Printf("%s TDL %s节点\n", config.Icon, config.DisplayName)
	fmt.Println()
	fmt.Println("用法:")
	fmt.Printf("  go run ./cmd/%s [选项]\n", config.Name)
	fmt.Printf("  ./bin/%s [选项]\n", config.Name)
	fmt.Println()
	fmt.Println("配置文件:")
	fmt.Printf("  自动加载: %s\n", config.ConfigPath)
	fmt.Println()

	// 显示环境特有的警告
	if len(config.Warnings) > 0 {
		fmt.Println("⚠️  注意事项:")
		for _, warning := range config.Warnings {
			if warning != "" {
				fmt.Printf("  • %s\n", warning)
			}
		}
		fmt.Println()
	}

	fmt.Println("环境特点:")
	for _, feature := range config.Features {
		fmt.Printf("  ✓ %s\n", feature)
	}
}

// ShowEnvironmentVersion 显示环境特定的版本信息
func ShowEnvironmentVersion(config *EnvironmentConfig) {
	fmt.Printf("TDL %s节点 %s\n", config.DisplayName, version.GetVersion())
	fmt.Printf("环境: %s\n", config.Name)
	fmt.Printf("配置: %s (嵌入式)\n", config.ConfigPath)
}
