package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/titledger/v1/configs"
)

// configInitCommand 实现 config init 子命令
// 以内嵌配置为模板生成配置文件，供部署方编辑后通过 --config 启动
func configInitCommand(args []string) {
	var (
		env   string // 模板环境：dev | test | prod
		out   string // 输出文件路径
		force bool   // 强制覆盖，跳过交互确认
	)

	fs := flag.NewFlagSet("config init", flag.ExitOnError)
	fs.StringVar(&env, "env", "prod", "模板环境：dev | test | prod")
	fs.StringVar(&out, "out", "", "输出文件路径（必需）")
	fs.BoolVar(&force, "force", false, "强制覆盖已存在的文件，跳过交互确认（用于 CI/CD）")
	fs.Usage = func() {
		fmt.Println("用法: tdl-node config init [--env <env>] --out <path> [--force]")
		fmt.Println()
		fmt.Println("选项:")
		fmt.Println("  --env <env>    模板环境：dev | test | prod（默认 prod）")
		fmt.Println("  --out <path>   输出文件路径（必需）")
		fmt.Println("  --force        强制覆盖已存在的文件，跳过交互确认（用于 CI/CD）")
		fmt.Println()
		fmt.Println("示例:")
		fmt.Println("  tdl-node config init --out ./config.json")
		fmt.Println("  tdl-node config init --env dev --out ./dev-config.json --force")
	}

	if err := fs.Parse(args); err != nil {
		fmt.Printf("❌ 解析参数失败: %v\n", err)
		os.Exit(1)
	}

	if out == "" {
		fmt.Println("❌ 错误: 必须指定 --out 参数")
		fs.Usage()
		os.Exit(1)
	}

	// 获取模板
	var templateData []byte
	switch strings.ToLower(env) {
	case "dev", "development":
		templateData = configs.GetDevelopmentConfig()
	case "test", "testing":
		templateData = configs.GetTestingConfig()
	case "prod", "production":
		templateData = configs.GetProductionConfig()
	default:
		fmt.Printf("❌ 错误: 无效的环境 '%s'\n", env)
		fmt.Println("💡 有效选项: dev | test | prod")
		os.Exit(1)
	}

	// 格式化JSON（美化输出）
	var templateMap map[string]interface{}
	if err := json.Unmarshal(templateData, &templateMap); err != nil {
		fmt.Printf("❌ 解析模板失败: %v\n", err)
		os.Exit(1)
	}

	formattedData, err := json.MarshalIndent(templateMap, "", "  ")
	if err != nil {
		fmt.Printf("❌ 格式化模板失败: %v\n", err)
		os.Exit(1)
	}

	// 确保输出目录存在
	outDir := filepath.Dir(out)
	if outDir != "." && outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			fmt.Printf("❌ 创建输出目录失败: %v\n", err)
			os.Exit(1)
		}
	}

	// 检查文件是否已存在
	if _, err := os.Stat(out); err == nil {
		if !force {
			fmt.Printf("⚠️  警告: 文件 %s 已存在\n", out)
			fmt.Print("是否覆盖？(y/N): ")
			var response string
			fmt.Scanln(&response)
			response = strings.ToLower(response)
			if response != "y" && response != "yes" {
				fmt.Println("已取消")
				return
			}
		} else {
			fmt.Printf("ℹ️  使用 --force 参数，将覆盖已存在的文件: %s\n", out)
		}
	}

	// 写入文件
	if err := os.WriteFile(out, formattedData, 0644); err != nil {
		fmt.Printf("❌ 写入文件失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ 已生成配置文件: %s\n", out)
	fmt.Println()
	fmt.Println("⚠️  重要提示:")
	fmt.Println("  1. 请编辑配置文件，确认以下关键字段：")
	fmt.Println("     - environment（运行环境：dev | test | prod）")
	fmt.Println("     - ledger.admin（管理员身份，生产环境必须修改）")
	fmt.Println("     - ledger.treasury_identity（金库托管账户身份）")
	fmt.Println("     - ledger.engine_identity（份额引擎托管身份）")
	fmt.Println("     - storage.data_root（数据目录）")
	fmt.Println()
	fmt.Println("  2. 配置完成后，使用以下命令启动节点：")
	fmt.Printf("     tdl-node --config %s\n", out)
}
