// Package main 提供验证节点配置文件的命令行工具
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/titledger/v1/pkg/types"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "用法: %s <config-file>...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "示例: %s configs/*/config.json\n", os.Args[0])
		os.Exit(1)
	}

	var hasError bool
	for _, configPath := range os.Args[1:] {
		if err := validateConfig(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %s: %v\n", configPath, err)
			hasError = true
		} else {
			fmt.Printf("✅ %s: 验证通过\n", configPath)
		}
	}

	if hasError {
		os.Exit(1)
	}
}

func validateConfig(configPath string) error {
	// 读取配置文件
	configBytes, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析为 AppConfig
	var appConfig types.AppConfig
	if err := json.Unmarshal(configBytes, &appConfig); err != nil {
		return fmt.Errorf("解析配置文件失败: %w", err)
	}

	// environment 必须存在且有效
	if appConfig.Environment == nil || *appConfig.Environment == "" {
		return fmt.Errorf("缺少 environment 字段（dev | test | prod）")
	}
	env := strings.ToLower(*appConfig.Environment)
	if env != "dev" && env != "test" && env != "prod" {
		return fmt.Errorf("无效的 environment 值: %s", *appConfig.Environment)
	}

	// HTTP端口范围
	if appConfig.API != nil && appConfig.API.HTTPPort != nil {
		port := *appConfig.API.HTTPPort
		if port < 1 || port > 65535 {
			return fmt.Errorf("无效的 api.http_port: %d", port)
		}
	}

	// 账本配置
	if appConfig.Ledger != nil {
		// 存储引擎名称
		if appConfig.Ledger.StorageEngine != nil {
			engine := strings.ToLower(*appConfig.Ledger.StorageEngine)
			if engine != "badger" && engine != "bolt" {
				return fmt.Errorf("无效的 ledger.storage_engine: %s（有效选项: badger | bolt）", engine)
			}
		}

		// 托管身份不能互相重合
		if appConfig.Ledger.TreasuryIdentity != nil && appConfig.Ledger.EngineIdentity != nil &&
			*appConfig.Ledger.TreasuryIdentity == *appConfig.Ledger.EngineIdentity {
			return fmt.Errorf("ledger.treasury_identity 与 ledger.engine_identity 不能相同: %s",
				*appConfig.Ledger.TreasuryIdentity)
		}

		// 身份字段不能是空白字符串
		for name, value := range map[string]*string{
			"ledger.admin":             appConfig.Ledger.Admin,
			"ledger.treasury_identity": appConfig.Ledger.TreasuryIdentity,
			"ledger.engine_identity":   appConfig.Ledger.EngineIdentity,
		} {
			if value != nil && strings.TrimSpace(*value) == "" {
				return fmt.Errorf("%s 不能为空白字符串（省略该字段以使用默认值）", name)
			}
		}
	}

	// 日志级别
	if appConfig.Log != nil && appConfig.Log.Level != nil {
		level := strings.ToLower(*appConfig.Log.Level)
		switch level {
		case "debug", "info", "warn", "error", "fatal":
		default:
			return fmt.Errorf("无效的 log.level: %s", *appConfig.Log.Level)
		}
	}

	// 生产环境告警性检查：生产配置不应使用内存存储
	if env == "prod" && appConfig.Storage != nil && appConfig.Storage.InMemory != nil && *appConfig.Storage.InMemory {
		return fmt.Errorf("生产环境配置不应启用 storage.in_memory")
	}

	return nil
}
