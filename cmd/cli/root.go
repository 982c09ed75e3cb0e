package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	Node         string // 节点API地址
	Caller       string // 调用方身份
	Timeout      time.Duration
	OutputFormat string // 输出格式
	Silent       bool   // 静默模式
}

var globalFlags GlobalFlags

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "tdl", // 命令名：tdl（二进制名为 tdl-cli）
	Short: "TDL 产权契据账本命令行客户端",
	Long: `TDL CLI - 账本节点的薄客户端

二进制名: tdl-cli
命令名: tdl

使用方式:
  tdl-cli <command>     # 直接使用二进制名
  tdl <command>         # 使用别名（推荐）

TDL CLI 是产权契据账本的官方命令行工具，提供完整的账本交互能力：
- 登记、查询、转移、销毁产权资产
- 管理验证方目录与认证协议
- 配置代币白名单、费用计划与佣金费率
- 金库充值、划转与余额查询
- 份额化托管与地块划分操作

所有写操作以 --caller 指定的身份执行，身份经 X-TDL-Caller
请求头透传给节点，由节点核心引擎裁决权限。`,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// 全局标志
	rootCmd.PersistentFlags().StringVar(&globalFlags.Node, "node", defaultNodeURL(), "节点API地址")
	rootCmd.PersistentFlags().StringVar(&globalFlags.Caller, "caller", "", "调用方身份（写操作必需）")
	rootCmd.PersistentFlags().DurationVar(&globalFlags.Timeout, "timeout", 30*time.Second, "请求超时时间")
	rootCmd.PersistentFlags().StringVarP(&globalFlags.OutputFormat, "output", "o", "pretty", "输出格式: json|pretty")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Silent, "silent", false, "静默模式 (仅输出结果)")

	// 添加子命令
	rootCmd.AddCommand(deedCmd)
	rootCmd.AddCommand(validatorCmd)
	rootCmd.AddCommand(treasuryCmd)
	rootCmd.AddCommand(mintCmd)
	rootCmd.AddCommand(vaultCmd)
	rootCmd.AddCommand(fractionCmd)
	rootCmd.AddCommand(subdivisionCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(versionCmd)
}

// defaultNodeURL 默认节点地址
// 环境变量 TDL_NODE 优先，便于脚本化使用时免去重复传参
func defaultNodeURL() string {
	if url := os.Getenv("TDL_NODE"); url != "" {
		return url
	}
	return "http://127.0.0.1:28680"
}

// getClient 获取API客户端
func getClient() *apiClient {
	return newAPIClient(globalFlags.Node, globalFlags.Caller, globalFlags.Timeout)
}

// requireCaller 写操作前检查调用方身份已提供
func requireCaller() error {
	if globalFlags.Caller == "" {
		return fmt.Errorf("该操作需要 --caller 指定调用方身份")
	}
	return nil
}
