package main

import (
	"github.com/spf13/cobra"
)

// healthCmd 节点健康检查
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "查询节点健康状态",
	Long: `查询节点的综合健康状态，包括各引擎的就绪情况。

示例：
  tdl health
  tdl health live
  tdl health ready`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/health", &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// healthLiveCmd 存活探针
var healthLiveCmd = &cobra.Command{
	Use:   "live",
	Short: "存活探针（进程是否在运行）",
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/health/live", &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// healthReadyCmd 就绪探针
var healthReadyCmd = &cobra.Command{
	Use:   "ready",
	Short: "就绪探针（存储与引擎是否可用）",
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/health/ready", &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

func init() {
	healthCmd.AddCommand(healthLiveCmd)
	healthCmd.AddCommand(healthReadyCmd)
}
