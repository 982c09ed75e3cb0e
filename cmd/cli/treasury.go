package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	httptypes "github.com/titledger/v1/internal/api/http/types"
)

var (
	mintToken      string
	mintValidator  string
	mintCategory   string
	mintOwner      string
	mintAgreement  string
	mintDefinition string
	mintConfig     string
	mintBatchFile  string

	feeRegular     string
	feeValidator   string
	whitelistAllow bool
	rateRegular    uint32
	rateValidator  uint32
)

// treasuryCmd 费用账本相关命令
var treasuryCmd = &cobra.Command{
	Use:   "treasury",
	Short: "费用账本管理",
	Long:  "代币白名单、费用计划、佣金费率与资金提取",
}

// mintCmd 付费铸造（顶级命令，面向普通用户）
var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "付费铸造资产",
	Long: `支付铸造费登记一笔产权资产。

铸造费从调用方的金库余额中扣除，所有权归于付款人（调用方）。
佣金按费率记入目标验证方所有人的佣金账户，其余进入协议余额。

示例：
  tdl mint --caller alice --token usd-token --validator notary-a \
      --category land --agreement tdl://agreements/standard-v1 \
      --definition "地籍档案-2024"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		// 所有权归于付款人，owner参数仅为请求结构完整性
		owner := mintOwner
		if owner == "" {
			owner = globalFlags.Caller
		}

		req := httptypes.MintRequest{
			Params: httptypes.CreateAssetRequest{
				Category:     mintCategory,
				Owner:        owner,
				AgreementRef: mintAgreement,
				Definition:   mintDefinition,
				Config:       mintConfig,
				Validator:    mintValidator,
			},
			Validator: mintValidator,
			Token:     mintToken,
		}

		var out interface{}
		if err := getClient().Post("/mint", req, &out); err != nil {
			return err
		}
		printOK("资产已铸造（付款人 %s 持有）", globalFlags.Caller)
		return printResult(out)
	},
}

// mintBatchCmd 批量付费铸造
var mintBatchCmd = &cobra.Command{
	Use:   "batch",
	Short: "批量付费铸造资产（原子操作）",
	Long: `从JSON文件读取铸造条目，在单个事务中批量铸造。

任意一笔失败（包括余额不足）则整批回滚。文件格式为
CreateAssetRequest数组：

  [
    {"category": "land", "owner": "alice",
     "agreement_ref": "tdl://agreements/standard-v1",
     "definition": "地籍档案-2024-001"},
    ...
  ]

示例：
  tdl mint batch --caller alice --token usd-token \
      --validator notary-a --file ./mints.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		data, err := os.ReadFile(mintBatchFile)
		if err != nil {
			return fmt.Errorf("读取铸造条目文件: %w", err)
		}

		var items []httptypes.CreateAssetRequest
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("解析铸造条目文件: %w", err)
		}
		if len(items) == 0 {
			return fmt.Errorf("铸造条目文件为空")
		}

		req := httptypes.MintBatchRequest{
			Items:     items,
			Validator: mintValidator,
			Token:     mintToken,
		}

		var out interface{}
		if err := getClient().Post("/mint/batch", req, &out); err != nil {
			return err
		}
		printOK("已批量铸造 %d 笔资产", len(items))
		return printResult(out)
	},
}

// treasuryTokenCmd 查询代币费用配置
var treasuryTokenCmd = &cobra.Command{
	Use:   "token <token>",
	Short: "查询代币的白名单状态与费用计划",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/treasury/tokens/"+pathEscape(args[0]), &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// treasuryWhitelistCmd 设置代币白名单
var treasuryWhitelistCmd = &cobra.Command{
	Use:   "whitelist <token>",
	Short: "设置代币白名单状态（仅管理员）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.SetWhitelistRequest{Whitelisted: whitelistAllow}
		var out interface{}
		if err := getClient().Put("/treasury/tokens/"+pathEscape(args[0])+"/whitelist", req, &out); err != nil {
			return err
		}
		printOK("代币 %s 白名单状态已设为 %v", args[0], whitelistAllow)
		return printResult(out)
	},
}

// treasurySetFeesCmd 设置费用计划
var treasurySetFeesCmd = &cobra.Command{
	Use:   "set-fees <token>",
	Short: "设置代币的铸造费用计划（仅管理员）",
	Long: `设置普通用户与验证方的单笔铸造费。

金额为十进制字符串，以代币最小单位计。

示例：
  tdl treasury set-fees usd-token --caller tdl-admin \
      --regular 100 --validator-fee 40`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.SetFeeScheduleRequest{
			RegularFee:   feeRegular,
			ValidatorFee: feeValidator,
		}
		var out interface{}
		if err := getClient().Put("/treasury/tokens/"+pathEscape(args[0])+"/fees", req, &out); err != nil {
			return err
		}
		printOK("代币 %s 费用计划已更新", args[0])
		return printResult(out)
	},
}

// treasuryRatesCmd 查询佣金费率
var treasuryRatesCmd = &cobra.Command{
	Use:   "rates",
	Short: "查询佣金费率（基点）",
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/treasury/rates", &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// treasurySetRatesCmd 设置佣金费率
var treasurySetRatesCmd = &cobra.Command{
	Use:   "set-rates",
	Short: "设置佣金费率（仅管理员）",
	Long: `设置普通用户与验证方铸造的佣金费率，单位为基点（万分之一）。

示例：
  tdl treasury set-rates --caller tdl-admin --regular-bps 1000 --validator-bps 500`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.SetRatesRequest{
			RegularBps:   rateRegular,
			ValidatorBps: rateValidator,
		}
		var out interface{}
		if err := getClient().Put("/treasury/rates", req, &out); err != nil {
			return err
		}
		printOK("佣金费率已更新")
		return printResult(out)
	},
}

// treasuryRecipientCmd 查询服务费接收人
var treasuryRecipientCmd = &cobra.Command{
	Use:   "recipient",
	Short: "查询服务费接收人",
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/treasury/recipient", &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// treasurySetRecipientCmd 设置服务费接收人
var treasurySetRecipientCmd = &cobra.Command{
	Use:   "set-recipient <identity>",
	Short: "设置服务费接收人（仅管理员）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.SetRecipientRequest{Recipient: args[0]}
		var out interface{}
		if err := getClient().Put("/treasury/recipient", req, &out); err != nil {
			return err
		}
		printOK("服务费接收人已设为 %s", args[0])
		return printResult(out)
	},
}

// treasuryWithdrawServiceCmd 提取服务费
var treasuryWithdrawServiceCmd = &cobra.Command{
	Use:   "withdraw-service <token>",
	Short: "提取协议服务费（仅管理员）",
	Long: `将指定代币的全部协议余额划转到服务费接收人的金库账户。

调用方必须是管理员，且服务费接收人已设置。`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		var out interface{}
		if err := getClient().Post("/treasury/withdrawals/service/"+pathEscape(args[0]), nil, &out); err != nil {
			return err
		}
		printOK("服务费已提取")
		return printResult(out)
	},
}

// treasuryWithdrawCommissionCmd 提取佣金
var treasuryWithdrawCommissionCmd = &cobra.Command{
	Use:   "withdraw-commission <token>",
	Short: "提取本人佣金",
	Long:  "将调用方名下的佣金余额划转到调用方的金库账户。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		var out interface{}
		if err := getClient().Post("/treasury/withdrawals/commission/"+pathEscape(args[0]), nil, &out); err != nil {
			return err
		}
		printOK("佣金已提取")
		return printResult(out)
	},
}

// treasuryProtocolBalanceCmd 查询协议余额
var treasuryProtocolBalanceCmd = &cobra.Command{
	Use:   "protocol-balance <token>",
	Short: "查询协议服务费余额",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/treasury/balances/protocol/"+pathEscape(args[0]), &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// treasuryCommissionBalanceCmd 查询佣金余额
var treasuryCommissionBalanceCmd = &cobra.Command{
	Use:   "commission-balance <recipient> <token>",
	Short: "查询指定接收人的佣金余额",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		path := "/treasury/balances/commission/" + pathEscape(args[0]) + "/" + pathEscape(args[1])
		if err := getClient().Get(path, &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

func init() {
	// mint标志
	mintCmd.Flags().StringVar(&mintToken, "token", "", "支付代币（必需）")
	mintCmd.Flags().StringVar(&mintValidator, "validator", "", "佣金目标验证方（为空时使用默认验证方）")
	mintCmd.Flags().StringVar(&mintCategory, "category", "", "资产类别: land|estate|vehicle（必需）")
	mintCmd.Flags().StringVar(&mintOwner, "owner", "", "owner参数（所有权始终归付款人，该参数仅保留在请求中）")
	mintCmd.Flags().StringVar(&mintAgreement, "agreement", "", "认证协议URI（必需）")
	mintCmd.Flags().StringVar(&mintDefinition, "definition", "", "资产定义文档（必需）")
	mintCmd.Flags().StringVar(&mintConfig, "config", "", "附加配置")
	mintCmd.MarkFlagRequired("token")
	mintCmd.MarkFlagRequired("category")
	mintCmd.MarkFlagRequired("agreement")
	mintCmd.MarkFlagRequired("definition")

	// mint batch标志
	mintBatchCmd.Flags().StringVar(&mintToken, "token", "", "支付代币（必需）")
	mintBatchCmd.Flags().StringVar(&mintValidator, "validator", "", "佣金目标验证方（为空时使用默认验证方）")
	mintBatchCmd.Flags().StringVar(&mintBatchFile, "file", "", "铸造条目JSON文件（必需）")
	mintBatchCmd.MarkFlagRequired("token")
	mintBatchCmd.MarkFlagRequired("file")
	mintCmd.AddCommand(mintBatchCmd)

	// whitelist标志
	treasuryWhitelistCmd.Flags().BoolVar(&whitelistAllow, "allow", true, "白名单状态取值")

	// set-fees标志
	treasurySetFeesCmd.Flags().StringVar(&feeRegular, "regular", "", "普通用户单笔铸造费（必需）")
	treasurySetFeesCmd.Flags().StringVar(&feeValidator, "validator-fee", "", "验证方单笔铸造费（必需）")
	treasurySetFeesCmd.MarkFlagRequired("regular")
	treasurySetFeesCmd.MarkFlagRequired("validator-fee")

	// set-rates标志
	treasurySetRatesCmd.Flags().Uint32Var(&rateRegular, "regular-bps", 0, "普通用户铸造佣金费率（基点）")
	treasurySetRatesCmd.Flags().Uint32Var(&rateValidator, "validator-bps", 0, "验证方铸造佣金费率（基点）")

	treasuryCmd.AddCommand(treasuryTokenCmd)
	treasuryCmd.AddCommand(treasuryWhitelistCmd)
	treasuryCmd.AddCommand(treasurySetFeesCmd)
	treasuryCmd.AddCommand(treasuryRatesCmd)
	treasuryCmd.AddCommand(treasurySetRatesCmd)
	treasuryCmd.AddCommand(treasuryRecipientCmd)
	treasuryCmd.AddCommand(treasurySetRecipientCmd)
	treasuryCmd.AddCommand(treasuryWithdrawServiceCmd)
	treasuryCmd.AddCommand(treasuryWithdrawCommissionCmd)
	treasuryCmd.AddCommand(treasuryProtocolBalanceCmd)
	treasuryCmd.AddCommand(treasuryCommissionBalanceCmd)
}
