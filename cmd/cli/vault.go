package main

import (
	"github.com/spf13/cobra"
	httptypes "github.com/titledger/v1/internal/api/http/types"
)

var (
	vaultToken  string
	vaultTo     string
	vaultAmount string
)

// vaultCmd 支付金库相关命令
var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "支付金库管理",
	Long:  "代币余额入账、划转与查询",
}

// vaultCreditCmd 管理员入账
var vaultCreditCmd = &cobra.Command{
	Use:   "credit",
	Short: "向指定账户入账代币（仅管理员）",
	Long: `为目标账户贷记指定数量的已白名单代币。

示例：
  tdl vault credit --caller tdl-admin --token usd-token --to alice --amount 5000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.VaultCreditRequest{
			Token:  vaultToken,
			To:     vaultTo,
			Amount: vaultAmount,
		}
		var out interface{}
		if err := getClient().Post("/vault/credit", req, &out); err != nil {
			return err
		}
		printOK("已向 %s 入账 %s %s", vaultTo, vaultAmount, vaultToken)
		return printResult(out)
	},
}

// vaultTransferCmd 余额划转
var vaultTransferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "向其他账户划转代币",
	Long: `从调用方余额向目标账户划转代币。

示例：
  tdl vault transfer --caller alice --token usd-token --to bob --amount 200`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.VaultTransferRequest{
			Token:  vaultToken,
			To:     vaultTo,
			Amount: vaultAmount,
		}
		var out interface{}
		if err := getClient().Post("/vault/transfer", req, &out); err != nil {
			return err
		}
		printOK("已向 %s 划转 %s %s", vaultTo, vaultAmount, vaultToken)
		return printResult(out)
	},
}

// vaultBalanceCmd 查询余额
var vaultBalanceCmd = &cobra.Command{
	Use:   "balance <token> <holder>",
	Short: "查询账户的代币余额",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		path := "/vault/balance/" + pathEscape(args[0]) + "/" + pathEscape(args[1])
		if err := getClient().Get(path, &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

func init() {
	vaultCreditCmd.Flags().StringVar(&vaultToken, "token", "", "代币标识（必需）")
	vaultCreditCmd.Flags().StringVar(&vaultTo, "to", "", "入账目标账户（必需）")
	vaultCreditCmd.Flags().StringVar(&vaultAmount, "amount", "", "金额，十进制字符串（必需）")
	vaultCreditCmd.MarkFlagRequired("token")
	vaultCreditCmd.MarkFlagRequired("to")
	vaultCreditCmd.MarkFlagRequired("amount")

	vaultTransferCmd.Flags().StringVar(&vaultToken, "token", "", "代币标识（必需）")
	vaultTransferCmd.Flags().StringVar(&vaultTo, "to", "", "划转目标账户（必需）")
	vaultTransferCmd.Flags().StringVar(&vaultAmount, "amount", "", "金额，十进制字符串（必需）")
	vaultTransferCmd.MarkFlagRequired("token")
	vaultTransferCmd.MarkFlagRequired("to")
	vaultTransferCmd.MarkFlagRequired("amount")

	vaultCmd.AddCommand(vaultCreditCmd)
	vaultCmd.AddCommand(vaultTransferCmd)
	vaultCmd.AddCommand(vaultBalanceCmd)
}
