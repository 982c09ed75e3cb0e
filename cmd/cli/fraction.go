package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	httptypes "github.com/titledger/v1/internal/api/http/types"
)

var (
	fracAssetID     uint64
	fracCategory    string
	fracName        string
	fracSymbol      string
	fracDescription string
	fracTotal       uint64
	fracMaxWallet   uint64
	fracApprovalPct uint32
	fracBurnable    bool

	shareIndex     uint64
	shareRecipient string
	shareMetadata  string
	shareTo        string

	approveTransfer bool
	approveAdmin    bool

	unlockRecipient string
	unlockCheck     bool
)

// fractionCmd 份额集合相关命令
var fractionCmd = &cobra.Command{
	Use:   "fraction",
	Short: "份额集合管理",
	Long:  "资产份额化：集合创建、份额铸造/转让/销毁、审批与整体解锁",
}

// fractionCreateCmd 创建份额集合
var fractionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "为资产创建份额集合",
	Long: `将一笔资产份额化。调用方必须是资产持有人，资产必须可划分且尚未有活跃集合。

创建后资产被锁定（托管给份额引擎），直至通过unlock解锁。

示例：
  tdl fraction create --caller alice --asset 1 --category land \
      --name "湖畔地块份额" --symbol LAKE --total 100 --approval-pct 66`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.CreateFractionRequest{
			AssetID:             fracAssetID,
			Category:            fracCategory,
			Name:                fracName,
			Symbol:              fracSymbol,
			Description:         fracDescription,
			TotalShares:         fracTotal,
			MaxSharesPerWallet:  fracMaxWallet,
			RequiredApprovalPct: fracApprovalPct,
			Burnable:            fracBurnable,
		}
		var out interface{}
		if err := getClient().Post("/fractions", req, &out); err != nil {
			return err
		}
		printOK("份额集合已创建（资产 %d 已锁定）", fracAssetID)
		return printResult(out)
	},
}

// fractionGetCmd 查询份额集合
var fractionGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "查询份额集合详情",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/fractions/id/"+args[0], &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// fractionByAssetCmd 按资产查询份额集合
var fractionByAssetCmd = &cobra.Command{
	Use:   "by-asset <asset_id>",
	Short: "查询资产的活跃份额集合",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/fractions/asset/"+args[0], &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// fractionMintCmd 铸造份额
var fractionMintCmd = &cobra.Command{
	Use:   "mint <id>",
	Short: "铸造单个份额（仅集合管理员）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.MintShareRequest{
			Index:     shareIndex,
			Recipient: shareRecipient,
			Metadata:  shareMetadata,
		}
		var out interface{}
		if err := getClient().Post("/fractions/id/"+args[0]+"/shares/mint", req, &out); err != nil {
			return err
		}
		printOK("份额 #%d 已铸造给 %s", shareIndex, shareRecipient)
		return printResult(out)
	},
}

// fractionBurnCmd 销毁份额
var fractionBurnCmd = &cobra.Command{
	Use:   "burn <id>",
	Short: "销毁本人持有的份额",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.BurnShareRequest{Index: shareIndex}
		var out interface{}
		if err := getClient().Post("/fractions/id/"+args[0]+"/shares/burn", req, &out); err != nil {
			return err
		}
		printOK("份额 #%d 已销毁", shareIndex)
		return printResult(out)
	},
}

// fractionTransferCmd 转让份额
var fractionTransferCmd = &cobra.Command{
	Use:   "transfer <id>",
	Short: "转让本人持有的份额",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.TransferShareRequest{Index: shareIndex, To: shareTo}
		var out interface{}
		if err := getClient().Post("/fractions/id/"+args[0]+"/shares/transfer", req, &out); err != nil {
			return err
		}
		printOK("份额 #%d 已转让给 %s", shareIndex, shareTo)
		return printResult(out)
	},
}

// fractionTransferFromCmd 管理员代转份额
var fractionTransferFromCmd = &cobra.Command{
	Use:   "transfer-from <id>",
	Short: "代转他人份额（仅集合管理员，需持有人事先授权）",
	Long: `集合管理员将持有人的份额代转给目标账户。

持有人必须先通过approve授予转让授权，代转完成后授权自动清除。`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.TransferShareRequest{Index: shareIndex, To: shareTo}
		var out interface{}
		if err := getClient().Post("/fractions/id/"+args[0]+"/shares/transfer-from", req, &out); err != nil {
			return err
		}
		printOK("份额 #%d 已代转给 %s", shareIndex, shareTo)
		return printResult(out)
	},
}

// fractionOwnerCmd 查询份额持有人
var fractionOwnerCmd = &cobra.Command{
	Use:   "owner <id> <index>",
	Short: "查询指定份额的持有人",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := strconv.ParseUint(args[1], 10, 64); err != nil {
			return fmt.Errorf("无效的份额序号: %s", args[1])
		}
		var out interface{}
		if err := getClient().Get("/fractions/id/"+args[0]+"/shares/owner/"+args[1], &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// fractionHoldersCmd 查询持有人列表
var fractionHoldersCmd = &cobra.Command{
	Use:   "holders <id>",
	Short: "查询集合的持有人列表",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/fractions/id/"+args[0]+"/holders", &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// fractionHolderCountCmd 查询持有人份额数
var fractionHolderCountCmd = &cobra.Command{
	Use:   "holder-count <id> <holder>",
	Short: "查询持有人在集合中的份额数量",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		path := "/fractions/id/" + args[0] + "/holders/" + pathEscape(args[1]) + "/count"
		if err := getClient().Get(path, &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// fractionApproveCmd 设置审批
var fractionApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "设置本人对集合的审批状态",
	Long: `持有人对集合表态：

  --transfer  授权管理员代转本人份额（transfer-from前置条件）
  --admin     对整体解锁投赞成票（审批路径解锁的计票依据）

示例：
  tdl fraction approve 3 --caller bob --transfer --admin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.SetApprovalRequest{
			TransferApproved: approveTransfer,
			AdminApproved:    approveAdmin,
		}
		var out interface{}
		if err := getClient().Post("/fractions/id/"+args[0]+"/approval", req, &out); err != nil {
			return err
		}
		printOK("审批状态已更新")
		return printResult(out)
	},
}

// fractionApprovalCmd 查询审批状态
var fractionApprovalCmd = &cobra.Command{
	Use:   "approval <id> <holder>",
	Short: "查询持有人对集合的审批状态",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		path := "/fractions/id/" + args[0] + "/approval/" + pathEscape(args[1])
		if err := getClient().Get(path, &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// fractionUnlockCmd 解锁底层资产
var fractionUnlockCmd = &cobra.Command{
	Use:   "unlock <id>",
	Short: "解锁底层资产并关闭集合",
	Long: `两条路径二选一：

  全额持有路径（默认）：调用方持有集合的全部流通份额。
  审批路径（--check-approvals）：投赞成票的持有人数占当前持有
  人数的比例达到集合的审批阈值（每人一票，与持股数无关）。

解锁后份额全部销毁，底层资产转给接收人，集合永久关闭。

示例：
  tdl fraction unlock 3 --caller alice --recipient alice
  tdl fraction unlock 3 --caller alice --recipient alice --check-approvals`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.UnlockAssetRequest{
			Recipient:      unlockRecipient,
			CheckApprovals: unlockCheck,
		}
		var out interface{}
		if err := getClient().Post("/fractions/id/"+args[0]+"/unlock", req, &out); err != nil {
			return err
		}
		printOK("资产已解锁并转给 %s", unlockRecipient)
		return printResult(out)
	},
}

func init() {
	fractionCreateCmd.Flags().Uint64Var(&fracAssetID, "asset", 0, "底层资产ID（必需）")
	fractionCreateCmd.Flags().StringVar(&fracCategory, "category", "", "资产类别（必需，须与资产一致）")
	fractionCreateCmd.Flags().StringVar(&fracName, "name", "", "集合名称（必需）")
	fractionCreateCmd.Flags().StringVar(&fracSymbol, "symbol", "", "集合代号（必需）")
	fractionCreateCmd.Flags().StringVar(&fracDescription, "description", "", "集合描述")
	fractionCreateCmd.Flags().Uint64Var(&fracTotal, "total", 0, "份额总数（必需）")
	fractionCreateCmd.Flags().Uint64Var(&fracMaxWallet, "max-per-wallet", 0, "单一账户持有上限（0表示不限）")
	fractionCreateCmd.Flags().Uint32Var(&fracApprovalPct, "approval-pct", 0, "解锁审批阈值（51-100百分比，必需）")
	fractionCreateCmd.Flags().BoolVar(&fracBurnable, "burnable", false, "份额是否可销毁")
	fractionCreateCmd.MarkFlagRequired("asset")
	fractionCreateCmd.MarkFlagRequired("category")
	fractionCreateCmd.MarkFlagRequired("name")
	fractionCreateCmd.MarkFlagRequired("symbol")
	fractionCreateCmd.MarkFlagRequired("total")
	fractionCreateCmd.MarkFlagRequired("approval-pct")

	fractionMintCmd.Flags().Uint64Var(&shareIndex, "index", 0, "份额序号")
	fractionMintCmd.Flags().StringVar(&shareRecipient, "recipient", "", "接收人（必需）")
	fractionMintCmd.Flags().StringVar(&shareMetadata, "metadata", "", "份额元数据")
	fractionMintCmd.MarkFlagRequired("recipient")

	fractionBurnCmd.Flags().Uint64Var(&shareIndex, "index", 0, "份额序号")

	fractionTransferCmd.Flags().Uint64Var(&shareIndex, "index", 0, "份额序号")
	fractionTransferCmd.Flags().StringVar(&shareTo, "to", "", "接收人（必需）")
	fractionTransferCmd.MarkFlagRequired("to")

	fractionTransferFromCmd.Flags().Uint64Var(&shareIndex, "index", 0, "份额序号")
	fractionTransferFromCmd.Flags().StringVar(&shareTo, "to", "", "接收人（必需）")
	fractionTransferFromCmd.MarkFlagRequired("to")

	fractionApproveCmd.Flags().BoolVar(&approveTransfer, "transfer", false, "授权管理员代转")
	fractionApproveCmd.Flags().BoolVar(&approveAdmin, "admin", false, "对整体解锁投赞成票")

	fractionUnlockCmd.Flags().StringVar(&unlockRecipient, "recipient", "", "底层资产接收人（必需）")
	fractionUnlockCmd.Flags().BoolVar(&unlockCheck, "check-approvals", false, "走审批路径（默认为全额持有路径）")
	fractionUnlockCmd.MarkFlagRequired("recipient")

	fractionCmd.AddCommand(fractionCreateCmd)
	fractionCmd.AddCommand(fractionGetCmd)
	fractionCmd.AddCommand(fractionByAssetCmd)
	fractionCmd.AddCommand(fractionMintCmd)
	fractionCmd.AddCommand(fractionBurnCmd)
	fractionCmd.AddCommand(fractionTransferCmd)
	fractionCmd.AddCommand(fractionTransferFromCmd)
	fractionCmd.AddCommand(fractionOwnerCmd)
	fractionCmd.AddCommand(fractionHoldersCmd)
	fractionCmd.AddCommand(fractionHolderCountCmd)
	fractionCmd.AddCommand(fractionApproveCmd)
	fractionCmd.AddCommand(fractionApprovalCmd)
	fractionCmd.AddCommand(fractionUnlockCmd)
}
