package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	httptypes "github.com/titledger/v1/internal/api/http/types"
)

var (
	subAssetID     uint64
	subCategory    string
	subName        string
	subDescription string
	subTotal       uint64
	subBurnable    bool

	unitIndex     uint64
	unitRecipient string
	unitMetadata  string
	unitTo        string
)

// subdivisionCmd 地块划分相关命令
var subdivisionCmd = &cobra.Command{
	Use:   "subdivision",
	Short: "地块划分管理",
	Long:  "土地资产的划分账本：账本创建、单元铸造/转让/销毁与停用",
}

// subdivisionCreateCmd 创建划分账本
var subdivisionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "为土地资产创建划分账本",
	Long: `为土地资产建立单元划分。调用方必须是资产持有人，资产保持在
持有人名下（划分不锁定资产）。

示例：
  tdl subdivision create --caller alice --asset 1 --category land \
      --name "湖畔地块单元" --total 40`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.CreateSubdivisionRequest{
			AssetID:     subAssetID,
			Category:    subCategory,
			Name:        subName,
			Description: subDescription,
			TotalUnits:  subTotal,
			Burnable:    subBurnable,
		}
		var out interface{}
		if err := getClient().Post("/subdivisions", req, &out); err != nil {
			return err
		}
		printOK("划分账本已创建（资产 %d）", subAssetID)
		return printResult(out)
	},
}

// subdivisionGetCmd 查询划分账本
var subdivisionGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "查询划分账本详情",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/subdivisions/id/"+args[0], &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// subdivisionByAssetCmd 按资产查询划分账本
var subdivisionByAssetCmd = &cobra.Command{
	Use:   "by-asset <asset_id>",
	Short: "查询资产的活跃划分账本",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/subdivisions/asset/"+args[0], &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// subdivisionMintCmd 铸造单元
var subdivisionMintCmd = &cobra.Command{
	Use:   "mint <id>",
	Short: "铸造单个划分单元（仅账本管理员）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.MintUnitRequest{
			Index:     unitIndex,
			Recipient: unitRecipient,
			Metadata:  unitMetadata,
		}
		var out interface{}
		if err := getClient().Post("/subdivisions/id/"+args[0]+"/units/mint", req, &out); err != nil {
			return err
		}
		printOK("单元 #%d 已铸造给 %s", unitIndex, unitRecipient)
		return printResult(out)
	},
}

// subdivisionBurnCmd 销毁单元
var subdivisionBurnCmd = &cobra.Command{
	Use:   "burn <id>",
	Short: "销毁本人持有的单元",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.BurnUnitRequest{Index: unitIndex}
		var out interface{}
		if err := getClient().Post("/subdivisions/id/"+args[0]+"/units/burn", req, &out); err != nil {
			return err
		}
		printOK("单元 #%d 已销毁", unitIndex)
		return printResult(out)
	},
}

// subdivisionTransferCmd 转让单元
var subdivisionTransferCmd = &cobra.Command{
	Use:   "transfer <id>",
	Short: "转让本人持有的单元",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.TransferUnitRequest{Index: unitIndex, To: unitTo}
		var out interface{}
		if err := getClient().Post("/subdivisions/id/"+args[0]+"/units/transfer", req, &out); err != nil {
			return err
		}
		printOK("单元 #%d 已转让给 %s", unitIndex, unitTo)
		return printResult(out)
	},
}

// subdivisionOwnerCmd 查询单元持有人
var subdivisionOwnerCmd = &cobra.Command{
	Use:   "owner <id> <index>",
	Short: "查询指定单元的持有人",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := strconv.ParseUint(args[1], 10, 64); err != nil {
			return fmt.Errorf("无效的单元序号: %s", args[1])
		}
		var out interface{}
		if err := getClient().Get("/subdivisions/id/"+args[0]+"/units/owner/"+args[1], &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// subdivisionDeactivateCmd 停用划分账本
var subdivisionDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "停用划分账本（仅账本管理员）",
	Long:  "停用后账本拒绝一切单元操作，资产可重新划分。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		var out interface{}
		if err := getClient().Post("/subdivisions/id/"+args[0]+"/deactivate", nil, &out); err != nil {
			return err
		}
		printOK("划分账本 %s 已停用", args[0])
		return printResult(out)
	},
}

func init() {
	subdivisionCreateCmd.Flags().Uint64Var(&subAssetID, "asset", 0, "底层资产ID（必需）")
	subdivisionCreateCmd.Flags().StringVar(&subCategory, "category", "", "资产类别（必需，须为land）")
	subdivisionCreateCmd.Flags().StringVar(&subName, "name", "", "账本名称（必需）")
	subdivisionCreateCmd.Flags().StringVar(&subDescription, "description", "", "账本描述")
	subdivisionCreateCmd.Flags().Uint64Var(&subTotal, "total", 0, "单元总数（必需）")
	subdivisionCreateCmd.Flags().BoolVar(&subBurnable, "burnable", false, "单元是否可销毁")
	subdivisionCreateCmd.MarkFlagRequired("asset")
	subdivisionCreateCmd.MarkFlagRequired("category")
	subdivisionCreateCmd.MarkFlagRequired("name")
	subdivisionCreateCmd.MarkFlagRequired("total")

	subdivisionMintCmd.Flags().Uint64Var(&unitIndex, "index", 0, "单元序号")
	subdivisionMintCmd.Flags().StringVar(&unitRecipient, "recipient", "", "接收人（必需）")
	subdivisionMintCmd.Flags().StringVar(&unitMetadata, "metadata", "", "单元元数据")
	subdivisionMintCmd.MarkFlagRequired("recipient")

	subdivisionBurnCmd.Flags().Uint64Var(&unitIndex, "index", 0, "单元序号")

	subdivisionTransferCmd.Flags().Uint64Var(&unitIndex, "index", 0, "单元序号")
	subdivisionTransferCmd.Flags().StringVar(&unitTo, "to", "", "接收人（必需）")
	subdivisionTransferCmd.MarkFlagRequired("to")

	subdivisionCmd.AddCommand(subdivisionCreateCmd)
	subdivisionCmd.AddCommand(subdivisionGetCmd)
	subdivisionCmd.AddCommand(subdivisionByAssetCmd)
	subdivisionCmd.AddCommand(subdivisionMintCmd)
	subdivisionCmd.AddCommand(subdivisionBurnCmd)
	subdivisionCmd.AddCommand(subdivisionTransferCmd)
	subdivisionCmd.AddCommand(subdivisionOwnerCmd)
	subdivisionCmd.AddCommand(subdivisionDeactivateCmd)
}
