package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	httptypes "github.com/titledger/v1/internal/api/http/types"
)

var (
	deedCategory   string
	deedOwner      string
	deedAgreement  string
	deedDefinition string
	deedConfig     string
	deedValidator  string
	deedTo         string
	deedValid      bool
	deedListHolder string
	deedListCat    string
)

// deedCmd 产权资产相关命令
var deedCmd = &cobra.Command{
	Use:   "deed",
	Short: "产权资产管理",
	Long:  "登记、查询、转移和销毁产权资产",
}

// deedMintCmd 直接登记资产（调用方必须是在册验证方）
var deedMintCmd = &cobra.Command{
	Use:   "mint",
	Short: "直接登记资产",
	Long: `以验证方身份直接登记一笔产权资产（免铸造费）。

调用方（--caller）必须是在册且启用的验证方。付费铸造请使用 tdl mint。

示例：
  tdl deed mint --caller notary-a --category land --owner alice \
      --agreement tdl://agreements/standard-v1 --definition "地籍档案-2024"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.CreateAssetRequest{
			Category:     deedCategory,
			Owner:        deedOwner,
			AgreementRef: deedAgreement,
			Definition:   deedDefinition,
			Config:       deedConfig,
			Validator:    deedValidator,
		}

		var out interface{}
		if err := getClient().Post("/deeds", req, &out); err != nil {
			return err
		}
		printOK("资产已登记")
		return printResult(out)
	},
}

// deedGetCmd 查询资产记录
var deedGetCmd = &cobra.Command{
	Use:   "get <asset-id>",
	Short: "查询资产记录",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/deeds/id/"+args[0], &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// deedCountCmd 查询流通资产总数
var deedCountCmd = &cobra.Command{
	Use:   "count",
	Short: "查询流通资产总数",
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/deeds/count", &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// deedHolderCmd 查询资产当前持有人
var deedHolderCmd = &cobra.Command{
	Use:   "holder <asset-id>",
	Short: "查询资产当前持有人",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/deeds/id/"+args[0]+"/holder", &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// deedSubdividableCmd 查询资产是否可划分
var deedSubdividableCmd = &cobra.Command{
	Use:   "subdividable <asset-id>",
	Short: "查询资产类别是否支持地块划分",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/deeds/id/"+args[0]+"/subdividable", &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// deedListCmd 按持有人或类别列出资产
var deedListCmd = &cobra.Command{
	Use:   "list",
	Short: "按持有人或类别列出资产",
	Long: `按持有人或资产类别列出资产记录。

示例：
  tdl deed list --holder alice
  tdl deed list --category land`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		switch {
		case deedListHolder != "" && deedListCat != "":
			return fmt.Errorf("--holder 和 --category 不能同时使用")
		case deedListHolder != "":
			path = "/deeds/holder/" + pathEscape(deedListHolder)
		case deedListCat != "":
			path = "/deeds/category/" + pathEscape(deedListCat)
		default:
			return fmt.Errorf("必须指定 --holder 或 --category")
		}

		var out interface{}
		if err := getClient().Get(path, &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// deedTransferCmd 转移资产
var deedTransferCmd = &cobra.Command{
	Use:   "transfer <asset-id>",
	Short: "转移资产所有权",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.TransferAssetRequest{To: deedTo}
		var out interface{}
		if err := getClient().Post("/deeds/id/"+args[0]+"/transfer", req, &out); err != nil {
			return err
		}
		printOK("资产 %s 已转移至 %s", args[0], deedTo)
		return printResult(out)
	},
}

// deedMetadataCmd 更新资产元数据
var deedMetadataCmd = &cobra.Command{
	Use:   "metadata <asset-id>",
	Short: "更新资产元数据",
	Long: `更新资产的协议引用与定义文档。

持有人更新会清除验证标志，需验证方重新验证。`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.UpdateAssetRequest{
			AgreementRef: deedAgreement,
			Definition:   deedDefinition,
			Config:       deedConfig,
		}
		var out interface{}
		if err := getClient().Put("/deeds/id/"+args[0]+"/metadata", req, &out); err != nil {
			return err
		}
		printOK("资产 %s 元数据已更新", args[0])
		return printResult(out)
	},
}

// deedValidateCmd 翻转资产验证标志
var deedValidateCmd = &cobra.Command{
	Use:   "validate <asset-id>",
	Short: "设置资产验证标志",
	Long: `以验证方身份设置资产的验证标志。

调用方必须是支持该资产类别的在册验证方，且不能验证自己持有的资产。`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.ValidateAssetRequest{Valid: deedValid}
		var out interface{}
		if err := getClient().Post("/deeds/id/"+args[0]+"/validate", req, &out); err != nil {
			return err
		}
		printOK("资产 %s 验证标志已设为 %v", args[0], deedValid)
		return printResult(out)
	},
}

// deedBurnCmd 销毁资产
var deedBurnCmd = &cobra.Command{
	Use:   "burn <asset-id>",
	Short: "销毁资产",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		var out interface{}
		if err := getClient().Delete("/deeds/id/"+args[0], &out); err != nil {
			return err
		}
		printOK("资产 %s 已销毁", args[0])
		return printResult(out)
	},
}

// deedBurnBatchCmd 批量销毁资产
var deedBurnBatchCmd = &cobra.Command{
	Use:   "burn-batch <asset-id>...",
	Short: "批量销毁资产（原子操作）",
	Long: `在单个事务中销毁多笔资产。

任意一笔失败则整批回滚，调用方必须持有全部资产。`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		ids := make([]uint64, 0, len(args))
		for _, arg := range args {
			id, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("无效的资产ID: %s", arg)
			}
			ids = append(ids, id)
		}

		req := httptypes.BurnBatchRequest{IDs: ids}
		var out interface{}
		if err := getClient().Post("/deeds/burn-batch", req, &out); err != nil {
			return err
		}
		printOK("已销毁 %d 笔资产", len(ids))
		return printResult(out)
	},
}

func init() {
	// mint标志
	deedMintCmd.Flags().StringVar(&deedCategory, "category", "", "资产类别: land|estate|vehicle（必需）")
	deedMintCmd.Flags().StringVar(&deedOwner, "owner", "", "资产所有人（必需）")
	deedMintCmd.Flags().StringVar(&deedAgreement, "agreement", "", "认证协议URI（必需）")
	deedMintCmd.Flags().StringVar(&deedDefinition, "definition", "", "资产定义文档（必需）")
	deedMintCmd.Flags().StringVar(&deedConfig, "config", "", "附加配置")
	deedMintCmd.Flags().StringVar(&deedValidator, "validator", "", "记录的验证方（为空时使用默认验证方）")
	deedMintCmd.MarkFlagRequired("category")
	deedMintCmd.MarkFlagRequired("owner")
	deedMintCmd.MarkFlagRequired("agreement")
	deedMintCmd.MarkFlagRequired("definition")

	// list标志
	deedListCmd.Flags().StringVar(&deedListHolder, "holder", "", "按持有人过滤")
	deedListCmd.Flags().StringVar(&deedListCat, "category", "", "按类别过滤")

	// transfer标志
	deedTransferCmd.Flags().StringVar(&deedTo, "to", "", "接收方身份（必需）")
	deedTransferCmd.MarkFlagRequired("to")

	// metadata标志
	deedMetadataCmd.Flags().StringVar(&deedAgreement, "agreement", "", "认证协议URI（必需）")
	deedMetadataCmd.Flags().StringVar(&deedDefinition, "definition", "", "资产定义文档（必需）")
	deedMetadataCmd.Flags().StringVar(&deedConfig, "config", "", "附加配置")
	deedMetadataCmd.MarkFlagRequired("agreement")
	deedMetadataCmd.MarkFlagRequired("definition")

	// validate标志
	deedValidateCmd.Flags().BoolVar(&deedValid, "valid", true, "验证标志取值")

	deedCmd.AddCommand(deedMintCmd)
	deedCmd.AddCommand(deedGetCmd)
	deedCmd.AddCommand(deedCountCmd)
	deedCmd.AddCommand(deedHolderCmd)
	deedCmd.AddCommand(deedSubdividableCmd)
	deedCmd.AddCommand(deedListCmd)
	deedCmd.AddCommand(deedTransferCmd)
	deedCmd.AddCommand(deedMetadataCmd)
	deedCmd.AddCommand(deedValidateCmd)
	deedCmd.AddCommand(deedBurnCmd)
	deedCmd.AddCommand(deedBurnBatchCmd)
}
