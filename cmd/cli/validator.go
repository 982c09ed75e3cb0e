package main

import (
	"strings"

	"github.com/spf13/cobra"
	httptypes "github.com/titledger/v1/internal/api/http/types"
)

var (
	validatorName       string
	validatorCategories string
	validatorOwner      string
	validatorListCat    string
	validatorAgURI      string
	validatorAgName     string
)

// validatorCmd 验证方目录相关命令
var validatorCmd = &cobra.Command{
	Use:   "validator",
	Short: "验证方目录管理",
	Long:  "注册、查询、启停验证方，管理认证协议目录",
}

// validatorRegisterCmd 注册验证方
var validatorRegisterCmd = &cobra.Command{
	Use:   "register <validator-id>",
	Short: "注册验证方（仅管理员）",
	Long: `注册一个新的验证方身份。

调用方必须是系统管理员。佣金归属的所有人身份默认为验证方自身，
可通过 --owner 指定独立的所有人。

示例：
  tdl validator register notary-a --caller tdl-admin \
      --name "公证处A" --categories land,estate`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.RegisterValidatorRequest{
			ID:         args[0],
			Name:       validatorName,
			Categories: splitCategories(validatorCategories),
			Owner:      validatorOwner,
		}

		var out interface{}
		if err := getClient().Post("/validators", req, &out); err != nil {
			return err
		}
		printOK("验证方 %s 已注册", args[0])
		return printResult(out)
	},
}

// validatorListCmd 列出验证方
var validatorListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出验证方",
	Long: `列出全部在册验证方，或按支持类别过滤启用中的验证方。

示例：
  tdl validator list
  tdl validator list --category land`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/validators"
		if validatorListCat != "" {
			path = "/validators/category/" + pathEscape(validatorListCat)
		}

		var out interface{}
		if err := getClient().Get(path, &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// validatorGetCmd 查询验证方记录
var validatorGetCmd = &cobra.Command{
	Use:   "get <validator-id>",
	Short: "查询验证方记录",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out interface{}
		if err := getClient().Get("/validators/id/"+pathEscape(args[0]), &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// validatorActivateCmd 启用验证方
var validatorActivateCmd = &cobra.Command{
	Use:   "activate <validator-id>",
	Short: "启用验证方（仅管理员）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setValidatorActive(args[0], true)
	},
}

// validatorDeactivateCmd 停用验证方
var validatorDeactivateCmd = &cobra.Command{
	Use:   "deactivate <validator-id>",
	Short: "停用验证方（仅管理员）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setValidatorActive(args[0], false)
	},
}

// validatorRemoveCmd 注销验证方
var validatorRemoveCmd = &cobra.Command{
	Use:   "remove <validator-id>",
	Short: "注销验证方（仅管理员）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		var out interface{}
		if err := getClient().Delete("/validators/id/"+pathEscape(args[0]), &out); err != nil {
			return err
		}
		printOK("验证方 %s 已注销", args[0])
		return printResult(out)
	},
}

// validatorSetCategoriesCmd 重设支持类别
var validatorSetCategoriesCmd = &cobra.Command{
	Use:   "set-categories <validator-id>",
	Short: "重设验证方支持的资产类别（仅管理员）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.SetCategoriesRequest{
			Categories: splitCategories(validatorCategories),
		}
		var out interface{}
		if err := getClient().Put("/validators/id/"+pathEscape(args[0])+"/categories", req, &out); err != nil {
			return err
		}
		printOK("验证方 %s 支持类别已更新", args[0])
		return printResult(out)
	},
}

// validatorSetAgreementCmd 登记认证协议条目
var validatorSetAgreementCmd = &cobra.Command{
	Use:   "set-agreement <validator-id>",
	Short: "登记认证协议条目",
	Long: `在验证方的协议目录中登记一个认证协议。

--name 为空表示删除该URI对应的条目。调用方必须是验证方本人或管理员。`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.SetAgreementRequest{
			URI:  validatorAgURI,
			Name: validatorAgName,
		}
		var out interface{}
		if err := getClient().Put("/validators/id/"+pathEscape(args[0])+"/agreements", req, &out); err != nil {
			return err
		}
		printOK("验证方 %s 协议目录已更新", args[0])
		return printResult(out)
	},
}

// validatorSetDefaultAgreementCmd 设置默认协议
var validatorSetDefaultAgreementCmd = &cobra.Command{
	Use:   "set-default-agreement <validator-id>",
	Short: "设置验证方默认认证协议",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCaller(); err != nil {
			return err
		}

		req := httptypes.SetDefaultAgreementRequest{URI: validatorAgURI}
		var out interface{}
		if err := getClient().Put("/validators/id/"+pathEscape(args[0])+"/agreements/default", req, &out); err != nil {
			return err
		}
		printOK("验证方 %s 默认协议已设置", args[0])
		return printResult(out)
	},
}

// validatorAgreementsCmd 查询协议目录
var validatorAgreementsCmd = &cobra.Command{
	Use:   "agreements <validator-id>",
	Short: "查询验证方协议目录",
	Long: `查询验证方的默认认证协议，或按URI查询单个协议条目。

示例：
  tdl validator agreements notary-a
  tdl validator agreements notary-a --uri tdl://agreements/standard-v1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/validators/id/" + pathEscape(args[0]) + "/agreements"
		if validatorAgURI != "" {
			path += "?uri=" + pathEscape(validatorAgURI)
		}

		var out interface{}
		if err := getClient().Get(path, &out); err != nil {
			return err
		}
		return printResult(out)
	},
}

// setValidatorActive 启停验证方的共用逻辑
func setValidatorActive(id string, active bool) error {
	if err := requireCaller(); err != nil {
		return err
	}

	req := httptypes.SetActiveRequest{Active: active}
	var out interface{}
	if err := getClient().Put("/validators/id/"+pathEscape(id)+"/active", req, &out); err != nil {
		return err
	}
	if active {
		printOK("验证方 %s 已启用", id)
	} else {
		printOK("验证方 %s 已停用", id)
	}
	return printResult(out)
}

// splitCategories 解析逗号分隔的类别列表
func splitCategories(raw string) []string {
	parts := strings.Split(raw, ",")
	categories := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			categories = append(categories, trimmed)
		}
	}
	return categories
}

func init() {
	// register标志
	validatorRegisterCmd.Flags().StringVar(&validatorName, "name", "", "验证方名称（必需）")
	validatorRegisterCmd.Flags().StringVar(&validatorCategories, "categories", "", "支持类别，逗号分隔: land,estate,vehicle（必需）")
	validatorRegisterCmd.Flags().StringVar(&validatorOwner, "owner", "", "佣金归属的所有人身份（默认为验证方自身）")
	validatorRegisterCmd.MarkFlagRequired("name")
	validatorRegisterCmd.MarkFlagRequired("categories")

	// list标志
	validatorListCmd.Flags().StringVar(&validatorListCat, "category", "", "按支持类别过滤（仅返回启用中的验证方）")

	// set-categories标志
	validatorSetCategoriesCmd.Flags().StringVar(&validatorCategories, "categories", "", "支持类别，逗号分隔（必需）")
	validatorSetCategoriesCmd.MarkFlagRequired("categories")

	// set-agreement标志
	validatorSetAgreementCmd.Flags().StringVar(&validatorAgURI, "uri", "", "协议URI（必需）")
	validatorSetAgreementCmd.Flags().StringVar(&validatorAgName, "name", "", "协议名称（为空表示删除该条目）")
	validatorSetAgreementCmd.MarkFlagRequired("uri")

	// set-default-agreement标志
	validatorSetDefaultAgreementCmd.Flags().StringVar(&validatorAgURI, "uri", "", "协议URI（必需）")
	validatorSetDefaultAgreementCmd.MarkFlagRequired("uri")

	// agreements标志
	validatorAgreementsCmd.Flags().StringVar(&validatorAgURI, "uri", "", "按URI查询单个协议条目")

	validatorCmd.AddCommand(validatorRegisterCmd)
	validatorCmd.AddCommand(validatorListCmd)
	validatorCmd.AddCommand(validatorGetCmd)
	validatorCmd.AddCommand(validatorActivateCmd)
	validatorCmd.AddCommand(validatorDeactivateCmd)
	validatorCmd.AddCommand(validatorRemoveCmd)
	validatorCmd.AddCommand(validatorSetCategoriesCmd)
	validatorCmd.AddCommand(validatorSetAgreementCmd)
	validatorCmd.AddCommand(validatorSetDefaultAgreementCmd)
	validatorCmd.AddCommand(validatorAgreementsCmd)
}
