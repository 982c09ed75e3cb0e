// Package handlers 提供HTTP API处理器
//
// 🎯 **处理器架构**
//
// 每个核心引擎对应一个处理器结构体，持有 pkg/interfaces 中的引擎
// 接口与统一日志接口。处理器只负责参数解析、调用方提取与错误到
// 状态码的映射，业务规则全部由核心引擎裁决。
//
// 调用方身份取自 X-TDL-Caller 请求头（由中间件注入请求上下文），
// 核心引擎不做身份鉴别，宿主部署负责在网关层完成认证。
//
// 💡 **错误映射约定**：
// 引擎的哨兵错误按语义映射为HTTP状态码；未识别的错误一律视为
// 参数问题返回400，错误消息原样透出到 {"error": "..."} 响应体。
package handlers

import (
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httptypes "github.com/titledger/v1/internal/api/http/types"
	"github.com/titledger/v1/internal/core/deeds"
	"github.com/titledger/v1/internal/core/fractions"
	"github.com/titledger/v1/internal/core/treasury"
	"github.com/titledger/v1/internal/core/validators"
	"github.com/titledger/v1/internal/core/vault"
	"github.com/titledger/v1/pkg/types"
)

// statusFor 将引擎哨兵错误映射为HTTP状态码
func statusFor(err error) int {
	switch {
	// 付费铸造重入保护
	case errors.Is(err, treasury.ErrReentrant):
		return http.StatusTooManyRequests

	// 支付环节失败
	case errors.Is(err, treasury.ErrPaymentFailed),
		errors.Is(err, vault.ErrInsufficientFunds):
		return http.StatusPaymentRequired

	// 目标记录不存在
	case errors.Is(err, deeds.ErrNotFound),
		errors.Is(err, validators.ErrNotRegistered),
		errors.Is(err, fractions.ErrNotFound),
		errors.Is(err, treasury.ErrRecipientNotFound):
		return http.StatusNotFound

	// 权限不足
	case errors.Is(err, deeds.ErrNotAuthorized),
		errors.Is(err, deeds.ErrNotOwner),
		errors.Is(err, deeds.ErrSelfValidation),
		errors.Is(err, validators.ErrNotAuthorized),
		errors.Is(err, treasury.ErrNotAuthorized),
		errors.Is(err, vault.ErrNotAuthorized),
		errors.Is(err, fractions.ErrNotAuthorized),
		errors.Is(err, fractions.ErrNotOwner),
		errors.Is(err, fractions.ErrNotShareOwner),
		errors.Is(err, fractions.ErrNotUnitOwner),
		errors.Is(err, fractions.ErrNotShareHolder),
		errors.Is(err, fractions.ErrMustOwnAllShares),
		errors.Is(err, fractions.ErrInsufficientApprovals),
		errors.Is(err, fractions.ErrTransferNotApproved):
		return http.StatusForbidden

	// 状态冲突：记录存在但当前状态不允许该操作
	case errors.Is(err, deeds.ErrAssetLocked),
		errors.Is(err, deeds.ErrNotInCustody),
		errors.Is(err, deeds.ErrNoValidatorAvailable),
		errors.Is(err, validators.ErrAlreadyRegistered),
		errors.Is(err, treasury.ErrTokenNotWhitelisted),
		errors.Is(err, treasury.ErrFeeNotSet),
		errors.Is(err, treasury.ErrNothingToWithdraw),
		errors.Is(err, fractions.ErrAssetLocked),
		errors.Is(err, fractions.ErrSubdivisionActive),
		errors.Is(err, fractions.ErrNotActive),
		errors.Is(err, fractions.ErrAllSharesMinted),
		errors.Is(err, fractions.ErrShareAlreadyMinted),
		errors.Is(err, fractions.ErrExceedsWalletLimit),
		errors.Is(err, fractions.ErrBurningDisabled),
		errors.Is(err, fractions.ErrUnitsOutstanding),
		errors.Is(err, fractions.ErrAllUnitsMinted),
		errors.Is(err, fractions.ErrUnitAlreadyMinted),
		errors.Is(err, fractions.ErrNotSubdividable):
		return http.StatusConflict

	// 其余均视为请求参数问题
	default:
		return http.StatusBadRequest
	}
}

// respondError 按哨兵映射返回错误响应
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), httptypes.ErrorResponse{Error: err.Error()})
}

// bindError 请求体解析失败的统一响应
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, httptypes.ErrorResponse{Error: "请求体解析失败: " + err.Error()})
}

// parseAmount 解析十进制字符串金额
//
// 金额在JSON中以字符串编码，避免大整数经浮点转换丢失精度。
func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("金额格式错误: %q", s)
	}
	return v, nil
}

// parseUint64Param 解析数字路径参数，失败时直接写出400响应
func parseUint64Param(c *gin.Context, name string) (uint64, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httptypes.ErrorResponse{
			Error: fmt.Sprintf("%s 参数必须为非负整数", name),
		})
		return 0, false
	}
	return v, true
}

// parseCategory 解析资产类别，失败时直接写出400响应
func parseCategory(c *gin.Context, raw string) (types.AssetCategory, bool) {
	category, ok := types.ParseAssetCategory(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, httptypes.ErrorResponse{
			Error: "无效的资产类别: " + raw,
		})
		return "", false
	}
	return category, true
}
