// vault.go 实现金库相关的HTTP API端点
//
// 💸 **金库API**
//
// 金库是支付铸造费的内部代币账本：管理员充值、持有人之间划转、
// 余额查询。付费铸造的扣款由费用账本在事务内直接完成，不经过
// 这里的端点。

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/titledger/v1/internal/api/http/middleware"
	httptypes "github.com/titledger/v1/internal/api/http/types"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	vaultInterface "github.com/titledger/v1/pkg/interfaces/vault"
	"github.com/titledger/v1/pkg/types"
)

// VaultHandlers 金库API处理器
type VaultHandlers struct {
	vault  vaultInterface.Vault
	logger log.Logger
}

// NewVaultHandlers 创建金库API处理器
func NewVaultHandlers(vault vaultInterface.Vault, logger log.Logger) *VaultHandlers {
	return &VaultHandlers{
		vault:  vault,
		logger: logger,
	}
}

// RegisterRoutes 注册金库路由
func (h *VaultHandlers) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/vault")

	group.POST("/credit", h.Credit)
	group.POST("/transfer", h.Transfer)
	group.GET("/balance/:token/:holder", h.GetBalance)

	if h.logger != nil {
		h.logger.Info("金库路由注册完成")
	}
}

// Credit 为身份充值代币余额
//
// **HTTP Method**: `POST`
// **URL Path**: `/vault/credit`
//
// 仅限管理员，对应外部入金渠道的对账动作。
func (h *VaultHandlers) Credit(c *gin.Context) {
	var req httptypes.VaultCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, httptypes.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.vault.Credit(c.Request.Context(), middleware.GetCaller(c), types.TokenKey(req.Token), types.Identity(req.To), amount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// Transfer 划转代币余额
//
// **HTTP Method**: `POST`
// **URL Path**: `/vault/transfer`
//
// 从调用方自己的余额转出，余额不足返回402。
func (h *VaultHandlers) Transfer(c *gin.Context) {
	var req httptypes.VaultTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, httptypes.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.vault.Transfer(c.Request.Context(), middleware.GetCaller(c), types.TokenKey(req.Token), types.Identity(req.To), amount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// GetBalance 查询身份的代币余额
//
// **HTTP Method**: `GET`
// **URL Path**: `/vault/balance/{token}/{holder}`
func (h *VaultHandlers) GetBalance(c *gin.Context) {
	token := types.TokenKey(c.Param("token"))
	holder := types.Identity(c.Param("holder"))

	balance, err := h.vault.BalanceOf(c.Request.Context(), token, holder)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.BalanceResponse{
		Token:   string(token),
		Holder:  string(holder),
		Balance: httptypes.AmountString(balance),
	})
}
