// treasury.go 实现费用账本相关的HTTP API端点
//
// 💰 **费用账本API**
//
// 付费铸造入口（POST /mint、/mint/batch）对所有身份开放；
// Token白名单、费率表、佣金费率与服务费接收人的管理仅限管理员。
// 提现端点由引擎按调用方身份裁决归属。

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/titledger/v1/internal/api/http/middleware"
	httptypes "github.com/titledger/v1/internal/api/http/types"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	treasuryInterface "github.com/titledger/v1/pkg/interfaces/treasury"
	"github.com/titledger/v1/pkg/types"
)

// TreasuryHandlers 费用账本API处理器
type TreasuryHandlers struct {
	ledger treasuryInterface.Ledger
	logger log.Logger
}

// NewTreasuryHandlers 创建费用账本API处理器
func NewTreasuryHandlers(ledger treasuryInterface.Ledger, logger log.Logger) *TreasuryHandlers {
	return &TreasuryHandlers{
		ledger: ledger,
		logger: logger,
	}
}

// RegisterRoutes 注册费用账本路由
//
// 付费铸造挂在顶层 /mint 下，管理与查询端点集中在 /treasury 组。
func (h *TreasuryHandlers) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/mint", h.Mint)
	router.POST("/mint/batch", h.MintBatch)

	group := router.Group("/treasury")
	group.GET("/tokens/:token", h.GetTokenFee)
	group.PUT("/tokens/:token/whitelist", h.SetWhitelist)
	group.PUT("/tokens/:token/fees", h.SetFeeSchedule)
	group.GET("/rates", h.GetRates)
	group.PUT("/rates", h.SetRates)
	group.GET("/recipient", h.GetRecipient)
	group.PUT("/recipient", h.SetRecipient)
	group.POST("/withdrawals/service/:token", h.WithdrawServiceFees)
	group.POST("/withdrawals/commission/:token", h.WithdrawCommission)
	group.GET("/balances/protocol/:token", h.GetProtocolBalance)
	group.GET("/balances/commission/:recipient/:token", h.GetCommissionBalance)

	if h.logger != nil {
		h.logger.Info("费用账本路由注册完成")
	}
}

// Mint 付费铸造资产记录
//
// **HTTP Method**: `POST`
// **URL Path**: `/mint`
//
// 任意身份可调用。收费、佣金分账与记录落账在同一个存储事务内
// 完成，支付失败不产生任何记录。成功返回201与完整资产记录。
func (h *TreasuryHandlers) Mint(c *gin.Context) {
	var req httptypes.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	params, ok := assetParamsFrom(c, req.Params)
	if !ok {
		return
	}

	record, err := h.ledger.Mint(c.Request.Context(), middleware.GetCaller(c), params, types.Identity(req.Validator), types.TokenKey(req.Token))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// MintBatch 付费批量铸造
//
// **HTTP Method**: `POST`
// **URL Path**: `/mint/batch`
//
// 整批为单个原子事务：按成功铸造的件数收费，任一件失败全批回滚。
func (h *TreasuryHandlers) MintBatch(c *gin.Context) {
	var req httptypes.MintBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	items := make([]types.AssetParams, 0, len(req.Items))
	for _, item := range req.Items {
		params, ok := assetParamsFrom(c, item)
		if !ok {
			return
		}
		items = append(items, params)
	}

	records, err := h.ledger.MintBatch(c.Request.Context(), middleware.GetCaller(c), items, types.Identity(req.Validator), types.TokenKey(req.Token))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, records)
}

// SetWhitelist 设置Token白名单状态
//
// **HTTP Method**: `PUT`
// **URL Path**: `/treasury/tokens/{token}/whitelist`
//
// 仅限管理员。移出白名单不清除已设置的费率表。
func (h *TreasuryHandlers) SetWhitelist(c *gin.Context) {
	var req httptypes.SetWhitelistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.ledger.SetTokenWhitelisted(c.Request.Context(), middleware.GetCaller(c), types.TokenKey(c.Param("token")), req.Whitelisted); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// SetFeeSchedule 设置Token的铸造费率表
//
// **HTTP Method**: `PUT`
// **URL Path**: `/treasury/tokens/{token}/fees`
//
// 仅限管理员。常规与验证方两档费用均为十进制字符串。
func (h *TreasuryHandlers) SetFeeSchedule(c *gin.Context) {
	var req httptypes.SetFeeScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	regular, err := parseAmount(req.RegularFee)
	if err != nil {
		c.JSON(http.StatusBadRequest, httptypes.ErrorResponse{Error: err.Error()})
		return
	}
	validatorFee, err := parseAmount(req.ValidatorFee)
	if err != nil {
		c.JSON(http.StatusBadRequest, httptypes.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.ledger.SetFeeSchedule(c.Request.Context(), middleware.GetCaller(c), types.TokenKey(c.Param("token")), regular, validatorFee); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// GetTokenFee 查询Token的白名单状态与费率表
//
// **HTTP Method**: `GET`
// **URL Path**: `/treasury/tokens/{token}`
//
// 未设置的费用档位在响应中省略。
func (h *TreasuryHandlers) GetTokenFee(c *gin.Context) {
	token := types.TokenKey(c.Param("token"))
	ctx := c.Request.Context()

	whitelisted, err := h.ledger.IsTokenWhitelisted(ctx, token)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := httptypes.TokenFeeResponse{Token: string(token), Whitelisted: whitelisted}
	if fee, err := h.ledger.FeeFor(ctx, token, types.CallerRegular); err != nil {
		respondError(c, err)
		return
	} else if fee != nil {
		resp.RegularFee = fee.String()
	}
	if fee, err := h.ledger.FeeFor(ctx, token, types.CallerValidator); err != nil {
		respondError(c, err)
		return
	} else if fee != nil {
		resp.ValidatorFee = fee.String()
	}

	c.JSON(http.StatusOK, resp)
}

// SetRates 设置佣金费率（基点）
//
// **HTTP Method**: `PUT`
// **URL Path**: `/treasury/rates`
func (h *TreasuryHandlers) SetRates(c *gin.Context) {
	var req httptypes.SetRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.ledger.SetCommissionRates(c.Request.Context(), middleware.GetCaller(c), types.CommissionRates{
		RegularBps:   req.RegularBps,
		ValidatorBps: req.ValidatorBps,
	}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// GetRates 查询当前佣金费率
//
// **HTTP Method**: `GET`
// **URL Path**: `/treasury/rates`
func (h *TreasuryHandlers) GetRates(c *gin.Context) {
	rates, err := h.ledger.Rates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.RatesResponse{
		RegularBps:   rates.RegularBps,
		ValidatorBps: rates.ValidatorBps,
	})
}

// SetRecipient 设置服务费接收人
//
// **HTTP Method**: `PUT`
// **URL Path**: `/treasury/recipient`
func (h *TreasuryHandlers) SetRecipient(c *gin.Context) {
	var req httptypes.SetRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.ledger.SetFeeRecipient(c.Request.Context(), middleware.GetCaller(c), types.Identity(req.Recipient)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// GetRecipient 查询服务费接收人
//
// **HTTP Method**: `GET`
// **URL Path**: `/treasury/recipient`
func (h *TreasuryHandlers) GetRecipient(c *gin.Context) {
	recipient, err := h.ledger.FeeRecipient(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.RecipientResponse{Recipient: string(recipient)})
}

// WithdrawServiceFees 提取协议服务费
//
// **HTTP Method**: `POST`
// **URL Path**: `/treasury/withdrawals/service/{token}`
//
// 仅限当前服务费接收人；全额提取并转入其金库账户。
func (h *TreasuryHandlers) WithdrawServiceFees(c *gin.Context) {
	token := types.TokenKey(c.Param("token"))
	amount, err := h.ledger.WithdrawServiceFees(c.Request.Context(), middleware.GetCaller(c), token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.WithdrawResponse{Token: string(token), Amount: httptypes.AmountString(amount)})
}

// WithdrawCommission 提取佣金
//
// **HTTP Method**: `POST`
// **URL Path**: `/treasury/withdrawals/commission/{token}`
//
// 按调用方自己名下的佣金余额全额提取。
func (h *TreasuryHandlers) WithdrawCommission(c *gin.Context) {
	token := types.TokenKey(c.Param("token"))
	amount, err := h.ledger.WithdrawCommission(c.Request.Context(), middleware.GetCaller(c), token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.WithdrawResponse{Token: string(token), Amount: httptypes.AmountString(amount)})
}

// GetProtocolBalance 查询协议服务费余额
//
// **HTTP Method**: `GET`
// **URL Path**: `/treasury/balances/protocol/{token}`
func (h *TreasuryHandlers) GetProtocolBalance(c *gin.Context) {
	token := types.TokenKey(c.Param("token"))
	balance, err := h.ledger.ProtocolBalance(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.BalanceResponse{Token: string(token), Balance: httptypes.AmountString(balance)})
}

// GetCommissionBalance 查询收款人的佣金余额
//
// **HTTP Method**: `GET`
// **URL Path**: `/treasury/balances/commission/{recipient}/{token}`
func (h *TreasuryHandlers) GetCommissionBalance(c *gin.Context) {
	recipient := types.Identity(c.Param("recipient"))
	token := types.TokenKey(c.Param("token"))
	balance, err := h.ledger.CommissionBalance(c.Request.Context(), recipient, token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.BalanceResponse{
		Token:   string(token),
		Holder:  string(recipient),
		Balance: httptypes.AmountString(balance),
	})
}
