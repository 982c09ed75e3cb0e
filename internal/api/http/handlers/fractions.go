// fractions.go 实现份额集合相关的HTTP API端点
//
// 🧩 **份额集合API**
//
// 集合创建将底层资产锁入引擎托管；份额的铸造、销毁、转让与授权
// 代转全部在集合内流转；解锁通过全额持有或审批投票两条路径回收
// 份额并释放资产。

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/titledger/v1/internal/api/http/middleware"
	httptypes "github.com/titledger/v1/internal/api/http/types"
	"github.com/titledger/v1/internal/core/fractions"
	fractionsInterface "github.com/titledger/v1/pkg/interfaces/fractions"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	"github.com/titledger/v1/pkg/types"
)

// FractionHandlers 份额集合API处理器
type FractionHandlers struct {
	engine fractionsInterface.Engine
	logger log.Logger
}

// NewFractionHandlers 创建份额集合API处理器
func NewFractionHandlers(engine fractionsInterface.Engine, logger log.Logger) *FractionHandlers {
	return &FractionHandlers{
		engine: engine,
		logger: logger,
	}
}

// RegisterRoutes 注册份额集合路由
func (h *FractionHandlers) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/fractions")

	group.POST("", h.CreateFraction)
	group.GET("/asset/:asset_id", h.GetCollectionByAsset)

	group.GET("/id/:id", h.GetCollection)
	group.POST("/id/:id/shares/mint", h.MintShare)
	group.POST("/id/:id/shares/mint-batch", h.BatchMintShares)
	group.POST("/id/:id/shares/burn", h.BurnShare)
	group.POST("/id/:id/shares/transfer", h.TransferShare)
	group.POST("/id/:id/shares/transfer-batch", h.BatchTransferShares)
	group.POST("/id/:id/shares/transfer-from", h.TransferShareFrom)
	group.GET("/id/:id/shares/owner/:index", h.GetShareOwner)
	group.GET("/id/:id/holders", h.GetHolders)
	group.GET("/id/:id/holders/:holder/count", h.GetHolderCount)
	group.POST("/id/:id/approval", h.SetApproval)
	group.GET("/id/:id/approval/:holder", h.GetApproval)
	group.POST("/id/:id/unlock", h.UnlockAsset)

	if h.logger != nil {
		h.logger.Info("份额集合路由注册完成")
	}
}

// CreateFraction 创建份额集合
//
// **HTTP Method**: `POST`
// **URL Path**: `/fractions`
//
// 仅限底层资产持有人。创建即把资产锁入引擎托管，调用方成为集合
// 管理员。成功返回201与完整集合记录。
func (h *FractionHandlers) CreateFraction(c *gin.Context) {
	var req httptypes.CreateFractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	category, ok := parseCategory(c, req.Category)
	if !ok {
		return
	}

	collection, err := h.engine.CreateFraction(c.Request.Context(), middleware.GetCaller(c), types.FractionParams{
		AssetID:             types.AssetID(req.AssetID),
		Category:            category,
		Name:                req.Name,
		Symbol:              req.Symbol,
		Description:         req.Description,
		TotalShares:         req.TotalShares,
		MaxSharesPerWallet:  req.MaxSharesPerWallet,
		RequiredApprovalPct: req.RequiredApprovalPct,
		Burnable:            req.Burnable,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, collection)
}

// GetCollection 查询份额集合
//
// **HTTP Method**: `GET`
// **URL Path**: `/fractions/id/{id}`
func (h *FractionHandlers) GetCollection(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	collection, err := h.engine.GetCollection(c.Request.Context(), types.CollectionID(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

// GetCollectionByAsset 按底层资产查询活跃集合
//
// **HTTP Method**: `GET`
// **URL Path**: `/fractions/asset/{asset_id}`
//
// 资产未处于份额化托管时（从未创建或已解锁）返回404。
func (h *FractionHandlers) GetCollectionByAsset(c *gin.Context) {
	assetID, ok := parseUint64Param(c, "asset_id")
	if !ok {
		return
	}
	collection, err := h.engine.CollectionByAsset(c.Request.Context(), types.AssetID(assetID))
	if err != nil {
		respondError(c, err)
		return
	}
	if collection == nil {
		respondError(c, fractions.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, collection)
}

// MintShare 铸造单个份额
//
// **HTTP Method**: `POST`
// **URL Path**: `/fractions/id/{id}/shares/mint`
//
// 铸造权属于底层资产持有人（即集合创建人）。
func (h *FractionHandlers) MintShare(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	var req httptypes.MintShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.engine.MintShare(c.Request.Context(), middleware.GetCaller(c), types.CollectionID(id), req.Index, types.Identity(req.Recipient), req.Metadata); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// BatchMintShares 批量铸造份额
//
// **HTTP Method**: `POST`
// **URL Path**: `/fractions/id/{id}/shares/mint-batch`
//
// 整批原子执行：任一份额失败全批回滚。
func (h *FractionHandlers) BatchMintShares(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	var req httptypes.BatchMintSharesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	mints := make([]types.ShareMint, len(req.Mints))
	for i, m := range req.Mints {
		mints[i] = types.ShareMint{
			Index:     m.Index,
			Recipient: types.Identity(m.Recipient),
			Metadata:  m.Metadata,
		}
	}
	if err := h.engine.BatchMintShares(c.Request.Context(), middleware.GetCaller(c), types.CollectionID(id), mints); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// BurnShare 销毁自己持有的份额
//
// **HTTP Method**: `POST`
// **URL Path**: `/fractions/id/{id}/shares/burn`
func (h *FractionHandlers) BurnShare(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	var req httptypes.BurnShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.engine.BurnShare(c.Request.Context(), middleware.GetCaller(c), types.CollectionID(id), req.Index); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// TransferShare 转让自己持有的份额
//
// **HTTP Method**: `POST`
// **URL Path**: `/fractions/id/{id}/shares/transfer`
func (h *FractionHandlers) TransferShare(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	var req httptypes.TransferShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.engine.TransferShare(c.Request.Context(), middleware.GetCaller(c), types.CollectionID(id), req.Index, types.Identity(req.To)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// BatchTransferShares 批量转让份额
//
// **HTTP Method**: `POST`
// **URL Path**: `/fractions/id/{id}/shares/transfer-batch`
//
// 整批原子执行：任一份额失败全批回滚。
func (h *FractionHandlers) BatchTransferShares(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	var req httptypes.BatchTransferSharesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	transfers := make([]types.ShareTransfer, len(req.Transfers))
	for i, t := range req.Transfers {
		transfers[i] = types.ShareTransfer{
			Index: t.Index,
			To:    types.Identity(t.To),
		}
	}
	if err := h.engine.BatchTransferShares(c.Request.Context(), middleware.GetCaller(c), types.CollectionID(id), transfers); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// TransferShareFrom 集合管理员代持有人转让份额
//
// **HTTP Method**: `POST`
// **URL Path**: `/fractions/id/{id}/shares/transfer-from`
//
// 要求份额持有人事先通过审批端点授予转让授权。
func (h *FractionHandlers) TransferShareFrom(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	var req httptypes.TransferShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.engine.TransferShareFrom(c.Request.Context(), middleware.GetCaller(c), types.CollectionID(id), req.Index, types.Identity(req.To)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// GetShareOwner 查询份额持有人
//
// **HTTP Method**: `GET`
// **URL Path**: `/fractions/id/{id}/shares/owner/{index}`
func (h *FractionHandlers) GetShareOwner(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	index, ok := parseUint64Param(c, "index")
	if !ok {
		return
	}

	owner, err := h.engine.ShareOwner(c.Request.Context(), types.CollectionID(id), index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.ShareOwnerResponse{ID: id, Index: index, Owner: string(owner)})
}

// GetHolders 查询集合的去重持有人列表
//
// **HTTP Method**: `GET`
// **URL Path**: `/fractions/id/{id}/holders`
//
// 列表按身份排序，解锁审批的计票基数即为该列表长度。
func (h *FractionHandlers) GetHolders(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	holders, err := h.engine.DistinctHolders(c.Request.Context(), types.CollectionID(id))
	if err != nil {
		respondError(c, err)
		return
	}

	names := make([]string, len(holders))
	for i, holder := range holders {
		names[i] = string(holder)
	}
	c.JSON(http.StatusOK, httptypes.HoldersResponse{ID: id, Holders: names, Total: len(names)})
}

// GetHolderCount 查询身份在集合内的持有份额数
//
// **HTTP Method**: `GET`
// **URL Path**: `/fractions/id/{id}/holders/{holder}/count`
func (h *FractionHandlers) GetHolderCount(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	holder := c.Param("holder")

	count, err := h.engine.HolderShareCount(c.Request.Context(), types.CollectionID(id), types.Identity(holder))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.HolderCountResponse{ID: id, Holder: holder, Count: count})
}

// SetApproval 设置调用方自己的审批标志
//
// **HTTP Method**: `POST`
// **URL Path**: `/fractions/id/{id}/approval`
//
// 仅限当前持有该集合份额的身份；整组覆盖写入。
func (h *FractionHandlers) SetApproval(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	var req httptypes.SetApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.engine.SetApproval(c.Request.Context(), middleware.GetCaller(c), types.CollectionID(id), req.TransferApproved, req.AdminApproved); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// GetApproval 查询持有人的审批标志
//
// **HTTP Method**: `GET`
// **URL Path**: `/fractions/id/{id}/approval/{holder}`
func (h *FractionHandlers) GetApproval(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	holder := c.Param("holder")

	approval, err := h.engine.ApprovalOf(c.Request.Context(), types.CollectionID(id), types.Identity(holder))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.ApprovalResponse{
		ID:               id,
		Holder:           holder,
		TransferApproved: approval.TransferApproved,
		AdminApproved:    approval.AdminApproved,
	})
}

// UnlockAsset 解锁底层资产
//
// **HTTP Method**: `POST`
// **URL Path**: `/fractions/id/{id}/unlock`
//
// check_approvals=false 走全额持有路径（调用方必须持有全部流通
// 份额），true 走审批路径（按去重持有人的管理审批一人一票计票，
// 零持有人时两条路径均仅限集合管理员）。成功后集合终结，流通
// 份额整体清除，资产释放给接收人。
func (h *FractionHandlers) UnlockAsset(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	var req httptypes.UnlockAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.engine.UnlockAsset(c.Request.Context(), middleware.GetCaller(c), types.CollectionID(id), types.Identity(req.Recipient), req.CheckApprovals); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}
