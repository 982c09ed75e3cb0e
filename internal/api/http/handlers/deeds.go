// deeds.go 实现资产登记相关的HTTP API端点
//
// 🏦 **资产登记API**
//
// 覆盖资产记录的完整生命周期：直接铸造（仅验证方）、元数据更新、
// 验证翻转、转移、销毁与批量销毁，以及持有人/类别/总量查询。

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/titledger/v1/internal/api/http/middleware"
	httptypes "github.com/titledger/v1/internal/api/http/types"
	deedsInterface "github.com/titledger/v1/pkg/interfaces/deeds"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	"github.com/titledger/v1/pkg/types"
)

// DeedHandlers 资产登记API处理器
type DeedHandlers struct {
	registry deedsInterface.Registry
	logger   log.Logger
}

// NewDeedHandlers 创建资产登记API处理器
func NewDeedHandlers(registry deedsInterface.Registry, logger log.Logger) *DeedHandlers {
	return &DeedHandlers{
		registry: registry,
		logger:   logger,
	}
}

// RegisterRoutes 注册资产登记路由
//
// 数字ID统一挂在 /id 前缀下，与静态段（count、holder等）分离，
// 避免gin路由树的通配冲突。
func (h *DeedHandlers) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/deeds")

	group.POST("", h.CreateAsset)
	group.GET("/count", h.Count)
	group.POST("/burn-batch", h.BurnBatch)
	group.GET("/holder/:holder", h.ListByHolder)
	group.GET("/category/:category", h.ListByCategory)

	group.GET("/id/:id", h.GetAsset)
	group.DELETE("/id/:id", h.BurnAsset)
	group.GET("/id/:id/holder", h.GetHolder)
	group.GET("/id/:id/subdividable", h.GetSubdividable)
	group.PUT("/id/:id/metadata", h.UpdateMetadata)
	group.POST("/id/:id/validate", h.ValidateAsset)
	group.POST("/id/:id/transfer", h.TransferAsset)

	if h.logger != nil {
		h.logger.Info("资产登记路由注册完成")
	}
}

// assetParamsFrom 将请求体转换为铸造参数
func assetParamsFrom(c *gin.Context, req httptypes.CreateAssetRequest) (types.AssetParams, bool) {
	category, ok := parseCategory(c, req.Category)
	if !ok {
		return types.AssetParams{}, false
	}
	return types.AssetParams{
		Category:     category,
		Owner:        types.Identity(req.Owner),
		AgreementRef: req.AgreementRef,
		Definition:   req.Definition,
		Config:       req.Config,
		Validator:    types.Identity(req.Validator),
	}, true
}

// CreateAsset 直接铸造资产记录
//
// **HTTP Method**: `POST`
// **URL Path**: `/deeds`
//
// 调用方必须是已注册且启用的验证方；常规身份请走付费铸造接口
// POST /mint。成功返回201与完整资产记录。
func (h *DeedHandlers) CreateAsset(c *gin.Context) {
	var req httptypes.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	params, ok := assetParamsFrom(c, req)
	if !ok {
		return
	}

	record, err := h.registry.Create(c.Request.Context(), middleware.GetCaller(c), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// GetAsset 查询资产记录
//
// **HTTP Method**: `GET`
// **URL Path**: `/deeds/id/{id}`
func (h *DeedHandlers) GetAsset(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	record, err := h.registry.Get(c.Request.Context(), types.AssetID(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetHolder 查询资产当前持有人
//
// **HTTP Method**: `GET`
// **URL Path**: `/deeds/id/{id}/holder`
func (h *DeedHandlers) GetHolder(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	holder, err := h.registry.HolderOf(c.Request.Context(), types.AssetID(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.HolderResponse{ID: id, Holder: string(holder)})
}

// GetSubdividable 查询资产类别是否允许地块划分
//
// **HTTP Method**: `GET`
// **URL Path**: `/deeds/id/{id}/subdividable`
func (h *DeedHandlers) GetSubdividable(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	subdividable, err := h.registry.CanSubdivide(c.Request.Context(), types.AssetID(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.SubdividableResponse{ID: id, Subdividable: subdividable})
}

// UpdateMetadata 更新资产元数据
//
// **HTTP Method**: `PUT`
// **URL Path**: `/deeds/id/{id}/metadata`
//
// 持有人或任一启用验证方可调用；非验证方更新会使记录回到未验证
// 状态，需重新验证。
func (h *DeedHandlers) UpdateMetadata(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	var req httptypes.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	record, err := h.registry.UpdateMetadata(c.Request.Context(), middleware.GetCaller(c), types.AssetID(id), types.AssetUpdate{
		AgreementRef: req.AgreementRef,
		Definition:   req.Definition,
		Config:       req.Config,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// ValidateAsset 翻转资产验证标志
//
// **HTTP Method**: `POST`
// **URL Path**: `/deeds/id/{id}/validate`
//
// 仅限支持该类别的启用验证方；不得验证自己持有的资产。
func (h *DeedHandlers) ValidateAsset(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	var req httptypes.ValidateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.registry.Validate(c.Request.Context(), middleware.GetCaller(c), types.AssetID(id), req.Valid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// TransferAsset 转移资产持有权
//
// **HTTP Method**: `POST`
// **URL Path**: `/deeds/id/{id}/transfer`
func (h *DeedHandlers) TransferAsset(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	var req httptypes.TransferAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.registry.Transfer(c.Request.Context(), middleware.GetCaller(c), types.AssetID(id), types.Identity(req.To)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// BurnAsset 销毁资产记录
//
// **HTTP Method**: `DELETE`
// **URL Path**: `/deeds/id/{id}`
func (h *DeedHandlers) BurnAsset(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	if err := h.registry.Burn(c.Request.Context(), middleware.GetCaller(c), types.AssetID(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// BurnBatch 批量销毁资产记录
//
// **HTTP Method**: `POST`
// **URL Path**: `/deeds/burn-batch`
//
// 整批原子执行：任一记录校验失败则全批回滚。
func (h *DeedHandlers) BurnBatch(c *gin.Context) {
	var req httptypes.BurnBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ids := make([]types.AssetID, len(req.IDs))
	for i, raw := range req.IDs {
		ids[i] = types.AssetID(raw)
	}
	if err := h.registry.BurnBatch(c.Request.Context(), middleware.GetCaller(c), ids); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// ListByHolder 查询身份名下的全部资产
//
// **HTTP Method**: `GET`
// **URL Path**: `/deeds/holder/{holder}`
func (h *DeedHandlers) ListByHolder(c *gin.Context) {
	records, err := h.registry.ListByHolder(c.Request.Context(), types.Identity(c.Param("holder")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.AssetListResponse{Assets: records, Total: len(records)})
}

// ListByCategory 按类别查询资产
//
// **HTTP Method**: `GET`
// **URL Path**: `/deeds/category/{category}`
func (h *DeedHandlers) ListByCategory(c *gin.Context) {
	category, ok := parseCategory(c, c.Param("category"))
	if !ok {
		return
	}
	records, err := h.registry.ListByCategory(c.Request.Context(), category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.AssetListResponse{Assets: records, Total: len(records)})
}

// Count 查询现存资产总量
//
// **HTTP Method**: `GET`
// **URL Path**: `/deeds/count`
func (h *DeedHandlers) Count(c *gin.Context) {
	count, err := h.registry.Count(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.CountResponse{Count: count})
}
