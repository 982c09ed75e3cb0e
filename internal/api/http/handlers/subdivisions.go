// subdivisions.go 实现地块划分相关的HTTP API端点
//
// 🗺️ **地块划分API**
//
// 与份额集合不同，划分账本不锁定底层资产：单元铸造权始终跟随
// 资产的实时持有人，资产转手后铸造权一并转移。停用要求所有
// 在册单元回到资产持有人手中。

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

// SubdivisionHandlers 地块划分API处理器
type SubdivisionHandlers struct {
	engine fractionsInterface.Engine
	logger log.Logger
}

// NewSubdivisionHandlers 创建地块划分API处理器
func NewSubdivisionHandlers(engine fractionsInterface.Engine, logger log.Logger) *SubdivisionHandlers {
	return &SubdivisionHandlers{
		engine: engine,
		logger: logger,
	}
}

// RegisterRoutes 注册地块划分路由
func (h *SubdivisionHandlers) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/subdivisions")

	group.POST("", h.CreateSubdivision)
	group.GET("/asset/:asset_id", h.GetSubdivisionByAsset)

	group.GET("/id/:id", h.GetSubdivision)
	group.POST("/id/:id/units/mint", h.MintUnit)
	group.POST("/id/:id/units/mint-batch", h.BatchMintUnits)
	group.POST("/id/:id/units/burn", h.BurnUnit)
	group.POST("/id/:id/units/transfer", h.TransferUnit)
	group.GET("/id/:id/units/owner/:index", h.GetUnitOwner)
	group.POST("/id/:id/deactivate", h.DeactivateSubdivision)

	if h.logger != nil {
		h.logger.Info("地块划分路由注册完成")
	}
}

// CreateSubdivision 创建地块划分账本
//
// **HTTP Method**: `POST`
// **URL Path**: `/subdivisions`
//
// 仅限资产持有人，且资产类别必须允许划分（土地/不动产）。
// 资产不会被锁定，仍可自由流转。成功返回201与完整账本记录。
func (h *SubdivisionHandlers) CreateSubdivision(c *gin.Context) {
	var req httptypes.CreateSubdivisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	category, ok := parseCategory(c, req.Category)
	if !ok {
		return
	}

	ledger, err := h.engine.CreateSubdivision(c.Request.Context(), middleware.GetCaller(c), types.SubdivisionParams{
		AssetID:     types.AssetID(req.AssetID),
		Category:    category,
		Name:        req.Name,
		Description: req.Description,
		TotalUnits:  req.TotalUnits,
		Burnable:    req.Burnable,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ledger)
}

// GetSubdivision 查询地块划分账本
//
// **HTTP Method**: `GET`
// **URL Path**: `/subdivisions/id/{id}`
func (h *SubdivisionHandlers) GetSubdivision(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	ledger, err := h.engine.GetSubdivision(c.Request.Context(), types.SubdivisionID(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledger)
}

// GetSubdivisionByAsset 按底层资产查询活跃账本
//
// **HTTP Method**: `GET`
// **URL Path**: `/subdivisions/asset/{asset_id}`
//
// 资产没有活跃划分账本时（从未创建或已停用）返回404。
func (h *SubdivisionHandlers) GetSubdivisionByAsset(c *gin.Context) {
	assetID, ok := parseUint64Param(c, "asset_id")
	if !ok {
		return
	}
	ledger, err := h.engine.SubdivisionByAsset(c.Request.Context(), types.AssetID(assetID))
	if err != nil {
		respondError(c, err)
		return
	}
	if ledger == nil {
		respondError(c, fractions.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, ledger)
}

// MintUnit 铸造单元
//
// **HTTP Method**: `POST`
// **URL Path**: `/subdivisions/id/{id}/units/mint`
//
// 铸造权属于底层资产的实时持有人，没有单钱包上限。
func (h *SubdivisionHandlers) MintUnit(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	var req httptypes.MintUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.engine.MintUnit(c.Request.Context(), middleware.GetCaller(c), types.SubdivisionID(id), req.Index, types.Identity(req.Recipient), req.Metadata); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// BatchMintUnits 批量铸造单元
//
// **HTTP Method**: `POST`
// **URL Path**: `/subdivisions/id/{id}/units/mint-batch`
//
// 整批原子执行：任一单元失败全批回滚。
func (h *SubdivisionHandlers) BatchMintUnits(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	var req httptypes.BatchMintUnitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	mints := make([]types.UnitMint, len(req.Mints))
	for i, m := range req.Mints {
		mints[i] = types.UnitMint{
			Index:     m.Index,
			Recipient: types.Identity(m.Recipient),
			Metadata:  m.Metadata,
		}
	}
	if err := h.engine.BatchMintUnits(c.Request.Context(), middleware.GetCaller(c), types.SubdivisionID(id), mints); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// BurnUnit 销毁自己持有的单元
//
// **HTTP Method**: `POST`
// **URL Path**: `/subdivisions/id/{id}/units/burn`
func (h *SubdivisionHandlers) BurnUnit(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	var req httptypes.BurnUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.engine.BurnUnit(c.Request.Context(), middleware.GetCaller(c), types.SubdivisionID(id), req.Index); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// TransferUnit 转让自己持有的单元
//
// **HTTP Method**: `POST`
// **URL Path**: `/subdivisions/id/{id}/units/transfer`
func (h *SubdivisionHandlers) TransferUnit(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	var req httptypes.TransferUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.engine.TransferUnit(c.Request.Context(), middleware.GetCaller(c), types.SubdivisionID(id), req.Index, types.Identity(req.To)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// GetUnitOwner 查询单元持有人
//
// **HTTP Method**: `GET`
// **URL Path**: `/subdivisions/id/{id}/units/owner/{index}`
func (h *SubdivisionHandlers) GetUnitOwner(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	index, ok := parseUint64Param(c, "index")
	if !ok {
		return
	}

	owner, err := h.engine.UnitOwner(c.Request.Context(), types.SubdivisionID(id), index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.ShareOwnerResponse{ID: id, Index: index, Owner: string(owner)})
}

// DeactivateSubdivision 停用地块划分账本
//
// **HTTP Method**: `POST`
// **URL Path**: `/subdivisions/id/{id}/deactivate`
//
// 仅限资产当前持有人，且所有在册单元必须已回到其名下。
func (h *SubdivisionHandlers) DeactivateSubdivision(c *gin.Context) {
	id, ok := parseUint64Param(c, "id")
	if !ok {
		return
	}
	if err := h.engine.DeactivateSubdivision(c.Request.Context(), middleware.GetCaller(c), types.SubdivisionID(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}
