// validators.go 实现验证方目录相关的HTTP API端点
//
// 📋 **验证方目录API**
//
// 注册、启停、类别与协议管理均为管理员操作（协议管理对验证方
// 所有人同样开放），查询端点无权限要求。

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/titledger/v1/internal/api/http/middleware"
	httptypes "github.com/titledger/v1/internal/api/http/types"
	"github.com/titledger/v1/pkg/interfaces/infrastructure/log"
	validatorsInterface "github.com/titledger/v1/pkg/interfaces/validators"
	"github.com/titledger/v1/pkg/types"
)

// ValidatorHandlers 验证方目录API处理器
type ValidatorHandlers struct {
	directory validatorsInterface.Directory
	logger    log.Logger
}

// NewValidatorHandlers 创建验证方目录API处理器
func NewValidatorHandlers(directory validatorsInterface.Directory, logger log.Logger) *ValidatorHandlers {
	return &ValidatorHandlers{
		directory: directory,
		logger:    logger,
	}
}

// RegisterRoutes 注册验证方目录路由
func (h *ValidatorHandlers) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/validators")

	group.POST("", h.Register)
	group.GET("", h.List)
	group.GET("/category/:category", h.ListByCategory)

	group.GET("/id/:id", h.Get)
	group.DELETE("/id/:id", h.Remove)
	group.PUT("/id/:id/active", h.SetActive)
	group.PUT("/id/:id/categories", h.SetCategories)
	group.PUT("/id/:id/agreements", h.SetAgreement)
	group.PUT("/id/:id/agreements/default", h.SetDefaultAgreement)
	group.GET("/id/:id/agreements", h.GetAgreement)

	if h.logger != nil {
		h.logger.Info("验证方目录路由注册完成")
	}
}

// parseCategories 解析类别列表，失败时直接写出400响应
func parseCategories(c *gin.Context, raw []string) ([]types.AssetCategory, bool) {
	categories := make([]types.AssetCategory, 0, len(raw))
	for _, s := range raw {
		category, ok := parseCategory(c, s)
		if !ok {
			return nil, false
		}
		categories = append(categories, category)
	}
	return categories, true
}

// Register 注册验证方
//
// **HTTP Method**: `POST`
// **URL Path**: `/validators`
//
// 仅限管理员。Owner为空时默认为验证方自身，佣金提现归属该所有人。
func (h *ValidatorHandlers) Register(c *gin.Context) {
	var req httptypes.RegisterValidatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	categories, ok := parseCategories(c, req.Categories)
	if !ok {
		return
	}

	record, err := h.directory.Register(c.Request.Context(), middleware.GetCaller(c), types.ValidatorParams{
		ID:         types.Identity(req.ID),
		Name:       req.Name,
		Categories: categories,
		Owner:      types.Identity(req.Owner),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Get 查询验证方记录
//
// **HTTP Method**: `GET`
// **URL Path**: `/validators/id/{id}`
func (h *ValidatorHandlers) Get(c *gin.Context) {
	record, err := h.directory.Get(c.Request.Context(), types.Identity(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// SetActive 启用或停用验证方
//
// **HTTP Method**: `PUT`
// **URL Path**: `/validators/id/{id}/active`
//
// 停用立即生效：停用中的验证方不能直接铸造、验证或承接佣金。
func (h *ValidatorHandlers) SetActive(c *gin.Context) {
	var req httptypes.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.directory.SetActive(c.Request.Context(), middleware.GetCaller(c), types.Identity(c.Param("id")), req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// SetCategories 重设验证方支持的资产类别
//
// **HTTP Method**: `PUT`
// **URL Path**: `/validators/id/{id}/categories`
func (h *ValidatorHandlers) SetCategories(c *gin.Context) {
	var req httptypes.SetCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	categories, ok := parseCategories(c, req.Categories)
	if !ok {
		return
	}
	if err := h.directory.SetSupportedCategories(c.Request.Context(), middleware.GetCaller(c), types.Identity(c.Param("id")), categories); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// Remove 移除验证方
//
// **HTTP Method**: `DELETE`
// **URL Path**: `/validators/id/{id}`
//
// 已指派给存量资产记录的验证方引用不受影响。
func (h *ValidatorHandlers) Remove(c *gin.Context) {
	if err := h.directory.Remove(c.Request.Context(), middleware.GetCaller(c), types.Identity(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// SetAgreement 登记或删除验证方认可的协议
//
// **HTTP Method**: `PUT`
// **URL Path**: `/validators/id/{id}/agreements`
//
// Name为空表示删除该URI的登记。管理员或验证方所有人可调用。
func (h *ValidatorHandlers) SetAgreement(c *gin.Context) {
	var req httptypes.SetAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.directory.SetAgreement(c.Request.Context(), middleware.GetCaller(c), types.Identity(c.Param("id")), req.URI, req.Name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// SetDefaultAgreement 设置验证方的默认协议
//
// **HTTP Method**: `PUT`
// **URL Path**: `/validators/id/{id}/agreements/default`
func (h *ValidatorHandlers) SetDefaultAgreement(c *gin.Context) {
	var req httptypes.SetDefaultAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.directory.SetDefaultAgreement(c.Request.Context(), middleware.GetCaller(c), types.Identity(c.Param("id")), req.URI); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.StatusResponse{Status: "ok"})
}

// GetAgreement 查询验证方协议
//
// **HTTP Method**: `GET`
// **URL Path**: `/validators/id/{id}/agreements[?uri=...]`
//
// 带uri查询参数时返回该协议的登记名称，否则返回默认协议URI。
func (h *ValidatorHandlers) GetAgreement(c *gin.Context) {
	id := types.Identity(c.Param("id"))
	uri := c.Query("uri")

	if uri != "" {
		name, err := h.directory.AgreementName(c.Request.Context(), id, uri)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, httptypes.AgreementResponse{ID: string(id), URI: uri, Name: name})
		return
	}

	defaultURI, err := h.directory.DefaultAgreement(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.AgreementResponse{ID: string(id), DefaultAgreement: defaultURI})
}

// List 列出全部验证方
//
// **HTTP Method**: `GET`
// **URL Path**: `/validators`
func (h *ValidatorHandlers) List(c *gin.Context) {
	records, err := h.directory.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.ValidatorListResponse{Validators: records, Total: len(records)})
}

// ListByCategory 按支持的资产类别列出启用中的验证方
//
// **HTTP Method**: `GET`
// **URL Path**: `/validators/category/{category}`
func (h *ValidatorHandlers) ListByCategory(c *gin.Context) {
	category, ok := parseCategory(c, c.Param("category"))
	if !ok {
		return
	}
	records, err := h.directory.ListByCategory(c.Request.Context(), category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httptypes.ValidatorListResponse{Validators: records, Total: len(records)})
}
