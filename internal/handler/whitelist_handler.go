package handler

import (
	"net/http"

	"github.com/blues/mintpad/internal/logic"
	"github.com/blues/mintpad/internal/model"
	"github.com/gin-gonic/gin"
)

// WhitelistHandler 白名单处理器
type WhitelistHandler struct {
	whitelistLogic *logic.WhitelistLogic
}

// NewWhitelistHandler 创建白名单处理器
func NewWhitelistHandler(whitelistLogic *logic.WhitelistLogic) *WhitelistHandler {
	return &WhitelistHandler{whitelistLogic: whitelistLogic}
}

// CreateWhitelistRequest 创建白名单请求
type CreateWhitelistRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// AddEntriesRequest 批量导入地址请求
type AddEntriesRequest struct {
	Addresses []string `json:"addresses" binding:"required,min=1,max=10000"`
}

// CreateWhitelist 创建白名单
func (h *WhitelistHandler) CreateWhitelist(c *gin.Context) {
	var req CreateWhitelistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	whitelist := &model.WhitelistModel{Name: req.Name, Description: req.Description}
	if err := h.whitelistLogic.CreateWhitelist(c.Request.Context(), actorFrom(c), c.Param("id"), whitelist); err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "白名单创建成功", whitelist)
}

// GetWhitelists 获取集合的白名单列表
func (h *WhitelistHandler) GetWhitelists(c *gin.Context) {
	whitelists, err := h.whitelistLogic.ListWhitelists(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取白名单列表成功", whitelists)
}

// DeleteWhitelist 删除白名单
func (h *WhitelistHandler) DeleteWhitelist(c *gin.Context) {
	if err := h.whitelistLogic.DeleteWhitelist(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "白名单删除成功", nil)
}

// GetEntries 分页获取白名单地址，?q= 模糊搜索
func (h *WhitelistHandler) GetEntries(c *gin.Context) {
	page, pageSize := pageParams(c.Query("page"), c.Query("page_size"), 100, 500)

	entries, total, err := h.whitelistLogic.ListEntries(c.Request.Context(), c.Param("id"), c.Query("q"), page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取白名单地址成功", ListResponse{
		Items:      entries,
		Pagination: NewPagination(page, pageSize, total),
	})
}

// AddEntries 批量导入地址
func (h *WhitelistHandler) AddEntries(c *gin.Context) {
	var req AddEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.whitelistLogic.AddEntries(c.Request.Context(), actorFrom(c), c.Param("id"), req.Addresses)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "白名单地址导入完成", result)
}

// RemoveEntry 移除单个地址
func (h *WhitelistHandler) RemoveEntry(c *gin.Context) {
	if err := h.whitelistLogic.RemoveEntry(c.Request.Context(), actorFrom(c), c.Param("id"), c.Param("address")); err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "白名单地址已移除", nil)
}
