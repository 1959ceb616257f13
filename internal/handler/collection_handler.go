package handler

import (
	"net/http"

	"github.com/blues/mintpad/internal/logic"
	"github.com/blues/mintpad/internal/model"
	"github.com/gin-gonic/gin"
)

// CollectionHandler 集合处理器
type CollectionHandler struct {
	collectionLogic *logic.CollectionLogic
}

// NewCollectionHandler 创建集合处理器
func NewCollectionHandler(collectionLogic *logic.CollectionLogic) *CollectionHandler {
	return &CollectionHandler{collectionLogic: collectionLogic}
}

// CreateCollectionRequest 创建集合请求
type CreateCollectionRequest struct {
	Name                 string `json:"name" binding:"required"`
	Description          string `json:"description"`
	TotalSupply          int64  `json:"total_supply" binding:"required,gt=0"`
	CapSupply            int64  `json:"cap_supply" binding:"gte=0"`
	ExtendLastPhase      bool   `json:"extend_last_phase"`
	BannerImageURL       string `json:"banner_image_url" binding:"omitempty,url"`
	MobileImageURL       string `json:"mobile_image_url" binding:"omitempty,url"`
	AudioURL             string `json:"audio_url" binding:"omitempty,url"`
	CreatorRoyaltyWallet string `json:"creator_royalty_wallet"`
	TwitterURL           string `json:"twitter_url" binding:"omitempty,url"`
	DiscordURL           string `json:"discord_url" binding:"omitempty,url"`
	WebsiteURL           string `json:"website_url" binding:"omitempty,url"`
}

// CreateCollection 创建集合
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	var req CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	collection := &model.CollectionModel{
		Name:                 req.Name,
		Description:          req.Description,
		TotalSupply:          req.TotalSupply,
		CapSupply:            req.CapSupply,
		ExtendLastPhase:      req.ExtendLastPhase,
		BannerImageURL:       req.BannerImageURL,
		MobileImageURL:       req.MobileImageURL,
		AudioURL:             req.AudioURL,
		CreatorRoyaltyWallet: req.CreatorRoyaltyWallet,
		TwitterURL:           req.TwitterURL,
		DiscordURL:           req.DiscordURL,
		WebsiteURL:           req.WebsiteURL,
	}
	if err := h.collectionLogic.CreateCollection(c.Request.Context(), actorFrom(c), collection); err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "集合创建成功", ToCollectionResponse(collection))
}

// GetCollections 获取集合列表
func (h *CollectionHandler) GetCollections(c *gin.Context) {
	page, pageSize := pageParams(c.Query("page"), c.Query("page_size"), 20, 100)

	collections, total, err := h.collectionLogic.ListCollections(c.Request.Context(), logic.CollectionQuery{
		Owner:    c.Query("owner"),
		Status:   c.Query("status"),
		Query:    c.Query("q"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取集合列表成功", ListResponse{
		Items:      ToCollectionResponseList(collections),
		Pagination: NewPagination(page, pageSize, total),
	})
}

// GetCollection 获取集合详情
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	collection, err := h.collectionLogic.GetCollection(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取集合详情成功", ToCollectionResponse(collection))
}

// UpdateCollection 修改集合设置
func (h *CollectionHandler) UpdateCollection(c *gin.Context) {
	var patch logic.CollectionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	collection, err := h.collectionLogic.UpdateCollection(c.Request.Context(), actorFrom(c), c.Param("id"), patch)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "集合更新成功", ToCollectionResponse(collection))
}
