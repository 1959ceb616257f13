package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/blues/mintpad/internal/auth"
	"github.com/blues/mintpad/internal/logic"
	"github.com/blues/mintpad/pkg/validation"
	"github.com/gin-gonic/gin"
)

// MintHandler 铸造处理器
type MintHandler struct {
	mintLogic   *logic.MintLogic
	defaultZone *time.Location
}

// NewMintHandler 创建铸造处理器
func NewMintHandler(mintLogic *logic.MintLogic, defaultZone *time.Location) *MintHandler {
	if defaultZone == nil {
		defaultZone = time.UTC
	}
	return &MintHandler{mintLogic: mintLogic, defaultZone: defaultZone}
}

// GetMintStatus 查询钱包当前的铸造资格，?wallet= 优先于请求头
func (h *MintHandler) GetMintStatus(c *gin.Context) {
	loc, ok := requestZone(c, h.defaultZone)
	if !ok {
		return
	}

	minter := actorFrom(c)
	if wallet := strings.TrimSpace(c.Query("wallet")); wallet != "" {
		address, err := validation.ValidateAndNormalizeAddress(wallet)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "钱包地址无效: "+err.Error())
			return
		}
		minter = auth.Context{Address: address}
	}

	status, err := h.mintLogic.MintStatus(c.Request.Context(), minter, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取铸造状态成功", ToMintStatusResponse(status, loc))
}

// RecordMint 回写已结算的铸造，仅限管理员
func (h *MintHandler) RecordMint(c *gin.Context) {
	var req logic.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.mintLogic.RecordMint(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "铸造记录成功", gin.H{
		"record":    record,
		"price_btc": SatsToBTC(record.PriceSats),
	})
}

// GetMints 铸造记录列表
func (h *MintHandler) GetMints(c *gin.Context) {
	page, pageSize := pageParams(c.Query("page"), c.Query("page_size"), 20, 100)

	records, total, err := h.mintLogic.ListMints(c.Request.Context(), c.Param("id"), c.Query("wallet"), page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取铸造记录成功", ListResponse{
		Items:      records,
		Pagination: NewPagination(page, pageSize, total),
	})
}
