package handler

import (
	"net/http"

	"github.com/blues/mintpad/internal/compress"
	"github.com/gin-gonic/gin"
)

const defaultQuality = 80

// EstimateHandler 压缩大小估算处理器
type EstimateHandler struct {
	limitKB int
}

// NewEstimateHandler 创建估算处理器，limitKB 为铭文大小上限
func NewEstimateHandler(limitKB int) *EstimateHandler {
	if limitKB <= 0 {
		limitKB = compress.DefaultInscriptionLimitKB
	}
	return &EstimateHandler{limitKB: limitKB}
}

// EstimateRequest 估算请求
type EstimateRequest struct {
	Width   int    `json:"width" binding:"required,gt=0"`
	Height  int    `json:"height" binding:"required,gt=0"`
	Format  string `json:"format" binding:"required"`
	Quality *int   `json:"quality" binding:"omitempty,gte=0,lte=100"` // 缺省为 80
}

// EstimateResponse 估算结果
type EstimateResponse struct {
	compress.Estimate
	Format  compress.Format       `json:"format"`
	LimitKB int                   `json:"limit_kb"`
	Warning compress.WarningLevel `json:"warning"`
}

// Estimate 估算压缩后的文件大小区间
func (h *EstimateHandler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	format, err := compress.ParseFormat(req.Format)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	quality := defaultQuality
	if req.Quality != nil {
		quality = *req.Quality
	}

	estimate, err := compress.EstimateSize(req.Width, req.Height, format, quality)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "估算成功", EstimateResponse{
		Estimate: estimate,
		Format:   format,
		LimitKB:  h.limitKB,
		Warning:  estimate.Warning(h.limitKB),
	})
}
