package handler

import (
	"strconv"
	"time"

	"github.com/blues/mintpad/internal/logic"
	"github.com/blues/mintpad/internal/mint"
	"github.com/blues/mintpad/internal/model"
	"github.com/blues/mintpad/internal/wallclock"
	"github.com/shopspring/decimal"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// ListResponse 分页列表响应
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// NewPagination 计算分页信息
func NewPagination(page, pageSize int, total int64) Pagination {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		p.TotalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return p
}

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToFieldErrors 校验错误按字段展开
func ToFieldErrors(errs mint.ValidationErrors) []FieldError {
	result := make([]FieldError, len(errs))
	for i, k := range errs {
		result[i] = FieldError{Field: k.Field(), Code: string(k), Message: k.Message()}
	}
	return result
}

var satsPerBTC = decimal.New(1, 8)

// SatsToBTC 以 BTC 展示聪数，保留 8 位小数
func SatsToBTC(sats int64) string {
	return decimal.NewFromInt(sats).Div(satsPerBTC).StringFixed(8)
}

// 集合相关响应模型

// CollectionResponse 集合响应模型
type CollectionResponse struct {
	model.CollectionModel
	EffectiveCap    int64 `json:"effective_cap"`
	RemainingSupply int64 `json:"remaining_supply"`
}

// ToCollectionResponse 将数据库模型转换为响应模型
func ToCollectionResponse(collection *model.CollectionModel) CollectionResponse {
	return CollectionResponse{
		CollectionModel: *collection,
		EffectiveCap:    collection.EffectiveCap(),
		RemainingSupply: collection.RemainingSupply(),
	}
}

// ToCollectionResponseList 将数据库模型列表转换为响应模型列表
func ToCollectionResponseList(collections []model.CollectionModel) []CollectionResponse {
	result := make([]CollectionResponse, len(collections))
	for i := range collections {
		result[i] = ToCollectionResponse(&collections[i])
	}
	return result
}

// 阶段相关响应模型

// PhaseResponse 阶段响应模型，附带按请求时区展示的本地时间
type PhaseResponse struct {
	model.PhaseModel
	MintPriceBTC   string `json:"mint_price_btc"`
	Timezone       string `json:"timezone"`
	StartTimeLocal string `json:"start_time_local"`
	EndTimeLocal   string `json:"end_time_local"`
	Paused         bool   `json:"paused"`
}

// ToPhaseResponse 将阶段转换为响应模型
func ToPhaseResponse(phase *model.PhaseModel, loc *time.Location) PhaseResponse {
	resp := PhaseResponse{
		PhaseModel:   *phase,
		MintPriceBTC: SatsToBTC(phase.MintPriceSats),
		Timezone:     loc.String(),
		Paused:       phase.IsPaused(),
	}
	if phase.StartTime != nil {
		resp.StartTimeLocal = wallclock.FromUTC(*phase.StartTime, loc)
	}
	if phase.EndTime != nil {
		resp.EndTimeLocal = wallclock.FromUTC(*phase.EndTime, loc)
	}
	return resp
}

// ToPhaseResponseList 将阶段列表转换为响应模型列表
func ToPhaseResponseList(phases []model.PhaseModel, loc *time.Location) []PhaseResponse {
	result := make([]PhaseResponse, len(phases))
	for i := range phases {
		result[i] = ToPhaseResponse(&phases[i], loc)
	}
	return result
}

// SavePhaseResponse 保存阶段响应
type SavePhaseResponse struct {
	Phase    PhaseResponse      `json:"phase"`
	Warnings []mint.WarningKind `json:"warnings"`
}

// 铸造相关响应模型

// MintStatusResponse 铸造资格响应
type MintStatusResponse struct {
	*logic.MintStatus
	Phase        *PhaseResponse `json:"phase"`
	MintPriceBTC string         `json:"mint_price_btc,omitempty"`
}

// ToMintStatusResponse 将铸造资格转换为响应模型
func ToMintStatusResponse(status *logic.MintStatus, loc *time.Location) MintStatusResponse {
	resp := MintStatusResponse{MintStatus: status}
	if status.Phase != nil {
		phase := ToPhaseResponse(status.Phase, loc)
		resp.Phase = &phase
		resp.MintPriceBTC = phase.MintPriceBTC
	}
	return resp
}

// pageParams 读取分页参数，超出范围时使用默认值
func pageParams(page, pageSize string, defaultSize, maxSize int) (int, int) {
	p, err := strconv.Atoi(page)
	if err != nil || p < 1 {
		p = 1
	}
	size, err := strconv.Atoi(pageSize)
	if err != nil || size < 1 || size > maxSize {
		size = defaultSize
	}
	return p, size
}
