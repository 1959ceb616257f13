package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/blues/mintpad/internal/logic"
	"github.com/blues/mintpad/internal/mint"
	"github.com/blues/mintpad/internal/wallclock"
	"github.com/gin-gonic/gin"
)

// PhaseHandler 铸造阶段处理器
type PhaseHandler struct {
	phaseLogic  *logic.PhaseLogic
	defaultZone *time.Location
}

// NewPhaseHandler 创建阶段处理器
func NewPhaseHandler(phaseLogic *logic.PhaseLogic, defaultZone *time.Location) *PhaseHandler {
	if defaultZone == nil {
		defaultZone = time.UTC
	}
	return &PhaseHandler{phaseLogic: phaseLogic, defaultZone: defaultZone}
}

// zone 响应展示使用的时区，?tz= 优先
func (h *PhaseHandler) zone(c *gin.Context) (*time.Location, bool) {
	return requestZone(c, h.defaultZone)
}

func requestZone(c *gin.Context, fallback *time.Location) (*time.Location, bool) {
	name := strings.TrimSpace(c.Query("tz"))
	if name == "" {
		return fallback, true
	}
	loc, err := wallclock.LoadZone(name)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的时区: "+name)
		return nil, false
	}
	return loc, true
}

// GetPhases 获取集合的阶段列表
func (h *PhaseHandler) GetPhases(c *gin.Context) {
	loc, ok := h.zone(c)
	if !ok {
		return
	}

	phases, err := h.phaseLogic.ListPhases(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取阶段列表成功", ToPhaseResponseList(phases, loc))
}

// GetPhase 获取阶段详情
func (h *PhaseHandler) GetPhase(c *gin.Context) {
	loc, ok := h.zone(c)
	if !ok {
		return
	}

	phase, err := h.phaseLogic.GetPhase(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取阶段详情成功", ToPhaseResponse(phase, loc))
}

// CreatePhase 创建阶段
func (h *PhaseHandler) CreatePhase(c *gin.Context) {
	var draft mint.PhaseDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.phaseLogic.CreatePhase(c.Request.Context(), actorFrom(c), c.Param("id"), draft)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "阶段创建成功", h.saved(res, draft))
}

// UpdatePhase 修改阶段
func (h *PhaseHandler) UpdatePhase(c *gin.Context) {
	var draft mint.PhaseDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.phaseLogic.UpdatePhase(c.Request.Context(), actorFrom(c), c.Param("id"), draft)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "阶段更新成功", h.saved(res, draft))
}

// saved 按提交时的时区回显本地时间
func (h *PhaseHandler) saved(res *logic.SaveResult, draft mint.PhaseDraft) SavePhaseResponse {
	loc := h.defaultZone
	if zone, err := wallclock.LoadZone(draft.Timezone); err == nil && strings.TrimSpace(draft.Timezone) != "" {
		loc = zone
	}
	return SavePhaseResponse{Phase: ToPhaseResponse(res.Phase, loc), Warnings: res.Warnings}
}

// DeletePhase 删除阶段
func (h *PhaseHandler) DeletePhase(c *gin.Context) {
	if err := h.phaseLogic.DeletePhase(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "阶段删除成功", nil)
}

// PausePhase 暂停阶段
func (h *PhaseHandler) PausePhase(c *gin.Context) {
	h.setPaused(c, true)
}

// ResumePhase 恢复阶段
func (h *PhaseHandler) ResumePhase(c *gin.Context) {
	h.setPaused(c, false)
}

func (h *PhaseHandler) setPaused(c *gin.Context, paused bool) {
	phase, err := h.phaseLogic.SetPaused(c.Request.Context(), actorFrom(c), c.Param("id"), paused)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "阶段状态已更新", ToPhaseResponse(phase, h.defaultZone))
}

// CompletePhase 手动结束阶段
func (h *PhaseHandler) CompletePhase(c *gin.Context) {
	phase, err := h.phaseLogic.CompletePhase(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "阶段已结束", ToPhaseResponse(phase, h.defaultZone))
}
