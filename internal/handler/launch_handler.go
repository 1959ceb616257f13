package handler

import (
	"net/http"

	"github.com/blues/mintpad/internal/launch"
	"github.com/blues/mintpad/internal/logic"
	"github.com/gin-gonic/gin"
)

// LaunchHandler 发射流程处理器
type LaunchHandler struct {
	launchLogic *logic.LaunchLogic
}

// NewLaunchHandler 创建发射流程处理器
func NewLaunchHandler(launchLogic *logic.LaunchLogic) *LaunchHandler {
	return &LaunchHandler{launchLogic: launchLogic}
}

// TransitionRequest 状态流转请求
type TransitionRequest struct {
	Target string `json:"target" binding:"required,oneof=draft launchpad launchpad_live completed"`
}

// Transition 通用状态流转
func (h *LaunchHandler) Transition(c *gin.Context) {
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	h.transition(c, launch.State(req.Target), "集合状态已更新")
}

// Submit 提交到发射台
func (h *LaunchHandler) Submit(c *gin.Context) {
	h.transition(c, launch.StateLaunchpad, "集合已提交到发射台")
}

// GoLive 开始公开铸造
func (h *LaunchHandler) GoLive(c *gin.Context) {
	h.transition(c, launch.StateLaunchpadLive, "集合已上线")
}

// EndLive 下架，回到发射台
func (h *LaunchHandler) EndLive(c *gin.Context) {
	h.transition(c, launch.StateLaunchpad, "集合已下架")
}

// RevertToDraft 退回草稿
func (h *LaunchHandler) RevertToDraft(c *gin.Context) {
	h.transition(c, launch.StateDraft, "集合已退回草稿")
}

// Complete 结束铸造活动
func (h *LaunchHandler) Complete(c *gin.Context) {
	h.transition(c, launch.StateCompleted, "铸造活动已结束")
}

func (h *LaunchHandler) transition(c *gin.Context, target launch.State, message string) {
	collection, err := h.launchLogic.Transition(c.Request.Context(), actorFrom(c), c.Param("id"), target)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, message, ToCollectionResponse(collection))
}

// GetHistory 状态流转历史
func (h *LaunchHandler) GetHistory(c *gin.Context) {
	records, err := h.launchLogic.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取状态流转记录成功", records)
}
