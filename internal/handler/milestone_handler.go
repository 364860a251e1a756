package handler

import (
	"net/http"

	"github.com/blues/fes/internal/logic"
	"github.com/gin-gonic/gin"
)

// MilestoneHandler 里程碑处理器
type MilestoneHandler struct {
	milestoneLogic *logic.MilestoneLogic
}

// NewMilestoneHandler 创建里程碑处理器
func NewMilestoneHandler(milestoneLogic *logic.MilestoneLogic) *MilestoneHandler {
	return &MilestoneHandler{milestoneLogic: milestoneLogic}
}

// StartMilestone 开始里程碑工作
func (h *MilestoneHandler) StartMilestone(c *gin.Context) {
	milestoneID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CallerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}

	milestone, err := h.milestoneLogic.Start(milestoneID, req.CallerID)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "里程碑已开始", milestone)
}

// SubmitMilestone 提交里程碑成果
func (h *MilestoneHandler) SubmitMilestone(c *gin.Context) {
	milestoneID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CallerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}

	milestone, err := h.milestoneLogic.Submit(milestoneID, req.CallerID)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "提交里程碑成功", milestone)
}

// ApproveMilestone 验收里程碑
func (h *MilestoneHandler) ApproveMilestone(c *gin.Context) {
	milestoneID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CallerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}

	milestone, err := h.milestoneLogic.Approve(milestoneID, req.CallerID)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "验收里程碑成功", milestone)
}
