package handler

import (
	"net/http"

	"github.com/blues/fes/internal/event"
	"github.com/blues/fes/internal/logic"
	"github.com/blues/fes/internal/model"
	"github.com/gin-gonic/gin"
)

// PaymentHandler 托管支付处理器
type PaymentHandler struct {
	escrowLogic *logic.EscrowLogic
	recorder    *event.Recorder
}

// NewPaymentHandler 创建托管支付处理器
func NewPaymentHandler(escrowLogic *logic.EscrowLogic, recorder *event.Recorder) *PaymentHandler {
	return &PaymentHandler{
		escrowLogic: escrowLogic,
		recorder:    recorder,
	}
}

// FundMilestone 客户为里程碑注资
func (h *PaymentHandler) FundMilestone(c *gin.Context) {
	milestoneID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req FundMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}

	result, err := h.escrowLogic.Fund(milestoneID, req.CallerID, req.PaymentMethod)
	if err != nil {
		HandleError(c, err)
		return
	}

	if h.recorder != nil {
		h.recorder.Record(req.CallerID, result.Milestone.ContractID,
			model.PaymentEventMilestoneFunded, result.Transaction.Reference,
			gin.H{
				"milestone_id": milestoneID,
				"amount":       result.Transaction.Amount,
				"method":       req.PaymentMethod,
			})
	}

	SuccessResponse(c, http.StatusOK, "里程碑注资成功", result)
}

// ReleaseMilestone 客户放款
func (h *PaymentHandler) ReleaseMilestone(c *gin.Context) {
	milestoneID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CallerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}

	result, err := h.escrowLogic.Release(milestoneID, req.CallerID)
	if err != nil {
		HandleError(c, err)
		return
	}

	if h.recorder != nil {
		h.recorder.Record(req.CallerID, 0, model.PaymentEventMilestoneReleased, "",
			gin.H{
				"milestone_id":      milestoneID,
				"gross_amount":      result.GrossAmount,
				"platform_fee":      result.PlatformFee,
				"freelancer_amount": result.FreelancerAmount,
			})
	}

	SuccessResponse(c, http.StatusOK, "里程碑放款成功", result)
}
