package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/fes/internal/logic"
	"github.com/blues/fes/internal/model"
	"github.com/gin-gonic/gin"
)

// ContractHandler 合同处理器
type ContractHandler struct {
	contractLogic  *logic.ContractLogic
	milestoneLogic *logic.MilestoneLogic
}

// NewContractHandler 创建合同处理器
func NewContractHandler(contractLogic *logic.ContractLogic, milestoneLogic *logic.MilestoneLogic) *ContractHandler {
	return &ContractHandler{
		contractLogic:  contractLogic,
		milestoneLogic: milestoneLogic,
	}
}

// CreateContract 由已接受的提案创建合同
func (h *ContractHandler) CreateContract(c *gin.Context) {
	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}

	input := logic.CreateContractInput{
		ProposalID:   req.ProposalID,
		ContractType: model.ContractType(req.ContractType),
		TotalAmount:  req.TotalAmount,
		HourlyRate:   req.HourlyRate,
		WeeklyLimit:  req.WeeklyLimit,
	}
	for _, m := range req.Milestones {
		input.Milestones = append(input.Milestones, logic.MilestoneInput{
			Name:        m.Name,
			Description: m.Description,
			Amount:      m.Amount,
			DueDate:     m.DueDate,
		})
	}

	contract, err := h.contractLogic.CreateContract(req.CallerID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "创建合同成功", contract)
}

// GetContracts 获取用户参与的合同列表
func (h *ContractHandler) GetContracts(c *gin.Context) {
	callerID, ok := parseUserID(c, "user_id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	contracts, total, err := h.contractLogic.ListContracts(callerID, page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取合同列表成功", gin.H{
		"contracts":  contracts,
		"pagination": NewPagination(page, pageSize, total),
	})
}

// GetContract 获取合同详情
func (h *ContractHandler) GetContract(c *gin.Context) {
	contractID, ok := parseIDParam(c)
	if !ok {
		return
	}
	callerID, ok := parseUserID(c, "user_id")
	if !ok {
		return
	}

	contract, err := h.contractLogic.GetContract(contractID, callerID)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取合同成功", contract)
}

// UpdateContractStatus 更新合同状态
func (h *ContractHandler) UpdateContractStatus(c *gin.Context) {
	contractID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateContractStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return
	}

	contract, err := h.contractLogic.UpdateStatus(contractID, req.CallerID, model.ContractStatus(req.Status))
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "更新合同状态成功", contract)
}

// GetContractMilestones 获取合同下的里程碑列表
func (h *ContractHandler) GetContractMilestones(c *gin.Context) {
	contractID, ok := parseIDParam(c)
	if !ok {
		return
	}
	callerID, ok := parseUserID(c, "user_id")
	if !ok {
		return
	}

	milestones, err := h.milestoneLogic.ListByContract(contractID, callerID)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取里程碑列表成功", milestones)
}

// parseIDParam 解析路径中的记录ID
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的记录ID")
		return 0, false
	}
	return uint(id), true
}

// parseUserID 解析查询参数中的用户ID
func parseUserID(c *gin.Context, key string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(key), 10, 32)
	if err != nil || id == 0 {
		ErrorResponse(c, http.StatusBadRequest, "无效的用户ID")
		return 0, false
	}
	return uint(id), true
}
