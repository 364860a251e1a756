package handler

import (
	"time"
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
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// NewPagination 构造分页信息
func NewPagination(page, pageSize int, total int64) Pagination {
	return Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}

// CreateContractRequest 创建合同请求
type CreateContractRequest struct {
	CallerID     uint                     `json:"caller_id" binding:"required"`
	ProposalID   uint                     `json:"proposal_id" binding:"required"`
	ContractType string                   `json:"contract_type" binding:"required,oneof=fixed hourly"`
	TotalAmount  float64                  `json:"total_amount"`
	HourlyRate   float64                  `json:"hourly_rate"`
	WeeklyLimit  int                      `json:"weekly_limit"`
	Milestones   []CreateMilestoneRequest `json:"milestones"`
}

// CreateMilestoneRequest 创建里程碑请求
type CreateMilestoneRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount" binding:"required,gt=0"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateContractStatusRequest 更新合同状态请求
type UpdateContractStatusRequest struct {
	CallerID uint   `json:"caller_id" binding:"required"`
	Status   string `json:"status" binding:"required"`
}

// CallerRequest 仅携带调用者的请求
type CallerRequest struct {
	CallerID uint `json:"caller_id" binding:"required"`
}

// FundMilestoneRequest 里程碑注资请求
type FundMilestoneRequest struct {
	CallerID      uint   `json:"caller_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// WithdrawalRequest 提现申请请求
type WithdrawalRequest struct {
	UserID uint    `json:"user_id" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Method string  `json:"method" binding:"required"`
}
