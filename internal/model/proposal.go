package model

import (
	"time"
)

// Proposal 提案模型
// 提案的撰写与评审由外部子系统负责，核心只读取状态与归属做校验
type Proposal struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	JobID        uint           `json:"job_id" gorm:"not null;index"`
	FreelancerID uint           `json:"freelancer_id" gorm:"not null;index"`
	Status       ProposalStatus `json:"status" gorm:"default:'pending'"`
}

// TableName 自定义表名
func (Proposal) TableName() string {
	return "proposal"
}

// ProposalStatus 提案状态
type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"  // 待处理
	ProposalStatusAccepted ProposalStatus = "accepted" // 已接受
	ProposalStatusRejected ProposalStatus = "rejected" // 已拒绝
)
