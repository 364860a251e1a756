package model

import (
	"time"
)

// Milestone 里程碑模型，合同下可单独支付的工作单元
type Milestone struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ContractID  uint       `json:"contract_id" gorm:"not null;index"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description" gorm:"type:text"`
	Amount      float64    `json:"amount" gorm:"not null"`
	DueDate     *time.Time `json:"due_date"`

	// 状态
	Status      MilestoneStatus `json:"status" gorm:"default:'pending'"`
	FundedAt    *time.Time      `json:"funded_at"`
	SubmittedAt *time.Time      `json:"submitted_at"`
	ApprovedAt  *time.Time      `json:"approved_at"`

	// 关联
	Contract Contract `json:"contract,omitempty" gorm:"foreignKey:ContractID"`
}

// TableName 自定义表名
func (Milestone) TableName() string {
	return "milestone"
}

// MilestoneStatus 里程碑状态
type MilestoneStatus string

const (
	MilestoneStatusPending    MilestoneStatus = "pending"     // 待注资
	MilestoneStatusFunded     MilestoneStatus = "funded"      // 已注资
	MilestoneStatusInProgress MilestoneStatus = "in_progress" // 进行中
	MilestoneStatusSubmitted  MilestoneStatus = "submitted"   // 已提交
	MilestoneStatusApproved   MilestoneStatus = "approved"    // 已验收
	MilestoneStatusDisputed   MilestoneStatus = "disputed"    // 争议中（保留状态，暂无入口）
)

// milestoneTransitions 里程碑状态转移表，只允许前向转移
var milestoneTransitions = map[MilestoneStatus][]MilestoneStatus{
	MilestoneStatusPending:    {MilestoneStatusFunded},
	MilestoneStatusFunded:     {MilestoneStatusInProgress, MilestoneStatusSubmitted, MilestoneStatusDisputed},
	MilestoneStatusInProgress: {MilestoneStatusSubmitted, MilestoneStatusDisputed},
	MilestoneStatusSubmitted:  {MilestoneStatusApproved, MilestoneStatusDisputed},
	MilestoneStatusApproved:   {},
	MilestoneStatusDisputed:   {},
}

// CanTransitionTo 检查里程碑状态是否允许转移
func (s MilestoneStatus) CanTransitionTo(target MilestoneStatus) bool {
	for _, t := range milestoneTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}
