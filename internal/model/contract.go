package model

import (
	"time"
)

// Contract 合同模型，一个被接受的提案对应一份合同
type Contract struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联信息
	JobID        uint `json:"job_id" gorm:"not null;index"`
	ProposalID   uint `json:"proposal_id" gorm:"not null;uniqueIndex"`
	ClientID     uint `json:"client_id" gorm:"not null;index"`
	FreelancerID uint `json:"freelancer_id" gorm:"not null;index"`

	// 合同信息
	ContractType ContractType `json:"contract_type" gorm:"not null"`
	TotalAmount  float64      `json:"total_amount" gorm:"default:0"`
	HourlyRate   float64      `json:"hourly_rate" gorm:"default:0"`
	WeeklyLimit  int          `json:"weekly_limit" gorm:"default:0"`

	// 状态
	Status      ContractStatus `json:"status" gorm:"default:'pending'"`
	CompletedAt *time.Time     `json:"completed_at"`

	// 关联
	Milestones []Milestone `json:"milestones,omitempty" gorm:"foreignKey:ContractID"`
}

// TableName 自定义表名
func (Contract) TableName() string {
	return "contract"
}

// ContractType 合同类型
type ContractType string

const (
	ContractTypeFixed  ContractType = "fixed"  // 固定总价
	ContractTypeHourly ContractType = "hourly" // 按小时计费
)

// ContractStatus 合同状态
type ContractStatus string

const (
	ContractStatusPending   ContractStatus = "pending"   // 待开始
	ContractStatusActive    ContractStatus = "active"    // 进行中
	ContractStatusPaused    ContractStatus = "paused"    // 已暂停
	ContractStatusCompleted ContractStatus = "completed" // 已完成
	ContractStatusCancelled ContractStatus = "cancelled" // 已取消
	ContractStatusDisputed  ContractStatus = "disputed"  // 争议中（保留状态，暂无入口）
)

// contractTransitions 合同状态转移表
var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractStatusPending:   {ContractStatusActive, ContractStatusCancelled},
	ContractStatusActive:    {ContractStatusPaused, ContractStatusCompleted, ContractStatusCancelled, ContractStatusDisputed},
	ContractStatusPaused:    {ContractStatusActive, ContractStatusCancelled},
	ContractStatusCompleted: {},
	ContractStatusCancelled: {},
	ContractStatusDisputed:  {},
}

// CanTransitionTo 检查合同状态是否允许转移
func (s ContractStatus) CanTransitionTo(target ContractStatus) bool {
	for _, t := range contractTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsValid 检查合同状态是否合法
func (s ContractStatus) IsValid() bool {
	_, ok := contractTransitions[s]
	return ok
}
