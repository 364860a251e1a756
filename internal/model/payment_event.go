package model

import (
	"time"
)

// PaymentEvent 支付审计事件记录
type PaymentEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID     uint   `json:"user_id" gorm:"not null;index"`
	ContractID uint   `json:"contract_id" gorm:"index"`
	EventType  string `json:"event_type" gorm:"not null"`
	Reference  string `json:"reference"`
	Data       string `json:"data" gorm:"type:text"`
}

// TableName 自定义表名
func (PaymentEvent) TableName() string {
	return "payment_event"
}

// 支付事件类型
const (
	PaymentEventMilestoneFunded   = "milestone_funded"
	PaymentEventMilestoneReleased = "milestone_released"
	PaymentEventWithdrawRequested = "withdrawal_requested"
	PaymentEventWithdrawSettled   = "withdrawal_settled"
)
