package model

import (
	"time"
)

// Transaction 账务流水模型，每笔资金变动追加一条记录，完成后不可修改
type Transaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID     uint  `json:"user_id" gorm:"not null;index"`
	ContractID *uint `json:"contract_id" gorm:"index"`

	// 同一里程碑同一类型的流水至多一条，兜底并发重复放款
	MilestoneID *uint `json:"milestone_id" gorm:"uniqueIndex:idx_tx_milestone_type"`

	Type          TransactionType   `json:"type" gorm:"not null;uniqueIndex:idx_tx_milestone_type"`
	Amount        float64           `json:"amount" gorm:"not null"`
	Currency      string            `json:"currency" gorm:"default:'USD'"`
	PaymentMethod string            `json:"payment_method"`
	Status        TransactionStatus `json:"status" gorm:"default:'pending'"`
	Reference     string            `json:"reference" gorm:"uniqueIndex"`
	Description   string            `json:"description" gorm:"type:text"`
	Metadata      string            `json:"metadata" gorm:"type:text"`
	CompletedAt   *time.Time        `json:"completed_at"`
}

// TableName 自定义表名
func (Transaction) TableName() string {
	return "transaction"
}

// TransactionType 流水类型
type TransactionType string

const (
	TransactionTypeEscrowFund    TransactionType = "escrow_fund"    // 托管注资
	TransactionTypeEscrowRelease TransactionType = "escrow_release" // 托管放款
	TransactionTypeFee           TransactionType = "fee"            // 平台手续费
	TransactionTypeWithdrawal    TransactionType = "withdrawal"     // 提现
	TransactionTypeDeposit       TransactionType = "deposit"        // 充值
	TransactionTypeRefund        TransactionType = "refund"         // 退款
)

// TransactionStatus 流水状态
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"    // 待处理
	TransactionStatusProcessing TransactionStatus = "processing" // 处理中
	TransactionStatusCompleted  TransactionStatus = "completed"  // 已完成
	TransactionStatusFailed     TransactionStatus = "failed"     // 失败
	TransactionStatusCancelled  TransactionStatus = "cancelled"  // 已取消
)

// 提现方式
const (
	WithdrawalMethodOMT          = "OMT"
	WithdrawalMethodWhish        = "WHISH"
	WithdrawalMethodBankTransfer = "BANK_TRANSFER"
)
