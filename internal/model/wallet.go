package model

import (
	"time"
)

// Wallet 用户钱包模型，每个用户恰好一条记录，首次访问时惰性创建
type Wallet struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID           uint    `json:"user_id" gorm:"not null;uniqueIndex"`
	AvailableBalance float64 `json:"available_balance" gorm:"default:0"`
	PendingBalance   float64 `json:"pending_balance" gorm:"default:0"`
	TotalEarned      float64 `json:"total_earned" gorm:"default:0"`
	TotalWithdrawn   float64 `json:"total_withdrawn" gorm:"default:0"`
}

// TableName 自定义表名
func (Wallet) TableName() string {
	return "wallet"
}
