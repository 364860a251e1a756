package model

import (
	"time"
)

// FreelancerProfile 自由职业者统计档案
// 档案主体由身份子系统维护，核心只负责完成数和累计收入的原子递增
type FreelancerProfile struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID        uint    `json:"user_id" gorm:"not null;uniqueIndex"`
	CompletedJobs int     `json:"completed_jobs" gorm:"default:0"`
	TotalEarnings float64 `json:"total_earnings" gorm:"default:0"`
}

// TableName 自定义表名
func (FreelancerProfile) TableName() string {
	return "freelancer_profile"
}
