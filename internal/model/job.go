package model

import (
	"time"
)

// Job 职位模型
// 职位的发布与撮合由外部子系统负责，核心只读取归属做权限校验
type Job struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ClientID uint   `json:"client_id" gorm:"not null;index"`
	Title    string `json:"title"`
}

// TableName 自定义表名
func (Job) TableName() string {
	return "job"
}
