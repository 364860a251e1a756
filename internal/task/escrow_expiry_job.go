package task

import (
	"time"

	"github.com/blues/fes/internal/config"
	"github.com/blues/fes/internal/logger"
	"github.com/blues/fes/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// EscrowExpiryJob 注资流水过期任务
// 将长时间未完成线下支付的注资流水标记为失败，不回退里程碑状态
type EscrowExpiryJob struct {
	db     *gorm.DB
	config *config.Config
}

// NewEscrowExpiryJob 创建注资流水过期任务
func NewEscrowExpiryJob(db *gorm.DB, cfg *config.Config) *EscrowExpiryJob {
	return &EscrowExpiryJob{db: db, config: cfg}
}

// GetName 获取任务名称
func (j *EscrowExpiryJob) GetName() string {
	return "escrow_expiry"
}

// GetSchedule 获取调度配置
func (j *EscrowExpiryJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *EscrowExpiryJob) Execute() {
	days := j.config.Task.EscrowPendingDays
	if days <= 0 {
		days = 7
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	res := j.db.Model(&model.Transaction{}).
		Where("type = ? AND status = ? AND created_at < ?",
			model.TransactionTypeEscrowFund, model.TransactionStatusPending, cutoff).
		Update("status", model.TransactionStatusFailed)
	if res.Error != nil {
		logger.Error("Failed to expire pending escrow transactions: %v", res.Error)
		return
	}

	if res.RowsAffected > 0 {
		logger.Info("Expired %d pending escrow fund transactions", res.RowsAffected)
	}
}
