package task

import (
	"time"

	"github.com/blues/fes/internal/apperr"
	"github.com/blues/fes/internal/config"
	"github.com/blues/fes/internal/event"
	"github.com/blues/fes/internal/logger"
	"github.com/blues/fes/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// WithdrawalSettlementJob 提现结算任务
// 外部出款渠道为人工对接，任务将待处理提现标记完成并划转余额
type WithdrawalSettlementJob struct {
	db       *gorm.DB
	config   *config.Config
	recorder *event.Recorder
}

// NewWithdrawalSettlementJob 创建提现结算任务
func NewWithdrawalSettlementJob(db *gorm.DB, cfg *config.Config, recorder *event.Recorder) *WithdrawalSettlementJob {
	return &WithdrawalSettlementJob{
		db:       db,
		config:   cfg,
		recorder: recorder,
	}
}

// GetName 获取任务名称
func (j *WithdrawalSettlementJob) GetName() string {
	return "withdrawal_settlement"
}

// GetSchedule 获取调度配置
func (j *WithdrawalSettlementJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *WithdrawalSettlementJob) Execute() {
	logger.Info("Starting withdrawal settlement task")

	var withdrawals []model.Transaction
	err := j.db.Where("type = ? AND status = ?",
		model.TransactionTypeWithdrawal, model.TransactionStatusPending).
		Find(&withdrawals).Error
	if err != nil {
		logger.Error("Failed to fetch pending withdrawals: %v", err)
		return
	}

	settledCount := 0
	for _, withdrawal := range withdrawals {
		if err := j.settle(withdrawal); err != nil {
			logger.Error("Failed to settle withdrawal %d: %v", withdrawal.ID, err)
			continue
		}

		if j.recorder != nil {
			j.recorder.Record(withdrawal.UserID, 0, model.PaymentEventWithdrawSettled,
				withdrawal.Reference, map[string]interface{}{
					"transaction_id": withdrawal.ID,
					"amount":         withdrawal.Amount,
					"method":         withdrawal.PaymentMethod,
				})
		}

		logger.Info("Successfully settled withdrawal %d, amount: %.2f", withdrawal.ID, withdrawal.Amount)
		settledCount++
	}

	logger.Info("Withdrawal settlement task completed. Settled %d withdrawals", settledCount)
}

// settle 结算单笔提现：流水完成与余额划转在同一事务内
func (j *WithdrawalSettlementJob) settle(withdrawal model.Transaction) error {
	return j.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&model.Transaction{}).
			Where("id = ? AND status = ?", withdrawal.ID, model.TransactionStatusPending).
			Updates(map[string]interface{}{
				"status":       model.TransactionStatusCompleted,
				"completed_at": &now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.InvalidState("提现流水状态已变更")
		}

		return tx.Model(&model.Wallet{}).
			Where("user_id = ?", withdrawal.UserID).
			Updates(map[string]interface{}{
				"pending_balance": gorm.Expr("pending_balance - ?", withdrawal.Amount),
				"total_withdrawn": gorm.Expr("total_withdrawn + ?", withdrawal.Amount),
			}).Error
	})
}
