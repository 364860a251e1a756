package task

import (
	"testing"
	"time"

	"github.com/blues/fes/internal/config"
	"github.com/blues/fes/internal/database"
	"github.com/blues/fes/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func TestWithdrawalSettlementJob(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{Task: config.TaskConfig{Interval: 60}}

	require.NoError(t, db.Create(&model.Wallet{
		UserID:         1,
		PendingBalance: 100,
	}).Error)
	withdrawal := model.Transaction{
		UserID:        1,
		Type:          model.TransactionTypeWithdrawal,
		Amount:        100,
		PaymentMethod: model.WithdrawalMethodOMT,
		Status:        model.TransactionStatusPending,
		Reference:     "wd-1",
	}
	require.NoError(t, db.Create(&withdrawal).Error)

	NewWithdrawalSettlementJob(db, cfg, nil).Execute()

	var settled model.Transaction
	require.NoError(t, db.First(&settled, withdrawal.ID).Error)
	assert.Equal(t, model.TransactionStatusCompleted, settled.Status)
	assert.NotNil(t, settled.CompletedAt)

	var wallet model.Wallet
	require.NoError(t, db.Where("user_id = ?", 1).First(&wallet).Error)
	assert.Zero(t, wallet.PendingBalance)
	assert.InDelta(t, 100.0, wallet.TotalWithdrawn, 0.001)

	// 再次执行不会重复划转
	NewWithdrawalSettlementJob(db, cfg, nil).Execute()
	require.NoError(t, db.Where("user_id = ?", 1).First(&wallet).Error)
	assert.InDelta(t, 100.0, wallet.TotalWithdrawn, 0.001)
}

func TestEscrowExpiryJob(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{Task: config.TaskConfig{Interval: 60, EscrowPendingDays: 7}}

	stale := model.Transaction{
		UserID:    1,
		Type:      model.TransactionTypeEscrowFund,
		Amount:    100,
		Status:    model.TransactionStatusPending,
		Reference: "ef-stale",
	}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Model(&stale).
		UpdateColumn("created_at", time.Now().AddDate(0, 0, -10)).Error)

	fresh := model.Transaction{
		UserID:    1,
		Type:      model.TransactionTypeEscrowFund,
		Amount:    200,
		Status:    model.TransactionStatusPending,
		Reference: "ef-fresh",
	}
	require.NoError(t, db.Create(&fresh).Error)

	NewEscrowExpiryJob(db, cfg).Execute()

	var expired, pending model.Transaction
	require.NoError(t, db.First(&expired, stale.ID).Error)
	require.NoError(t, db.First(&pending, fresh.ID).Error)
	assert.Equal(t, model.TransactionStatusFailed, expired.Status)
	assert.Equal(t, model.TransactionStatusPending, pending.Status)
}
