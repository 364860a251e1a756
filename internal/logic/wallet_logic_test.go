package logic

import (
	"testing"

	"github.com/blues/fes/internal/apperr"
	"github.com/blues/fes/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWalletCreatesOnFirstAccess(t *testing.T) {
	db := newTestDB(t)
	wl := NewWalletLogic(db)

	wallet, err := wl.GetWallet(testFreelancerID)
	require.NoError(t, err)
	assert.Equal(t, testFreelancerID, wallet.UserID)
	assert.Zero(t, wallet.AvailableBalance)
	assert.Zero(t, wallet.PendingBalance)
	assert.Zero(t, wallet.TotalEarned)
	assert.Zero(t, wallet.TotalWithdrawn)

	// 重复访问不会创建第二条记录
	again, err := wl.GetWallet(testFreelancerID)
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&model.Wallet{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRequestWithdrawalMinimums(t *testing.T) {
	db := newTestDB(t)
	wl := NewWalletLogic(db)

	require.NoError(t, db.Create(&model.Wallet{
		UserID:           testFreelancerID,
		AvailableBalance: 1000,
	}).Error)

	tests := []struct {
		method string
		amount float64
		ok     bool
	}{
		{model.WithdrawalMethodOMT, 19.99, false},
		{model.WithdrawalMethodOMT, 20, true},
		{model.WithdrawalMethodWhish, 9.99, false},
		{model.WithdrawalMethodWhish, 10, true},
		{model.WithdrawalMethodBankTransfer, 99, false},
		{model.WithdrawalMethodBankTransfer, 100, true},
		{"CASH_PICKUP", 19, false},
		{"CASH_PICKUP", 20, true},
	}

	for _, tt := range tests {
		_, _, err := wl.RequestWithdrawal(testFreelancerID, tt.amount, tt.method)
		if tt.ok {
			assert.NoError(t, err, "%s %.2f", tt.method, tt.amount)
		} else {
			assert.True(t, apperr.Is(err, apperr.KindBelowMinimum), "%s %.2f", tt.method, tt.amount)
		}
	}
}

func TestRequestWithdrawalInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	wl := NewWalletLogic(db)

	require.NoError(t, db.Create(&model.Wallet{
		UserID:           testFreelancerID,
		AvailableBalance: 50,
	}).Error)

	_, _, err := wl.RequestWithdrawal(testFreelancerID, 100, model.WithdrawalMethodOMT)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInsufficientFunds))

	// 失败时余额不变，也不产生流水
	var wallet model.Wallet
	require.NoError(t, db.Where("user_id = ?", testFreelancerID).First(&wallet).Error)
	assert.InDelta(t, 50.0, wallet.AvailableBalance, 0.001)
	assert.Zero(t, wallet.PendingBalance)

	var txCount int64
	require.NoError(t, db.Model(&model.Transaction{}).Count(&txCount).Error)
	assert.Zero(t, txCount)
}

func TestRequestWithdrawalSuccess(t *testing.T) {
	db := newTestDB(t)
	wl := NewWalletLogic(db)

	require.NoError(t, db.Create(&model.Wallet{
		UserID:           testFreelancerID,
		AvailableBalance: 500,
	}).Error)

	transaction, message, err := wl.RequestWithdrawal(testFreelancerID, 100, model.WithdrawalMethodWhish)
	require.NoError(t, err)
	assert.NotEmpty(t, message)
	assert.Equal(t, model.TransactionTypeWithdrawal, transaction.Type)
	assert.Equal(t, model.TransactionStatusPending, transaction.Status)
	assert.InDelta(t, 100.0, transaction.Amount, 0.001)

	// 可用余额与待处理余额双向划转
	var wallet model.Wallet
	require.NoError(t, db.Where("user_id = ?", testFreelancerID).First(&wallet).Error)
	assert.InDelta(t, 400.0, wallet.AvailableBalance, 0.001)
	assert.InDelta(t, 100.0, wallet.PendingBalance, 0.001)
}

func TestGetTransactionsPagination(t *testing.T) {
	db := newTestDB(t)
	wl := NewWalletLogic(db)

	for i := 0; i < 15; i++ {
		require.NoError(t, db.Create(&model.Transaction{
			UserID:    testFreelancerID,
			Type:      model.TransactionTypeDeposit,
			Amount:    float64(i + 1),
			Status:    model.TransactionStatusCompleted,
			Reference: "ref-" + string(rune('a'+i)),
		}).Error)
	}

	first, total, err := wl.GetTransactions(testFreelancerID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 15, total)
	assert.Len(t, first, 10)

	second, _, err := wl.GetTransactions(testFreelancerID, 2, 10)
	require.NoError(t, err)
	assert.Len(t, second, 5)

	// 其他用户的流水不可见
	other, total, err := wl.GetTransactions(99, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, other)
}
