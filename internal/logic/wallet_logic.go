package logic

import (
	"fmt"

	"github.com/blues/fes/internal/apperr"
	"github.com/blues/fes/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 各提现方式的最低金额
var withdrawalMinimums = map[string]float64{
	model.WithdrawalMethodOMT:          20,
	model.WithdrawalMethodWhish:        10,
	model.WithdrawalMethodBankTransfer: 100,
}

// 未配置的提现方式使用默认最低金额
const defaultWithdrawalMinimum = 20

// WalletLogic 钱包业务逻辑
type WalletLogic struct {
	db *gorm.DB
}

// NewWalletLogic 创建钱包业务逻辑
func NewWalletLogic(db *gorm.DB) *WalletLogic {
	return &WalletLogic{db: db}
}

// GetWallet 获取用户钱包，不存在时创建零余额钱包
func (w *WalletLogic) GetWallet(userID uint) (*model.Wallet, error) {
	return getOrCreateWallet(w.db, userID)
}

// GetTransactions 分页获取用户账务流水
func (w *WalletLogic) GetTransactions(userID uint, page, pageSize int) ([]model.Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	// 获取总数
	var total int64
	if err := w.db.Model(&model.Transaction{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal(err, "查询流水总数失败")
	}

	// 获取数据
	var transactions []model.Transaction
	if err := w.db.Where("user_id = ?", userID).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, 0, apperr.Internal(err, "查询流水失败")
	}

	return transactions, total, nil
}

// RequestWithdrawal 申请提现：校验最低限额后，在单个事务内
// 创建待处理提现流水并完成可用余额到待处理余额的双向划转
func (w *WalletLogic) RequestWithdrawal(userID uint, amount float64, method string) (*model.Transaction, string, error) {
	if amount <= 0 {
		return nil, "", apperr.Validation("提现金额必须大于0")
	}

	minimum, ok := withdrawalMinimums[method]
	if !ok {
		minimum = defaultWithdrawalMinimum
	}
	if amount < minimum {
		return nil, "", apperr.BelowMinimum("%s 提现最低金额为 %.2f USD", method, minimum)
	}

	transaction := model.Transaction{
		UserID:        userID,
		Type:          model.TransactionTypeWithdrawal,
		Amount:        amount,
		Currency:      "USD",
		PaymentMethod: method,
		Status:        model.TransactionStatusPending,
		Reference:     uuid.NewString(),
		Description:   fmt.Sprintf("提现申请: %s", method),
	}

	if err := w.db.Transaction(func(tx *gorm.DB) error {
		if _, err := getOrCreateWallet(tx, userID); err != nil {
			return err
		}

		// 余额校验与双向划转在一条语句内完成，余额不足时不产生任何变更
		res := tx.Model(&model.Wallet{}).
			Where("user_id = ? AND available_balance >= ?", userID, amount).
			Updates(map[string]interface{}{
				"available_balance": gorm.Expr("available_balance - ?", amount),
				"pending_balance":   gorm.Expr("pending_balance + ?", amount),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.InsufficientFunds("可用余额不足")
		}

		return tx.Create(&transaction).Error
	}); err != nil {
		if ae, ok := err.(*apperr.Error); ok {
			return nil, "", ae
		}
		return nil, "", apperr.Internal(err, "提现申请失败")
	}

	return &transaction, "提现申请已受理，预计1-3个工作日到账", nil
}
