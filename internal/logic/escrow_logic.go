package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/blues/fes/internal/apperr"
	"github.com/blues/fes/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EscrowLogic 托管账务引擎，负责里程碑注资与放款
type EscrowLogic struct {
	db *gorm.DB
}

// NewEscrowLogic 创建托管账务引擎
func NewEscrowLogic(db *gorm.DB) *EscrowLogic {
	return &EscrowLogic{db: db}
}

// FundResult 注资结果
type FundResult struct {
	Transaction         *model.Transaction `json:"transaction"`
	Milestone           *model.Milestone   `json:"milestone"`
	PaymentInstructions string             `json:"payment_instructions"`
}

// ReleaseResult 放款结果
type ReleaseResult struct {
	GrossAmount      float64 `json:"gross_amount"`
	PlatformFee      float64 `json:"platform_fee"`
	FreelancerAmount float64 `json:"freelancer_amount"`
	FeePercentage    float64 `json:"fee_percentage"`
}

// Fund 客户为里程碑注资，pending -> funded
// 注意：里程碑在外部支付确认前即标记为 funded，支付确认由线下流程完成
func (e *EscrowLogic) Fund(milestoneID, clientID uint, paymentMethod string) (*FundResult, error) {
	milestone, contract, err := loadMilestoneWithContract(e.db, milestoneID)
	if err != nil {
		return nil, err
	}
	if contract.ClientID != clientID {
		return nil, apperr.Forbidden("只有合同的客户可以注资里程碑")
	}
	if milestone.Status != model.MilestoneStatusPending {
		return nil, apperr.Conflict("里程碑已注资")
	}

	reference := uuid.NewString()
	transaction := model.Transaction{
		UserID:        clientID,
		ContractID:    &contract.ID,
		MilestoneID:   &milestone.ID,
		Type:          model.TransactionTypeEscrowFund,
		Amount:        milestone.Amount,
		Currency:      "USD",
		PaymentMethod: paymentMethod,
		Status:        model.TransactionStatusPending,
		Reference:     reference,
		Description:   fmt.Sprintf("里程碑注资: %s", milestone.Name),
	}

	if err := e.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&model.Milestone{}).
			Where("id = ? AND status = ?", milestoneID, model.MilestoneStatusPending).
			Updates(map[string]interface{}{
				"status":    model.MilestoneStatusFunded,
				"funded_at": &now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("里程碑已注资")
		}
		return tx.Create(&transaction).Error
	}); err != nil {
		if ae, ok := err.(*apperr.Error); ok {
			return nil, ae
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("里程碑已注资")
		}
		return nil, apperr.Internal(err, "里程碑注资失败")
	}

	funded, err := reloadMilestone(e.db, milestoneID)
	if err != nil {
		return nil, err
	}

	instructions := fmt.Sprintf("请通过 %s 向平台账户支付 %.2f USD，备注参考号 %s",
		paymentMethod, milestone.Amount, reference)

	return &FundResult{
		Transaction:         &transaction,
		Milestone:           funded,
		PaymentInstructions: instructions,
	}, nil
}

// Release 客户放款：计算梯度手续费后，在单个事务内完成
// 放款流水、手续费流水、钱包入账、里程碑验收、档案累计五项写入
func (e *EscrowLogic) Release(milestoneID, clientID uint) (*ReleaseResult, error) {
	milestone, contract, err := loadMilestoneWithContract(e.db, milestoneID)
	if err != nil {
		return nil, err
	}
	if contract.ClientID != clientID {
		return nil, apperr.Forbidden("只有合同的客户可以放款")
	}
	if milestone.Status != model.MilestoneStatusSubmitted && milestone.Status != model.MilestoneStatusApproved {
		return nil, apperr.InvalidState("里程碑状态为 %s，无法放款", milestone.Status)
	}

	// 费率锚点：双方已完成合同的总额，按次实时计算，不含本次放款
	priorEarnings, err := e.priorEarnings(contract)
	if err != nil {
		return nil, err
	}

	fee := PlatformFee(milestone.Amount, priorEarnings)
	freelancerAmount := round2(milestone.Amount - fee)
	feePercentage := 0.0
	if milestone.Amount > 0 {
		feePercentage = round2(fee / milestone.Amount * 100)
	}

	if err := e.db.Transaction(func(tx *gorm.DB) error {
		// 已放款的里程碑直接拒绝
		var released int64
		if err := tx.Model(&model.Transaction{}).
			Where("milestone_id = ? AND type = ?", milestoneID, model.TransactionTypeEscrowRelease).
			Count(&released).Error; err != nil {
			return err
		}
		if released > 0 {
			return apperr.InvalidState("里程碑已放款")
		}

		updates := map[string]interface{}{"status": model.MilestoneStatusApproved}
		if milestone.ApprovedAt == nil {
			now := time.Now()
			updates["approved_at"] = &now
		}
		res := tx.Model(&model.Milestone{}).
			Where("id = ? AND status IN ?", milestoneID,
				[]model.MilestoneStatus{model.MilestoneStatusSubmitted, model.MilestoneStatusApproved}).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.InvalidState("里程碑状态为 %s，无法放款", milestone.Status)
		}

		now := time.Now()
		releaseTx := model.Transaction{
			UserID:      contract.FreelancerID,
			ContractID:  &contract.ID,
			MilestoneID: &milestone.ID,
			Type:        model.TransactionTypeEscrowRelease,
			Amount:      freelancerAmount,
			Currency:    "USD",
			Status:      model.TransactionStatusCompleted,
			Reference:   uuid.NewString(),
			Description: fmt.Sprintf("里程碑放款: %s", milestone.Name),
			CompletedAt: &now,
		}
		if err := tx.Create(&releaseTx).Error; err != nil {
			return err
		}

		feeTx := model.Transaction{
			UserID:      contract.ClientID,
			ContractID:  &contract.ID,
			MilestoneID: &milestone.ID,
			Type:        model.TransactionTypeFee,
			Amount:      fee,
			Currency:    "USD",
			Status:      model.TransactionStatusCompleted,
			Reference:   uuid.NewString(),
			Description: fmt.Sprintf("平台手续费: %s", milestone.Name),
			CompletedAt: &now,
		}
		if err := tx.Create(&feeTx).Error; err != nil {
			return err
		}

		// 钱包入账，余额只做原子递增
		if _, err := getOrCreateWallet(tx, contract.FreelancerID); err != nil {
			return err
		}
		if err := tx.Model(&model.Wallet{}).
			Where("user_id = ?", contract.FreelancerID).
			Updates(map[string]interface{}{
				"available_balance": gorm.Expr("available_balance + ?", freelancerAmount),
				"total_earned":      gorm.Expr("total_earned + ?", freelancerAmount),
			}).Error; err != nil {
			return err
		}

		// 档案累计收入同事务内递增
		return incrementFreelancerEarnings(tx, contract.FreelancerID, freelancerAmount)
	}); err != nil {
		if ae, ok := err.(*apperr.Error); ok {
			return nil, ae
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.InvalidState("里程碑已放款")
		}
		return nil, apperr.Internal(err, "里程碑放款失败")
	}

	return &ReleaseResult{
		GrossAmount:      milestone.Amount,
		PlatformFee:      fee,
		FreelancerAmount: freelancerAmount,
		FeePercentage:    feePercentage,
	}, nil
}

// priorEarnings 双方已完成合同的总额合计，排除当前合同
func (e *EscrowLogic) priorEarnings(contract *model.Contract) (float64, error) {
	var prior float64
	if err := e.db.Model(&model.Contract{}).
		Where("client_id = ? AND freelancer_id = ? AND status = ? AND id <> ?",
			contract.ClientID, contract.FreelancerID, model.ContractStatusCompleted, contract.ID).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&prior).Error; err != nil {
		return 0, apperr.Internal(err, "查询历史收入失败")
	}
	return prior, nil
}

// getOrCreateWallet 幂等获取钱包，并发首次访问只会创建一条记录
func getOrCreateWallet(db *gorm.DB, userID uint) (*model.Wallet, error) {
	wallet := model.Wallet{UserID: userID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&wallet).Error; err != nil {
		return nil, apperr.Internal(err, "创建钱包失败")
	}

	// 插入被冲突忽略时重新读取
	if err := db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, apperr.Internal(err, "查询钱包失败")
	}
	return &wallet, nil
}

// incrementFreelancerEarnings 原子递增档案累计收入，档案不存在时先建档
func incrementFreelancerEarnings(tx *gorm.DB, freelancerID uint, earnings float64) error {
	profile := model.FreelancerProfile{UserID: freelancerID}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&profile).Error; err != nil {
		return err
	}
	return tx.Model(&model.FreelancerProfile{}).
		Where("user_id = ?", freelancerID).
		Update("total_earnings", gorm.Expr("total_earnings + ?", earnings)).Error
}
