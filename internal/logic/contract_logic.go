package logic

import (
	"errors"
	"math"
	"time"

	"github.com/blues/fes/internal/apperr"
	"github.com/blues/fes/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 固定总价合同里程碑金额与总额允许的误差
const milestoneSumTolerance = 0.01

// ContractLogic 合同业务逻辑
type ContractLogic struct {
	db *gorm.DB
}

// NewContractLogic 创建合同业务逻辑
func NewContractLogic(db *gorm.DB) *ContractLogic {
	return &ContractLogic{db: db}
}

// CreateContractInput 创建合同入参
type CreateContractInput struct {
	ProposalID   uint
	ContractType model.ContractType
	TotalAmount  float64
	HourlyRate   float64
	WeeklyLimit  int
	Milestones   []MilestoneInput
}

// MilestoneInput 里程碑入参
type MilestoneInput struct {
	Name        string
	Description string
	Amount      float64
	DueDate     *time.Time
}

// CreateContract 由已接受的提案创建合同及其全部里程碑
func (l *ContractLogic) CreateContract(clientID uint, input CreateContractInput) (*model.Contract, error) {
	var proposal model.Proposal
	if err := l.db.First(&proposal, input.ProposalID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("提案不存在")
		}
		return nil, apperr.Internal(err, "查询提案失败")
	}

	if proposal.Status != model.ProposalStatusAccepted {
		return nil, apperr.InvalidState("提案未被接受，无法创建合同")
	}

	// 通过职位归属校验客户身份
	var job model.Job
	if err := l.db.First(&job, proposal.JobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("职位不存在")
		}
		return nil, apperr.Internal(err, "查询职位失败")
	}
	if job.ClientID != clientID {
		return nil, apperr.Forbidden("只有职位发布者可以创建合同")
	}

	// 每个提案至多一份合同
	var existing model.Contract
	err := l.db.Where("proposal_id = ?", input.ProposalID).First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("该提案已存在合同")
	}
	if err != gorm.ErrRecordNotFound {
		return nil, apperr.Internal(err, "查询合同失败")
	}

	if err := validateContractInput(input); err != nil {
		return nil, err
	}

	contract := model.Contract{
		JobID:        proposal.JobID,
		ProposalID:   proposal.ID,
		ClientID:     clientID,
		FreelancerID: proposal.FreelancerID,
		ContractType: input.ContractType,
		TotalAmount:  input.TotalAmount,
		HourlyRate:   input.HourlyRate,
		WeeklyLimit:  input.WeeklyLimit,
		Status:       model.ContractStatusPending,
	}

	// 合同与里程碑在同一事务内落库
	if err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&contract).Error; err != nil {
			return err
		}
		for _, m := range input.Milestones {
			milestone := model.Milestone{
				ContractID:  contract.ID,
				Name:        m.Name,
				Description: m.Description,
				Amount:      m.Amount,
				DueDate:     m.DueDate,
				Status:      model.MilestoneStatusPending,
			}
			if err := tx.Create(&milestone).Error; err != nil {
				return err
			}
			contract.Milestones = append(contract.Milestones, milestone)
		}
		return nil
	}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("该提案已存在合同")
		}
		return nil, apperr.Internal(err, "创建合同失败")
	}

	return &contract, nil
}

// validateContractInput 按合同类型校验入参
func validateContractInput(input CreateContractInput) error {
	sum := 0.0
	for _, m := range input.Milestones {
		if m.Name == "" {
			return apperr.Validation("里程碑名称不能为空")
		}
		if m.Amount <= 0 {
			return apperr.Validation("里程碑金额必须大于0")
		}
		sum += m.Amount
	}

	switch input.ContractType {
	case model.ContractTypeFixed:
		if input.TotalAmount <= 0 {
			return apperr.Validation("固定总价合同必须提供总金额")
		}
		if len(input.Milestones) == 0 {
			return apperr.Validation("固定总价合同必须包含至少一个里程碑")
		}
		if math.Abs(sum-input.TotalAmount) > milestoneSumTolerance {
			return apperr.Validation("里程碑金额合计 %.2f 与合同总额 %.2f 不一致", sum, input.TotalAmount)
		}
	case model.ContractTypeHourly:
		if input.HourlyRate <= 0 {
			return apperr.Validation("按小时计费合同必须提供时薪")
		}
	default:
		return apperr.Validation("未知的合同类型: %s", input.ContractType)
	}
	return nil
}

// GetContract 获取合同详情（含里程碑），仅限合同双方
func (l *ContractLogic) GetContract(contractID, callerID uint) (*model.Contract, error) {
	var contract model.Contract
	if err := l.db.Preload("Milestones").First(&contract, contractID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("合同不存在")
		}
		return nil, apperr.Internal(err, "查询合同失败")
	}
	if contract.ClientID != callerID && contract.FreelancerID != callerID {
		return nil, apperr.Forbidden("只有合同双方可以查看合同")
	}
	return &contract, nil
}

// ListContracts 获取用户参与的合同列表
func (l *ContractLogic) ListContracts(callerID uint, page, pageSize int) ([]model.Contract, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	// 获取总数
	var total int64
	if err := l.db.Model(&model.Contract{}).
		Where("client_id = ? OR freelancer_id = ?", callerID, callerID).
		Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal(err, "查询合同总数失败")
	}

	// 获取数据
	var contracts []model.Contract
	if err := l.db.Where("client_id = ? OR freelancer_id = ?", callerID, callerID).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&contracts).Error; err != nil {
		return nil, 0, apperr.Internal(err, "查询合同列表失败")
	}

	return contracts, total, nil
}

// UpdateStatus 更新合同状态
// active/cancelled 仅客户可设置，paused 双方均可，completed 要求全部里程碑已验收
func (l *ContractLogic) UpdateStatus(contractID, callerID uint, status model.ContractStatus) (*model.Contract, error) {
	if !status.IsValid() {
		return nil, apperr.Validation("未知的合同状态: %s", status)
	}

	var contract model.Contract
	if err := l.db.First(&contract, contractID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("合同不存在")
		}
		return nil, apperr.Internal(err, "查询合同失败")
	}

	isClient := contract.ClientID == callerID
	isFreelancer := contract.FreelancerID == callerID
	if !isClient && !isFreelancer {
		return nil, apperr.Forbidden("只有合同双方可以更新合同状态")
	}

	switch status {
	case model.ContractStatusActive, model.ContractStatusCancelled:
		if !isClient {
			return nil, apperr.Forbidden("只有客户可以设置该合同状态")
		}
	case model.ContractStatusPaused, model.ContractStatusCompleted:
		// 双方均可
	default:
		return nil, apperr.Forbidden("不支持直接设置该合同状态")
	}

	if !contract.Status.CanTransitionTo(status) {
		return nil, apperr.InvalidState("合同状态不允许从 %s 转移到 %s", contract.Status, status)
	}

	if status == model.ContractStatusCompleted {
		var unapproved int64
		if err := l.db.Model(&model.Milestone{}).
			Where("contract_id = ? AND status <> ?", contractID, model.MilestoneStatusApproved).
			Count(&unapproved).Error; err != nil {
			return nil, apperr.Internal(err, "查询里程碑失败")
		}
		if unapproved > 0 {
			return nil, apperr.InvalidState("存在未验收的里程碑，合同无法完成")
		}
	}

	if err := l.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": status}
		if status == model.ContractStatusCompleted {
			now := time.Now()
			updates["completed_at"] = &now
		}

		// 以当前状态为条件写入，并发冲突时回退
		res := tx.Model(&model.Contract{}).
			Where("id = ? AND status = ?", contractID, contract.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.InvalidState("合同状态已变更，请重试")
		}

		// 完成时一次性累加自由职业者统计，状态转移表保证不会重复计入
		if status == model.ContractStatusCompleted {
			if err := incrementFreelancerStats(tx, contract.FreelancerID, contract.TotalAmount); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		if ae, ok := err.(*apperr.Error); ok {
			return nil, ae
		}
		return nil, apperr.Internal(err, "更新合同状态失败")
	}

	return l.reload(contractID)
}

func (l *ContractLogic) reload(contractID uint) (*model.Contract, error) {
	var contract model.Contract
	if err := l.db.First(&contract, contractID).Error; err != nil {
		return nil, apperr.Internal(err, "查询合同失败")
	}
	return &contract, nil
}

// incrementFreelancerStats 原子递增完成数与累计收入，档案不存在时先建档
func incrementFreelancerStats(tx *gorm.DB, freelancerID uint, earnings float64) error {
	profile := model.FreelancerProfile{UserID: freelancerID}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&profile).Error; err != nil {
		return err
	}
	return tx.Model(&model.FreelancerProfile{}).
		Where("user_id = ?", freelancerID).
		Updates(map[string]interface{}{
			"completed_jobs": gorm.Expr("completed_jobs + 1"),
			"total_earnings": gorm.Expr("total_earnings + ?", earnings),
		}).Error
}
