package logic

import (
	"time"

	"github.com/blues/fes/internal/apperr"
	"github.com/blues/fes/internal/model"
	"gorm.io/gorm"
)

// MilestoneLogic 里程碑业务逻辑，负责提交/验收状态机
type MilestoneLogic struct {
	db *gorm.DB
}

// NewMilestoneLogic 创建里程碑业务逻辑
func NewMilestoneLogic(db *gorm.DB) *MilestoneLogic {
	return &MilestoneLogic{db: db}
}

// Start 自由职业者开始里程碑工作，funded -> in_progress
func (m *MilestoneLogic) Start(milestoneID, freelancerID uint) (*model.Milestone, error) {
	milestone, contract, err := loadMilestoneWithContract(m.db, milestoneID)
	if err != nil {
		return nil, err
	}
	if contract.FreelancerID != freelancerID {
		return nil, apperr.Forbidden("只有合同的自由职业者可以开始里程碑")
	}

	res := m.db.Model(&model.Milestone{}).
		Where("id = ? AND status = ?", milestoneID, model.MilestoneStatusFunded).
		Update("status", model.MilestoneStatusInProgress)
	if res.Error != nil {
		return nil, apperr.Internal(res.Error, "更新里程碑失败")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.InvalidState("里程碑状态为 %s，无法开始工作", milestone.Status)
	}

	return reloadMilestone(m.db, milestoneID)
}

// Submit 自由职业者提交里程碑成果，funded/in_progress -> submitted
func (m *MilestoneLogic) Submit(milestoneID, freelancerID uint) (*model.Milestone, error) {
	milestone, contract, err := loadMilestoneWithContract(m.db, milestoneID)
	if err != nil {
		return nil, err
	}
	if contract.FreelancerID != freelancerID {
		return nil, apperr.Forbidden("只有合同的自由职业者可以提交里程碑")
	}

	now := time.Now()
	res := m.db.Model(&model.Milestone{}).
		Where("id = ? AND status IN ?", milestoneID,
			[]model.MilestoneStatus{model.MilestoneStatusFunded, model.MilestoneStatusInProgress}).
		Updates(map[string]interface{}{
			"status":       model.MilestoneStatusSubmitted,
			"submitted_at": &now,
		})
	if res.Error != nil {
		return nil, apperr.Internal(res.Error, "更新里程碑失败")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.InvalidState("里程碑状态为 %s，无法提交", milestone.Status)
	}

	return reloadMilestone(m.db, milestoneID)
}

// Approve 客户验收里程碑，submitted -> approved，本操作不发生资金变动
func (m *MilestoneLogic) Approve(milestoneID, clientID uint) (*model.Milestone, error) {
	milestone, contract, err := loadMilestoneWithContract(m.db, milestoneID)
	if err != nil {
		return nil, err
	}
	if contract.ClientID != clientID {
		return nil, apperr.Forbidden("只有合同的客户可以验收里程碑")
	}

	now := time.Now()
	res := m.db.Model(&model.Milestone{}).
		Where("id = ? AND status = ?", milestoneID, model.MilestoneStatusSubmitted).
		Updates(map[string]interface{}{
			"status":      model.MilestoneStatusApproved,
			"approved_at": &now,
		})
	if res.Error != nil {
		return nil, apperr.Internal(res.Error, "更新里程碑失败")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.InvalidState("里程碑状态为 %s，无法验收", milestone.Status)
	}

	return reloadMilestone(m.db, milestoneID)
}

// ListByContract 获取合同下全部里程碑，仅限合同双方
func (m *MilestoneLogic) ListByContract(contractID, callerID uint) ([]model.Milestone, error) {
	var contract model.Contract
	if err := m.db.First(&contract, contractID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("合同不存在")
		}
		return nil, apperr.Internal(err, "查询合同失败")
	}
	if contract.ClientID != callerID && contract.FreelancerID != callerID {
		return nil, apperr.Forbidden("只有合同双方可以查看里程碑")
	}

	var milestones []model.Milestone
	if err := m.db.Where("contract_id = ?", contractID).
		Order("id ASC").Find(&milestones).Error; err != nil {
		return nil, apperr.Internal(err, "查询里程碑失败")
	}
	return milestones, nil
}

// loadMilestoneWithContract 加载里程碑及其所属合同
func loadMilestoneWithContract(db *gorm.DB, milestoneID uint) (*model.Milestone, *model.Contract, error) {
	var milestone model.Milestone
	if err := db.First(&milestone, milestoneID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperr.NotFound("里程碑不存在")
		}
		return nil, nil, apperr.Internal(err, "查询里程碑失败")
	}

	var contract model.Contract
	if err := db.First(&contract, milestone.ContractID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperr.NotFound("合同不存在")
		}
		return nil, nil, apperr.Internal(err, "查询合同失败")
	}

	return &milestone, &contract, nil
}

func reloadMilestone(db *gorm.DB, milestoneID uint) (*model.Milestone, error) {
	var milestone model.Milestone
	if err := db.First(&milestone, milestoneID).Error; err != nil {
		return nil, apperr.Internal(err, "查询里程碑失败")
	}
	return &milestone, nil
}
