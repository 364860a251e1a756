package logic

import (
	"testing"

	"github.com/blues/fes/internal/apperr"
	"github.com/blues/fes/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateContractFixed(t *testing.T) {
	db := newTestDB(t)
	contract := seedFixedContract(t, db, 400, 600)

	assert.Equal(t, model.ContractStatusPending, contract.Status)
	assert.Equal(t, testClientID, contract.ClientID)
	assert.Equal(t, testFreelancerID, contract.FreelancerID)
	assert.Equal(t, 1000.0, contract.TotalAmount)
	for _, m := range contract.Milestones {
		assert.Equal(t, model.MilestoneStatusPending, m.Status)
	}
}

func TestCreateContractMilestoneSumMismatch(t *testing.T) {
	db := newTestDB(t)
	proposal := seedProposal(t, db)

	_, err := NewContractLogic(db).CreateContract(testClientID, CreateContractInput{
		ProposalID:   proposal.ID,
		ContractType: model.ContractTypeFixed,
		TotalAmount:  1000,
		Milestones: []MilestoneInput{
			{Name: "设计", Amount: 400},
			{Name: "开发", Amount: 500},
		},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	// 校验失败时不应写入任何记录
	var count int64
	require.NoError(t, db.Model(&model.Contract{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.Milestone{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateContractSumWithinTolerance(t *testing.T) {
	db := newTestDB(t)
	proposal := seedProposal(t, db)

	_, err := NewContractLogic(db).CreateContract(testClientID, CreateContractInput{
		ProposalID:   proposal.ID,
		ContractType: model.ContractTypeFixed,
		TotalAmount:  100,
		Milestones: []MilestoneInput{
			{Name: "设计", Amount: 33.33},
			{Name: "开发", Amount: 33.33},
			{Name: "交付", Amount: 33.34},
		},
	})
	require.NoError(t, err)
}

func TestCreateContractValidation(t *testing.T) {
	db := newTestDB(t)
	cl := NewContractLogic(db)

	t.Run("提案不存在", func(t *testing.T) {
		_, err := cl.CreateContract(testClientID, CreateContractInput{
			ProposalID:   999,
			ContractType: model.ContractTypeHourly,
			HourlyRate:   50,
		})
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})

	proposal := seedProposal(t, db)

	t.Run("非职位发布者", func(t *testing.T) {
		_, err := cl.CreateContract(testFreelancerID, CreateContractInput{
			ProposalID:   proposal.ID,
			ContractType: model.ContractTypeHourly,
			HourlyRate:   50,
		})
		assert.True(t, apperr.Is(err, apperr.KindForbidden))
	})

	t.Run("固定总价无里程碑", func(t *testing.T) {
		_, err := cl.CreateContract(testClientID, CreateContractInput{
			ProposalID:   proposal.ID,
			ContractType: model.ContractTypeFixed,
			TotalAmount:  1000,
		})
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("按小时计费无时薪", func(t *testing.T) {
		_, err := cl.CreateContract(testClientID, CreateContractInput{
			ProposalID:   proposal.ID,
			ContractType: model.ContractTypeHourly,
		})
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})
}

func TestCreateContractProposalNotAccepted(t *testing.T) {
	db := newTestDB(t)

	job := model.Job{ClientID: testClientID}
	require.NoError(t, db.Create(&job).Error)
	proposal := model.Proposal{JobID: job.ID, FreelancerID: testFreelancerID, Status: model.ProposalStatusPending}
	require.NoError(t, db.Create(&proposal).Error)

	_, err := NewContractLogic(db).CreateContract(testClientID, CreateContractInput{
		ProposalID:   proposal.ID,
		ContractType: model.ContractTypeHourly,
		HourlyRate:   50,
	})
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestCreateContractDuplicateProposal(t *testing.T) {
	db := newTestDB(t)
	contract := seedFixedContract(t, db, 500)

	_, err := NewContractLogic(db).CreateContract(testClientID, CreateContractInput{
		ProposalID:   contract.ProposalID,
		ContractType: model.ContractTypeHourly,
		HourlyRate:   50,
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestUpdateStatusRoles(t *testing.T) {
	db := newTestDB(t)
	contract := seedFixedContract(t, db, 500)
	cl := NewContractLogic(db)

	// 自由职业者不能激活合同
	_, err := cl.UpdateStatus(contract.ID, testFreelancerID, model.ContractStatusActive)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	// 第三方无权操作
	_, err = cl.UpdateStatus(contract.ID, 99, model.ContractStatusPaused)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	// 客户激活
	updated, err := cl.UpdateStatus(contract.ID, testClientID, model.ContractStatusActive)
	require.NoError(t, err)
	assert.Equal(t, model.ContractStatusActive, updated.Status)

	// 双方均可暂停
	updated, err = cl.UpdateStatus(contract.ID, testFreelancerID, model.ContractStatusPaused)
	require.NoError(t, err)
	assert.Equal(t, model.ContractStatusPaused, updated.Status)

	// 暂停状态不能直接完成
	_, err = cl.UpdateStatus(contract.ID, testClientID, model.ContractStatusCompleted)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestUpdateStatusCompleteRequiresApprovedMilestones(t *testing.T) {
	db := newTestDB(t)
	contract := seedFixedContract(t, db, 400, 600)
	cl := NewContractLogic(db)

	_, err := cl.UpdateStatus(contract.ID, testClientID, model.ContractStatusActive)
	require.NoError(t, err)

	// 存在未验收里程碑时无法完成
	_, err = cl.UpdateStatus(contract.ID, testClientID, model.ContractStatusCompleted)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	require.NoError(t, db.Model(&model.Milestone{}).
		Where("contract_id = ?", contract.ID).
		Update("status", model.MilestoneStatusApproved).Error)

	updated, err := cl.UpdateStatus(contract.ID, testClientID, model.ContractStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.ContractStatusCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)

	// 完成时一次性累加自由职业者统计
	var profile model.FreelancerProfile
	require.NoError(t, db.Where("user_id = ?", testFreelancerID).First(&profile).Error)
	assert.Equal(t, 1, profile.CompletedJobs)
	assert.InDelta(t, 1000.0, profile.TotalEarnings, 0.001)

	// 已完成合同不能再次完成，统计不会重复计入
	_, err = cl.UpdateStatus(contract.ID, testClientID, model.ContractStatusCompleted)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	require.NoError(t, db.Where("user_id = ?", testFreelancerID).First(&profile).Error)
	assert.Equal(t, 1, profile.CompletedJobs)
}
