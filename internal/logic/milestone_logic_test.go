package logic

import (
	"testing"

	"github.com/blues/fes/internal/apperr"
	"github.com/blues/fes/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitMilestone(t *testing.T) {
	db := newTestDB(t)
	contract := seedFixedContract(t, db, 500)
	milestone := contract.Milestones[0]
	ml := NewMilestoneLogic(db)

	// 未注资的里程碑不能提交
	_, err := ml.Submit(milestone.ID, testFreelancerID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	_, err = NewEscrowLogic(db).Fund(milestone.ID, testClientID, "OMT")
	require.NoError(t, err)

	// 只有自由职业者可以提交
	_, err = ml.Submit(milestone.ID, testClientID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	submitted, err := ml.Submit(milestone.ID, testFreelancerID)
	require.NoError(t, err)
	assert.Equal(t, model.MilestoneStatusSubmitted, submitted.Status)
	assert.NotNil(t, submitted.SubmittedAt)

	// 已提交的里程碑不能重复提交
	_, err = ml.Submit(milestone.ID, testFreelancerID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestSubmitAfterStart(t *testing.T) {
	db := newTestDB(t)
	contract := seedFixedContract(t, db, 500)
	milestone := contract.Milestones[0]
	ml := NewMilestoneLogic(db)

	_, err := NewEscrowLogic(db).Fund(milestone.ID, testClientID, "OMT")
	require.NoError(t, err)

	started, err := ml.Start(milestone.ID, testFreelancerID)
	require.NoError(t, err)
	assert.Equal(t, model.MilestoneStatusInProgress, started.Status)

	submitted, err := ml.Submit(milestone.ID, testFreelancerID)
	require.NoError(t, err)
	assert.Equal(t, model.MilestoneStatusSubmitted, submitted.Status)
}

func TestApproveMilestone(t *testing.T) {
	db := newTestDB(t)
	contract := seedFixedContract(t, db, 500)
	milestone := contract.Milestones[0]
	ml := NewMilestoneLogic(db)

	_, err := NewEscrowLogic(db).Fund(milestone.ID, testClientID, "OMT")
	require.NoError(t, err)

	// 未提交的里程碑不能验收
	_, err = ml.Approve(milestone.ID, testClientID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	_, err = ml.Submit(milestone.ID, testFreelancerID)
	require.NoError(t, err)

	// 只有客户可以验收
	_, err = ml.Approve(milestone.ID, testFreelancerID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	approved, err := ml.Approve(milestone.ID, testClientID)
	require.NoError(t, err)
	assert.Equal(t, model.MilestoneStatusApproved, approved.Status)
	assert.NotNil(t, approved.ApprovedAt)

	// 验收不发生资金变动
	var txCount int64
	require.NoError(t, db.Model(&model.Transaction{}).
		Where("type IN ?", []model.TransactionType{
			model.TransactionTypeEscrowRelease, model.TransactionTypeFee,
		}).Count(&txCount).Error)
	assert.Zero(t, txCount)

	// 已验收的里程碑状态不可回退
	_, err = ml.Submit(milestone.ID, testFreelancerID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestMilestoneNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := NewMilestoneLogic(db).Submit(999, testFreelancerID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListByContract(t *testing.T) {
	db := newTestDB(t)
	contract := seedFixedContract(t, db, 400, 600)
	ml := NewMilestoneLogic(db)

	_, err := ml.ListByContract(contract.ID, 99)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	milestones, err := ml.ListByContract(contract.ID, testFreelancerID)
	require.NoError(t, err)
	assert.Len(t, milestones, 2)
}
