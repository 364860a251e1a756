package logic

import (
	"testing"

	"github.com/blues/fes/internal/database"
	"github.com/blues/fes/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testClientID     = uint(1)
	testFreelancerID = uint(2)
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

// seedProposal 建立职位与已接受提案
func seedProposal(t *testing.T, db *gorm.DB) *model.Proposal {
	t.Helper()

	job := model.Job{ClientID: testClientID, Title: "网站开发"}
	require.NoError(t, db.Create(&job).Error)

	proposal := model.Proposal{
		JobID:        job.ID,
		FreelancerID: testFreelancerID,
		Status:       model.ProposalStatusAccepted,
	}
	require.NoError(t, db.Create(&proposal).Error)
	return &proposal
}

// seedFixedContract 建立固定总价合同及里程碑
func seedFixedContract(t *testing.T, db *gorm.DB, amounts ...float64) *model.Contract {
	t.Helper()

	proposal := seedProposal(t, db)

	total := 0.0
	var milestones []MilestoneInput
	for i, amount := range amounts {
		total += amount
		milestones = append(milestones, MilestoneInput{
			Name:   "里程碑" + string(rune('A'+i)),
			Amount: amount,
		})
	}

	contract, err := NewContractLogic(db).CreateContract(testClientID, CreateContractInput{
		ProposalID:   proposal.ID,
		ContractType: model.ContractTypeFixed,
		TotalAmount:  total,
		Milestones:   milestones,
	})
	require.NoError(t, err)
	require.Len(t, contract.Milestones, len(amounts))
	return contract
}
