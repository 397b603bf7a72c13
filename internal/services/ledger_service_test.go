package services

import (
	"testing"

	"github.com/minaharu/timebank-api/internal/constants"
	"github.com/minaharu/timebank-api/internal/identity"
	"github.com/minaharu/timebank-api/internal/models"
	"github.com/minaharu/timebank-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// LedgerServiceTestSuite defines the test suite for LedgerService
type LedgerServiceTestSuite struct {
	suite.Suite
	db         *gorm.DB
	taskRepo   repository.TaskRepository
	creditRepo repository.CreditRepository
	ledger     *LedgerService
}

// SetupTest runs before each test
func (suite *LedgerServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.UserCredit{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	suite.taskRepo = repository.NewTaskRepository(suite.db)
	suite.creditRepo = repository.NewCreditRepository(suite.db)
	suite.ledger = NewLedgerService(suite.db, suite.taskRepo, suite.creditRepo, true)
}

// TearDownTest runs after each test
func (suite *LedgerServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *LedgerServiceTestSuite) createCredit(userID string, minutes int) *models.UserCredit {
	credit := &models.UserCredit{
		UserID:      userID,
		DisplayName: "User " + userID,
		Email:       userID + "@example.com",
		TimeCredits: minutes,
	}
	suite.Require().NoError(suite.db.Create(credit).Error)
	return credit
}

func (suite *LedgerServiceTestSuite) createTask(durationHours int, status models.TaskStatus, takenBy *string) *models.Task {
	task := &models.Task{
		Title:       "Test Task",
		Description: "Test Description",
		Duration:    durationHours,
		Status:      status,
		PostedBy:    "Poster",
		PostedByID:  "poster-1",
		PosterEmail: "poster@example.com",
		TakenBy:     takenBy,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *LedgerServiceTestSuite) balance(userID string) int {
	balance, err := suite.ledger.GetBalance(userID)
	suite.Require().NoError(err)
	return balance
}

func (suite *LedgerServiceTestSuite) reloadTask(id string) *models.Task {
	task, err := suite.taskRepo.FindByID(id)
	suite.Require().NoError(err)
	return task
}

// TestTakeTask_Success covers a take within budget: 180 minutes minus a
// one-hour task leaves 120 and reserves the task.
func (suite *LedgerServiceTestSuite) TestTakeTask_Success() {
	suite.createCredit("u1", 180)
	task := suite.createTask(1, models.TaskStatusAvailable, nil)

	taken, err := suite.ledger.TakeTask(task.ID, "u1")
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.TaskStatusTaken, taken.Status)
	suite.Require().NotNil(taken.TakenBy)
	assert.Equal(suite.T(), "u1", *taken.TakenBy)
	assert.Equal(suite.T(), 120, suite.balance("u1"))
}

// TestTakeTask_InsufficientCredits covers the sufficiency check: a 100-minute
// balance cannot cover a two-hour task, and nothing mutates.
func (suite *LedgerServiceTestSuite) TestTakeTask_InsufficientCredits() {
	suite.createCredit("u1", 100)
	task := suite.createTask(2, models.TaskStatusAvailable, nil)

	_, err := suite.ledger.TakeTask(task.ID, "u1")

	var insufficient *InsufficientCreditsError
	suite.Require().ErrorAs(err, &insufficient)
	assert.Equal(suite.T(), 120, insufficient.Required)
	assert.Equal(suite.T(), 100, insufficient.Available)

	assert.Equal(suite.T(), 100, suite.balance("u1"))
	assert.Equal(suite.T(), models.TaskStatusAvailable, suite.reloadTask(task.ID).Status)
}

// TestTakeTask_ExactBalance allows taking a task whose cost equals the balance.
func (suite *LedgerServiceTestSuite) TestTakeTask_ExactBalance() {
	suite.createCredit("u1", 120)
	task := suite.createTask(2, models.TaskStatusAvailable, nil)

	_, err := suite.ledger.TakeTask(task.ID, "u1")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 0, suite.balance("u1"))
}

func (suite *LedgerServiceTestSuite) TestTakeTask_TaskNotFound() {
	suite.createCredit("u1", 180)

	_, err := suite.ledger.TakeTask("missing-id", "u1")
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

// TestTakeTask_AlreadyTaken rejects a double take and leaves the second
// user's balance untouched.
func (suite *LedgerServiceTestSuite) TestTakeTask_AlreadyTaken() {
	suite.createCredit("u1", 180)
	suite.createCredit("u2", 180)
	task := suite.createTask(1, models.TaskStatusAvailable, nil)

	_, err := suite.ledger.TakeTask(task.ID, "u1")
	suite.Require().NoError(err)

	_, err = suite.ledger.TakeTask(task.ID, "u2")
	assert.ErrorIs(suite.T(), err, ErrTaskNotAvailable)
	assert.Equal(suite.T(), 180, suite.balance("u2"))
}

// TestReserveGuard_AlreadyTakenChangesNothing: the reservation write itself
// refuses a task that is no longer available, so a taker that lost a race
// cannot overwrite the winner's reservation.
func (suite *LedgerServiceTestSuite) TestReserveGuard_AlreadyTakenChangesNothing() {
	taker := "u1"
	task := suite.createTask(1, models.TaskStatusTaken, &taker)

	reserved, err := suite.taskRepo.Reserve(task.ID, "u2")
	suite.Require().NoError(err)
	assert.False(suite.T(), reserved)

	reloaded := suite.reloadTask(task.ID)
	assert.Equal(suite.T(), models.TaskStatusTaken, reloaded.Status)
	suite.Require().NotNil(reloaded.TakenBy)
	assert.Equal(suite.T(), "u1", *reloaded.TakenBy)
}

// TestTakeTask_NoCreditRecord treats a missing credit record as a zero balance.
func (suite *LedgerServiceTestSuite) TestTakeTask_NoCreditRecord() {
	task := suite.createTask(1, models.TaskStatusAvailable, nil)

	_, err := suite.ledger.TakeTask(task.ID, "ghost")

	var insufficient *InsufficientCreditsError
	suite.Require().ErrorAs(err, &insufficient)
	assert.Equal(suite.T(), 0, insufficient.Available)
}

// TestTakeTask_SequentialMode exercises the historical non-transactional
// path; the happy-path observable behavior matches the atomic one.
func (suite *LedgerServiceTestSuite) TestTakeTask_SequentialMode() {
	ledger := NewLedgerService(suite.db, suite.taskRepo, suite.creditRepo, false)

	suite.createCredit("u1", 180)
	task := suite.createTask(1, models.TaskStatusAvailable, nil)

	taken, err := ledger.TakeTask(task.ID, "u1")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TaskStatusTaken, taken.Status)
	assert.Equal(suite.T(), 120, suite.balance("u1"))
}

// TestCompleteTask_Success credits the flat reward and stamps completion.
func (suite *LedgerServiceTestSuite) TestCompleteTask_Success() {
	suite.createCredit("u1", 120)
	taker := "u1"
	task := suite.createTask(2, models.TaskStatusTaken, &taker)

	completed, err := suite.ledger.CompleteTask(task.ID, "u1")
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.TaskStatusCompleted, completed.Status)
	assert.NotNil(suite.T(), completed.CompletedAt)
	assert.Equal(suite.T(), 120+constants.CompletionRewardMinutes, suite.balance("u1"))
}

func (suite *LedgerServiceTestSuite) TestCompleteTask_TaskNotFound() {
	suite.createCredit("u1", 120)

	_, err := suite.ledger.CompleteTask("missing-id", "u1")
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

// TestCompleteTask_CreditsNotFound: inside the completion transaction a
// missing credit record is fatal, and the task must stay untouched.
func (suite *LedgerServiceTestSuite) TestCompleteTask_CreditsNotFound() {
	taker := "ghost"
	task := suite.createTask(1, models.TaskStatusTaken, &taker)

	_, err := suite.ledger.CompleteTask(task.ID, "ghost")
	assert.ErrorIs(suite.T(), err, ErrCreditsNotFound)

	reloaded := suite.reloadTask(task.ID)
	assert.Equal(suite.T(), models.TaskStatusTaken, reloaded.Status)
	assert.Nil(suite.T(), reloaded.CompletedAt)
}

func (suite *LedgerServiceTestSuite) TestCompleteTask_NotTaken() {
	suite.createCredit("u1", 120)
	task := suite.createTask(1, models.TaskStatusAvailable, nil)

	_, err := suite.ledger.CompleteTask(task.ID, "u1")
	assert.ErrorIs(suite.T(), err, ErrTaskNotTaken)
	assert.Equal(suite.T(), 120, suite.balance("u1"))
}

func (suite *LedgerServiceTestSuite) TestCompleteTask_WrongTaker() {
	suite.createCredit("u1", 120)
	suite.createCredit("u2", 120)
	taker := "u1"
	task := suite.createTask(1, models.TaskStatusTaken, &taker)

	_, err := suite.ledger.CompleteTask(task.ID, "u2")
	assert.ErrorIs(suite.T(), err, ErrNotTaskTaker)
	assert.Equal(suite.T(), 120, suite.balance("u2"))
}

// TestCompleteTask_AlreadyCompleted: a completed task never reverts and
// cannot be completed twice for a second reward.
func (suite *LedgerServiceTestSuite) TestCompleteTask_AlreadyCompleted() {
	suite.createCredit("u1", 120)
	taker := "u1"
	task := suite.createTask(1, models.TaskStatusTaken, &taker)

	_, err := suite.ledger.CompleteTask(task.ID, "u1")
	suite.Require().NoError(err)
	balanceAfter := suite.balance("u1")

	_, err = suite.ledger.CompleteTask(task.ID, "u1")
	assert.ErrorIs(suite.T(), err, ErrTaskNotTaken)
	assert.Equal(suite.T(), models.TaskStatusCompleted, suite.reloadTask(task.ID).Status)
	assert.Equal(suite.T(), balanceAfter, suite.balance("u1"))
}

// TestEnsureInitialized_Idempotent: the starting balance is granted exactly
// once, and a spent balance is not reset by a later initialization.
func (suite *LedgerServiceTestSuite) TestEnsureInitialized_Idempotent() {
	ident := identity.Identity{UID: "u1", DisplayName: "Ann", Email: "ann@x.com"}

	suite.Require().NoError(suite.ledger.EnsureInitialized(ident))
	assert.Equal(suite.T(), constants.StartingBalanceMinutes, suite.balance("u1"))

	suite.Require().NoError(suite.ledger.EnsureInitialized(ident))
	assert.Equal(suite.T(), constants.StartingBalanceMinutes, suite.balance("u1"))

	suite.Require().NoError(suite.creditRepo.UpdateBalance("u1", 30))
	suite.Require().NoError(suite.ledger.EnsureInitialized(ident))
	assert.Equal(suite.T(), 30, suite.balance("u1"))
}

func (suite *LedgerServiceTestSuite) TestGetBalance_MissingUser() {
	assert.Equal(suite.T(), 0, suite.balance("nobody"))
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
