package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/minaharu/timebank-api/internal/constants"
	"github.com/minaharu/timebank-api/internal/identity"
	"github.com/minaharu/timebank-api/internal/models"
	"github.com/minaharu/timebank-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotAvailable   = errors.New("task is no longer available")
	ErrTaskNotTaken       = errors.New("task has not been taken")
	ErrNotTaskTaker       = errors.New("only the user who took the task can complete it")
	ErrCreditsNotFound    = errors.New("credit record not found")
	ErrInvalidTakeRequest = errors.New("task and user are both required")
)

// InsufficientCreditsError reports a failed balance check. Amounts are in minutes.
type InsufficientCreditsError struct {
	Required  int
	Available int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient time credits: need %d minutes, have %d", e.Required, e.Available)
}

// LedgerService owns the time-credit bookkeeping and the task lifecycle
// transitions that touch it (take, complete).
type LedgerService struct {
	db         *gorm.DB
	taskRepo   repository.TaskRepository
	creditRepo repository.CreditRepository

	// atomicTake wraps the take-task debit and reservation in one store
	// transaction. Disabling it reproduces the historical sequential
	// two-write behavior, which can leave a debit without a reservation
	// if the second write fails.
	atomicTake bool
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(db *gorm.DB, taskRepo repository.TaskRepository, creditRepo repository.CreditRepository, atomicTake bool) *LedgerService {
	return &LedgerService{
		db:         db,
		taskRepo:   taskRepo,
		creditRepo: creditRepo,
		atomicTake: atomicTake,
	}
}

// GetBalance returns the user's current balance in minutes, or 0 if the
// credit record does not exist yet.
func (s *LedgerService) GetBalance(userID string) (int, error) {
	credit, err := s.creditRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return credit.TimeCredits, nil
}

// EnsureInitialized lazily creates the user's credit record with the
// starting balance. Idempotent: an existing record is left untouched.
func (s *LedgerService) EnsureInitialized(ident identity.Identity) error {
	credit := &models.UserCredit{
		UserID:      ident.UID,
		DisplayName: ident.DisplayName,
		Email:       ident.Email,
		TimeCredits: constants.StartingBalanceMinutes,
	}
	if err := s.creditRepo.Init(credit); err != nil {
		return fmt.Errorf("failed to initialize credits: %w", err)
	}
	return nil
}

// TakeTask reserves an available task for a user, debiting the task's cost
// from the user's balance. Fails without mutation when the balance cannot
// cover the cost.
func (s *LedgerService) TakeTask(taskID, userID string) (*models.Task, error) {
	if taskID == "" || userID == "" {
		return nil, ErrInvalidTakeRequest
	}

	if !s.atomicTake {
		return s.takeTask(s.taskRepo, s.creditRepo, taskID, userID)
	}

	var task *models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		t, err := s.takeTask(s.taskRepo.WithTx(tx), s.creditRepo.WithTx(tx), taskID, userID)
		if err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *LedgerService) takeTask(taskRepo repository.TaskRepository, creditRepo repository.CreditRepository, taskID, userID string) (*models.Task, error) {
	task, err := taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.Status != models.TaskStatusAvailable {
		return nil, ErrTaskNotAvailable
	}

	balance := 0
	credit, err := creditRepo.FindByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	if err == nil {
		balance = credit.TimeCredits
	}

	cost := task.Cost()
	if balance < cost {
		return nil, &InsufficientCreditsError{Required: cost, Available: balance}
	}

	if err := creditRepo.UpdateBalance(userID, balance-cost); err != nil {
		return nil, fmt.Errorf("failed to debit credits: %w", err)
	}

	// The status guard is part of the reservation write: a task that
	// stopped being available since the read above changes no row, so a
	// concurrent taker cannot overwrite the reservation.
	reserved, err := taskRepo.Reserve(task.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve task: %w", err)
	}
	if !reserved {
		return nil, ErrTaskNotAvailable
	}

	return taskRepo.FindByID(task.ID)
}

// CompleteTask marks a taken task completed and credits the completion
// reward, in a single store transaction: both writes commit or neither does.
func (s *LedgerService) CompleteTask(taskID, userID string) (*models.Task, error) {
	var task *models.Task

	err := s.db.Transaction(func(tx *gorm.DB) error {
		taskRepo := s.taskRepo.WithTx(tx)
		creditRepo := s.creditRepo.WithTx(tx)

		t, err := taskRepo.FindByID(taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("failed to find task: %w", err)
		}

		credit, err := creditRepo.FindByUserID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCreditsNotFound
			}
			return fmt.Errorf("failed to read balance: %w", err)
		}

		if t.Status != models.TaskStatusTaken {
			return ErrTaskNotTaken
		}
		if t.TakenBy == nil || *t.TakenBy != userID {
			return ErrNotTaskTaker
		}

		// Guarded like the reservation write: a concurrent completion of
		// the same task changes no row here and fails instead of crediting
		// the reward twice.
		done, err := taskRepo.Complete(t.ID, userID, time.Now())
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
		if !done {
			return ErrTaskNotTaken
		}

		if err := creditRepo.UpdateBalance(userID, credit.TimeCredits+constants.CompletionRewardMinutes); err != nil {
			return fmt.Errorf("failed to credit reward: %w", err)
		}

		task, err = taskRepo.FindByID(t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}
