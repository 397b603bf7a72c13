package repository

import (
	"github.com/minaharu/timebank-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCreditRepository is a GORM implementation of CreditRepository
type GormCreditRepository struct {
	db *gorm.DB
}

// NewCreditRepository creates a new CreditRepository
func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &GormCreditRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GormCreditRepository) WithTx(tx *gorm.DB) CreditRepository {
	return &GormCreditRepository{db: tx}
}

// FindByUserID finds a credit record by user ID
func (r *GormCreditRepository) FindByUserID(userID string) (*models.UserCredit, error) {
	var credit models.UserCredit
	if err := r.db.First(&credit, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &credit, nil
}

// Init creates the credit record if it does not exist yet. Calling it for an
// already-initialized user is a no-op.
func (r *GormCreditRepository) Init(credit *models.UserCredit) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(credit).Error
}

// UpdateBalance overwrites a user's balance
func (r *GormCreditRepository) UpdateBalance(userID string, minutes int) error {
	return r.db.Model(&models.UserCredit{}).
		Where("user_id = ?", userID).
		Update("time_credits", minutes).Error
}
