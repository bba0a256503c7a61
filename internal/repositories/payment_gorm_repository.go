package repositories

import (
	"errors"
	"fmt"

	"gerai/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
// It relies on gorm.Config{TranslateError: true} so that a unique-index
// violation surfaces as gorm.ErrDuplicatedKey regardless of the driver.
type GORMPaymentRepository struct {
	db *gorm.DB
}

// NewGORMPaymentRepository creates a new instance of GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{
		db: db,
	}
}

// Create inserts a new payment record. Two concurrent submissions with the
// same idempotency key race here; the unique index lets only one insert
// succeed and the loser gets ErrDuplicateKey.
func (r *GORMPaymentRepository) Create(payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if err := r.db.Create(payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("payment with idempotency key %s: %w", payment.IdempotencyKey, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByIdempotencyKey retrieves a payment record by its idempotency key.
func (r *GORMPaymentRepository) GetByIdempotencyKey(key string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, "idempotency_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment with idempotency key %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment by idempotency key: %w", err)
	}
	return &payment, nil
}

// Update persists the mutable fields of an existing payment record.
func (r *GORMPaymentRepository) Update(payment *models.Payment) error {
	res := r.db.Save(payment)
	if res.Error != nil {
		return fmt.Errorf("failed to update payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("payment with ID %s for update: %w", payment.ID, ErrNotFound)
	}
	return nil
}

// GORMCardRepository is a GORM implementation of CardRepository.
type GORMCardRepository struct {
	db *gorm.DB
}

// NewGORMCardRepository creates a new instance of GORMCardRepository.
func NewGORMCardRepository(db *gorm.DB) *GORMCardRepository {
	return &GORMCardRepository{
		db: db,
	}
}

// Create saves a new card.
func (r *GORMCardRepository) Create(card *models.Card) error {
	if card.ID == "" {
		card.ID = uuid.New().String()
	}
	if err := r.db.Create(card).Error; err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// GetByID retrieves a card by its ID.
func (r *GORMCardRepository) GetByID(id string) (*models.Card, error) {
	var card models.Card
	if err := r.db.First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("card with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get card by ID %s: %w", id, err)
	}
	return &card, nil
}

// GetByUser retrieves all cards saved by a user.
func (r *GORMCardRepository) GetByUser(userID string) ([]models.Card, error) {
	var cards []models.Card
	if err := r.db.Find(&cards, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get cards for user %s: %w", userID, err)
	}
	return cards, nil
}
