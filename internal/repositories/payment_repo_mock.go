package repositories

import (
	"fmt"
	"sync"
	"time"

	"gerai/internal/models"

	"github.com/google/uuid"
)

// MockPaymentRepository is an in-memory implementation of PaymentRepository.
// It enforces the idempotency-key uniqueness constraint the same way the
// database does, so the duplicate-submission branches can be tested without
// a real store.
type MockPaymentRepository struct {
	payments map[string]models.Payment // keyed by idempotency key
	mu       sync.RWMutex
}

// NewMockPaymentRepository creates a new instance of MockPaymentRepository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]models.Payment),
	}
}

// Create adds a new payment record, failing with ErrDuplicateKey when one
// already exists for the idempotency key.
func (r *MockPaymentRepository) Create(payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.payments[payment.IdempotencyKey]; exists {
		return fmt.Errorf("payment with idempotency key %s: %w", payment.IdempotencyKey, ErrDuplicateKey)
	}
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()
	r.payments[payment.IdempotencyKey] = *payment
	return nil
}

// GetByIdempotencyKey returns the payment record for a key.
func (r *MockPaymentRepository) GetByIdempotencyKey(key string) (*models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.payments[key]
	if !ok {
		return nil, fmt.Errorf("payment with idempotency key %s: %w", key, ErrNotFound)
	}
	return &payment, nil
}

// Update replaces the stored payment record.
func (r *MockPaymentRepository) Update(payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.payments[payment.IdempotencyKey]; !ok {
		return fmt.Errorf("payment with ID %s for update: %w", payment.ID, ErrNotFound)
	}
	payment.UpdatedAt = time.Now()
	r.payments[payment.IdempotencyKey] = *payment
	return nil
}

// MockCardRepository is an in-memory implementation of CardRepository.
type MockCardRepository struct {
	cards map[string]models.Card
	mu    sync.RWMutex
}

// NewMockCardRepository creates a new instance of MockCardRepository.
func NewMockCardRepository() *MockCardRepository {
	return &MockCardRepository{
		cards: make(map[string]models.Card),
	}
}

// Create saves a new card.
func (r *MockCardRepository) Create(card *models.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if card.ID == "" {
		card.ID = uuid.New().String()
	}
	r.cards[card.ID] = *card
	return nil
}

// GetByID returns a card by its ID.
func (r *MockCardRepository) GetByID(id string) (*models.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	card, ok := r.cards[id]
	if !ok {
		return nil, fmt.Errorf("card with ID %s: %w", id, ErrNotFound)
	}
	return &card, nil
}

// GetByUser returns all cards saved by a user.
func (r *MockCardRepository) GetByUser(userID string) ([]models.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cardList []models.Card
	for _, card := range r.cards {
		if card.UserID == userID {
			cardList = append(cardList, card)
		}
	}
	return cardList, nil
}
