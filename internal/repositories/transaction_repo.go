package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gerai/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionRepository defines the interface for transaction history access.
type TransactionRepository interface {
	Create(transaction *models.Transaction) error
	Update(transaction *models.Transaction) error
	GetByOrderID(orderID string) ([]models.Transaction, error)
	// GetByOrderIDs returns the transactions for a set of orders, newest
	// first, limited for pagination. Used for a user's transaction history.
	GetByOrderIDs(orderIDs []string, limit, offset int) ([]models.Transaction, error)
}

// GORMTransactionRepository is a GORM implementation of TransactionRepository.
type GORMTransactionRepository struct {
	db *gorm.DB
}

// NewGORMTransactionRepository creates a new instance of GORMTransactionRepository.
func NewGORMTransactionRepository(db *gorm.DB) *GORMTransactionRepository {
	return &GORMTransactionRepository{
		db: db,
	}
}

// Create records a new transaction.
func (r *GORMTransactionRepository) Create(transaction *models.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if transaction.TransactionDate.IsZero() {
		transaction.TransactionDate = time.Now()
	}
	if err := r.db.Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// Update persists the mutable fields of an existing transaction.
func (r *GORMTransactionRepository) Update(transaction *models.Transaction) error {
	res := r.db.Save(transaction)
	if res.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("transaction with ID %s for update: %w", transaction.ID, ErrNotFound)
	}
	return nil
}

// GetByOrderID retrieves all transactions for an order, newest first.
func (r *GORMTransactionRepository) GetByOrderID(orderID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Order("transaction_date DESC").Find(&transactions, "order_id = ?", orderID).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions for order %s: %w", orderID, err)
	}
	return transactions, nil
}

// GetByOrderIDs retrieves transactions for a set of orders with pagination.
func (r *GORMTransactionRepository) GetByOrderIDs(orderIDs []string, limit, offset int) ([]models.Transaction, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var transactions []models.Transaction
	if err := r.db.Where("order_id IN ?", orderIDs).
		Order("transaction_date DESC").
		Limit(limit).Offset(offset).
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}

// MockTransactionRepository is an in-memory implementation of TransactionRepository.
type MockTransactionRepository struct {
	transactions map[string]models.Transaction
	mu           sync.RWMutex
}

// NewMockTransactionRepository creates a new instance of MockTransactionRepository.
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]models.Transaction),
	}
}

// Create records a new transaction.
func (r *MockTransactionRepository) Create(transaction *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if transaction.TransactionDate.IsZero() {
		transaction.TransactionDate = time.Now()
	}
	r.transactions[transaction.ID] = *transaction
	return nil
}

// Update replaces the stored transaction.
func (r *MockTransactionRepository) Update(transaction *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.transactions[transaction.ID]; !ok {
		return fmt.Errorf("transaction with ID %s for update: %w", transaction.ID, ErrNotFound)
	}
	r.transactions[transaction.ID] = *transaction
	return nil
}

// GetByOrderID returns all transactions for an order, newest first.
func (r *MockTransactionRepository) GetByOrderID(orderID string) ([]models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var transactionList []models.Transaction
	for _, t := range r.transactions {
		if t.OrderID == orderID {
			transactionList = append(transactionList, t)
		}
	}
	sortTransactions(transactionList)
	return transactionList, nil
}

// GetByOrderIDs returns transactions for a set of orders with pagination.
func (r *MockTransactionRepository) GetByOrderIDs(orderIDs []string, limit, offset int) ([]models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(orderIDs))
	for _, id := range orderIDs {
		wanted[id] = true
	}
	var transactionList []models.Transaction
	for _, t := range r.transactions {
		if wanted[t.OrderID] {
			transactionList = append(transactionList, t)
		}
	}
	sortTransactions(transactionList)
	if offset >= len(transactionList) {
		return nil, nil
	}
	transactionList = transactionList[offset:]
	if limit > 0 && limit < len(transactionList) {
		transactionList = transactionList[:limit]
	}
	return transactionList, nil
}

func sortTransactions(transactions []models.Transaction) {
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].TransactionDate.After(transactions[j].TransactionDate)
	})
}
