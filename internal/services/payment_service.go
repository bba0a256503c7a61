package services

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"gerai/internal/models"
	"gerai/internal/repositories"
	"gerai/pkg/cardgateway"
)

// CardAuthorizer is the external card-authorization step. Any error it
// returns is caught by the orchestrator and recorded on the payment record
// as a failure; it never propagates past the service boundary.
type CardAuthorizer interface {
	Authorize(req cardgateway.Request) (*cardgateway.Authorization, error)
}

// OutcomeKind discriminates the possible results of a payment submission.
// Callers switch on it; every branch is explicit.
type OutcomeKind string

const (
	// OutcomeCompleted: payment captured and the order exists.
	OutcomeCompleted OutcomeKind = "completed"
	// OutcomePending: a submission with this idempotency key is already in
	// flight; poll later, do not retry with the same key yet.
	OutcomePending OutcomeKind = "pending"
	// OutcomeFailed: the authorization failed; safe to retry.
	OutcomeFailed OutcomeKind = "failed"
	// OutcomeOrderFailed: funds are captured but the order could not be
	// created or processed. Requires reconciliation; distinct from both
	// full success and full failure.
	OutcomeOrderFailed OutcomeKind = "order_failed"
)

// PaymentOutcome is the tagged result of a card payment submission.
type PaymentOutcome struct {
	Success   bool                 `json:"success"`
	Kind      OutcomeKind          `json:"status"`
	Payment   models.PaymentStatus `json:"payment_status"`
	Message   string               `json:"message"`
	PaymentID string               `json:"payment_id,omitempty"`
	OrderID   string               `json:"order_id,omitempty"`
}

// SubmitCardPaymentRequest carries one card payment submission. TotalAmount
// is accepted for API compatibility but the charged amount is always
// recomputed server-side from current product prices.
type SubmitCardPaymentRequest struct {
	CardID            string             `json:"card_id" validate:"required"`
	IdempotencyKey    string             `json:"idempotency_key" validate:"required,max=255"`
	ShippingAddressID string             `json:"shipping_address_id" validate:"required"`
	Items             []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount       float64            `json:"total_amount"`
	CVV               string             `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

// SaveCardRequest carries the details of a card to store.
type SaveCardRequest struct {
	CardHolderName string `json:"card_holder_name" validate:"required,max=100"`
	CardNumber     string `json:"card_number" validate:"required"`
	ExpiryMonth    int    `json:"expiry_month" validate:"required,min=1,max=12"`
	ExpiryYear     int    `json:"expiry_year" validate:"required"`
	CVV            string `json:"cvv" validate:"required,numeric,min=3,max=4"`
	IsDefault      bool   `json:"is_default"`
}

// PaymentService orchestrates the card-payment workflow: idempotency-keyed
// payment records, the simulated authorization call, order linkage and the
// handoff to the payment-status/stock machinery.
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	cardRepo    repositories.CardRepository
	productRepo repositories.ProductRepository
	orders      *OrderService
	authorizer  CardAuthorizer
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	cardRepo repositories.CardRepository,
	productRepo repositories.ProductRepository,
	orders *OrderService,
	authorizer CardAuthorizer,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		cardRepo:    cardRepo,
		productRepo: productRepo,
		orders:      orders,
		authorizer:  authorizer,
	}
}

// SubmitCardPayment runs one card payment submission end to end.
//
// Exactly one payment record ever exists per idempotency key. A fresh key
// creates a pending record and goes through authorization; a key whose
// record is pending reports "in progress" without re-invoking anything; a
// failed record returns its stored failure; a completed record skips
// authorization and falls through to order linkage, which itself is
// idempotent via payment.OrderID.
func (s *PaymentService) SubmitCardPayment(userID string, req SubmitCardPaymentRequest) (*PaymentOutcome, error) {
	card, err := s.cardRepo.GetByID(req.CardID)
	if err != nil {
		return nil, err
	}
	if card.UserID != userID {
		return nil, fmt.Errorf("card %s does not belong to user: %w", req.CardID, ErrForbidden)
	}

	payment, err := s.paymentRepo.GetByIdempotencyKey(req.IdempotencyKey)
	switch {
	case err == nil:
		return s.resumeExisting(payment, userID, req)
	case errors.Is(err, repositories.ErrNotFound):
		// First time this key is seen; fall through to create.
	default:
		return nil, err
	}

	// Card and amount checks apply to fresh submissions only. A key whose
	// payment already completed must resolve idempotently even if the card
	// has expired between attempts.
	if err := validateCardDetails(card.CardNumber, card.CardHolderName, card.ExpiryMonth, card.ExpiryYear, req.CVV); err != nil {
		return nil, err
	}

	amount, err := s.computeAmount(req.Items)
	if err != nil {
		return nil, err
	}

	payment = &models.Payment{
		UserID:         userID,
		CardID:         card.ID,
		Amount:         amount,
		Status:         models.PaymentPending,
		IdempotencyKey: req.IdempotencyKey,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			// Lost the insert race against a concurrent submission with the
			// same key. Re-read and follow the "already exists" branch.
			existing, readErr := s.paymentRepo.GetByIdempotencyKey(req.IdempotencyKey)
			if readErr != nil {
				return nil, readErr
			}
			return s.resumeExisting(existing, userID, req)
		}
		return nil, err
	}

	auth, err := s.authorizer.Authorize(cardgateway.Request{
		CardNumber:     card.CardNumber,
		CardHolderName: card.CardHolderName,
		ExpiryMonth:    card.ExpiryMonth,
		ExpiryYear:     card.ExpiryYear,
		CVV:            req.CVV,
		Amount:         amount,
	})
	if err != nil {
		// The authorization error stops here: it is recorded, not rethrown.
		s.markFailed(payment, err.Error())
		return s.failedOutcome(payment), nil
	}
	if !auth.Approved {
		payment.GatewayRef = auth.Reference
		s.markFailed(payment, auth.Message)
		return s.failedOutcome(payment), nil
	}

	payment.Status = models.PaymentCompleted
	payment.GatewayRef = auth.Reference
	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, fmt.Errorf("authorization approved but payment record update failed: %w", err)
	}

	return s.linkOrder(payment, userID, req)
}

// resumeExisting handles a submission whose idempotency key already has a
// payment record.
func (s *PaymentService) resumeExisting(payment *models.Payment, userID string, req SubmitCardPaymentRequest) (*PaymentOutcome, error) {
	switch payment.Status {
	case models.PaymentPending:
		// Never re-invoke authorization for an in-flight key: that is the
		// double-charge hole this whole flow exists to close.
		return &PaymentOutcome{
			Success:   false,
			Kind:      OutcomePending,
			Payment:   models.PaymentPending,
			Message:   "payment is already in progress for this request",
			PaymentID: payment.ID,
		}, nil
	case models.PaymentFailed:
		return s.failedOutcome(payment), nil
	case models.PaymentCompleted:
		return s.linkOrder(payment, userID, req)
	default:
		return nil, fmt.Errorf("payment %s has unexpected status %s", payment.ID, payment.Status)
	}
}

// linkOrder creates the order for a completed payment, exactly once. A
// payment that already carries an order ID short-circuits to an idempotent
// success. Failures after this point leave the funds captured, which is
// reported as a distinct outcome rather than an error.
func (s *PaymentService) linkOrder(payment *models.Payment, userID string, req SubmitCardPaymentRequest) (*PaymentOutcome, error) {
	if payment.OrderID != "" {
		return &PaymentOutcome{
			Success:   true,
			Kind:      OutcomeCompleted,
			Payment:   models.PaymentCompleted,
			Message:   "payment already processed",
			PaymentID: payment.ID,
			OrderID:   payment.OrderID,
		}, nil
	}

	order, err := s.orders.CreateOrder(userID, req.ShippingAddressID, req.Items)
	if err != nil {
		return &PaymentOutcome{
			Success:   false,
			Kind:      OutcomeOrderFailed,
			Payment:   models.PaymentCompleted,
			Message:   fmt.Sprintf("payment succeeded but order creation failed: %v", err),
			PaymentID: payment.ID,
		}, nil
	}

	payment.OrderID = order.ID
	if err := s.paymentRepo.Update(payment); err != nil {
		log.Printf("Warning: failed to link payment %s to order %s: %v", payment.ID, order.ID, err)
	}

	transaction := &models.Transaction{
		OrderID:         order.ID,
		TransactionType: models.TransactionPayment,
		Amount:          payment.Amount,
		PaymentMethod:   "card",
		Status:          models.TransactionStatusSuccess,
		Notes:           fmt.Sprintf("Gateway reference: %s", payment.GatewayRef),
		TransactionDate: time.Now(),
	}
	if _, err := s.orders.RecordTransaction(transaction, userID); err != nil {
		// Stock decrement (or the status handshake around it) failed after
		// the charge; order and payment statuses have been reverted.
		return &PaymentOutcome{
			Success:   false,
			Kind:      OutcomeOrderFailed,
			Payment:   models.PaymentCompleted,
			Message:   fmt.Sprintf("payment succeeded but order processing failed: %v", err),
			PaymentID: payment.ID,
			OrderID:   order.ID,
		}, nil
	}

	return &PaymentOutcome{
		Success:   true,
		Kind:      OutcomeCompleted,
		Payment:   models.PaymentCompleted,
		Message:   "card payment successful",
		PaymentID: payment.ID,
		OrderID:   order.ID,
	}, nil
}

func (s *PaymentService) failedOutcome(payment *models.Payment) *PaymentOutcome {
	message := payment.FailureReason
	if message == "" {
		message = "payment failed"
	}
	return &PaymentOutcome{
		Success:   false,
		Kind:      OutcomeFailed,
		Payment:   models.PaymentFailed,
		Message:   message,
		PaymentID: payment.ID,
	}
}

func (s *PaymentService) markFailed(payment *models.Payment, reason string) {
	payment.Status = models.PaymentFailed
	payment.FailureReason = reason
	if err := s.paymentRepo.Update(payment); err != nil {
		log.Printf("Warning: failed to mark payment %s as failed: %v", payment.ID, err)
	}
}

func (s *PaymentService) computeAmount(items []OrderItemRequest) (float64, error) {
	var amount float64
	for _, item := range items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return 0, err
		}
		amount += product.Price * float64(item.Quantity)
	}
	return amount, nil
}

// SaveCard validates and stores a card. The masked form and detected brand
// are stored alongside; only those are ever serialized back to clients.
func (s *PaymentService) SaveCard(userID string, req SaveCardRequest) (*models.Card, error) {
	number := strings.ReplaceAll(req.CardNumber, " ", "")
	if err := validateCardDetails(number, req.CardHolderName, req.ExpiryMonth, req.ExpiryYear, req.CVV); err != nil {
		return nil, err
	}

	card := &models.Card{
		UserID:         userID,
		CardHolderName: req.CardHolderName,
		CardNumber:     number,
		MaskedNumber:   MaskCardNumber(number),
		Brand:          DetectCardBrand(number),
		ExpiryMonth:    req.ExpiryMonth,
		ExpiryYear:     req.ExpiryYear,
		IsDefault:      req.IsDefault,
	}
	if err := s.cardRepo.Create(card); err != nil {
		return nil, err
	}
	return card, nil
}

// GetUserCards retrieves the cards saved by a user.
func (s *PaymentService) GetUserCards(userID string) ([]models.Card, error) {
	return s.cardRepo.GetByUser(userID)
}

// validateCardDetails checks number, holder, expiry and CVV, returning a
// *ValidationError with a human-readable message on the first failure.
func validateCardDetails(cardNumber, cardHolder string, expiryMonth, expiryYear int, cvv string) error {
	number := strings.ReplaceAll(cardNumber, " ", "")
	if number == "" || !isDigits(number) {
		return &ValidationError{Message: "invalid card number"}
	}
	if cardHolder == "" {
		return &ValidationError{Message: "card holder name is required"}
	}
	if expiryMonth < 1 || expiryMonth > 12 {
		return &ValidationError{Message: "invalid expiry month"}
	}
	now := time.Now()
	if expiryYear < now.Year() || (expiryYear == now.Year() && expiryMonth < int(now.Month())) {
		return &ValidationError{Message: "card has expired"}
	}
	if cvv == "" || !isDigits(cvv) || len(cvv) < 3 || len(cvv) > 4 {
		return &ValidationError{Message: "invalid CVV"}
	}
	if !LuhnValid(number) {
		return &ValidationError{Message: "invalid card number (checksum failed)"}
	}
	return nil
}

// LuhnValid reports whether a card number passes the ISO/IEC 7812 mod-10
// checksum used by card issuers to catch transcription errors.
func LuhnValid(cardNumber string) bool {
	checksum := 0
	double := false
	for i := len(cardNumber) - 1; i >= 0; i-- {
		d := int(cardNumber[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		checksum += d
		double = !double
	}
	return checksum%10 == 0
}

// MaskCardNumber keeps the first 6 and last 4 digits, masking the rest
// (e.g. "411111******1111").
func MaskCardNumber(cardNumber string) string {
	if len(cardNumber) < 13 {
		return "****"
	}
	return cardNumber[:6] + strings.Repeat("*", len(cardNumber)-10) + cardNumber[len(cardNumber)-4:]
}

var cardBrandPatterns = []struct {
	brand   string
	pattern *regexp.Regexp
}{
	{"Visa", regexp.MustCompile(`^4[0-9]{12}(?:[0-9]{3})?$`)},
	{"Mastercard", regexp.MustCompile(`^5[1-5][0-9]{14}$`)},
	{"American Express", regexp.MustCompile(`^3[47][0-9]{13}$`)},
	{"Discover", regexp.MustCompile(`^6(?:011|5[0-9]{2})[0-9]{12}$`)},
	{"JCB", regexp.MustCompile(`^(?:2131|1800|35\d{3})\d{11}$`)},
}

// DetectCardBrand identifies the card brand from the number's pattern.
func DetectCardBrand(cardNumber string) string {
	number := strings.ReplaceAll(cardNumber, " ", "")
	for _, p := range cardBrandPatterns {
		if p.pattern.MatchString(number) {
			return p.brand
		}
	}
	return "Unknown"
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
