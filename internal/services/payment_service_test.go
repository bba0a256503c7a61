package services_test

import (
	"fmt"
	"testing"

	"gerai/internal/models"
	"gerai/internal/repositories"
	"gerai/internal/services"
	"gerai/pkg/cardgateway"

	"github.com/stretchr/testify/assert"
)

// countingAuthorizer wraps a gateway and counts authorization calls, so the
// tests can prove a retried submission never reaches the gateway twice.
type countingAuthorizer struct {
	inner services.CardAuthorizer
	calls int
}

func (a *countingAuthorizer) Authorize(req cardgateway.Request) (*cardgateway.Authorization, error) {
	a.calls++
	return a.inner.Authorize(req)
}

// failingAuthorizer simulates a gateway whose API call itself errors out.
type failingAuthorizer struct{}

func (failingAuthorizer) Authorize(cardgateway.Request) (*cardgateway.Authorization, error) {
	return nil, fmt.Errorf("gateway timeout")
}

type paymentTestEnv struct {
	payments   *repositories.MockPaymentRepository
	cards      *repositories.MockCardRepository
	products   *repositories.MockProductRepository
	orders     *repositories.MockOrderRepository
	authorizer *countingAuthorizer
	orderSvc   *services.OrderService
	service    *services.PaymentService
	cardID     string
}

func newPaymentTestEnv(t *testing.T, authorizer services.CardAuthorizer) *paymentTestEnv {
	t.Helper()

	env := &paymentTestEnv{
		payments: repositories.NewMockPaymentRepository(),
		cards:    repositories.NewMockCardRepository(),
		products: repositories.NewMockProductRepository(),
		orders:   repositories.NewMockOrderRepository(),
	}
	env.authorizer = &countingAuthorizer{inner: authorizer}

	addresses := repositories.NewMockAddressRepository()
	notifier := services.NewNotificationService(repositories.NewMockNotificationRepository(), nil)
	inventory := services.NewInventoryService(env.products)
	shipmentService := services.NewShipmentService(repositories.NewMockShipmentRepository(), env.orders, notifier)
	env.orderSvc = services.NewOrderService(env.orders, env.products, addresses, repositories.NewMockTransactionRepository(), inventory, shipmentService, notifier)
	env.service = services.NewPaymentService(env.payments, env.cards, env.products, env.orderSvc, env.authorizer)

	assert.NoError(t, addresses.Create(&models.Address{
		ID: "addr-1", UserID: "user-1", Street: "Jl. Merdeka 1",
		City: "Jakarta", PostalCode: "10110", Country: "Indonesia",
	}))
	assert.NoError(t, env.products.Create(&models.Product{
		ID: "prod-1", Name: "Mug", Price: 40.0, Quantity: 10,
	}))

	card, err := env.service.SaveCard("user-1", services.SaveCardRequest{
		CardHolderName: "Budi Santoso",
		CardNumber:     "4111111111111111",
		ExpiryMonth:    12,
		ExpiryYear:     2030,
		CVV:            "123",
	})
	assert.NoError(t, err)
	env.cardID = card.ID
	return env
}

func paymentRequest(env *paymentTestEnv, key string) services.SubmitCardPaymentRequest {
	return services.SubmitCardPaymentRequest{
		CardID:            env.cardID,
		IdempotencyKey:    key,
		ShippingAddressID: "addr-1",
		Items:             []services.OrderItemRequest{{ProductID: "prod-1", Quantity: 2}},
		CVV:               "123",
	}
}

func TestPaymentService_SaveCard(t *testing.T) {
	env := newPaymentTestEnv(t, cardgateway.New())

	card, err := env.cards.GetByID(env.cardID)
	assert.NoError(t, err)
	assert.Equal(t, "411111******1111", card.MaskedNumber)
	assert.Equal(t, "Visa", card.Brand)

	// A number failing the checksum is rejected.
	_, err = env.service.SaveCard("user-1", services.SaveCardRequest{
		CardHolderName: "Budi Santoso",
		CardNumber:     "4111111111111112",
		ExpiryMonth:    12,
		ExpiryYear:     2030,
		CVV:            "123",
	})
	var validationErr *services.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "checksum")
}

func TestPaymentService_CardBrandDetection(t *testing.T) {
	cases := map[string]string{
		"4111111111111111": "Visa",
		"5555555555554444": "Mastercard",
		"378282246310005":  "American Express",
		"6011111111111117": "Discover",
		"3530111333300000": "JCB",
		"9999999999999999": "Unknown",
	}
	for number, brand := range cases {
		assert.Equal(t, brand, services.DetectCardBrand(number), number)
	}
}

func TestPaymentService_SubmitCardPayment_Success(t *testing.T) {
	env := newPaymentTestEnv(t, cardgateway.New())

	outcome, err := env.service.SubmitCardPayment("user-1", paymentRequest(env, "key-1"))
	assert.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, services.OutcomeCompleted, outcome.Kind)
	assert.NotEmpty(t, outcome.OrderID)

	payment, err := env.payments.GetByIdempotencyKey("key-1")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.Equal(t, outcome.OrderID, payment.OrderID)
	assert.Equal(t, 80.0, payment.Amount)
	assert.Contains(t, payment.GatewayRef, "BANK-")

	// The completed payment drove the order to processing and the decrement.
	order, err := env.orders.GetByID(outcome.OrderID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, order.Status)
	assert.Equal(t, models.PaymentCompleted, order.PaymentStatus)

	product, err := env.products.GetByID("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, 8, product.Quantity)
}

func TestPaymentService_SubmitCardPayment_RetryNeverChargesTwice(t *testing.T) {
	env := newPaymentTestEnv(t, cardgateway.New())

	first, err := env.service.SubmitCardPayment("user-1", paymentRequest(env, "key-1"))
	assert.NoError(t, err)
	assert.True(t, first.Success)

	second, err := env.service.SubmitCardPayment("user-1", paymentRequest(env, "key-1"))
	assert.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, services.OutcomeCompleted, second.Kind)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, "payment already processed", second.Message)

	// One authorization, one order, one decrement.
	assert.Equal(t, 1, env.authorizer.calls)
	orders, err := env.orders.GetAll()
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	product, err := env.products.GetByID("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, 8, product.Quantity)
}

func TestPaymentService_SubmitCardPayment_PendingKeyReportsInProgress(t *testing.T) {
	env := newPaymentTestEnv(t, cardgateway.New())

	// A concurrent submission holds the key in pending.
	assert.NoError(t, env.payments.Create(&models.Payment{
		UserID: "user-1", CardID: env.cardID, Amount: 80.0,
		Status: models.PaymentPending, IdempotencyKey: "key-1",
	}))

	outcome, err := env.service.SubmitCardPayment("user-1", paymentRequest(env, "key-1"))
	assert.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, services.OutcomePending, outcome.Kind)
	assert.Equal(t, 0, env.authorizer.calls)
}

// racingPaymentRepo simulates losing the insert race for an idempotency
// key: the first lookup misses, and by the time the insert runs a
// concurrent submission has already committed a pending record under the
// same key, so the insert hits the uniqueness constraint.
type racingPaymentRepo struct {
	*repositories.MockPaymentRepository
	key     string
	winner  *models.Payment
	lookups int
}

func (r *racingPaymentRepo) GetByIdempotencyKey(key string) (*models.Payment, error) {
	if key == r.key {
		r.lookups++
		if r.lookups == 1 {
			return nil, fmt.Errorf("payment for idempotency key %s: %w", key, repositories.ErrNotFound)
		}
	}
	return r.MockPaymentRepository.GetByIdempotencyKey(key)
}

func (r *racingPaymentRepo) Create(payment *models.Payment) error {
	if payment.IdempotencyKey != r.key {
		return r.MockPaymentRepository.Create(payment)
	}
	if err := r.MockPaymentRepository.Create(r.winner); err != nil {
		return err
	}
	return fmt.Errorf("payment for idempotency key %s: %w", payment.IdempotencyKey, repositories.ErrDuplicateKey)
}

func TestPaymentService_SubmitCardPayment_LostInsertRaceFollowsWinner(t *testing.T) {
	env := newPaymentTestEnv(t, cardgateway.New())

	racing := &racingPaymentRepo{
		MockPaymentRepository: repositories.NewMockPaymentRepository(),
		key:                   "key-1",
		winner: &models.Payment{
			UserID: "user-1", CardID: env.cardID, Amount: 80.0,
			Status: models.PaymentPending, IdempotencyKey: "key-1",
		},
	}
	service := services.NewPaymentService(racing, env.cards, env.products, env.orderSvc, env.authorizer)

	outcome, err := service.SubmitCardPayment("user-1", paymentRequest(env, "key-1"))
	assert.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, services.OutcomePending, outcome.Kind)
	assert.Equal(t, racing.winner.ID, outcome.PaymentID)

	// The loser re-read the winner's record instead of charging or
	// ordering on its own.
	assert.Equal(t, 0, env.authorizer.calls)
	orders, err := env.orders.GetAll()
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPaymentService_SubmitCardPayment_CompletedKeySurvivesCardExpiry(t *testing.T) {
	env := newPaymentTestEnv(t, cardgateway.New())

	// A payment completed and linked while the card was still valid.
	expired := &models.Card{
		ID: "card-expired", UserID: "user-1", CardHolderName: "Budi Santoso",
		CardNumber: "4111111111111111", ExpiryMonth: 1, ExpiryYear: 2020,
	}
	assert.NoError(t, env.cards.Create(expired))
	assert.NoError(t, env.payments.Create(&models.Payment{
		UserID: "user-1", CardID: "card-expired", Amount: 80.0,
		Status: models.PaymentCompleted, IdempotencyKey: "key-1",
		OrderID: "order-1",
	}))

	req := paymentRequest(env, "key-1")
	req.CardID = "card-expired"

	outcome, err := env.service.SubmitCardPayment("user-1", req)
	assert.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, services.OutcomeCompleted, outcome.Kind)
	assert.Equal(t, "order-1", outcome.OrderID)
	assert.Equal(t, 0, env.authorizer.calls)
}

func TestPaymentService_SubmitCardPayment_Declined(t *testing.T) {
	env := newPaymentTestEnv(t, &cardgateway.Gateway{DeclineAll: true})

	outcome, err := env.service.SubmitCardPayment("user-1", paymentRequest(env, "key-1"))
	assert.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, services.OutcomeFailed, outcome.Kind)
	assert.Contains(t, outcome.Message, "declined")

	payment, err := env.payments.GetByIdempotencyKey("key-1")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, payment.Status)

	// A retry with the same key returns the stored failure without hitting
	// the gateway again.
	retry, err := env.service.SubmitCardPayment("user-1", paymentRequest(env, "key-1"))
	assert.NoError(t, err)
	assert.Equal(t, services.OutcomeFailed, retry.Kind)
	assert.Contains(t, retry.Message, "declined")
	assert.Equal(t, 1, env.authorizer.calls)

	// Nothing was ordered or decremented.
	orders, err := env.orders.GetAll()
	assert.NoError(t, err)
	assert.Empty(t, orders)
	product, err := env.products.GetByID("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, 10, product.Quantity)
}

func TestPaymentService_SubmitCardPayment_GatewayErrorRecordedNotPropagated(t *testing.T) {
	env := newPaymentTestEnv(t, failingAuthorizer{})

	outcome, err := env.service.SubmitCardPayment("user-1", paymentRequest(env, "key-1"))
	assert.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, services.OutcomeFailed, outcome.Kind)

	payment, err := env.payments.GetByIdempotencyKey("key-1")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, payment.Status)
	assert.Contains(t, payment.FailureReason, "gateway timeout")
}

func TestPaymentService_SubmitCardPayment_OrderFailureAfterCharge(t *testing.T) {
	env := newPaymentTestEnv(t, cardgateway.New())

	req := paymentRequest(env, "key-1")
	req.ShippingAddressID = "addr-missing"

	outcome, err := env.service.SubmitCardPayment("user-1", req)
	assert.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, services.OutcomeOrderFailed, outcome.Kind)

	// The charge stands: the payment record is completed, just unlinked.
	payment, err := env.payments.GetByIdempotencyKey("key-1")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.Empty(t, payment.OrderID)

	// A corrected retry with the same key completes the order without a
	// second charge.
	retry, err := env.service.SubmitCardPayment("user-1", paymentRequest(env, "key-1"))
	assert.NoError(t, err)
	assert.True(t, retry.Success)
	assert.NotEmpty(t, retry.OrderID)
	assert.Equal(t, 1, env.authorizer.calls)
}

func TestPaymentService_SubmitCardPayment_RejectsOtherUsersCard(t *testing.T) {
	env := newPaymentTestEnv(t, cardgateway.New())

	_, err := env.service.SubmitCardPayment("user-2", paymentRequest(env, "key-1"))
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestPaymentService_SubmitCardPayment_RejectsExpiredCard(t *testing.T) {
	env := newPaymentTestEnv(t, cardgateway.New())

	// SaveCard refuses expired cards, so seed one directly.
	expired := &models.Card{
		ID: "card-expired", UserID: "user-1", CardHolderName: "Budi Santoso",
		CardNumber: "4111111111111111", ExpiryMonth: 1, ExpiryYear: 2020,
	}
	assert.NoError(t, env.cards.Create(expired))

	req := paymentRequest(env, "key-1")
	req.CardID = "card-expired"

	_, err := env.service.SubmitCardPayment("user-1", req)
	var validationErr *services.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "expired")

	// Validation failures never create a payment record.
	_, err = env.payments.GetByIdempotencyKey("key-1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "411111******1111", services.MaskCardNumber("4111111111111111"))
	assert.Equal(t, "378282*****0005", services.MaskCardNumber("378282246310005"))
	assert.Equal(t, "****", services.MaskCardNumber("1234"))
}

func TestLuhnValid(t *testing.T) {
	assert.True(t, services.LuhnValid("4111111111111111"))
	assert.True(t, services.LuhnValid("5555555555554444"))
	assert.False(t, services.LuhnValid("4111111111111112"))
	assert.False(t, services.LuhnValid("4111x11111111111"))
}
