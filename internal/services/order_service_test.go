package services_test

import (
	"testing"

	"gerai/internal/models"
	"gerai/internal/repositories"
	"gerai/internal/services"

	"github.com/stretchr/testify/assert"
)

// orderTestEnv wires an OrderService onto in-memory repositories so the
// payment/stock handshake can be exercised end to end without a database.
type orderTestEnv struct {
	products  *repositories.MockProductRepository
	orders    *repositories.MockOrderRepository
	addresses *repositories.MockAddressRepository
	txns      *repositories.MockTransactionRepository
	shipments *repositories.MockShipmentRepository
	service   *services.OrderService
}

func newOrderTestEnv(t *testing.T) *orderTestEnv {
	t.Helper()

	env := &orderTestEnv{
		products:  repositories.NewMockProductRepository(),
		orders:    repositories.NewMockOrderRepository(),
		addresses: repositories.NewMockAddressRepository(),
		txns:      repositories.NewMockTransactionRepository(),
		shipments: repositories.NewMockShipmentRepository(),
	}
	notifier := services.NewNotificationService(repositories.NewMockNotificationRepository(), nil)
	inventory := services.NewInventoryService(env.products)
	shipmentService := services.NewShipmentService(env.shipments, env.orders, notifier)
	env.service = services.NewOrderService(env.orders, env.products, env.addresses, env.txns, inventory, shipmentService, notifier)

	assert.NoError(t, env.addresses.Create(&models.Address{
		ID: "addr-1", UserID: "user-1", Street: "Jl. Merdeka 1",
		City: "Jakarta", Province: "DKI Jakarta", PostalCode: "10110", Country: "Indonesia",
	}))
	assert.NoError(t, env.products.Create(&models.Product{
		ID: "prod-1", Name: "Mug", Description: "Ceramic mug", Price: 10.0, Quantity: 10,
	}))
	return env
}

func TestOrderService_CreateOrder_ComputesTotalServerSide(t *testing.T) {
	env := newOrderTestEnv(t)

	order, err := env.service.CreateOrder("user-1", "addr-1", []services.OrderItemRequest{
		{ProductID: "prod-1", Quantity: 3},
	})
	assert.NoError(t, err)
	assert.Equal(t, 30.0, order.TotalAmount)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 10.0, order.Items[0].UnitPrice)

	// Stock is only checked at creation, not decremented.
	product, err := env.products.GetByID("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, 10, product.Quantity)
}

func TestOrderService_CreateOrder_RejectsBadAddress(t *testing.T) {
	env := newOrderTestEnv(t)
	items := []services.OrderItemRequest{{ProductID: "prod-1", Quantity: 1}}

	_, err := env.service.CreateOrder("user-1", "addr-missing", items)
	assert.ErrorIs(t, err, services.ErrInvalidAddress)

	// An address belonging to another user is just as invalid.
	assert.NoError(t, env.addresses.Create(&models.Address{
		ID: "addr-2", UserID: "user-2", Street: "Jl. Sudirman 2",
		City: "Bandung", PostalCode: "40111", Country: "Indonesia",
	}))
	_, err = env.service.CreateOrder("user-1", "addr-2", items)
	assert.ErrorIs(t, err, services.ErrInvalidAddress)
}

func TestOrderService_CreateOrder_InsufficientStockCreatesNothing(t *testing.T) {
	env := newOrderTestEnv(t)

	_, err := env.service.CreateOrder("user-1", "addr-1", []services.OrderItemRequest{
		{ProductID: "prod-1", Quantity: 11},
	})
	var stockErr *services.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)

	orders, err := env.orders.GetAll()
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_CreateOrder_RejectsEmptyItems(t *testing.T) {
	env := newOrderTestEnv(t)

	_, err := env.service.CreateOrder("user-1", "addr-1", nil)
	var validationErr *services.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestOrderService_PaymentCompleted_DecrementsStock(t *testing.T) {
	env := newOrderTestEnv(t)

	order, err := env.service.CreateOrder("user-1", "addr-1", []services.OrderItemRequest{
		{ProductID: "prod-1", Quantity: 2},
	})
	assert.NoError(t, err)

	order, err = env.service.UpdatePaymentStatus(order, models.PaymentCompleted, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, order.Status)
	assert.Equal(t, models.PaymentCompleted, order.PaymentStatus)

	product, err := env.products.GetByID("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, 8, product.Quantity)
}

func TestOrderService_PaymentCompleted_RevertsWhenStockMoved(t *testing.T) {
	env := newOrderTestEnv(t)

	order, err := env.service.CreateOrder("user-1", "addr-1", []services.OrderItemRequest{
		{ProductID: "prod-1", Quantity: 2},
	})
	assert.NoError(t, err)

	// Stock drains between order creation and payment completion.
	product, err := env.products.GetByID("prod-1")
	assert.NoError(t, err)
	product.Quantity = 1
	assert.NoError(t, env.products.Update(product))

	_, err = env.service.UpdatePaymentStatus(order, models.PaymentCompleted, "user-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update product stock")

	// Both statuses are back where they started.
	stored, err := env.orders.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderPending, stored.Status)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)
}

func TestOrderService_CancelOrder(t *testing.T) {
	env := newOrderTestEnv(t)

	order, err := env.service.CreateOrder("user-1", "addr-1", []services.OrderItemRequest{
		{ProductID: "prod-1", Quantity: 1},
	})
	assert.NoError(t, err)

	cancelled, err := env.service.CancelOrder(order, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
}

func TestOrderService_CancelOrder_RejectsShippedAndDelivered(t *testing.T) {
	env := newOrderTestEnv(t)

	for _, status := range []models.OrderStatus{models.OrderShipped, models.OrderDelivered} {
		order, err := env.service.CreateOrder("user-1", "addr-1", []services.OrderItemRequest{
			{ProductID: "prod-1", Quantity: 1},
		})
		assert.NoError(t, err)
		order.Status = status
		assert.NoError(t, env.orders.Update(order))

		_, err = env.service.CancelOrder(order, "user-1")
		assert.ErrorIs(t, err, services.ErrInvalidTransition)
	}
}

func TestOrderService_UpdateShippingDetails_ShipsProcessingOrder(t *testing.T) {
	env := newOrderTestEnv(t)

	order, err := env.service.CreateOrder("user-1", "addr-1", []services.OrderItemRequest{
		{ProductID: "prod-1", Quantity: 1},
	})
	assert.NoError(t, err)
	order, err = env.service.UpdatePaymentStatus(order, models.PaymentCompleted, "user-1")
	assert.NoError(t, err)

	order, err = env.service.UpdateShippingDetails(order, "TRACK-123", "JNE", nil, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderShipped, order.Status)
	assert.Equal(t, "TRACK-123", order.TrackingNumber)
	assert.Equal(t, "JNE", order.ShippingCarrier)

	shipment, err := env.shipments.GetByOrderID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ShipmentInTransit, shipment.Status)
	assert.Equal(t, "TRACK-123", shipment.TrackingNumber)
	assert.NotEmpty(t, shipment.TrackingEvents)
}

func TestOrderService_RecordTransaction_SuccessCompletesPayment(t *testing.T) {
	env := newOrderTestEnv(t)

	order, err := env.service.CreateOrder("user-1", "addr-1", []services.OrderItemRequest{
		{ProductID: "prod-1", Quantity: 2},
	})
	assert.NoError(t, err)

	transaction := &models.Transaction{
		OrderID:         order.ID,
		TransactionType: models.TransactionPayment,
		Amount:          order.TotalAmount,
		PaymentMethod:   "card",
		Status:          models.TransactionStatusSuccess,
	}
	_, err = env.service.RecordTransaction(transaction, "user-1")
	assert.NoError(t, err)

	stored, err := env.orders.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, stored.Status)
	assert.Equal(t, models.PaymentCompleted, stored.PaymentStatus)

	product, err := env.products.GetByID("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, 8, product.Quantity)
}

func TestOrderService_RecordTransaction_FailureWhenStockMoved(t *testing.T) {
	env := newOrderTestEnv(t)

	order, err := env.service.CreateOrder("user-1", "addr-1", []services.OrderItemRequest{
		{ProductID: "prod-1", Quantity: 2},
	})
	assert.NoError(t, err)

	product, err := env.products.GetByID("prod-1")
	assert.NoError(t, err)
	product.Quantity = 0
	assert.NoError(t, env.products.Update(product))

	transaction := &models.Transaction{
		OrderID:         order.ID,
		TransactionType: models.TransactionPayment,
		Amount:          order.TotalAmount,
		PaymentMethod:   "card",
		Status:          models.TransactionStatusSuccess,
	}
	recorded, err := env.service.RecordTransaction(transaction, "user-1")
	assert.Error(t, err)
	assert.Equal(t, models.TransactionStatusFailed, recorded.Status)
	assert.NotEmpty(t, recorded.Notes)
}

func TestOrderService_GetUserTransactions(t *testing.T) {
	env := newOrderTestEnv(t)

	order, err := env.service.CreateOrder("user-1", "addr-1", []services.OrderItemRequest{
		{ProductID: "prod-1", Quantity: 1},
	})
	assert.NoError(t, err)

	_, err = env.service.RecordTransaction(&models.Transaction{
		OrderID:         order.ID,
		TransactionType: models.TransactionPayment,
		Amount:          order.TotalAmount,
		PaymentMethod:   "card",
		Status:          models.TransactionStatusPending,
	}, "user-1")
	assert.NoError(t, err)

	transactions, err := env.service.GetUserTransactions("user-1", 20, 0)
	assert.NoError(t, err)
	assert.Len(t, transactions, 1)

	transactions, err = env.service.GetUserTransactions("user-2", 20, 0)
	assert.NoError(t, err)
	assert.Empty(t, transactions)
}
