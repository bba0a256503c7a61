package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gerai/internal/models"
	"gerai/internal/repositories"
)

// OrderService handles business logic related to orders: creation with
// stock verification, the payment-status/stock-decrement handshake, shipping
// detail updates and cancellation.
type OrderService struct {
	orderRepo       repositories.OrderRepository
	productRepo     repositories.ProductRepository
	addressRepo     repositories.AddressRepository
	transactionRepo repositories.TransactionRepository
	inventory       *InventoryService
	shipments       *ShipmentService
	notifier        Notifier
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	addressRepo repositories.AddressRepository,
	transactionRepo repositories.TransactionRepository,
	inventory *InventoryService,
	shipments *ShipmentService,
	notifier Notifier,
) *OrderService {
	return &OrderService{
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		addressRepo:     addressRepo,
		transactionRepo: transactionRepo,
		inventory:       inventory,
		shipments:       shipments,
		notifier:        notifier,
	}
}

// OrderItemRequest is a requested line item: which product, how many.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetUserOrders retrieves all orders for a user.
func (s *OrderService) GetUserOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// CreateOrder creates a new order after verifying the shipping address and
// per-item stock availability. The total amount is computed server-side from
// current product prices; any client-supplied total is ignored. Stock is NOT
// decremented here; that happens only when payment completes.
func (s *OrderService) CreateOrder(userID, shippingAddressID string, items []OrderItemRequest) (*models.Order, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Message: "order must contain at least one item"}
	}

	address, err := s.addressRepo.GetByID(shippingAddressID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidAddress
		}
		return nil, err
	}
	if address.UserID != userID {
		return nil, ErrInvalidAddress
	}

	// Verify stock for every item before creating anything. Fails fast on
	// the first shortfall.
	for _, item := range items {
		if err := s.inventory.CheckAvailability(item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	var totalAmount float64
	processedItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found: %w", item.ProductID, err)
		}
		processedItems = append(processedItems, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price, // Price at the time of order creation
		})
		totalAmount += product.Price * float64(item.Quantity)
	}

	newOrder := &models.Order{
		UserID:            userID,
		ShippingAddressID: shippingAddressID,
		Items:             processedItems,
		TotalAmount:       totalAmount,
		Status:            models.OrderPending,
		PaymentMethod:     "card",
		PaymentStatus:     models.PaymentPending,
	}

	// Header and items are persisted as one atomic unit by the repository.
	if err := s.orderRepo.Create(newOrder); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.notifier.Notify(userID, "order_created",
		fmt.Sprintf("Your order #%s has been created and is pending payment.", newOrder.ID),
		newOrder.ID)

	return newOrder, nil
}

// UpdatePaymentStatus updates an order's payment status. When the payment
// completes on a pending order, the order advances to processing and stock
// is decremented for every item. The status change and the decrement are two
// physical commits treated as one logical transaction: if the decrement
// fails, both statuses are reverted to their prior values and the failure is
// propagated.
func (s *OrderService) UpdatePaymentStatus(order *models.Order, paymentStatus models.PaymentStatus, actorID string) (*models.Order, error) {
	oldPaymentStatus := order.PaymentStatus
	oldStatus := order.Status
	order.PaymentStatus = paymentStatus

	if paymentStatus == models.PaymentCompleted && order.Status == models.OrderPending {
		order.Status = models.OrderProcessing

		// Commit the status change first, then decrement.
		if err := s.orderRepo.Update(order); err != nil {
			order.PaymentStatus = oldPaymentStatus
			order.Status = oldStatus
			return nil, err
		}

		items := order.Items
		if len(items) == 0 {
			loaded, err := s.orderRepo.GetByID(order.ID)
			if err != nil {
				return nil, err
			}
			items = loaded.Items
		}

		if err := s.inventory.DecrementForItems(items); err != nil {
			// Stock moved since order creation. Revert both statuses so
			// the failure is observable and the order can be retried.
			order.PaymentStatus = oldPaymentStatus
			order.Status = oldStatus
			if revertErr := s.orderRepo.Update(order); revertErr != nil {
				return nil, fmt.Errorf("failed to revert order %s after stock failure: %v (original: %w)", order.ID, revertErr, err)
			}
			return nil, fmt.Errorf("failed to update product stock: %w", err)
		}
	} else {
		if err := s.orderRepo.Update(order); err != nil {
			return nil, err
		}
	}

	s.notifier.Notify(order.UserID, "payment_status_updated",
		fmt.Sprintf("Payment status for order #%s has been updated to %s.", order.ID, paymentStatus),
		order.ID)

	return order, nil
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(order *models.Order, status models.OrderStatus, actorID string) (*models.Order, error) {
	validStatuses := map[models.OrderStatus]bool{
		models.OrderPending:    true,
		models.OrderProcessing: true,
		models.OrderShipped:    true,
		models.OrderDelivered:  true,
		models.OrderCancelled:  true,
		models.OrderReturned:   true,
	}
	if !validStatuses[status] {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid order status: %s", status)}
	}

	order.Status = status
	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", order.ID, err)
	}

	s.notifier.Notify(order.UserID, "order_status_updated",
		fmt.Sprintf("Your order #%s status has been updated to %s.", order.ID, status),
		order.ID)

	return order, nil
}

// UpdateShippingDetails sets carrier and tracking information on an order.
// An order in processing advances to shipped, and the linked shipment is
// created or updated: in_transit (with a tracking event) when the order just
// transitioned, pending otherwise.
func (s *OrderService) UpdateShippingDetails(order *models.Order, trackingNumber, shippingCarrier string, estimatedDeliveryDate *time.Time, actorID string) (*models.Order, error) {
	order.TrackingNumber = trackingNumber
	order.ShippingCarrier = shippingCarrier
	if estimatedDeliveryDate != nil {
		order.EstimatedDeliveryDate = estimatedDeliveryDate
	}

	statusChanged := false
	if order.Status == models.OrderProcessing {
		order.Status = models.OrderShipped
		statusChanged = true
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	shipment, err := s.shipments.GetByOrder(order.ID)
	switch {
	case err == nil:
		shipment.Carrier = shippingCarrier
		shipment.TrackingNumber = trackingNumber
		shipment.EstimatedDeliveryDate = order.EstimatedDeliveryDate
		if statusChanged {
			desc := fmt.Sprintf("Order shipped with %s. Tracking number: %s", shippingCarrier, trackingNumber)
			if _, err := s.shipments.UpdateShipmentStatus(shipment, models.ShipmentInTransit, "", desc, actorID); err != nil {
				return nil, err
			}
		} else {
			if err := s.shipments.UpdateDetails(shipment); err != nil {
				return nil, err
			}
		}
	case errors.Is(err, repositories.ErrNotFound):
		if _, err := s.shipments.CreateFromOrder(order, shippingCarrier, trackingNumber, order.EstimatedDeliveryDate); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	s.notifier.Notify(order.UserID, "order_shipped",
		fmt.Sprintf("Your order #%s has shipped! Tracking number: %s", order.ID, trackingNumber),
		order.ID)

	return order, nil
}

// CancelOrder cancels an order that has not shipped yet. A shipment linked
// to the order transitions to cancelled through the same path as manual
// shipment updates, so a tracking event is appended.
func (s *OrderService) CancelOrder(order *models.Order, actorID string) (*models.Order, error) {
	if order.Status == models.OrderShipped || order.Status == models.OrderDelivered {
		return nil, fmt.Errorf("cannot cancel an order that has already shipped or been delivered: %w", ErrInvalidTransition)
	}

	order.Status = models.OrderCancelled
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	shipment, err := s.shipments.GetByOrder(order.ID)
	if err == nil {
		if _, err := s.shipments.UpdateShipmentStatus(shipment, models.ShipmentCancelled, "", "Order was cancelled", actorID); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	s.notifier.Notify(order.UserID, "order_cancelled",
		fmt.Sprintf("Your order #%s has been cancelled.", order.ID),
		order.ID)

	return order, nil
}

// RecordTransaction records a payment transaction for an order. A successful
// transaction drives the payment status to completed, which in turn advances
// the order to processing and decrements stock. If that fails (e.g. stock
// moved), the transaction is marked failed with the reason and the error is
// propagated.
func (s *OrderService) RecordTransaction(transaction *models.Transaction, actorID string) (*models.Transaction, error) {
	if err := s.transactionRepo.Create(transaction); err != nil {
		return nil, err
	}

	if transaction.Status != models.TransactionStatusSuccess {
		return transaction, nil
	}

	order, err := s.orderRepo.GetByID(transaction.OrderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.UpdatePaymentStatus(order, models.PaymentCompleted, actorID); err != nil {
		transaction.Status = models.TransactionStatusFailed
		transaction.Notes = err.Error()
		if updateErr := s.transactionRepo.Update(transaction); updateErr != nil {
			log.Printf("Warning: failed to mark transaction %s as failed: %v", transaction.ID, updateErr)
		}
		return transaction, fmt.Errorf("transaction recorded but payment processing failed: %w", err)
	}

	return transaction, nil
}

// TrackOrder returns the shipment for an order, creating one lazily for
// orders that predate shipment records.
func (s *OrderService) TrackOrder(order *models.Order) (*models.Shipment, error) {
	return s.shipments.TrackOrder(order)
}

// GetOrderTransactions retrieves all transactions for an order.
func (s *OrderService) GetOrderTransactions(orderID string) ([]models.Transaction, error) {
	return s.transactionRepo.GetByOrderID(orderID)
}

// GetUserTransactions retrieves a page of the user's transaction history
// across all their orders.
func (s *OrderService) GetUserTransactions(userID string, limit, offset int) ([]models.Transaction, error) {
	orders, err := s.orderRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	orderIDs := make([]string, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)
	}
	return s.transactionRepo.GetByOrderIDs(orderIDs, limit, offset)
}
