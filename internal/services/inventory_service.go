package services

import (
	"fmt"
	"log"

	"gerai/internal/models"
	"gerai/internal/repositories"
)

// InventoryService is the stock ledger. Availability is checked at order
// creation and re-checked at decrement time; the decrement itself only
// happens as a side effect of a payment completing.
type InventoryService struct {
	productRepo repositories.ProductRepository
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(productRepo repositories.ProductRepository) *InventoryService {
	return &InventoryService{
		productRepo: productRepo,
	}
}

// CheckAvailability verifies that a product can cover the requested quantity.
// For products with variants, available stock is the sum of the variant
// stocks; the product's own counter is ignored. Returns an
// *InsufficientStockError when the request cannot be covered.
func (s *InventoryService) CheckAvailability(productID string, requested int) error {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}

	available, err := s.availableStock(product)
	if err != nil {
		return err
	}
	if requested > available {
		return &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   available,
			Requested:   requested,
		}
	}
	return nil
}

// DecrementForItems applies the stock decrements for all items of an order
// as one unit. Stock is re-checked per item at decrement time, since it may
// have moved between order creation and payment completion. If any item
// fails, every decrement already applied in this batch is restored before
// the error is returned.
func (s *InventoryService) DecrementForItems(items []models.OrderItem) error {
	var applied []appliedDecrement

	for _, item := range items {
		if err := s.decrementItem(item, &applied); err != nil {
			s.rollback(applied)
			return err
		}
	}
	return nil
}

// appliedDecrement remembers one committed stock subtraction so the batch
// can be reversed on later failure.
type appliedDecrement struct {
	productID string
	variantID string // empty for bare-product decrements
	quantity  int
}

func (s *InventoryService) decrementItem(item models.OrderItem, applied *[]appliedDecrement) error {
	product, err := s.productRepo.GetByID(item.ProductID)
	if err != nil {
		return err
	}

	variants, err := s.productRepo.GetVariants(item.ProductID)
	if err != nil {
		return err
	}

	if len(variants) > 0 {
		// Pick the variant with the most stock; ties fall to the first one
		// encountered. The order item does not carry a variant reference,
		// so this cannot honor a per-variant selection.
		target := variants[0]
		for _, v := range variants[1:] {
			if v.Stock > target.Stock {
				target = v
			}
		}
		if target.Stock < item.Quantity {
			return &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: fmt.Sprintf("%s (variant %s)", product.Name, target.Size),
				Available:   target.Stock,
				Requested:   item.Quantity,
			}
		}
		target.Stock -= item.Quantity
		if err := s.productRepo.UpdateVariant(&target); err != nil {
			return err
		}
		*applied = append(*applied, appliedDecrement{
			productID: product.ID,
			variantID: target.ID,
			quantity:  item.Quantity,
		})
		return nil
	}

	if product.Quantity < item.Quantity {
		return &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Quantity,
			Requested:   item.Quantity,
		}
	}
	product.Quantity -= item.Quantity
	if err := s.productRepo.Update(product); err != nil {
		return err
	}
	*applied = append(*applied, appliedDecrement{
		productID: product.ID,
		quantity:  item.Quantity,
	})
	return nil
}

// rollback restores every decrement applied so far in a failed batch, in
// reverse order. Restore failures are not recoverable here; they would need
// operational reconciliation, so the attempt continues through the list.
func (s *InventoryService) rollback(applied []appliedDecrement) {
	for i := len(applied) - 1; i >= 0; i-- {
		d := applied[i]
		if d.variantID != "" {
			variants, err := s.productRepo.GetVariants(d.productID)
			if err != nil {
				continue
			}
			for _, v := range variants {
				if v.ID == d.variantID {
					v.Stock += d.quantity
					if err := s.productRepo.UpdateVariant(&v); err != nil {
						log.Printf("Warning: failed to restore stock for variant %s: %v", v.ID, err)
					}
					break
				}
			}
			continue
		}
		product, err := s.productRepo.GetByID(d.productID)
		if err != nil {
			continue
		}
		product.Quantity += d.quantity
		if err := s.productRepo.Update(product); err != nil {
			log.Printf("Warning: failed to restore stock for product %s: %v", product.ID, err)
		}
	}
}

func (s *InventoryService) availableStock(product *models.Product) (int, error) {
	variants, err := s.productRepo.GetVariants(product.ID)
	if err != nil {
		return 0, err
	}
	if len(variants) == 0 {
		return product.Quantity, nil
	}
	total := 0
	for _, v := range variants {
		total += v.Stock
	}
	return total, nil
}
