package services

import (
	"fmt"

	"gerai/internal/models"
	"gerai/internal/repositories"
)

// AddressService manages the shipping addresses users attach to orders.
type AddressService struct {
	repo repositories.AddressRepository
}

// NewAddressService creates a new AddressService.
func NewAddressService(repo repositories.AddressRepository) *AddressService {
	return &AddressService{repo: repo}
}

// CreateAddress stores a new shipping address for a user.
func (s *AddressService) CreateAddress(userID string, address *models.Address) (*models.Address, error) {
	if address.Street == "" || address.City == "" || address.PostalCode == "" || address.Country == "" {
		return nil, &ValidationError{Message: "street, city, postal code and country are required"}
	}
	address.UserID = userID
	if err := s.repo.Create(address); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return address, nil
}

// GetUserAddresses retrieves the addresses saved by a user.
func (s *AddressService) GetUserAddresses(userID string) ([]models.Address, error) {
	return s.repo.GetByUser(userID)
}

// GetAddress retrieves an address, verifying it belongs to the user.
func (s *AddressService) GetAddress(userID, id string) (*models.Address, error) {
	address, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if address.UserID != userID {
		return nil, fmt.Errorf("address %s does not belong to user: %w", id, ErrForbidden)
	}
	return address, nil
}
