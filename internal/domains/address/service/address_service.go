package service

import (
	"context"

	"github.com/google/uuid"

	"opticsmarket-backend/internal/domains/address/model"
	"opticsmarket-backend/internal/domains/address/repository"
)

type AddressService interface {
	CreateAddress(ctx context.Context, userID uuid.UUID, req model.CreateAddressRequest) (*model.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req model.UpdateAddressRequest) (*model.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error

	// Resolve fetches an address and verifies ownership. Checkout uses
	// it to validate the delivery target.
	Resolve(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error)
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{
		addressRepo: addressRepo,
	}
}

func (s *addressService) CreateAddress(ctx context.Context, userID uuid.UUID, req model.CreateAddressRequest) (*model.Address, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	address := &model.Address{
		ID:            uuid.New(),
		UserID:        userID,
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		Line1:         req.Line1,
		Line2:         req.Line2,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		// The first address always becomes the default.
		IsDefault: len(existing) == 0,
	}

	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, err
	}

	if req.IsDefault && !address.IsDefault {
		if err := s.addressRepo.SetDefault(ctx, userID, address.ID); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}

	return address, nil
}

func (s *addressService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req model.UpdateAddressRequest) (*model.Address, error) {
	address, err := s.Resolve(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if req.RecipientName != nil {
		address.RecipientName = *req.RecipientName
	}
	if req.Phone != nil {
		address.Phone = *req.Phone
	}
	if req.Line1 != nil {
		address.Line1 = *req.Line1
	}
	if req.Line2 != nil {
		address.Line2 = *req.Line2
	}
	if req.City != nil {
		address.City = *req.City
	}
	if req.PostalCode != nil {
		address.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		address.Country = *req.Country
	}

	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, err
	}

	return address, nil
}

func (s *addressService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	return s.addressRepo.Delete(ctx, userID, addressID)
}

func (s *addressService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	return s.addressRepo.ListByUser(ctx, userID)
}

func (s *addressService) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	return s.addressRepo.SetDefault(ctx, userID, addressID)
}

func (s *addressService) Resolve(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error) {
	address, err := s.addressRepo.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}

	// Ownership failures look identical to missing rows so other
	// users' address IDs cannot be enumerated.
	if address.UserID != userID {
		return nil, model.ErrAddressNotFound
	}

	return address, nil
}
