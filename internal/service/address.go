package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"taxiye/internal/domain"
	"taxiye/internal/geocode"
	"taxiye/internal/repository"
)

// AddressService handles saved addresses for quick pickup/dropoff selection.
type AddressService struct {
	addressRepo repository.AddressRepository
	geocoder    geocode.Geocoder
	logger      *slog.Logger
}

// NewAddressService creates a new AddressService. geocoder may be nil, in
// which case addresses are stored as plain text.
func NewAddressService(addressRepo repository.AddressRepository, geocoder geocode.Geocoder, logger *slog.Logger) *AddressService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AddressService{addressRepo: addressRepo, geocoder: geocoder, logger: logger}
}

// SaveAddressRequest contains the parameters for saving an address.
type SaveAddressRequest struct {
	UserID  string
	Label   string
	Address string
}

// SaveAddress stores a labeled address. Geocoding is best-effort: when the
// places service fails, the address is kept as plain text.
func (s *AddressService) SaveAddress(ctx context.Context, req SaveAddressRequest) (*domain.SavedAddress, error) {
	if req.UserID == "" {
		return nil, ErrInvalidRiderID
	}
	if strings.TrimSpace(req.Label) == "" || strings.TrimSpace(req.Address) == "" {
		return nil, ErrInvalidAddress
	}

	addr := &domain.SavedAddress{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Label:     strings.TrimSpace(req.Label),
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: time.Now(),
	}

	if s.geocoder != nil {
		result, err := s.geocoder.Search(ctx, addr.Address)
		if err != nil {
			s.logger.Warn("geocoding failed, keeping plain text address", "error", err)
		} else {
			addr.Lat = result.Lat
			addr.Lng = result.Lng
			addr.PlaceID = result.PlaceID
			addr.Geocoded = true
		}
	}

	if err := s.addressRepo.Create(ctx, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

// ListAddresses retrieves a rider's saved addresses.
func (s *AddressService) ListAddresses(ctx context.Context, userID string) ([]*domain.SavedAddress, error) {
	if userID == "" {
		return nil, ErrInvalidRiderID
	}
	return s.addressRepo.ListByUser(ctx, userID)
}

// DeleteAddress removes a rider's saved address.
func (s *AddressService) DeleteAddress(ctx context.Context, id, userID string) error {
	if userID == "" {
		return ErrInvalidRiderID
	}
	return s.addressRepo.Delete(ctx, id, userID)
}
