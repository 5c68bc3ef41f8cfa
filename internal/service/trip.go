package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"taxiye/internal/domain"
	internalRedis "taxiye/internal/redis"
	"taxiye/internal/repository"
)

// TripService records completed rides and serves trip history.
type TripService struct {
	tripRepo repository.TripRepository
	cache    *internalRedis.CacheStore
	logger   *slog.Logger
}

// NewTripService creates a new TripService. cache may be nil.
func NewTripService(tripRepo repository.TripRepository, cache *internalRedis.CacheStore, logger *slog.Logger) *TripService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TripService{tripRepo: tripRepo, cache: cache, logger: logger}
}

// Record persists a completed trip and invalidates the rider's cached
// history.
func (s *TripService) Record(ctx context.Context, trip *domain.Trip) error {
	if trip.RiderID == "" {
		return ErrInvalidRiderID
	}
	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateTrips(ctx, trip.RiderID)
	}
	return nil
}

// History retrieves a rider's trips, newest first, serving from cache when
// possible.
func (s *TripService) History(ctx context.Context, riderID string, limit int) ([]*domain.Trip, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}

	if s.cache != nil && limit <= 0 {
		data, err := s.cache.GetTrips(ctx, riderID)
		if err != nil {
			s.logger.Warn("trips cache read failed", "error", err)
		} else if data != nil {
			var trips []*domain.Trip
			if err := json.Unmarshal(data, &trips); err == nil {
				return trips, nil
			}
		}
	}

	trips, err := s.tripRepo.ListByRider(ctx, riderID, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && limit <= 0 {
		if data, err := json.Marshal(trips); err == nil {
			_ = s.cache.SetTrips(ctx, riderID, data)
		}
	}

	return trips, nil
}

// Get retrieves one trip, scoped to the requesting rider.
func (s *TripService) Get(ctx context.Context, id, riderID string) (*domain.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip.RiderID != riderID {
		return nil, repository.ErrNotFound
	}
	return trip, nil
}
