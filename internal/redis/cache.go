package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	ProfileCacheTTL = 60 * time.Second // profile edits are infrequent
	TripsCacheTTL   = 30 * time.Second // invalidated on ride completion anyway
)

// Key prefixes
const (
	profileCachePrefix = "cache:profile:"
	tripsCachePrefix   = "cache:trips:"
)

// CachedProfile represents a cached rider profile.
type CachedProfile struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Phone                string `json:"phone"`
	Email                string `json:"email"`
	PhotoURL             string `json:"photo_url"`
	ReferralCode         string `json:"referral_code"`
	DefaultPaymentMethod string `json:"default_payment_method"`
}

// GetProfile retrieves a profile from cache. Returns (nil, nil) on a miss.
func (s *CacheStore) GetProfile(ctx context.Context, userID string) (*CachedProfile, error) {
	data, err := s.client.Get(ctx, profileCachePrefix+userID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var profile CachedProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SetProfile stores a profile in cache.
func (s *CacheStore) SetProfile(ctx context.Context, profile *CachedProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, profileCachePrefix+profile.ID, data, ProfileCacheTTL).Err()
}

// InvalidateProfile removes a profile from cache.
func (s *CacheStore) InvalidateProfile(ctx context.Context, userID string) error {
	return s.client.Del(ctx, profileCachePrefix+userID).Err()
}

// GetTrips retrieves a rider's cached trip list as raw JSON. Returns
// (nil, nil) on a miss.
func (s *CacheStore) GetTrips(ctx context.Context, riderID string) ([]byte, error) {
	data, err := s.client.Get(ctx, tripsCachePrefix+riderID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}
	return data, nil
}

// SetTrips stores a rider's trip list as raw JSON.
func (s *CacheStore) SetTrips(ctx context.Context, riderID string, data []byte) error {
	return s.client.Set(ctx, tripsCachePrefix+riderID, data, TripsCacheTTL).Err()
}

// InvalidateTrips removes a rider's trip list from cache.
func (s *CacheStore) InvalidateTrips(ctx context.Context, riderID string) error {
	return s.client.Del(ctx, tripsCachePrefix+riderID).Err()
}
