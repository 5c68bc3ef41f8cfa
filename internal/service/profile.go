package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"taxiye/internal/domain"
	"taxiye/internal/phone"
	internalRedis "taxiye/internal/redis"
	"taxiye/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ProfileService handles rider account operations.
type ProfileService struct {
	userRepo repository.UserRepository
	cache    *internalRedis.CacheStore
	logger   *slog.Logger
}

// NewProfileService creates a new ProfileService. cache may be nil.
func NewProfileService(userRepo repository.UserRepository, cache *internalRedis.CacheStore, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{userRepo: userRepo, cache: cache, logger: logger}
}

// RegisterRequest contains the parameters for creating a rider account.
type RegisterRequest struct {
	Name       string
	Phone      string
	Email      string
	ReferredBy string // optional referral code from another rider
}

// Register creates a rider account with a canonical phone number and a
// fresh referral code.
func (s *ProfileService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidName
	}
	if !phone.IsValid(req.Phone) {
		return nil, ErrInvalidPhone
	}
	if req.Email != "" && !emailPattern.MatchString(req.Email) {
		return nil, ErrInvalidEmail
	}

	if req.ReferredBy != "" {
		if _, err := s.userRepo.GetByReferralCode(ctx, req.ReferredBy); err != nil {
			if err == repository.ErrNotFound {
				return nil, ErrReferralCodeUnknown
			}
			return nil, err
		}
	}

	user := &domain.User{
		ID:                   uuid.New().String(),
		Name:                 strings.TrimSpace(req.Name),
		Phone:                phone.Normalize(req.Phone),
		Email:                req.Email,
		ReferralCode:         generateReferralCode(),
		ReferredBy:           req.ReferredBy,
		DefaultPaymentMethod: domain.PaymentMethodCash,
		CreatedAt:            time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetProfile retrieves a rider profile, serving from cache when possible.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidRiderID
	}

	if s.cache != nil {
		cached, err := s.cache.GetProfile(ctx, userID)
		if err != nil {
			s.logger.Warn("profile cache read failed", "error", err)
		} else if cached != nil {
			return &domain.User{
				ID:                   cached.ID,
				Name:                 cached.Name,
				Phone:                cached.Phone,
				Email:                cached.Email,
				PhotoURL:             cached.PhotoURL,
				ReferralCode:         cached.ReferralCode,
				DefaultPaymentMethod: domain.PaymentMethod(cached.DefaultPaymentMethod),
			}, nil
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetProfile(ctx, &internalRedis.CachedProfile{
			ID:                   user.ID,
			Name:                 user.Name,
			Phone:                user.Phone,
			Email:                user.Email,
			PhotoURL:             user.PhotoURL,
			ReferralCode:         user.ReferralCode,
			DefaultPaymentMethod: string(user.DefaultPaymentMethod),
		})
	}

	return user, nil
}

// UpdateProfileRequest contains the editable profile fields. Empty fields
// are left unchanged. The phone number is not editable here; phone changes
// go through the verification flow.
type UpdateProfileRequest struct {
	UserID               string
	Name                 string
	Email                string
	PhotoURL             string
	DefaultPaymentMethod string
}

// UpdateProfile updates a rider's editable fields.
func (s *ProfileService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*domain.User, error) {
	if req.UserID == "" {
		return nil, ErrInvalidRiderID
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		if !emailPattern.MatchString(req.Email) {
			return nil, ErrInvalidEmail
		}
		user.Email = req.Email
	}
	if req.PhotoURL != "" {
		user.PhotoURL = req.PhotoURL
	}
	if req.DefaultPaymentMethod != "" {
		method, err := ValidatePaymentMethod(req.DefaultPaymentMethod)
		if err != nil {
			return nil, err
		}
		user.DefaultPaymentMethod = method
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateProfile(ctx, user.ID)
	}

	return user, nil
}

// ValidatePaymentMethod validates a payment method string.
func ValidatePaymentMethod(method string) (domain.PaymentMethod, error) {
	switch domain.PaymentMethod(method) {
	case domain.PaymentMethodCash, domain.PaymentMethodCard,
		domain.PaymentMethodWallet, domain.PaymentMethodTelebirr:
		return domain.PaymentMethod(method), nil
	case "":
		return domain.PaymentMethodCash, nil // Default to cash
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// generateReferralCode derives a short shareable code.
func generateReferralCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "TX" + strings.ToUpper(raw[:6])
}
