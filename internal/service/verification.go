package service

import (
	"context"
	"log/slog"
	"sync"

	"taxiye/internal/observability"
	"taxiye/internal/phone"
	internalRedis "taxiye/internal/redis"
	"taxiye/internal/repository"
	"taxiye/internal/verify"
)

// pendingChange is an open phone-change verification for one rider. It is
// discarded when the change completes or when a new change supersedes it.
type pendingChange struct {
	flow     *verify.Flow
	newPhone string
}

// VerificationService drives phone changes: it opens a dual-channel
// verification flow for the new number and persists the change only after
// the rider proves control of a channel.
type VerificationService struct {
	userRepo      repository.UserRepository
	collab        verify.Collaborator
	limiter       internalRedis.RateLimiterInterface
	cache         *internalRedis.CacheStore
	notifications *NotificationService
	logger        *slog.Logger

	mu      sync.Mutex
	pending map[string]*pendingChange // keyed by rider ID
}

// NewVerificationService creates a new VerificationService. limiter and
// cache may be nil.
func NewVerificationService(
	userRepo repository.UserRepository,
	collab verify.Collaborator,
	limiter internalRedis.RateLimiterInterface,
	cache *internalRedis.CacheStore,
	notifications *NotificationService,
	logger *slog.Logger,
) *VerificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &VerificationService{
		userRepo:      userRepo,
		collab:        collab,
		limiter:       limiter,
		cache:         cache,
		notifications: notifications,
		logger:        logger,
		pending:       make(map[string]*pendingChange),
	}
}

// StartPhoneChange validates the new number, dispatches codes on both
// channels and opens a pending change for the rider. Any prior pending
// change for the same rider is discarded.
func (s *VerificationService) StartPhoneChange(ctx context.Context, userID, newPhone string) error {
	if userID == "" {
		return ErrInvalidRiderID
	}
	if !phone.IsValid(newPhone) {
		return ErrInvalidPhone
	}

	if err := s.allow(ctx, userID); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	canonical := phone.Normalize(newPhone)
	flow := verify.NewFlow(s.collab, s.logger, user.Email, canonical)
	if err := flow.SendCodes(ctx); err != nil {
		return err
	}

	observability.CodesSentTotal.WithLabelValues("email").Inc()
	observability.CodesSentTotal.WithLabelValues("sms").Inc()

	s.mu.Lock()
	s.pending[userID] = &pendingChange{flow: flow, newPhone: canonical}
	s.mu.Unlock()

	if s.notifications != nil {
		_ = s.notifications.NotifyCodeSent(ctx, userID)
	}
	return nil
}

// ResendCodes re-dispatches codes for the rider's pending change.
func (s *VerificationService) ResendCodes(ctx context.Context, userID string) error {
	pc := s.get(userID)
	if pc == nil {
		return ErrNoPendingVerification
	}

	if err := s.allow(ctx, userID); err != nil {
		return err
	}

	if err := pc.flow.Resend(ctx); err != nil {
		return err
	}
	observability.CodesSentTotal.WithLabelValues("email").Inc()
	observability.CodesSentTotal.WithLabelValues("sms").Inc()
	return nil
}

// ConfirmPhoneChange checks the submitted code against either channel and,
// on success, persists the new canonical phone number.
func (s *VerificationService) ConfirmPhoneChange(ctx context.Context, userID, code string) error {
	pc := s.get(userID)
	if pc == nil {
		return ErrNoPendingVerification
	}

	if _, err := pc.flow.Verify(ctx, code); err != nil {
		observability.VerificationsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.Phone = pc.newPhone
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.Abandon(userID)
	observability.VerificationsTotal.WithLabelValues("verified").Inc()

	if s.cache != nil {
		_ = s.cache.InvalidateProfile(ctx, userID)
	}
	if s.limiter != nil {
		_ = s.limiter.Reset(ctx, rateLimitKey(userID))
	}
	if s.notifications != nil {
		_ = s.notifications.NotifyPhoneChanged(ctx, userID, phone.Mask(pc.newPhone))
	}
	return nil
}

// Abandon discards the rider's pending change, e.g. when they navigate
// away without completing it.
func (s *VerificationService) Abandon(userID string) {
	s.mu.Lock()
	delete(s.pending, userID)
	s.mu.Unlock()
}

func (s *VerificationService) get(userID string) *pendingChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[userID]
}

func (s *VerificationService) allow(ctx context.Context, userID string) error {
	if s.limiter == nil {
		return nil
	}
	ok, err := s.limiter.Allow(ctx, rateLimitKey(userID))
	if err != nil {
		// Redis being down must not lock riders out of verification.
		s.logger.Warn("rate limiter unavailable", "error", err)
		return nil
	}
	if !ok {
		return ErrTooManyAttempts
	}
	return nil
}

func rateLimitKey(userID string) string {
	return "otp:" + userID
}
