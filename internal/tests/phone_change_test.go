package tests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"taxiye/internal/domain"
	internalRedis "taxiye/internal/redis"
	"taxiye/internal/service"
	"taxiye/internal/verify"
)

// ──────────────────────────────────────────────
// 2. PHONE CHANGE VERIFICATION
// ──────────────────────────────────────────────

// scriptedCollaborator issues fixed codes so tests can submit them.
type scriptedCollaborator struct {
	mu        sync.Mutex
	emailCode string
	smsCode   string

	EmailSends int
	SMSSends   int

	SendEmailError error
	SendSMSError   error
}

func newScriptedCollaborator(emailCode, smsCode string) *scriptedCollaborator {
	return &scriptedCollaborator{emailCode: emailCode, smsCode: smsCode}
}

func (c *scriptedCollaborator) SendEmailCode(ctx context.Context, email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SendEmailError != nil {
		return c.SendEmailError
	}
	c.EmailSends++
	return nil
}

func (c *scriptedCollaborator) SendSMSCode(ctx context.Context, phone string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SendSMSError != nil {
		return c.SendSMSError
	}
	c.SMSSends++
	return nil
}

func (c *scriptedCollaborator) VerifyEmailCode(ctx context.Context, email, code string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if code == c.emailCode {
		return "session-email", nil
	}
	return "", verify.ErrCodeRejected
}

func (c *scriptedCollaborator) VerifyPhoneCode(ctx context.Context, phone, code string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if code == c.smsCode {
		return "session-sms", nil
	}
	return "", verify.ErrCodeRejected
}

var _ verify.Collaborator = (*scriptedCollaborator)(nil)

func newVerificationFixture(collab verify.Collaborator, limiter *MockRateLimiter) (*service.VerificationService, *MockUserRepository) {
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{
		ID:    "rider-1",
		Name:  "Hana",
		Phone: "+251911223344",
		Email: "hana@example.com",
	})
	var rl internalRedis.RateLimiterInterface
	if limiter != nil {
		rl = limiter
	}
	svc := service.NewVerificationService(userRepo, collab, rl, nil, nil, nil)
	return svc, userRepo
}

func TestPhoneChange_CompletesWithSMSCode(t *testing.T) {
	t.Parallel()

	collab := newScriptedCollaborator("111111", "222222")
	svc, userRepo := newVerificationFixture(collab, nil)
	ctx := context.Background()

	if err := svc.StartPhoneChange(ctx, "rider-1", "0977889900"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if collab.EmailSends != 1 || collab.SMSSends != 1 {
		t.Errorf("expected one send per channel, got email=%d sms=%d", collab.EmailSends, collab.SMSSends)
	}

	if err := svc.ConfirmPhoneChange(ctx, "rider-1", "222222"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	user := userRepo.GetUser("rider-1")
	if user.Phone != "+251977889900" {
		t.Errorf("expected new canonical phone +251977889900, got %s", user.Phone)
	}
}

func TestPhoneChange_EmailCodeAlsoAccepted(t *testing.T) {
	t.Parallel()

	collab := newScriptedCollaborator("111111", "222222")
	svc, userRepo := newVerificationFixture(collab, nil)
	ctx := context.Background()

	if err := svc.StartPhoneChange(ctx, "rider-1", "0977889900"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := svc.ConfirmPhoneChange(ctx, "rider-1", "111111"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if got := userRepo.GetUser("rider-1").Phone; got != "+251977889900" {
		t.Errorf("expected phone updated, got %s", got)
	}
}

func TestPhoneChange_WrongCodeKeepsOldPhoneAndAllowsRetry(t *testing.T) {
	t.Parallel()

	collab := newScriptedCollaborator("111111", "222222")
	svc, userRepo := newVerificationFixture(collab, nil)
	ctx := context.Background()

	if err := svc.StartPhoneChange(ctx, "rider-1", "0977889900"); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if err := svc.ConfirmPhoneChange(ctx, "rider-1", "999999"); err == nil {
		t.Fatal("expected rejection for wrong code")
	}
	if got := userRepo.GetUser("rider-1").Phone; got != "+251911223344" {
		t.Errorf("phone must not change on rejection, got %s", got)
	}

	// A rejected attempt is not terminal.
	if err := svc.ConfirmPhoneChange(ctx, "rider-1", "222222"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got := userRepo.GetUser("rider-1").Phone; got != "+251977889900" {
		t.Errorf("expected phone updated after retry, got %s", got)
	}
}

func TestPhoneChange_ConfirmWithoutPendingFlow(t *testing.T) {
	t.Parallel()

	svc, _ := newVerificationFixture(newScriptedCollaborator("1", "2"), nil)

	err := svc.ConfirmPhoneChange(context.Background(), "rider-1", "111111")
	if !errors.Is(err, service.ErrNoPendingVerification) {
		t.Errorf("expected ErrNoPendingVerification, got %v", err)
	}
}

func TestPhoneChange_InvalidNewNumberRejectedBeforeDispatch(t *testing.T) {
	t.Parallel()

	collab := newScriptedCollaborator("111111", "222222")
	svc, _ := newVerificationFixture(collab, nil)

	err := svc.StartPhoneChange(context.Background(), "rider-1", "+251811223344")
	if !errors.Is(err, service.ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
	if collab.EmailSends != 0 || collab.SMSSends != 0 {
		t.Error("no codes should be dispatched for an invalid number")
	}
}

func TestPhoneChange_RateLimitedAfterRepeatedSends(t *testing.T) {
	t.Parallel()

	collab := newScriptedCollaborator("111111", "222222")
	limiter := NewMockRateLimiter(2)
	svc, _ := newVerificationFixture(collab, limiter)
	ctx := context.Background()

	if err := svc.StartPhoneChange(ctx, "rider-1", "0977889900"); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if err := svc.ResendCodes(ctx, "rider-1"); err != nil {
		t.Fatalf("resend within limit failed: %v", err)
	}

	err := svc.ResendCodes(ctx, "rider-1")
	if !errors.Is(err, service.ErrTooManyAttempts) {
		t.Errorf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestPhoneChange_LimiterOutageDoesNotBlockRiders(t *testing.T) {
	t.Parallel()

	collab := newScriptedCollaborator("111111", "222222")
	limiter := NewMockRateLimiter(1)
	limiter.AllowError = errors.New("redis: connection refused")
	svc, _ := newVerificationFixture(collab, limiter)

	if err := svc.StartPhoneChange(context.Background(), "rider-1", "0977889900"); err != nil {
		t.Fatalf("expected dispatch despite limiter outage, got %v", err)
	}
}

func TestPhoneChange_AbandonDiscardsPendingFlow(t *testing.T) {
	t.Parallel()

	collab := newScriptedCollaborator("111111", "222222")
	svc, userRepo := newVerificationFixture(collab, nil)
	ctx := context.Background()

	if err := svc.StartPhoneChange(ctx, "rider-1", "0977889900"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	svc.Abandon("rider-1")

	err := svc.ConfirmPhoneChange(ctx, "rider-1", "222222")
	if !errors.Is(err, service.ErrNoPendingVerification) {
		t.Errorf("expected ErrNoPendingVerification after abandon, got %v", err)
	}
	if got := userRepo.GetUser("rider-1").Phone; got != "+251911223344" {
		t.Errorf("phone must not change after abandon, got %s", got)
	}
}
