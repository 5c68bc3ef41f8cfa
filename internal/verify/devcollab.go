package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
)

// ErrCodeRejected is returned by DevCollaborator for a wrong or unknown code.
var ErrCodeRejected = errors.New("invalid or expired code")

// DevCollaborator is an in-process stand-in for the external auth service.
// It issues one code per target and logs it instead of dispatching email
// or SMS. For local development only.
type DevCollaborator struct {
	logger *slog.Logger

	mu    sync.Mutex
	codes map[string]string // target -> issued code
}

// NewDevCollaborator creates a DevCollaborator.
func NewDevCollaborator(logger *slog.Logger) *DevCollaborator {
	if logger == nil {
		logger = slog.Default()
	}
	return &DevCollaborator{
		logger: logger,
		codes:  make(map[string]string),
	}
}

func (c *DevCollaborator) SendEmailCode(ctx context.Context, email string) error {
	return c.issue("email", email)
}

func (c *DevCollaborator) SendSMSCode(ctx context.Context, phone string) error {
	return c.issue("sms", phone)
}

func (c *DevCollaborator) VerifyEmailCode(ctx context.Context, email, code string) (string, error) {
	return c.check(email, code)
}

func (c *DevCollaborator) VerifyPhoneCode(ctx context.Context, phone, code string) (string, error) {
	return c.check(phone, code)
}

func (c *DevCollaborator) issue(channel, target string) error {
	code := fmt.Sprintf("%06d", rand.Intn(1000000))

	c.mu.Lock()
	c.codes[target] = code
	c.mu.Unlock()

	c.logger.Info("dev verification code issued", "channel", channel, "code", code)
	return nil
}

func (c *DevCollaborator) check(target, code string) (string, error) {
	c.mu.Lock()
	issued, ok := c.codes[target]
	if ok && issued == code {
		delete(c.codes, target) // single use
		c.mu.Unlock()
		return "dev-session-" + code, nil
	}
	c.mu.Unlock()
	return "", ErrCodeRejected
}

var _ Collaborator = (*DevCollaborator)(nil)
