// Package verify drives the dual-channel (email + SMS) one-time-code
// verification flow used by sign-up, profile-edit and phone-change.
package verify

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
)

// State represents the position of a verification flow.
type State string

const (
	StateUnstarted State = "UNSTARTED"
	StateCodeSent  State = "CODE_SENT"
	StateVerified  State = "VERIFIED"
	StateFailed    State = "FAILED"
)

var (
	// ErrInvalidCode is returned when the submitted code is not exactly 6 digits.
	ErrInvalidCode = errors.New("code must be exactly 6 digits")

	// ErrNoChannel is returned when neither an email nor a phone target is set.
	ErrNoChannel = errors.New("no delivery channel configured")

	// ErrCodeNotSent is returned when Verify is called before any code was dispatched.
	ErrCodeNotSent = errors.New("no verification code has been sent")

	// ErrAlreadyVerified is returned when operating on a completed flow.
	ErrAlreadyVerified = errors.New("verification already completed")
)

var codePattern = regexp.MustCompile(`^\d{6}$`)

// Collaborator is the external auth service that dispatches and checks
// one-time codes. Delivery is best-effort on its side; a nil error from a
// send only means the request was issued.
type Collaborator interface {
	SendEmailCode(ctx context.Context, email string) error
	SendSMSCode(ctx context.Context, phone string) error

	// VerifyEmailCode and VerifyPhoneCode return a session token on success.
	VerifyEmailCode(ctx context.Context, email, code string) (string, error)
	VerifyPhoneCode(ctx context.Context, phone, code string) (string, error)
}

// channel is one delivery path a submitted code is checked against.
type channel struct {
	name   string
	send   func(ctx context.Context) error
	verify func(ctx context.Context, code string) (string, error)
}

// Flow is a single verification session. It holds no credentials and
// persists nothing; the collaborator owns code issuance and validation.
// A Flow is owned by one request path at a time and is not safe for
// concurrent use.
type Flow struct {
	collab Collaborator
	logger *slog.Logger

	email string
	phone string

	state   State
	token   string
	lastErr error
}

// NewFlow creates a verification flow targeting the given email and/or
// canonical phone. Either target may be empty, but not both.
func NewFlow(collab Collaborator, logger *slog.Logger, email, canonicalPhone string) *Flow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Flow{
		collab: collab,
		logger: logger,
		email:  email,
		phone:  canonicalPhone,
		state:  StateUnstarted,
	}
}

// channels returns the verification strategies in check order: email
// strictly before SMS. The ordering decides which error surfaces when
// every channel rejects.
func (f *Flow) channels() []channel {
	var chs []channel
	if f.email != "" {
		chs = append(chs, channel{
			name:   "email",
			send:   func(ctx context.Context) error { return f.collab.SendEmailCode(ctx, f.email) },
			verify: func(ctx context.Context, code string) (string, error) { return f.collab.VerifyEmailCode(ctx, f.email, code) },
		})
	}
	if f.phone != "" {
		chs = append(chs, channel{
			name:   "sms",
			send:   func(ctx context.Context) error { return f.collab.SendSMSCode(ctx, f.phone) },
			verify: func(ctx context.Context, code string) (string, error) { return f.collab.VerifyPhoneCode(ctx, f.phone, code) },
		})
	}
	return chs
}

// SendCodes asks the collaborator to dispatch a code on every configured
// channel. A single channel failing is logged and tolerated; the flow
// reaches CodeSent as long as at least one dispatch was issued. If every
// dispatch fails the last error is returned and the state is unchanged.
func (f *Flow) SendCodes(ctx context.Context) error {
	if f.state == StateVerified {
		return ErrAlreadyVerified
	}

	chs := f.channels()
	if len(chs) == 0 {
		return ErrNoChannel
	}

	issued := 0
	var lastErr error
	for _, ch := range chs {
		if err := ch.send(ctx); err != nil {
			lastErr = err
			f.logger.Warn("verification code dispatch failed",
				"channel", ch.name, "error", err)
			continue
		}
		issued++
	}

	if issued == 0 {
		return lastErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.state = StateCodeSent
	f.lastErr = nil
	return nil
}

// Resend re-dispatches codes to the same targets. Allowed from any
// non-terminal state; throttling is the caller's concern.
func (f *Flow) Resend(ctx context.Context) error {
	return f.SendCodes(ctx)
}

// Verify checks a submitted code against each channel in order and returns
// the collaborator's session token on the first success. The same literal
// code is tried on both channels because the collaborator issues codes per
// channel and the user cannot tell which message they received. A rejection
// on the first channel is swallowed; only both channels rejecting surfaces
// an error, and the flow stays retryable.
func (f *Flow) Verify(ctx context.Context, code string) (string, error) {
	if f.state == StateVerified {
		return "", ErrAlreadyVerified
	}
	if f.state == StateUnstarted {
		return "", ErrCodeNotSent
	}
	if !codePattern.MatchString(code) {
		return "", ErrInvalidCode
	}

	var lastErr error
	for _, ch := range f.channels() {
		token, err := ch.verify(ctx, code)
		if err != nil {
			lastErr = err
			f.logger.Debug("verification attempt rejected",
				"channel", ch.name, "error", err)
			continue
		}
		if cerr := ctx.Err(); cerr != nil {
			return "", cerr
		}
		f.state = StateVerified
		f.token = token
		f.lastErr = nil
		return token, nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Both channels rejected. Failed is not terminal: another Verify or a
	// Resend proceeds from here.
	f.state = StateFailed
	f.lastErr = lastErr
	return "", lastErr
}

// State returns the current flow state.
func (f *Flow) State() State { return f.state }

// Token returns the collaborator session token once the flow is verified.
func (f *Flow) Token() string { return f.token }

// LastError returns the most recent terminal verification failure, if any.
func (f *Flow) LastError() error { return f.lastErr }
