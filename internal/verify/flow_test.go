package verify

import (
	"context"
	"errors"
	"testing"
)

// fakeCollaborator simulates the external auth service with one issued
// code per channel and optional error injection.
type fakeCollaborator struct {
	emailCode string
	smsCode   string

	sendEmailErr error
	sendSMSErr   error

	sendEmailCalls   int
	sendSMSCalls     int
	verifyEmailCalls int
	verifyPhoneCalls int
}

var errCodeRejected = errors.New("invalid or expired code")

func (c *fakeCollaborator) SendEmailCode(ctx context.Context, email string) error {
	c.sendEmailCalls++
	return c.sendEmailErr
}

func (c *fakeCollaborator) SendSMSCode(ctx context.Context, phone string) error {
	c.sendSMSCalls++
	return c.sendSMSErr
}

func (c *fakeCollaborator) VerifyEmailCode(ctx context.Context, email, code string) (string, error) {
	c.verifyEmailCalls++
	if c.emailCode != "" && code == c.emailCode {
		return "token-email", nil
	}
	return "", errCodeRejected
}

func (c *fakeCollaborator) VerifyPhoneCode(ctx context.Context, phone, code string) (string, error) {
	c.verifyPhoneCalls++
	if c.smsCode != "" && code == c.smsCode {
		return "token-sms", nil
	}
	return "", errCodeRejected
}

func newTestFlow(collab *fakeCollaborator) *Flow {
	return NewFlow(collab, nil, "rider@example.com", "+251911223344")
}

func TestSendCodes_DispatchesBothChannels(t *testing.T) {
	collab := &fakeCollaborator{}
	flow := newTestFlow(collab)

	if err := flow.SendCodes(context.Background()); err != nil {
		t.Fatalf("SendCodes returned error: %v", err)
	}

	if collab.sendEmailCalls != 1 || collab.sendSMSCalls != 1 {
		t.Errorf("expected 1 dispatch per channel, got email=%d sms=%d",
			collab.sendEmailCalls, collab.sendSMSCalls)
	}
	if flow.State() != StateCodeSent {
		t.Errorf("expected CodeSent, got %s", flow.State())
	}
}

func TestSendCodes_OneChannelFailingIsTolerated(t *testing.T) {
	collab := &fakeCollaborator{sendSMSErr: errors.New("sms gateway down")}
	flow := newTestFlow(collab)

	if err := flow.SendCodes(context.Background()); err != nil {
		t.Fatalf("SendCodes returned error despite email dispatch succeeding: %v", err)
	}
	if flow.State() != StateCodeSent {
		t.Errorf("expected CodeSent, got %s", flow.State())
	}
}

func TestSendCodes_AllChannelsFailing(t *testing.T) {
	collab := &fakeCollaborator{
		sendEmailErr: errors.New("email gateway down"),
		sendSMSErr:   errors.New("sms gateway down"),
	}
	flow := newTestFlow(collab)

	if err := flow.SendCodes(context.Background()); err == nil {
		t.Fatal("expected error when both dispatches fail")
	}
	if flow.State() != StateUnstarted {
		t.Errorf("expected state unchanged, got %s", flow.State())
	}
}

func TestSendCodes_NoTargets(t *testing.T) {
	flow := NewFlow(&fakeCollaborator{}, nil, "", "")
	if err := flow.SendCodes(context.Background()); err != ErrNoChannel {
		t.Errorf("expected ErrNoChannel, got %v", err)
	}
}

func TestVerify_AcceptsEmailCode(t *testing.T) {
	collab := &fakeCollaborator{emailCode: "111111", smsCode: "222222"}
	flow := newTestFlow(collab)
	mustSend(t, flow)

	token, err := flow.Verify(context.Background(), "111111")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if token != "token-email" {
		t.Errorf("expected email token, got %q", token)
	}
	if flow.State() != StateVerified {
		t.Errorf("expected Verified, got %s", flow.State())
	}
	// Email succeeded, so the phone channel must not be consulted.
	if collab.verifyPhoneCalls != 0 {
		t.Errorf("phone channel consulted %d times after email success", collab.verifyPhoneCalls)
	}
}

func TestVerify_FallsBackToSMSCode(t *testing.T) {
	collab := &fakeCollaborator{emailCode: "111111", smsCode: "222222"}
	flow := newTestFlow(collab)
	mustSend(t, flow)

	token, err := flow.Verify(context.Background(), "222222")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if token != "token-sms" {
		t.Errorf("expected sms token, got %q", token)
	}
	// Email is always attempted first.
	if collab.verifyEmailCalls != 1 {
		t.Errorf("expected 1 email attempt before fallback, got %d", collab.verifyEmailCalls)
	}
}

func TestVerify_BothChannelsReject(t *testing.T) {
	collab := &fakeCollaborator{emailCode: "111111", smsCode: "222222"}
	flow := newTestFlow(collab)
	mustSend(t, flow)

	_, err := flow.Verify(context.Background(), "999999")
	if !errors.Is(err, errCodeRejected) {
		t.Fatalf("expected rejection error, got %v", err)
	}
	if flow.State() == StateVerified {
		t.Error("flow must not be Verified after both channels reject")
	}

	// Retry with the right code still works.
	if _, err := flow.Verify(context.Background(), "222222"); err != nil {
		t.Errorf("retry after failure returned error: %v", err)
	}
	if flow.State() != StateVerified {
		t.Errorf("expected Verified after retry, got %s", flow.State())
	}
}

func TestVerify_RejectsMalformedCodeWithoutCollaboratorCall(t *testing.T) {
	collab := &fakeCollaborator{emailCode: "111111"}
	flow := newTestFlow(collab)
	mustSend(t, flow)

	testCases := []string{"", "12345", "1234567", "12a456", "abcdef"}
	for _, code := range testCases {
		if _, err := flow.Verify(context.Background(), code); err != ErrInvalidCode {
			t.Errorf("Verify(%q): expected ErrInvalidCode, got %v", code, err)
		}
	}
	if collab.verifyEmailCalls != 0 || collab.verifyPhoneCalls != 0 {
		t.Error("collaborator must not be called for malformed codes")
	}
}

func TestVerify_BeforeSend(t *testing.T) {
	flow := newTestFlow(&fakeCollaborator{})
	if _, err := flow.Verify(context.Background(), "123456"); err != ErrCodeNotSent {
		t.Errorf("expected ErrCodeNotSent, got %v", err)
	}
}

func TestResend_AllowedAfterFailure(t *testing.T) {
	collab := &fakeCollaborator{emailCode: "111111"}
	flow := newTestFlow(collab)
	mustSend(t, flow)

	_, _ = flow.Verify(context.Background(), "000000")
	if flow.State() != StateFailed {
		t.Fatalf("expected Failed, got %s", flow.State())
	}

	if err := flow.Resend(context.Background()); err != nil {
		t.Fatalf("Resend returned error: %v", err)
	}
	if flow.State() != StateCodeSent {
		t.Errorf("expected CodeSent after resend, got %s", flow.State())
	}
	if collab.sendEmailCalls != 2 {
		t.Errorf("expected 2 email dispatches, got %d", collab.sendEmailCalls)
	}
}

func TestVerify_TerminalStateRejectsFurtherUse(t *testing.T) {
	collab := &fakeCollaborator{emailCode: "111111"}
	flow := newTestFlow(collab)
	mustSend(t, flow)

	if _, err := flow.Verify(context.Background(), "111111"); err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if _, err := flow.Verify(context.Background(), "111111"); err != ErrAlreadyVerified {
		t.Errorf("expected ErrAlreadyVerified, got %v", err)
	}
	if err := flow.SendCodes(context.Background()); err != ErrAlreadyVerified {
		t.Errorf("expected ErrAlreadyVerified on SendCodes, got %v", err)
	}
}

func TestVerify_CancelledContextDoesNotMutateState(t *testing.T) {
	collab := &fakeCollaborator{emailCode: "111111"}
	flow := newTestFlow(collab)
	mustSend(t, flow)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := flow.Verify(ctx, "111111"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if flow.State() == StateVerified {
		t.Error("state mutated despite cancelled context")
	}
}

func mustSend(t *testing.T, flow *Flow) {
	t.Helper()
	if err := flow.SendCodes(context.Background()); err != nil {
		t.Fatalf("SendCodes: %v", err)
	}
}
