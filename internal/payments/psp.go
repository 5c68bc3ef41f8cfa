// Package payments wraps the payment service provider used for wallet
// top-ups.
package payments

import "context"

// PSP is the interface for a Payment Service Provider. Charge returns the
// provider's payment reference on success.
type PSP interface {
	Charge(ctx context.Context, amountBirr float64, customerID string) (string, error)
}

// MockPSP is a mock implementation of PSP for development and testing.
type MockPSP struct{}

// NewMockPSP creates a new mock PSP.
func NewMockPSP() *MockPSP {
	return &MockPSP{}
}

// Charge simulates a payment charge. Always succeeds.
func (p *MockPSP) Charge(ctx context.Context, amountBirr float64, customerID string) (string, error) {
	return "mock-charge", nil
}
