package repository

import (
	"context"

	"taxiye/internal/domain"
)

// WalletRepository defines the persistence operations for wallets and
// their transaction ledger.
type WalletRepository interface {
	// GetWallet retrieves a rider's wallet, creating a zero-balance one if
	// none exists.
	GetWallet(ctx context.Context, userID string) (*domain.Wallet, error)

	// Credit atomically adds amount to the rider's balance.
	Credit(ctx context.Context, userID string, amount float64) error

	// Debit atomically subtracts amount from the rider's balance. It fails
	// without modifying the balance when funds are insufficient.
	Debit(ctx context.Context, userID string, amount float64) error

	// CreateTransaction persists a ledger entry.
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error

	// UpdateTransactionStatus sets the settlement state of a ledger entry.
	UpdateTransactionStatus(ctx context.Context, id string, status domain.TransactionStatus) error

	// GetTransactionByIdempotencyKey retrieves a ledger entry by its
	// idempotency key. Returns (nil, nil) when no entry exists.
	GetTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error)

	// ListTransactions retrieves a rider's ledger entries, newest first.
	ListTransactions(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error)
}
