package postgres

import (
	"context"
	"database/sql"

	"taxiye/internal/domain"
	"taxiye/internal/repository"
)

// WalletRepository implements repository.WalletRepository using PostgreSQL.
type WalletRepository struct {
	db *sql.DB
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetWallet retrieves a rider's wallet, creating a zero-balance row if none
// exists.
func (r *WalletRepository) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `INSERT INTO wallets (user_id, balance) VALUES ($1, 0)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING user_id, balance, updated_at`
	row := r.db.QueryRowContext(ctx, query, userID)

	var wallet domain.Wallet
	if err := row.Scan(&wallet.UserID, &wallet.Balance, &wallet.UpdatedAt); err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Credit atomically adds amount to the rider's balance.
func (r *WalletRepository) Credit(ctx context.Context, userID string, amount float64) error {
	query := `UPDATE wallets SET balance = balance + $2, updated_at = now() WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID, amount)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Debit atomically subtracts amount from the rider's balance. The balance
// guard in the WHERE clause makes concurrent debits safe without an
// explicit transaction.
func (r *WalletRepository) Debit(ctx context.Context, userID string, amount float64) error {
	query := `UPDATE wallets SET balance = balance - $2, updated_at = now()
		WHERE user_id = $1 AND balance >= $2`
	result, err := r.db.ExecContext(ctx, query, userID, amount)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrInsufficientFunds
	}
	return nil
}

// CreateTransaction persists a ledger entry.
func (r *WalletRepository) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	query := `INSERT INTO wallet_transactions (id, user_id, type, amount, status, idempotency_key, reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		tx.ID, tx.UserID, tx.Type, tx.Amount, tx.Status, tx.IdempotencyKey, tx.Reference)
	return err
}

// UpdateTransactionStatus sets the settlement state of a ledger entry.
func (r *WalletRepository) UpdateTransactionStatus(ctx context.Context, id string, status domain.TransactionStatus) error {
	query := `UPDATE wallet_transactions SET status = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetTransactionByIdempotencyKey retrieves a ledger entry by its
// idempotency key. Returns (nil, nil) when no entry exists.
func (r *WalletRepository) GetTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	query := `SELECT id, user_id, type, amount, status, idempotency_key, reference, created_at
		FROM wallet_transactions WHERE idempotency_key = $1`
	row := r.db.QueryRowContext(ctx, query, key)

	var tx domain.Transaction
	err := row.Scan(&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.Status,
		&tx.IdempotencyKey, &tx.Reference, &tx.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// ListTransactions retrieves a rider's ledger entries, newest first.
func (r *WalletRepository) ListTransactions(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, user_id, type, amount, status, idempotency_key, reference, created_at
		FROM wallet_transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.Status,
			&tx.IdempotencyKey, &tx.Reference, &tx.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, &tx)
	}
	return txs, rows.Err()
}
