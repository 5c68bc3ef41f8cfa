package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taxiye/internal/domain"
	"taxiye/internal/observability"
	"taxiye/internal/payments"
	"taxiye/internal/repository"
)

// WalletService handles wallet balance, top-ups and ride debits.
type WalletService struct {
	walletRepo    repository.WalletRepository
	psp           payments.PSP
	notifications *NotificationService
	logger        *slog.Logger
}

// NewWalletService creates a new WalletService.
func NewWalletService(walletRepo repository.WalletRepository, psp payments.PSP, notifications *NotificationService, logger *slog.Logger) *WalletService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WalletService{walletRepo: walletRepo, psp: psp, notifications: notifications, logger: logger}
}

// GetWallet retrieves a rider's wallet.
func (s *WalletService) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	if userID == "" {
		return nil, ErrInvalidRiderID
	}
	return s.walletRepo.GetWallet(ctx, userID)
}

// TopUpRequest contains the parameters for a wallet top-up.
type TopUpRequest struct {
	UserID         string
	Amount         float64
	IdempotencyKey string // optional; derived from user+amount when empty
}

// TopUp charges the PSP and credits the rider's wallet. Retried requests
// with the same idempotency key settle exactly once.
func (s *WalletService) TopUp(ctx context.Context, req TopUpRequest) (*domain.Transaction, error) {
	if req.UserID == "" {
		return nil, ErrInvalidRiderID
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	// Without a client-supplied key each request is its own settlement.
	key := req.IdempotencyKey
	if key == "" {
		key = fmt.Sprintf("topup:%s", uuid.New().String())
	}

	// Check for an existing settlement (idempotency).
	existing, err := s.walletRepo.GetTransactionByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// Ensure the wallet row exists before crediting.
	if _, err := s.walletRepo.GetWallet(ctx, req.UserID); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ID:             uuid.New().String(),
		UserID:         req.UserID,
		Type:           domain.TransactionTypeTopUp,
		Amount:         req.Amount,
		Status:         domain.TransactionStatusPending,
		IdempotencyKey: key,
		CreatedAt:      time.Now(),
	}
	if err := s.walletRepo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	reference, err := s.psp.Charge(ctx, req.Amount, req.UserID)
	if err != nil {
		s.logger.Warn("psp charge failed", "user_id", req.UserID, "error", err)
		_ = s.walletRepo.UpdateTransactionStatus(ctx, tx.ID, domain.TransactionStatusFailed)
		tx.Status = domain.TransactionStatusFailed
		observability.WalletTopUpsTotal.WithLabelValues("failed").Inc()
		if s.notifications != nil {
			_ = s.notifications.NotifyTopUpResult(ctx, tx)
		}
		return tx, nil
	}

	if err := s.walletRepo.Credit(ctx, req.UserID, req.Amount); err != nil {
		return nil, err
	}
	if err := s.walletRepo.UpdateTransactionStatus(ctx, tx.ID, domain.TransactionStatusSuccess); err != nil {
		return nil, err
	}
	tx.Status = domain.TransactionStatusSuccess
	tx.Reference = reference
	observability.WalletTopUpsTotal.WithLabelValues("success").Inc()

	if s.notifications != nil {
		_ = s.notifications.NotifyTopUpResult(ctx, tx)
	}
	return tx, nil
}

// DebitForTrip withdraws the fare for a wallet-paid trip and records the
// ledger entry.
func (s *WalletService) DebitForTrip(ctx context.Context, userID, tripID string, fare float64) error {
	if fare <= 0 {
		return ErrInvalidAmount
	}

	if err := s.walletRepo.Debit(ctx, userID, fare); err != nil {
		return err
	}

	tx := &domain.Transaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      domain.TransactionTypeRideDebit,
		Amount:    fare,
		Status:    domain.TransactionStatusSuccess,
		Reference: tripID,
		CreatedAt: time.Now(),
	}
	return s.walletRepo.CreateTransaction(ctx, tx)
}

// ListTransactions retrieves a rider's ledger, newest first.
func (s *WalletService) ListTransactions(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error) {
	if userID == "" {
		return nil, ErrInvalidRiderID
	}
	return s.walletRepo.ListTransactions(ctx, userID, limit)
}
