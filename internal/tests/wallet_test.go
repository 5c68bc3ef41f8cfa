package tests

import (
	"context"
	"errors"
	"testing"

	"taxiye/internal/domain"
	"taxiye/internal/repository"
	"taxiye/internal/service"
)

// ──────────────────────────────────────────────
// 3. WALLET TOP-UPS AND DEBITS
// ──────────────────────────────────────────────

func TestTopUp_ChargesAndCredits(t *testing.T) {
	t.Parallel()

	walletRepo := NewMockWalletRepository()
	psp := NewMockPSP()
	svc := service.NewWalletService(walletRepo, psp, nil, nil)

	tx, err := svc.TopUp(context.Background(), service.TopUpRequest{
		UserID: "rider-1",
		Amount: 500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx.Status != domain.TransactionStatusSuccess {
		t.Errorf("expected SUCCESS, got %s", tx.Status)
	}
	if tx.Reference == "" {
		t.Error("expected PSP reference on settled top-up")
	}
	if walletRepo.Balance("rider-1") != 500 {
		t.Errorf("expected balance 500, got %v", walletRepo.Balance("rider-1"))
	}
}

func TestTopUp_RetrySettlesExactlyOnce(t *testing.T) {
	t.Parallel()

	walletRepo := NewMockWalletRepository()
	psp := NewMockPSP()
	svc := service.NewWalletService(walletRepo, psp, nil, nil)
	ctx := context.Background()

	req := service.TopUpRequest{UserID: "rider-1", Amount: 300, IdempotencyKey: "client-key-1"}

	first, err := svc.TopUp(ctx, req)
	if err != nil {
		t.Fatalf("first top-up failed: %v", err)
	}
	second, err := svc.TopUp(ctx, req)
	if err != nil {
		t.Fatalf("retried top-up failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("retry must return the original settlement, got %s vs %s", first.ID, second.ID)
	}
	if psp.ChargeCallCount != 1 {
		t.Errorf("expected exactly one PSP charge, got %d", psp.ChargeCallCount)
	}
	if walletRepo.Balance("rider-1") != 300 {
		t.Errorf("expected balance 300, got %v", walletRepo.Balance("rider-1"))
	}
}

func TestTopUp_PSPFailureRecordsFailedTransaction(t *testing.T) {
	t.Parallel()

	walletRepo := NewMockWalletRepository()
	psp := NewMockPSP()
	psp.ChargeError = errors.New("card declined")
	svc := service.NewWalletService(walletRepo, psp, nil, nil)

	tx, err := svc.TopUp(context.Background(), service.TopUpRequest{
		UserID: "rider-1",
		Amount: 200,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx.Status != domain.TransactionStatusFailed {
		t.Errorf("expected FAILED, got %s", tx.Status)
	}
	if walletRepo.Balance("rider-1") != 0 {
		t.Errorf("failed charge must not credit, balance %v", walletRepo.Balance("rider-1"))
	}

	// The failed attempt stays in the ledger.
	txs := walletRepo.Transactions()
	if len(txs) != 1 || txs[0].Status != domain.TransactionStatusFailed {
		t.Errorf("expected one FAILED ledger entry, got %+v", txs)
	}
}

func TestTopUp_RejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()

	svc := service.NewWalletService(NewMockWalletRepository(), NewMockPSP(), nil, nil)

	for _, amount := range []float64{0, -50} {
		_, err := svc.TopUp(context.Background(), service.TopUpRequest{UserID: "rider-1", Amount: amount})
		if !errors.Is(err, service.ErrInvalidAmount) {
			t.Errorf("amount %v: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestDebitForTrip_InsufficientFunds(t *testing.T) {
	t.Parallel()

	walletRepo := NewMockWalletRepository()
	walletRepo.SetBalance("rider-1", 50)
	svc := service.NewWalletService(walletRepo, NewMockPSP(), nil, nil)

	err := svc.DebitForTrip(context.Background(), "rider-1", "trip-1", 120)
	if !errors.Is(err, repository.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if walletRepo.Balance("rider-1") != 50 {
		t.Errorf("failed debit must not change balance, got %v", walletRepo.Balance("rider-1"))
	}
}

func TestDebitForTrip_RecordsLedgerEntry(t *testing.T) {
	t.Parallel()

	walletRepo := NewMockWalletRepository()
	walletRepo.SetBalance("rider-1", 500)
	svc := service.NewWalletService(walletRepo, NewMockPSP(), nil, nil)

	if err := svc.DebitForTrip(context.Background(), "rider-1", "trip-1", 120); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if walletRepo.Balance("rider-1") != 380 {
		t.Errorf("expected balance 380, got %v", walletRepo.Balance("rider-1"))
	}
	txs := walletRepo.Transactions()
	if len(txs) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(txs))
	}
	if txs[0].Type != domain.TransactionTypeRideDebit || txs[0].Reference != "trip-1" {
		t.Errorf("unexpected ledger entry %+v", txs[0])
	}
}
