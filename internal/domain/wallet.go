package domain

import "time"

// TransactionType classifies wallet ledger entries.
type TransactionType string

const (
	TransactionTypeTopUp     TransactionType = "TOPUP"
	TransactionTypeRideDebit TransactionType = "RIDE_DEBIT"
)

// TransactionStatus represents the settlement state of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// Wallet holds a rider's prepaid balance in birr.
type Wallet struct {
	UserID    string
	Balance   float64
	UpdatedAt time.Time
}

// Transaction is one wallet ledger entry. Top-ups carry the idempotency
// key so a retried request settles exactly once.
type Transaction struct {
	ID             string
	UserID         string
	Type           TransactionType
	Amount         float64
	Status         TransactionStatus
	IdempotencyKey string
	Reference      string // PSP payment reference or trip ID
	CreatedAt      time.Time
}
