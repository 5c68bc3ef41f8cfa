package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a uniqueness constraint is violated.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInsufficientFunds is returned by wallet Debit when the balance
	// cannot cover the amount.
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)
