package core

import (
	"errors"
	"fmt"
)

// Result codes returned by Ledger operations. Exactly one applies per call.
var (
	ErrNotFound            = errors.New("account not found")
	ErrDestinationNotFound = errors.New("destination account not found")
	ErrSelfTransfer        = errors.New("source and destination are the same account")
	ErrBadPIN              = errors.New("pin incorrect")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrDuplicateIdentity   = errors.New("identity number already registered")
	ErrNoLogs              = errors.New("no transactions")
	ErrInvalidProfile      = errors.New("invalid account profile")
	ErrInvalidPIN          = errors.New("pin must be exactly 4 digits")

	// ErrStorage marks a persistence failure. The in-memory change that
	// triggered the save has already been rolled back when it is returned.
	ErrStorage = errors.New("storage failure")

	// ErrReadOnly is returned by repositories opened without write access.
	ErrReadOnly = errors.New("repository is in read-only mode")
)

func storageError(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
