package main

import (
	"fmt"
	"strconv"

	"github.com/aretw0/tally/internal/console"
	"github.com/aretw0/tally/pkg/core"
)

func parseAccountID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid account number %q", s)
	}
	return id, nil
}

func parsePIN(s string) (int, error) {
	if len(s) != 4 {
		return 0, core.ErrInvalidPIN
	}
	pin, err := strconv.Atoi(s)
	if err != nil || !core.ValidPIN(pin) {
		return 0, core.ErrInvalidPIN
	}
	return pin, nil
}

func parseAmount(s string) (int64, error) {
	amount, ok := console.ParseWhole(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a whole amount", core.ErrInvalidAmount, s)
	}
	return amount, nil
}

// failure renders a ledger error with its operator message.
func failure(err error) error {
	return fmt.Errorf("%s (%w)", console.Message(err), err)
}
