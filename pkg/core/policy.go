package core

import (
	"fmt"
	"math"
)

// Policy holds the amount rules shared by deposit, withdraw and transfer.
type Policy struct {
	// MinimumBalance is the floor a withdrawal or outgoing transfer may not
	// cross. Zero lets a balance reach exactly zero.
	MinimumBalance int64 `yaml:"minimum_balance" json:"minimum_balance" env:"MINIMUM_BALANCE"`

	// Denomination is the step every moved amount must be a multiple of.
	// Values <= 1 accept any positive whole amount.
	Denomination int64 `yaml:"denomination" json:"denomination" env:"DENOMINATION"`

	// OpeningMinimum is the smallest initial balance accepted at creation.
	OpeningMinimum int64 `yaml:"opening_minimum" json:"opening_minimum" env:"OPENING_MINIMUM"`
}

// DefaultPolicy has no floor above zero, no denomination step and no
// opening minimum.
func DefaultPolicy() Policy {
	return Policy{Denomination: 1}
}

// Validate rejects policies that could let a balance go negative.
func (p Policy) Validate() error {
	if p.MinimumBalance < 0 {
		return fmt.Errorf("minimum balance cannot be negative: %d", p.MinimumBalance)
	}
	if p.Denomination < 0 {
		return fmt.Errorf("denomination cannot be negative: %d", p.Denomination)
	}
	if p.OpeningMinimum < 0 {
		return fmt.Errorf("opening minimum cannot be negative: %d", p.OpeningMinimum)
	}
	return nil
}

func (p Policy) checkAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}
	if p.Denomination > 1 && amount%p.Denomination != 0 {
		return fmt.Errorf("%w: must be a multiple of %d", ErrInvalidAmount, p.Denomination)
	}
	return nil
}

func (p Policy) checkCredit(balance, amount int64) error {
	if err := p.checkAmount(amount); err != nil {
		return err
	}
	if amount > math.MaxInt64-balance {
		return fmt.Errorf("%w: balance would overflow", ErrInvalidAmount)
	}
	return nil
}

func (p Policy) checkDebit(balance, amount int64) error {
	if err := p.checkAmount(amount); err != nil {
		return err
	}
	if balance-amount < p.MinimumBalance {
		return ErrInsufficientFunds
	}
	return nil
}

func (p Policy) checkOpening(balance int64) error {
	floor := max(p.OpeningMinimum, p.MinimumBalance)
	if balance < 0 || balance < floor {
		return fmt.Errorf("%w: opening balance must be at least %d", ErrInvalidAmount, floor)
	}
	return nil
}
