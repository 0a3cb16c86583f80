package core

import (
	"context"
	"errors"
)

const storageNote = "failed: storage unavailable"

// CreateAccount opens an account and returns its id. Ids are assigned
// sequentially past every id ever used, archived ones included. Creation is
// all-or-nothing: if the save fails the account does not exist afterwards.
func (l *Ledger) CreateAccount(ctx context.Context, p Profile, pin int, initialBalance int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	p = p.Normalize()
	if err := p.Validate(); err != nil {
		l.reject("create", 0, err)
		return 0, err
	}
	if !ValidPIN(pin) {
		l.reject("create", 0, ErrInvalidPIN)
		return 0, ErrInvalidPIN
	}
	if err := l.policy.checkOpening(initialBalance); err != nil {
		l.reject("create", 0, err)
		return 0, err
	}
	if _, taken := l.store.FindIdentity(p.Identity); taken {
		l.reject("create", 0, ErrDuplicateIdentity)
		return 0, ErrDuplicateIdentity
	}

	a := &Account{
		ID:      l.store.NextID(),
		Profile: p,
		PIN:     pin,
		Balance: initialBalance,
		log:     NewLog(),
	}
	l.store.insert(a)
	l.record(a, "Account created")

	if err := l.commit(ctx, "create", func() { l.store.remove(a.ID) }); err != nil {
		return 0, err
	}
	l.logger.Info("account created", "account", a.ID, "type", a.Type, "balance", a.Balance)
	return a.ID, nil
}

// DeleteAccount removes an active account. Its log, ending with a deletion
// marker, moves to the archive where History can still read it; the id is
// never reassigned.
func (l *Ledger) DeleteAccount(ctx context.Context, id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	a, err := l.store.Find(id)
	if err != nil {
		l.reject("delete", id, err)
		return err
	}
	mark := a.log.Len()
	l.record(a, "Account deleted")
	_, pos, _ := l.store.detach(id)

	if err := l.commit(ctx, "delete", func() {
		l.store.reattach(a, pos)
		a.log.truncate(mark)
	}); err != nil {
		if errors.Is(err, ErrStorage) {
			l.record(a, "Account deletion %s", storageNote)
		}
		return err
	}
	l.logger.Info("account deleted", "account", id)
	return nil
}

// ChangeInfo replaces the holder profile. The identity number must not be
// held by any other active account.
func (l *Ledger) ChangeInfo(ctx context.Context, id int, p Profile) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.edit(ctx, id, p, nil)
}

// ChangeInfoAndPIN replaces the holder profile and resets the PIN in a
// single commit: both apply or neither does.
func (l *Ledger) ChangeInfoAndPIN(ctx context.Context, id int, p Profile, newPin int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.edit(ctx, id, p, &newPin)
}

func (l *Ledger) edit(ctx context.Context, id int, p Profile, newPin *int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a, err := l.store.Find(id)
	if err != nil {
		l.reject("change_info", id, err)
		return err
	}
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		l.reject("change_info", id, err)
		return err
	}
	if other, taken := l.store.FindIdentity(p.Identity); taken && other.ID != id {
		l.reject("change_info", id, ErrDuplicateIdentity)
		return ErrDuplicateIdentity
	}
	if newPin != nil && !ValidPIN(*newPin) {
		l.reject("change_info", id, ErrInvalidPIN)
		return ErrInvalidPIN
	}

	old, oldPin, mark := a.Profile, a.PIN, a.log.Len()
	a.Profile = p
	l.record(a, "Info changed")
	if newPin != nil {
		a.PIN = *newPin
		l.record(a, "PIN reset")
	}

	if err := l.commit(ctx, "change_info", func() {
		a.Profile, a.PIN = old, oldPin
		a.log.truncate(mark)
	}); err != nil {
		if errors.Is(err, ErrStorage) {
			l.record(a, "Info change %s", storageNote)
		}
		return err
	}
	l.logger.Info("account info changed", "account", id, "pin_reset", newPin != nil)
	return nil
}

// ResetPIN sets a new PIN without the old one. It is the administrator path;
// holders use ChangePIN.
func (l *Ledger) ResetPIN(ctx context.Context, id, newPin int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	a, err := l.store.Find(id)
	if err != nil {
		l.reject("reset_pin", id, err)
		return err
	}
	if !ValidPIN(newPin) {
		l.reject("reset_pin", id, ErrInvalidPIN)
		return ErrInvalidPIN
	}

	old, mark := a.PIN, a.log.Len()
	a.PIN = newPin
	l.record(a, "PIN reset")

	if err := l.commit(ctx, "reset_pin", func() {
		a.PIN = old
		a.log.truncate(mark)
	}); err != nil {
		if errors.Is(err, ErrStorage) {
			l.record(a, "PIN reset %s", storageNote)
		}
		return err
	}
	l.logger.Info("pin reset", "account", id)
	return nil
}

// ChangePIN replaces the PIN after checking the old one.
func (l *Ledger) ChangePIN(ctx context.Context, id, oldPin, newPin int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	a, err := l.authenticate(id, oldPin)
	if err != nil {
		l.reject("change_pin", id, err)
		return err
	}
	if !ValidPIN(newPin) {
		l.reject("change_pin", id, ErrInvalidPIN)
		return ErrInvalidPIN
	}

	mark := a.log.Len()
	a.PIN = newPin
	l.record(a, "PIN changed")

	if err := l.commit(ctx, "change_pin", func() {
		a.PIN = oldPin
		a.log.truncate(mark)
	}); err != nil {
		if errors.Is(err, ErrStorage) {
			l.record(a, "PIN change %s", storageNote)
		}
		return err
	}
	l.logger.Info("pin changed", "account", id)
	return nil
}

// Deposit credits amount and returns the new balance.
func (l *Ledger) Deposit(ctx context.Context, id, pin int, amount int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	a, err := l.authenticate(id, pin)
	if err != nil {
		l.reject("deposit", id, err)
		return 0, err
	}
	if err := l.policy.checkCredit(a.Balance, amount); err != nil {
		l.reject("deposit", id, err)
		return a.Balance, err
	}

	before, mark := a.Balance, a.log.Len()
	a.Balance += amount
	l.record(a, "Deposit +%s, before=%s, after=%s", money(amount), money(before), money(a.Balance))

	if err := l.commit(ctx, "deposit", func() {
		a.Balance = before
		a.log.truncate(mark)
	}); err != nil {
		if errors.Is(err, ErrStorage) {
			l.record(a, "Deposit +%s %s", money(amount), storageNote)
		}
		return a.Balance, err
	}
	l.logger.Info("deposit", "account", id, "amount", amount, "balance", a.Balance)
	return a.Balance, nil
}

// Withdraw debits amount and returns the new balance. It never applies
// partially: a debit crossing the policy floor fails with
// ErrInsufficientFunds and leaves the balance untouched.
func (l *Ledger) Withdraw(ctx context.Context, id, pin int, amount int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	a, err := l.authenticate(id, pin)
	if err != nil {
		l.reject("withdraw", id, err)
		return 0, err
	}
	if err := l.policy.checkDebit(a.Balance, amount); err != nil {
		l.reject("withdraw", id, err)
		return a.Balance, err
	}

	before, mark := a.Balance, a.log.Len()
	a.Balance -= amount
	l.record(a, "Withdraw -%s, before=%s, after=%s", money(amount), money(before), money(a.Balance))

	if err := l.commit(ctx, "withdraw", func() {
		a.Balance = before
		a.log.truncate(mark)
	}); err != nil {
		if errors.Is(err, ErrStorage) {
			l.record(a, "Withdraw -%s %s", money(amount), storageNote)
		}
		return a.Balance, err
	}
	l.logger.Info("withdraw", "account", id, "amount", amount, "balance", a.Balance)
	return a.Balance, nil
}

// Transfer moves amount from src to dst and returns the new source balance.
// Both legs are logged and persisted together; a failed save reverses both.
func (l *Ledger) Transfer(ctx context.Context, src, pin, dst int, amount int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	from, err := l.store.Find(src)
	if err != nil {
		l.reject("transfer", src, err)
		return 0, err
	}
	if src == dst {
		l.reject("transfer", src, ErrSelfTransfer)
		return 0, ErrSelfTransfer
	}
	to, err := l.store.Find(dst)
	if err != nil {
		l.reject("transfer", src, ErrDestinationNotFound)
		return 0, ErrDestinationNotFound
	}
	if from.PIN != pin {
		l.reject("transfer", src, ErrBadPIN)
		return 0, ErrBadPIN
	}
	if err := l.policy.checkDebit(from.Balance, amount); err != nil {
		l.reject("transfer", src, err)
		return from.Balance, err
	}
	if err := l.policy.checkCredit(to.Balance, amount); err != nil {
		l.reject("transfer", src, err)
		return from.Balance, err
	}

	fromBefore, fromMark := from.Balance, from.log.Len()
	toBefore, toMark := to.Balance, to.log.Len()
	from.Balance -= amount
	to.Balance += amount
	l.record(from, "Transfer -%s to account %s, before=%s, after=%s",
		money(amount), FormatAccountID(dst), money(fromBefore), money(from.Balance))
	l.record(to, "Transfer +%s from account %s, before=%s, after=%s",
		money(amount), FormatAccountID(src), money(toBefore), money(to.Balance))

	if err := l.commit(ctx, "transfer", func() {
		from.Balance, to.Balance = fromBefore, toBefore
		from.log.truncate(fromMark)
		to.log.truncate(toMark)
	}); err != nil {
		if errors.Is(err, ErrStorage) {
			l.record(from, "Transfer -%s to account %s %s", money(amount), FormatAccountID(dst), storageNote)
			l.record(to, "Transfer +%s from account %s %s", money(amount), FormatAccountID(src), storageNote)
		}
		return from.Balance, err
	}
	l.logger.Info("transfer", "from", src, "to", dst, "amount", amount, "balance", from.Balance)
	return from.Balance, nil
}
