package console

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aretw0/tally/pkg/core"
)

// session is an authenticated self-service customer.
type session struct {
	id  int
	pin int
	log *slog.Logger
}

func (c *Console) selfServicePanel(ctx context.Context) error {
	for {
		c.banner("ATM / CDM",
			"1. ATM Service",
			"2. CDM Service",
			"3. Back to Main Menu",
		)
		choice, err := c.readChoice(ctx, "Enter an Option: ")
		if err != nil {
			return err
		}

		switch choice {
		case 1, 2:
			s, err := c.customerLogin(ctx)
			if err != nil {
				return err
			}
			if s == nil {
				continue
			}
			s.log.Info("session started")
			if choice == 1 {
				err = c.atmService(ctx, s)
			} else {
				err = c.cdmService(ctx, s)
			}
			s.log.Info("session ended")
			if err != nil {
				return err
			}
		case 3:
			return nil
		default:
			c.println("Invalid option.")
		}
	}
}

// customerLogin returns nil without error when the credentials are refused.
func (c *Console) customerLogin(ctx context.Context) (*session, error) {
	id, err := c.readAccountNumber(ctx, "Enter Account Number: ")
	if err != nil {
		return nil, err
	}
	if !c.ledger.Exists(ctx, id) {
		c.report(core.ErrNotFound)
		return nil, nil
	}
	pin, err := c.readPIN(ctx, "Enter PIN: ")
	if err != nil {
		return nil, err
	}
	if err := c.ledger.VerifyPIN(ctx, id, pin); err != nil {
		c.logger.Warn("customer login refused", "account", id)
		c.report(err)
		return nil, nil
	}
	return &session{
		id:  id,
		pin: pin,
		log: c.logger.With("session", uuid.NewString(), "account", id),
	}, nil
}

func (c *Console) atmService(ctx context.Context, s *session) error {
	for {
		c.banner("ATM SERVICE",
			"1. Withdraw Cash",
			"2. Check Account Balance",
			"3. Mini Statement",
			"4. Transfer Money to Another Account",
			"5. Change PIN",
			"6. Back to ATM/CDM Menu",
		)
		choice, err := c.readChoice(ctx, "Enter an option: ")
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.withdraw(ctx, s)
		case 2:
			c.balance(ctx, s)
		case 3:
			c.miniStatement(ctx, s)
		case 4:
			err = c.transfer(ctx, s, "Enter Amount to Transfer: RM ", "Transfer successful.")
		case 5:
			err = c.changePIN(ctx, s)
		case 6:
			return nil
		default:
			c.println("Invalid option.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) cdmService(ctx context.Context, s *session) error {
	for {
		c.banner("CDM SERVICE",
			"1. Deposit Cash",
			"2. Check Account Balance",
			"3. Mini Statement",
			"4. Back to ATM/CDM Menu",
		)
		choice, err := c.readChoice(ctx, "Enter an option: ")
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.depositMenu(ctx, s)
		case 2:
			c.balance(ctx, s)
		case 3:
			c.miniStatement(ctx, s)
		case 4:
			return nil
		default:
			c.println("Invalid option.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) depositMenu(ctx context.Context, s *session) error {
	for {
		c.banner("Deposit Cash",
			"1. Deposit to My Account",
			"2. Deposit to Another Account",
			"3. Back to CDM Menu",
		)
		choice, err := c.readChoice(ctx, "Enter an option: ")
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			amount, err := c.readAmount(ctx, "Enter Amount to Deposit: RM ")
			if err != nil {
				return err
			}
			if _, err := c.ledger.Deposit(ctx, s.id, s.pin, amount); err != nil {
				c.report(err)
			} else {
				s.log.Info("deposit", "amount", amount)
				c.println("Deposit successful.")
			}
			return nil
		case 2:
			return c.transfer(ctx, s, "Enter Amount to Deposit: RM ", "Deposit successful.")
		case 3:
			return nil
		default:
			c.println("Invalid option.")
		}
	}
}

func (c *Console) withdraw(ctx context.Context, s *session) error {
	amount, err := c.readAmount(ctx, "Enter Amount to Withdraw: RM ")
	if err != nil {
		return err
	}
	if _, err := c.ledger.Withdraw(ctx, s.id, s.pin, amount); err != nil {
		c.report(err)
		return nil
	}
	s.log.Info("withdraw", "amount", amount)
	c.println("Withdraw successful.")
	return nil
}

func (c *Console) balance(ctx context.Context, s *session) {
	bal, err := c.ledger.Balance(ctx, s.id, s.pin)
	if err != nil {
		c.report(err)
		return
	}
	c.printf("Current Balance: %s\n", formatMoney(bal))
}

func (c *Console) miniStatement(ctx context.Context, s *session) {
	entries, err := c.ledger.MiniStatement(ctx, s.id, s.pin, c.statementSize)
	if err != nil {
		c.report(err)
		return
	}
	WriteEntries(c.out, entries)
}

// transfer checks the recipient before asking for the amount.
func (c *Console) transfer(ctx context.Context, s *session, amountPrompt, success string) error {
	dst, err := c.readAccountNumber(ctx, "Enter Recipient Account Number: ")
	if err != nil {
		return err
	}
	if !c.ledger.Exists(ctx, dst) {
		c.report(core.ErrDestinationNotFound)
		return nil
	}
	amount, err := c.readAmount(ctx, amountPrompt)
	if err != nil {
		return err
	}
	if _, err := c.ledger.Transfer(ctx, s.id, s.pin, dst, amount); err != nil {
		c.report(err)
		return nil
	}
	s.log.Info("transfer", "to", dst, "amount", amount)
	c.println(success)
	return nil
}

func (c *Console) changePIN(ctx context.Context, s *session) error {
	oldPin, err := c.readPIN(ctx, "Enter Old PIN: ")
	if err != nil {
		return err
	}
	newPin, err := c.readPIN(ctx, "Enter New PIN: ")
	if err != nil {
		return err
	}
	if err := c.ledger.ChangePIN(ctx, s.id, oldPin, newPin); err != nil {
		if errors.Is(err, core.ErrBadPIN) {
			c.println("Old PIN incorrect.")
			return nil
		}
		c.report(err)
		return nil
	}
	s.pin = newPin
	s.log.Info("pin changed")
	c.println("PIN changed.")
	return nil
}
