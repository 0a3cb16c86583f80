package console

import (
	"context"
	"log/slog"
)

func (c *Console) staffPanel(ctx context.Context, log *slog.Logger) error {
	for {
		c.banner("STAFF PANEL",
			"1. Check Account Info",
			"2. Deposit Cash",
			"3. Withdraw Cash",
			"4. Check Logs of User",
			"5. Back to Main Menu",
		)
		choice, err := c.readChoice(ctx, "Enter an Option: ")
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.staffInfo(ctx)
		case 2:
			err = c.staffCash(ctx, log, true)
		case 3:
			err = c.staffCash(ctx, log, false)
		case 4:
			err = c.showLogs(ctx)
		case 5:
			return nil
		default:
			c.println("Invalid option.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) staffInfo(ctx context.Context) error {
	id, err := c.readAccountNumber(ctx, "Enter Account Number: ")
	if err != nil {
		return err
	}
	a, err := c.ledger.Account(ctx, id)
	if err != nil {
		c.println("User not found.")
		return nil
	}
	c.printAccountSummary(a)
	return nil
}

// staffCash runs a counter deposit or withdrawal, printing the account
// before and after.
func (c *Console) staffCash(ctx context.Context, log *slog.Logger, deposit bool) error {
	verb := "Withdraw"
	if deposit {
		verb = "Deposit"
	}

	id, err := c.readAccountNumber(ctx, "Enter Account: ")
	if err != nil {
		return err
	}
	pin, err := c.readPIN(ctx, "Enter Account PIN: ")
	if err != nil {
		return err
	}
	amount, err := c.readAmount(ctx, "Enter Amount to " + verb + ": RM ")
	if err != nil {
		return err
	}

	before, err := c.ledger.Account(ctx, id)
	if err != nil {
		c.report(err)
		return nil
	}

	if deposit {
		_, err = c.ledger.Deposit(ctx, id, pin, amount)
	} else {
		_, err = c.ledger.Withdraw(ctx, id, pin, amount)
	}
	if err != nil {
		c.report(err)
		return nil
	}

	c.printf("Status BEFORE %s:\n", verb)
	c.printAccountSummary(before)
	if after, err := c.ledger.Account(ctx, id); err == nil {
		c.printf("Status AFTER %s:\n", verb)
		c.printAccountSummary(after)
	}
	log.Info("counter cash", "op", verb, "account", id, "amount", amount)
	c.printf("%s successful.\n", verb)
	return nil
}
