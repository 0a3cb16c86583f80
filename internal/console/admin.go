package console

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/tally/pkg/core"
)

func (c *Console) adminPanel(ctx context.Context, log *slog.Logger) error {
	for {
		c.banner("ADMIN PANEL",
			"1. Create Account",
			"2. Delete Account",
			"3. Search Account",
			"4. Show All Accounts",
			"5. Edit Information",
			"6. Show Logs of Account",
			"7. Back to Main Menu",
		)
		choice, err := c.readChoice(ctx, "Enter an Option: ")
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.adminCreate(ctx, log)
		case 2:
			err = c.adminDelete(ctx, log)
		case 3:
			err = c.adminSearch(ctx)
		case 4:
			err = c.adminList(ctx)
		case 5:
			err = c.adminEdit(ctx, log)
		case 6:
			err = c.showLogs(ctx)
		case 7:
			return nil
		default:
			c.println("Invalid option.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) adminCreate(ctx context.Context, log *slog.Logger) error {
	p, err := c.readProfile(ctx, "Enter Customer's Full Name: ", "Enter Passport No: ")
	if err != nil {
		return err
	}
	pin, err := c.readPIN(ctx, "Enter PIN: ")
	if err != nil {
		return err
	}

	floor := c.ledger.Policy().OpeningMinimum
	var balance int64
	for {
		if balance, err = c.readWhole(ctx, fmt.Sprintf("Enter Balance (Min: %d): %s ", floor, core.Currency), true); err != nil {
			return err
		}
		if balance >= floor {
			break
		}
		c.printf("Minimum Balance is %d.\n", floor)
	}

	id, err := c.ledger.CreateAccount(ctx, p, pin, balance)
	if err != nil {
		c.report(err)
		return nil
	}
	log.Info("account created", "account", id)
	c.println("Account created successfully.")
	c.printf("Generated Account Number: %s\n", core.FormatAccountID(id))
	return nil
}

func (c *Console) adminDelete(ctx context.Context, log *slog.Logger) error {
	id, err := c.readAccountNumber(ctx, "Enter Account Number to Delete: ")
	if err != nil {
		return err
	}
	if err := c.ledger.DeleteAccount(ctx, id); err != nil {
		c.report(err)
		return nil
	}
	log.Info("account deleted", "account", id)
	c.println("Account deleted.")
	return nil
}

func (c *Console) adminSearch(ctx context.Context) error {
	id, err := c.readAccountNumber(ctx, "Enter Account Number to Search: ")
	if err != nil {
		return err
	}
	a, err := c.ledger.Account(ctx, id)
	if err != nil {
		c.report(err)
		return nil
	}
	c.printAccountDetails(a)
	return nil
}

func (c *Console) adminList(ctx context.Context) error {
	accounts := c.ledger.Accounts(ctx)
	if len(accounts) == 0 {
		c.println("No accounts found.")
		return nil
	}
	return WriteAccountTable(c.out, accounts, true)
}

func (c *Console) adminEdit(ctx context.Context, log *slog.Logger) error {
	id, err := c.readAccountNumber(ctx, "Enter Account Number: ")
	if err != nil {
		return err
	}
	if !c.ledger.Exists(ctx, id) {
		c.report(core.ErrNotFound)
		return nil
	}

	p, err := c.readProfile(ctx, "Enter New Name: ", "Enter New Passport No: ")
	if err != nil {
		return err
	}
	pin, changePIN, err := c.readOptionalPIN(ctx, "Enter New PIN (blank to keep): ")
	if err != nil {
		return err
	}

	if changePIN {
		err = c.ledger.ChangeInfoAndPIN(ctx, id, p, pin)
	} else {
		err = c.ledger.ChangeInfo(ctx, id, p)
	}
	if err != nil {
		c.report(err)
		return nil
	}
	log.Info("account info changed", "account", id, "pin_reset", changePIN)
	c.println("Information changed.")
	return nil
}

// showLogs is shared by the administrator and staff panels. Deleted
// accounts fall back to their archived log.
func (c *Console) showLogs(ctx context.Context) error {
	id, err := c.readAccountNumber(ctx, "Enter Account Number: ")
	if err != nil {
		return err
	}
	h, err := c.ledger.History(ctx, id)
	if err != nil {
		c.println("Logs Not Found....!!!")
		return nil
	}
	c.printHistory(h)
	return nil
}
