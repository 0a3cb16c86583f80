package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tally/internal/console"
	"github.com/aretw0/tally/pkg/core"
)

var (
	pinFlag    string
	amountFlag string
	countFlag  int
	oldPINFlag string
	newPINFlag string
)

// credentials parses the account argument and the --pin flag.
func credentials(arg string) (int, int, error) {
	id, err := parseAccountID(arg)
	if err != nil {
		return 0, 0, err
	}
	pin, err := parsePIN(pinFlag)
	if err != nil {
		return 0, 0, err
	}
	return id, pin, nil
}

var depositCmd = &cobra.Command{
	Use:   "deposit <account>",
	Short: "Deposit cash into an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return moveCash(cmd, args[0], true)
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <account>",
	Short: "Withdraw cash from an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return moveCash(cmd, args[0], false)
	},
}

func moveCash(cmd *cobra.Command, arg string, deposit bool) error {
	id, pin, err := credentials(arg)
	if err != nil {
		return err
	}
	amount, err := parseAmount(amountFlag)
	if err != nil {
		return err
	}

	return withLedger(cmd.Context(), false, func(l *core.Ledger) error {
		var bal int64
		var err error
		if deposit {
			bal, err = l.Deposit(cmd.Context(), id, pin, amount)
		} else {
			bal, err = l.Withdraw(cmd.Context(), id, pin, amount)
		}
		if err != nil {
			return failure(err)
		}
		fmt.Printf("Current Balance: %s %d\n", core.Currency, bal)
		return nil
	})
}

var transferCmd = &cobra.Command{
	Use:   "transfer <from> <to>",
	Short: "Transfer money between accounts",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, pin, err := credentials(args[0])
		if err != nil {
			return err
		}
		dst, err := parseAccountID(args[1])
		if err != nil {
			return err
		}
		amount, err := parseAmount(amountFlag)
		if err != nil {
			return err
		}

		return withLedger(cmd.Context(), false, func(l *core.Ledger) error {
			bal, err := l.Transfer(cmd.Context(), src, pin, dst, amount)
			if err != nil {
				return failure(err)
			}
			fmt.Printf("Transfer successful.\nCurrent Balance: %s %d\n", core.Currency, bal)
			return nil
		})
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance <account>",
	Short: "Show the balance of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, pin, err := credentials(args[0])
		if err != nil {
			return err
		}
		return withLedger(cmd.Context(), true, func(l *core.Ledger) error {
			bal, err := l.Balance(cmd.Context(), id, pin)
			if err != nil {
				return failure(err)
			}
			fmt.Printf("Current Balance: %s %d\n", core.Currency, bal)
			return nil
		})
	},
}

var statementCmd = &cobra.Command{
	Use:   "statement <account>",
	Short: "Show the most recent log entries of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, pin, err := credentials(args[0])
		if err != nil {
			return err
		}
		count := cfg.StatementSize
		if cmd.Flags().Changed("count") {
			count = countFlag
		}
		return withLedger(cmd.Context(), true, func(l *core.Ledger) error {
			entries, err := l.MiniStatement(cmd.Context(), id, pin, count)
			if err != nil {
				return failure(err)
			}
			console.WriteEntries(os.Stdout, entries)
			return nil
		})
	},
}

var pinCmd = &cobra.Command{
	Use:   "pin <account>",
	Short: "Change the PIN of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAccountID(args[0])
		if err != nil {
			return err
		}
		oldPin, err := parsePIN(oldPINFlag)
		if err != nil {
			return err
		}
		newPin, err := parsePIN(newPINFlag)
		if err != nil {
			return err
		}
		return withLedger(cmd.Context(), false, func(l *core.Ledger) error {
			if err := l.ChangePIN(cmd.Context(), id, oldPin, newPin); err != nil {
				return failure(err)
			}
			fmt.Println("PIN changed.")
			return nil
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{depositCmd, withdrawCmd, transferCmd, balanceCmd, statementCmd} {
		rootCmd.AddCommand(cmd)
		cmd.Flags().StringVar(&pinFlag, "pin", "", "Account PIN")
		cmd.MarkFlagRequired("pin")
	}
	for _, cmd := range []*cobra.Command{depositCmd, withdrawCmd, transferCmd} {
		cmd.Flags().StringVar(&amountFlag, "amount", "", "Amount in whole RM")
		cmd.MarkFlagRequired("amount")
	}
	statementCmd.Flags().IntVar(&countFlag, "count", 0, "Number of entries; 0 shows all (default from config)")

	rootCmd.AddCommand(pinCmd)
	pinCmd.Flags().StringVar(&oldPINFlag, "old", "", "Current PIN")
	pinCmd.Flags().StringVar(&newPINFlag, "new", "", "New PIN")
	pinCmd.MarkFlagRequired("old")
	pinCmd.MarkFlagRequired("new")
}
