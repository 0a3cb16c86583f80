package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tally/internal/auth"
	"github.com/aretw0/tally/internal/console"
	"github.com/aretw0/tally/pkg/core"
)

var (
	adminCode string

	accountName     string
	accountIdentity string
	accountGender   string
	accountType     string
	accountPIN      string
	accountBalance  string
	listJSON        bool
)

// accountCmd groups the administrator operations.
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage accounts (administrator)",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		gate, err := newGate()
		if err != nil {
			return err
		}
		if err := gate.Verify(auth.Admin, adminCode); err != nil {
			logger.Warn("admin command refused", "command", cmd.Name(), "code", adminCode)
			return err
		}
		return nil
	},
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a new account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profileFromFlags(core.Profile{})
		if err != nil {
			return err
		}
		pin, err := parsePIN(accountPIN)
		if err != nil {
			return err
		}
		balance, ok := console.ParseWhole(accountBalance)
		if !ok {
			return fmt.Errorf("%w: %q", core.ErrInvalidAmount, accountBalance)
		}

		return withLedger(cmd.Context(), false, func(l *core.Ledger) error {
			id, err := l.CreateAccount(cmd.Context(), p, pin, balance)
			if err != nil {
				return failure(err)
			}
			fmt.Printf("Account created successfully.\nGenerated Account Number: %s\n", core.FormatAccountID(id))
			return nil
		})
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all active accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd.Context(), true, func(l *core.Ledger) error {
			accounts := l.Accounts(cmd.Context())
			if listJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(accounts)
			}
			if len(accounts) == 0 {
				fmt.Println("No accounts found.")
				return nil
			}
			return console.WriteAccountTable(os.Stdout, accounts, false)
		})
	},
}

var accountShowCmd = &cobra.Command{
	Use:   "show <account>",
	Short: "Show one account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAccountID(args[0])
		if err != nil {
			return err
		}
		return withLedger(cmd.Context(), true, func(l *core.Ledger) error {
			a, err := l.Account(cmd.Context(), id)
			if err != nil {
				return failure(err)
			}
			return console.WriteAccountTable(os.Stdout, []core.Account{a}, true)
		})
	},
}

var accountEditCmd = &cobra.Command{
	Use:   "edit <account>",
	Short: "Change holder information and optionally the PIN; unset flags keep their value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAccountID(args[0])
		if err != nil {
			return err
		}
		return withLedger(cmd.Context(), false, func(l *core.Ledger) error {
			current, err := l.Account(cmd.Context(), id)
			if err != nil {
				return failure(err)
			}
			p, err := profileFromFlags(current.Profile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("pin") {
				pin, perr := parsePIN(accountPIN)
				if perr != nil {
					return perr
				}
				err = l.ChangeInfoAndPIN(cmd.Context(), id, p, pin)
			} else {
				err = l.ChangeInfo(cmd.Context(), id, p)
			}
			if err != nil {
				return failure(err)
			}
			fmt.Println("Information changed.")
			return nil
		})
	},
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete <account>",
	Short: "Delete an account, archiving its log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAccountID(args[0])
		if err != nil {
			return err
		}
		return withLedger(cmd.Context(), false, func(l *core.Ledger) error {
			if err := l.DeleteAccount(cmd.Context(), id); err != nil {
				return failure(err)
			}
			fmt.Println("Account deleted.")
			return nil
		})
	},
}

var accountResetPINCmd = &cobra.Command{
	Use:   "reset-pin <account>",
	Short: "Set a new PIN without the old one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAccountID(args[0])
		if err != nil {
			return err
		}
		pin, err := parsePIN(accountPIN)
		if err != nil {
			return err
		}
		return withLedger(cmd.Context(), false, func(l *core.Ledger) error {
			if err := l.ResetPIN(cmd.Context(), id, pin); err != nil {
				return failure(err)
			}
			fmt.Println("PIN reset.")
			return nil
		})
	},
}

// profileFromFlags overlays the profile flags that were set onto base.
func profileFromFlags(base core.Profile) (core.Profile, error) {
	p := base
	if accountName != "" {
		p.Name = accountName
	}
	if accountIdentity != "" {
		p.Identity = accountIdentity
	}
	if accountGender != "" {
		g, ok := console.ParseGender(accountGender)
		if !ok {
			return p, fmt.Errorf("%w: gender must be M or F", core.ErrInvalidProfile)
		}
		p.Gender = g
	}
	if accountType != "" {
		t, ok := console.ParseAccountType(accountType)
		if !ok {
			return p, fmt.Errorf("%w: type must be C or S", core.ErrInvalidProfile)
		}
		p.Type = t
	}
	return p, nil
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&accountName, "name", "", "Holder full name")
	cmd.Flags().StringVar(&accountIdentity, "identity", "", "Passport or ID number")
	cmd.Flags().StringVar(&accountGender, "gender", "", "Gender (M/F)")
	cmd.Flags().StringVar(&accountType, "type", "", "Account type (C/S)")
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.PersistentFlags().StringVar(&adminCode, "code", "", "Administrator access code")
	accountCmd.MarkPersistentFlagRequired("code")

	accountCmd.AddCommand(accountCreateCmd, accountListCmd, accountShowCmd, accountEditCmd, accountDeleteCmd, accountResetPINCmd)

	addProfileFlags(accountCreateCmd)
	accountCreateCmd.Flags().StringVar(&accountPIN, "pin", "", "4-digit PIN")
	accountCreateCmd.Flags().StringVar(&accountBalance, "balance", "0", "Opening balance (RM)")
	for _, f := range []string{"name", "identity", "gender", "type", "pin"} {
		accountCreateCmd.MarkFlagRequired(f)
	}

	addProfileFlags(accountEditCmd)
	accountEditCmd.Flags().StringVar(&accountPIN, "pin", "", "New 4-digit PIN, applied with the profile")

	accountResetPINCmd.Flags().StringVar(&accountPIN, "pin", "", "New 4-digit PIN")
	accountResetPINCmd.MarkFlagRequired("pin")

	accountListCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
