package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tally/internal/auth"
	"github.com/aretw0/tally/internal/console"
	"github.com/aretw0/tally/pkg/core"
)

var logsCode string

var logsCmd = &cobra.Command{
	Use:   "logs <account>",
	Short: "Show the full log of an account, including deleted ones (staff)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAccountID(args[0])
		if err != nil {
			return err
		}
		gate, err := newGate()
		if err != nil {
			return err
		}
		role, err := gate.VerifyAny(logsCode, auth.Staff, auth.Admin)
		if err != nil {
			logger.Warn("logs command refused", "code", logsCode)
			return err
		}
		logger.Debug("logs requested", "role", role, "account", id)

		return withLedger(cmd.Context(), true, func(l *core.Ledger) error {
			h, err := l.History(cmd.Context(), id)
			if err != nil {
				return failure(err)
			}
			if h.Archived {
				fmt.Printf("Account %s was deleted. Archived log:\n", core.FormatAccountID(id))
			}
			if len(h.Entries) == 0 {
				fmt.Println("[No logs]")
				return nil
			}
			console.WriteEntries(os.Stdout, h.Entries)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().StringVar(&logsCode, "code", "", "Staff or administrator access code")
	logsCmd.MarkFlagRequired("code")
}
