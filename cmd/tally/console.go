package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tally/internal/console"
	"github.com/aretw0/tally/pkg/core"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive teller menus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gate, err := newGate()
		if err != nil {
			return err
		}
		return withLedger(cmd.Context(), false, func(l *core.Ledger) error {
			c := console.New(l, gate, os.Stdin, os.Stdout,
				console.WithLogger(logger),
				console.WithStatementSize(cfg.StatementSize),
			)
			return c.Run(cmd.Context())
		})
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
