package main

import (
	"encoding/json"
	"os"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/tally/internal/platform"
	"github.com/aretw0/tally/pkg/core"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the ledger and repository state as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := platform.Init(cmd.Context(), cfg.DataDir, platformOptions(true)...)
		if err != nil {
			return err
		}
		ledger := core.NewLedger(repo, core.WithLogger(logger), core.WithPolicy(cfg.Policy))
		defer ledger.Close()
		if err := ledger.Load(cmd.Context()); err != nil {
			return err
		}

		report := map[string]any{}
		for _, c := range []any{ledger, repo} {
			comp, ok := c.(introspection.Component)
			if !ok {
				continue
			}
			if in, ok := c.(introspection.Introspectable); ok {
				report[comp.ComponentType()] = in.State()
			}
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
