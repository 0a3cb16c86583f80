package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/tally/internal/platform"
	"github.com/aretw0/tally/pkg/adapters/fs"
	"github.com/aretw0/tally/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report modifications of the data files until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		repo, err := platform.Init(ctx, cfg.DataDir, platformOptions(true)...)
		if err != nil {
			return err
		}
		fsRepo, ok := repo.(*fs.Repository)
		if !ok {
			return fmt.Errorf("repository does not support watching")
		}
		defer fsRepo.Close()

		changes, err := fsRepo.Watch(ctx)
		if err != nil {
			return err
		}
		src := lifecycle.NewSource(changes)
		if err := src.Start(ctx); err != nil {
			return err
		}

		logger.Info("watching data directory", "dir", cfg.DataDir)
		for e := range src.Events() {
			fmt.Println(e.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
