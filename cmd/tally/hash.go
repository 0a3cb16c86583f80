package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/tally/internal/auth"
)

var hashCodeCmd = &cobra.Command{
	Use:   "hash-code <code>",
	Short: "Print the bcrypt hash of an access code",
	Long: `Print the bcrypt hash of an access code. The hash can replace the plain
code in tally.yaml (admin_code, staff_code) or in TALLY_ADMIN_CODE and
TALLY_STAFF_CODE. In a .env file wrap it in single quotes so the $
signs are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hashed, err := auth.Hash(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hashed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashCodeCmd)
}
