package tally_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/pkg/core"
)

// Example_basic opens a ledger in a temporary directory, creates an account
// and moves some money through it.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "tally-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	ledger, err := tally.New(ctx, tmpDir, tally.WithDevSafety(false))
	if err != nil {
		log.Fatal(err)
	}
	defer ledger.Close()

	id, err := ledger.CreateAccount(ctx, tally.Profile{
		Name:     "Alice Tan",
		Identity: "AB12345",
		Gender:   core.Female,
		Type:     core.Savings,
	}, 1234, 500)
	if err != nil {
		log.Fatal(err)
	}

	if _, err := ledger.Deposit(ctx, id, 1234, 200); err != nil {
		log.Fatal(err)
	}
	balance, err := ledger.Withdraw(ctx, id, 1234, 100)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Account %s balance: %d\n", core.FormatAccountID(id), balance)
	// Output:
	// Account 0001 balance: 600
}
