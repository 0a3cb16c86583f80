// Package tally is the composition root of the Tally teller ledger.
//
// It connects the core ledger (pkg/core) with the binary file storage
// (pkg/adapters/fs) using the same hexagonal layout as the rest of the
// module. Accounts and their activity logs live in two fixed-layout files,
// accounts.dat and logs.dat, rewritten atomically after every change.
//
// Features:
//
//   - **Transactional operations**: every change is validated, logged and
//     persisted, or rolled back in memory when the save fails.
//   - **Audit logs**: each account keeps a timestamped log that survives
//     account deletion.
//   - **Policy**: minimum balance, denomination and opening deposit rules.
//   - **Directory lock**: a single writer per data directory.
//
// Usage:
//
//	ledger, err := tally.New(ctx, "./data", tally.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer ledger.Close()
//
//	id, err := ledger.CreateAccount(ctx, tally.Profile{
//		Name:     "Alice Tan",
//		Identity: "AB12345",
//		Gender:   core.Female,
//		Type:     core.Savings,
//	}, 1234, 500)
package tally
