package platform

import (
	"context"
	"errors"

	"github.com/aretw0/tally/pkg/core"
)

// New opens the data directory and returns a loaded ledger.
//
//	ledger, err := platform.New(ctx, "./data", platform.WithLogger(logger))
//
// The caller owns the ledger and must Close it to release the directory.
func New(ctx context.Context, dir string, opts ...Option) (*core.Ledger, error) {
	repo, err := Init(ctx, dir, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var ledgerOpts []core.LedgerOption
	if o.logger != nil {
		ledgerOpts = append(ledgerOpts, core.WithLogger(o.logger))
	}
	if o.policy != nil {
		ledgerOpts = append(ledgerOpts, core.WithPolicy(*o.policy))
	}
	if o.clock != nil {
		ledgerOpts = append(ledgerOpts, core.WithClock(o.clock))
	}

	ledger := core.NewLedger(repo, ledgerOpts...)
	if err := ledger.Load(ctx); err != nil {
		return nil, errors.Join(err, ledger.Close())
	}
	return ledger, nil
}
