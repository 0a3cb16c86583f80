package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/tally/pkg/adapters/fs"
)

type changeSource struct {
	changes <-chan fs.ExternalChange
	out     chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits foreign resource changes.
// It bridges the typed change channel of fs.Repository.Watch to the generic
// lifecycle Event interface.
func NewSource(changes <-chan fs.ExternalChange) lifecycle.Source {
	return &changeSource{
		changes: changes,
		out:     make(chan lifecycle.Event),
	}
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *changeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case c, ok := <-s.changes:
				if !ok {
					return nil
				}
				// fs.ExternalChange implements lifecycle.Event (has String())
				select {
				case s.out <- c:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
