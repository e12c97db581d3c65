package sim

import (
	"context"
	"errors"
	"sync"

	"github.com/san-kum/rocketsim/internal/dynamo"
)

// Batch flies several independent runners concurrently. Runners must not
// share controllers, detectors or metrics since those carry per-run state.
type Batch struct {
	runners []*Runner
}

func NewBatch(runners ...*Runner) *Batch {
	return &Batch{runners: runners}
}

func (b *Batch) Add(r *Runner) { b.runners = append(b.runners, r) }

func (b *Batch) Len() int { return len(b.runners) }

// Run returns one result per runner in the order they were added. Results
// of runners that failed may be nil; their errors are joined.
func (b *Batch) Run(ctx context.Context, cfg dynamo.Config) ([]*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]*Result, len(b.runners))
	errs := make([]error, len(b.runners))

	var wg sync.WaitGroup
	for i, r := range b.runners {
		wg.Add(1)
		go func(idx int, r *Runner) {
			defer wg.Done()
			results[idx], errs[idx] = r.Run(ctx, cfg)
		}(i, r)
	}

	wg.Wait()

	return results, errors.Join(errs...)
}
