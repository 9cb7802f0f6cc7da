package report

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ignite/crm-insights/internal/domain"
	"github.com/ignite/crm-insights/internal/gateway"
)

// Domain errors surfaced by the public report operations. The underlying
// gateway cause is preserved in the error chain for diagnostics.
var (
	ErrDashboardReport   = errors.New("failed to generate dashboard report")
	ErrInteractionReport = errors.New("failed to generate interaction metrics")
	ErrNeedsVisitReport  = errors.New("failed to find organizations needing visits")
)

// Aggregator computes the reporting views over a data access gateway.
// Each operation fetches its own snapshot; no state is shared between
// calls, so an Aggregator is safe for concurrent use.
type Aggregator struct {
	gw gateway.Gateway
}

// NewAggregator creates an aggregator backed by the given gateway.
func NewAggregator(gw gateway.Gateway) *Aggregator {
	return &Aggregator{gw: gw}
}

// fanOut runs independent gateway reads concurrently and returns the
// first error, if any. Reads are purely additive inputs to a reduction,
// so ordering between them does not matter.
func fanOut(fns ...func() error) error {
	var wg sync.WaitGroup
	errs := make([]error, len(fns))
	for i, fn := range fns {
		wg.Add(1)
		go func(i int, fn func() error) {
			defer wg.Done()
			errs[i] = fn()
		}(i, fn)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func domainErr(sentinel, cause error) error {
	return fmt.Errorf("%w: %v", sentinel, cause)
}

func (a *Aggregator) allSettings(ctx context.Context) ([]domain.Setting, error) {
	return a.gw.ListSettings(ctx, gateway.All())
}
