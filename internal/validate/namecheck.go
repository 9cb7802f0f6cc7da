// Package validate holds form-validation helpers that sit next to the
// reporting engine, sharing its gateway.
package validate

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/ignite/crm-insights/internal/gateway"
)

// ErrStale marks a duplicate-check result that was superseded by a newer
// check before it finished. Callers drop stale results instead of
// applying them.
var ErrStale = errors.New("duplicate check superseded")

// DuplicateChecker answers "is this organization name already taken"
// with latest-request-wins semantics: each Check bumps a generation
// counter, and only the result matching the current generation is
// honored. This is not coalescing; overlapping checks still each hit
// the gateway.
type DuplicateChecker struct {
	gw  gateway.Gateway
	gen atomic.Int64
}

// NewDuplicateChecker creates a checker on the given gateway.
func NewDuplicateChecker(gw gateway.Gateway) *DuplicateChecker {
	return &DuplicateChecker{gw: gw}
}

// CheckOrganizationName reports whether another organization already uses
// name. excludeID exempts the record currently being edited. Returns
// ErrStale when a newer check started while this one was in flight.
func (d *DuplicateChecker) CheckOrganizationName(ctx context.Context, name, excludeID string) (bool, error) {
	gen := d.gen.Add(1)

	params := gateway.All()
	params.Filter = map[string]any{"name": name}
	orgs, err := d.gw.ListOrganizations(ctx, params)

	if d.gen.Load() != gen {
		return false, ErrStale
	}
	if err != nil {
		return false, err
	}

	for _, o := range orgs {
		if o.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}
