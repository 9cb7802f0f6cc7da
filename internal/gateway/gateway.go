package gateway

import (
	"context"

	"github.com/ignite/crm-insights/internal/domain"
)

// MaxPerPage caps the size of a single list read. Reports that need the
// whole collection issue one read at this cap; anything larger belongs in
// the backing store, not in memory.
const MaxPerPage = 10000

// Pagination selects a page of a collection. Page is 1-based.
type Pagination struct {
	Page    int
	PerPage int
}

// Sort orders a collection by a single field.
type Sort struct {
	Field string
	Order string // "ASC" or "DESC"
}

// ListParams carries pagination, sort, and equality filters for a list
// read. A nil Filter means no filtering.
type ListParams struct {
	Pagination Pagination
	Sort       Sort
	Filter     map[string]any
}

// All returns params that read the whole collection up to MaxPerPage.
func All() ListParams {
	return ListParams{Pagination: Pagination{Page: 1, PerPage: MaxPerPage}}
}

// Normalize clamps pagination to sane bounds.
func (p ListParams) Normalize() ListParams {
	if p.Pagination.Page < 1 {
		p.Pagination.Page = 1
	}
	if p.Pagination.PerPage < 1 || p.Pagination.PerPage > MaxPerPage {
		p.Pagination.PerPage = MaxPerPage
	}
	return p
}

// Gateway is the data access boundary for the reporting engine. It only
// reads; entity lifecycle belongs to the backing store. Implementations
// may return a nil slice for an empty collection; consumers treat nil as
// empty.
type Gateway interface {
	ListOrganizations(ctx context.Context, p ListParams) ([]domain.Organization, error)
	ListContacts(ctx context.Context, p ListParams) ([]domain.Contact, error)
	ListInteractions(ctx context.Context, p ListParams) ([]domain.Interaction, error)
	ListDeals(ctx context.Context, p ListParams) ([]domain.Deal, error)
	ListSettings(ctx context.Context, p ListParams) ([]domain.Setting, error)
}
