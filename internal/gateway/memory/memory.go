package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ignite/crm-insights/internal/domain"
	"github.com/ignite/crm-insights/internal/gateway"
)

// Gateway is an in-memory gateway implementation. It backs tests and the
// zero-config demo mode of cmd/server. Safe for concurrent use.
type Gateway struct {
	mu            sync.RWMutex
	organizations []domain.Organization
	contacts      []domain.Contact
	interactions  []domain.Interaction
	deals         []domain.Deal
	settings      []domain.Setting
}

// New creates an empty in-memory gateway.
func New() *Gateway { return &Gateway{} }

// Seed replaces all collections at once.
func (g *Gateway) Seed(
	orgs []domain.Organization,
	contacts []domain.Contact,
	interactions []domain.Interaction,
	deals []domain.Deal,
	settings []domain.Setting,
) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.organizations = orgs
	g.contacts = contacts
	g.interactions = interactions
	g.deals = deals
	g.settings = settings
}

func (g *Gateway) ListOrganizations(ctx context.Context, p gateway.ListParams) ([]domain.Organization, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.Organization, 0, len(g.organizations))
	for _, o := range g.organizations {
		if matchOrganization(o, p.Filter) {
			out = append(out, o)
		}
	}
	return page(out, p), ctx.Err()
}

func (g *Gateway) ListContacts(ctx context.Context, p gateway.ListParams) ([]domain.Contact, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.Contact, 0, len(g.contacts))
	for _, c := range g.contacts {
		if s, ok := p.Filter["organization_id"].(string); ok && c.OrganizationID != s {
			continue
		}
		out = append(out, c)
	}
	return page(out, p), ctx.Err()
}

func (g *Gateway) ListInteractions(ctx context.Context, p gateway.ListParams) ([]domain.Interaction, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.Interaction, 0, len(g.interactions))
	for _, i := range g.interactions {
		if s, ok := p.Filter["organization_id"].(string); ok && i.OrganizationID != s {
			continue
		}
		if s, ok := p.Filter["type_id"].(string); ok && i.TypeID != s {
			continue
		}
		out = append(out, i)
	}
	if strings.EqualFold(p.Sort.Field, "created_at") {
		desc := strings.EqualFold(p.Sort.Order, "DESC")
		sort.SliceStable(out, func(a, b int) bool {
			if desc {
				return out[a].CreatedAt.After(out[b].CreatedAt)
			}
			return out[a].CreatedAt.Before(out[b].CreatedAt)
		})
	}
	return page(out, p), ctx.Err()
}

func (g *Gateway) ListDeals(ctx context.Context, p gateway.ListParams) ([]domain.Deal, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.Deal, 0, len(g.deals))
	for _, d := range g.deals {
		if s, ok := p.Filter["organization_id"].(string); ok && d.OrganizationID != s {
			continue
		}
		out = append(out, d)
	}
	return page(out, p), ctx.Err()
}

func (g *Gateway) ListSettings(ctx context.Context, p gateway.ListParams) ([]domain.Setting, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.Setting, 0, len(g.settings))
	for _, s := range g.settings {
		if c, ok := p.Filter["category"].(string); ok && string(s.Category) != c {
			continue
		}
		out = append(out, s)
	}
	return page(out, p), ctx.Err()
}

func matchOrganization(o domain.Organization, filter map[string]any) bool {
	if s, ok := filter["name"].(string); ok && !strings.EqualFold(o.Name, s) {
		return false
	}
	if s, ok := filter["priority_id"].(string); ok && o.PriorityID != s {
		return false
	}
	if s, ok := filter["segment_id"].(string); ok && o.SegmentID != s {
		return false
	}
	return true
}

func page[T any](items []T, p gateway.ListParams) []T {
	p = p.Normalize()
	start := (p.Pagination.Page - 1) * p.Pagination.PerPage
	if start >= len(items) {
		return nil
	}
	end := start + p.Pagination.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
