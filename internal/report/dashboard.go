package report

import (
	"context"
	"time"

	"github.com/ignite/crm-insights/internal/domain"
	"github.com/ignite/crm-insights/internal/gateway"
)

// Dashboard fetches all four entity collections and reduces them to a
// DashboardSummary. It either returns a complete summary or fails with
// ErrDashboardReport; there is no partial result.
func (a *Aggregator) Dashboard(ctx context.Context) (*domain.DashboardSummary, error) {
	var (
		orgs         []domain.Organization
		contacts     []domain.Contact
		interactions []domain.Interaction
		deals        []domain.Deal
	)

	err := fanOut(
		func() (e error) { orgs, e = a.gw.ListOrganizations(ctx, gateway.All()); return },
		func() (e error) { contacts, e = a.gw.ListContacts(ctx, gateway.All()); return },
		func() (e error) { interactions, e = a.gw.ListInteractions(ctx, gateway.All()); return },
		func() (e error) { deals, e = a.gw.ListDeals(ctx, gateway.All()); return },
	)
	if err != nil {
		return nil, domainErr(ErrDashboardReport, err)
	}

	summary := ComputeDashboardSummary(orgs, contacts, interactions, deals, time.Now())
	return &summary, nil
}

// ComputeDashboardSummary is the pure reduction behind Dashboard.
// Nil collections are treated as empty. Trend window thresholds are
// inclusive, measured backward from now.
func ComputeDashboardSummary(
	orgs []domain.Organization,
	contacts []domain.Contact,
	interactions []domain.Interaction,
	deals []domain.Deal,
	now time.Time,
) domain.DashboardSummary {
	summary := domain.DashboardSummary{
		TotalInteractions:  len(interactions),
		TotalOrganizations: len(orgs),
		TotalContacts:      len(contacts),
		TotalOpportunities: len(deals),
		GeneratedAt:        now,
	}

	wonCount := 0
	for _, d := range deals {
		summary.PipelineValue += d.Amount
		if d.IsWon() {
			wonCount++
		}
	}
	if len(deals) > 0 {
		summary.ConversionRate = float64(wonCount) / float64(len(deals)) * 100
	}

	dayAgo := now.Add(-24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)
	for _, i := range interactions {
		if !i.CreatedAt.Before(dayAgo) {
			summary.Trends.Daily++
		}
		if !i.CreatedAt.Before(weekAgo) {
			summary.Trends.Weekly++
		}
		if !i.CreatedAt.Before(monthAgo) {
			summary.Trends.Monthly++
		}
	}

	return summary
}
