package report

import (
	"context"
	"math"
	"time"

	"github.com/ignite/crm-insights/internal/domain"
	"github.com/ignite/crm-insights/internal/gateway"
)

// TimelineDays is the fixed length of the interaction timeline.
const TimelineDays = 30

// InteractionFilter narrows the interaction set the breakdowns are
// computed over. Date bounds are inclusive. The timeline ignores this
// filter entirely; it is always the last TimelineDays calendar days.
type InteractionFilter struct {
	Start          *time.Time
	End            *time.Time
	OrganizationID string
	TypeID         string
}

func (f InteractionFilter) matches(i domain.Interaction) bool {
	if f.Start != nil && i.CreatedAt.Before(*f.Start) {
		return false
	}
	if f.End != nil && i.CreatedAt.After(*f.End) {
		return false
	}
	if f.OrganizationID != "" && i.OrganizationID != f.OrganizationID {
		return false
	}
	if f.TypeID != "" && i.TypeID != f.TypeID {
		return false
	}
	return true
}

// InteractionMetrics fetches interactions plus the lookup collections and
// computes the analytics report. Fails atomically with
// ErrInteractionReport on any gateway failure.
func (a *Aggregator) InteractionMetrics(ctx context.Context, f InteractionFilter) (*domain.InteractionMetrics, error) {
	var (
		interactions []domain.Interaction
		orgs         []domain.Organization
		settings     []domain.Setting
	)

	err := fanOut(
		func() (e error) { interactions, e = a.gw.ListInteractions(ctx, gateway.All()); return },
		func() (e error) { orgs, e = a.gw.ListOrganizations(ctx, gateway.All()); return },
		func() (e error) { settings, e = a.allSettings(ctx); return },
	)
	if err != nil {
		return nil, domainErr(ErrInteractionReport, err)
	}

	m := ComputeInteractionMetrics(interactions, orgs, settings, f, time.Now())
	return &m, nil
}

// ComputeInteractionMetrics is the pure reduction behind
// InteractionMetrics. The breakdowns cover the filtered set; byPrincipal
// and bySegment join each interaction to its organization's distributor
// and segment setting respectively.
func ComputeInteractionMetrics(
	interactions []domain.Interaction,
	orgs []domain.Organization,
	settings []domain.Setting,
	f InteractionFilter,
	now time.Time,
) domain.InteractionMetrics {
	filtered := make([]domain.Interaction, 0, len(interactions))
	for _, i := range interactions {
		if f.matches(i) {
			filtered = append(filtered, i)
		}
	}

	orgByID := make(map[string]domain.Organization, len(orgs))
	for _, o := range orgs {
		orgByID[o.ID] = o
	}

	m := domain.InteractionMetrics{
		Total: len(filtered),
		ByType: breakdown(settings, domain.SettingInteractionType, filtered, func(i domain.Interaction) string {
			return i.TypeID
		}),
		ByPrincipal: breakdown(settings, domain.SettingDistributor, filtered, func(i domain.Interaction) string {
			return orgByID[i.OrganizationID].DistributorID
		}),
		BySegment: breakdown(settings, domain.SettingSegment, filtered, func(i domain.Interaction) string {
			return orgByID[i.OrganizationID].SegmentID
		}),
		Timeline: timeline(interactions, now),
	}
	return m
}

// breakdown produces one entry per setting of the given category,
// counting filtered interactions whose key resolves to that setting.
func breakdown(
	settings []domain.Setting,
	category domain.SettingCategory,
	filtered []domain.Interaction,
	keyOf func(domain.Interaction) string,
) []domain.BreakdownEntry {
	counts := make(map[string]int)
	for _, i := range filtered {
		counts[keyOf(i)]++
	}

	var out []domain.BreakdownEntry
	for _, s := range settings {
		if s.Category != category {
			continue
		}
		entry := domain.BreakdownEntry{ID: s.ID, Label: s.Label, Count: counts[s.ID]}
		if len(filtered) > 0 {
			pct := float64(entry.Count) / float64(len(filtered)) * 100
			entry.Percentage = math.Round(pct*100) / 100
		}
		out = append(out, entry)
	}
	return out
}

// timeline buckets interactions per calendar day over the trailing
// TimelineDays days, oldest first. Bucketing compares dates only, never
// time of day.
func timeline(interactions []domain.Interaction, now time.Time) []domain.TimelineEntry {
	const layout = "2006-01-02"

	counts := make(map[string]*domain.TimelineEntry, TimelineDays)
	out := make([]domain.TimelineEntry, TimelineDays)
	for i := 0; i < TimelineDays; i++ {
		date := now.AddDate(0, 0, i-(TimelineDays-1)).Format(layout)
		out[i] = domain.TimelineEntry{Date: date}
		counts[date] = &out[i]
	}

	for _, i := range interactions {
		entry, ok := counts[i.CreatedAt.Format(layout)]
		if !ok {
			continue
		}
		entry.Count++
		if i.IsCompleted {
			entry.Completed++
		}
	}
	return out
}
