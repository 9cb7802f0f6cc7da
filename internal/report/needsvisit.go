package report

import (
	"context"
	"sort"
	"time"

	"github.com/ignite/crm-insights/internal/domain"
	"github.com/ignite/crm-insights/internal/gateway"
)

// NeedsVisitThresholdDays is the minimum contact gap before an
// organization shows up on the needs-visit list.
const NeedsVisitThresholdDays = 30

// Urgency score weights.
const (
	priorityBonusHigh   = 50
	priorityBonusMedium = 25
	contactCountWeight  = 5
)

// NeedsVisit joins organizations, contacts, interactions, and settings
// into the ranked needs-visit list. Fails atomically with
// ErrNeedsVisitReport on any gateway failure.
func (a *Aggregator) NeedsVisit(ctx context.Context) ([]domain.OrganizationNeedsVisit, error) {
	var (
		orgs         []domain.Organization
		contacts     []domain.Contact
		interactions []domain.Interaction
		settings     []domain.Setting
	)

	err := fanOut(
		func() (e error) { orgs, e = a.gw.ListOrganizations(ctx, gateway.All()); return },
		func() (e error) { contacts, e = a.gw.ListContacts(ctx, gateway.All()); return },
		func() (e error) { interactions, e = a.gw.ListInteractions(ctx, gateway.All()); return },
		func() (e error) { settings, e = a.allSettings(ctx); return },
	)
	if err != nil {
		return nil, domainErr(ErrNeedsVisitReport, err)
	}

	return ComputeNeedsVisit(orgs, contacts, interactions, settings, time.Now()), nil
}

// ComputeNeedsVisit is the pure reduction behind NeedsVisit. Output is
// sorted by urgency score descending; equal scores tie-break on
// organization id ascending so the ranking is deterministic.
func ComputeNeedsVisit(
	orgs []domain.Organization,
	contacts []domain.Contact,
	interactions []domain.Interaction,
	settings []domain.Setting,
	now time.Time,
) []domain.OrganizationNeedsVisit {
	settingByID := domain.SettingsByID(settings)

	lastContact := make(map[string]time.Time, len(orgs))
	for _, i := range interactions {
		if prev, ok := lastContact[i.OrganizationID]; !ok || i.CreatedAt.After(prev) {
			lastContact[i.OrganizationID] = i.CreatedAt
		}
	}

	contactCount := make(map[string]int, len(orgs))
	for _, c := range contacts {
		contactCount[c.OrganizationID]++
	}

	var out []domain.OrganizationNeedsVisit
	for _, org := range orgs {
		row := domain.OrganizationNeedsVisit{
			OrganizationID:   org.ID,
			Name:             org.Name,
			Segment:          settingLabel(settingByID, org.SegmentID),
			Priority:         settingLabel(settingByID, org.PriorityID),
			DaysSinceContact: domain.NeverContactedDays,
			ContactCount:     contactCount[org.ID],
			AccountManager:   org.AccountManager,
		}

		if last, ok := lastContact[org.ID]; ok {
			row.LastContactDate = &last
			row.DaysSinceContact = int(now.Sub(last).Hours() / 24)
		}
		if row.DaysSinceContact < NeedsVisitThresholdDays {
			continue
		}

		row.UrgencyScore = row.DaysSinceContact +
			priorityBonus(settingByID, org.PriorityID) +
			row.ContactCount*contactCountWeight
		out = append(out, row)
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].UrgencyScore != out[b].UrgencyScore {
			return out[a].UrgencyScore > out[b].UrgencyScore
		}
		return out[a].OrganizationID < out[b].OrganizationID
	})
	return out
}

func settingLabel(byID map[string]domain.Setting, id string) string {
	if s, ok := byID[id]; ok && s.Label != "" {
		return s.Label
	}
	return "Unknown"
}

func priorityBonus(byID map[string]domain.Setting, priorityID string) int {
	switch byID[priorityID].Key {
	case "high":
		return priorityBonusHigh
	case "medium":
		return priorityBonusMedium
	default:
		return 0
	}
}
