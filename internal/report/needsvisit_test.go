package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/crm-insights/internal/domain"
)

func visitSettings() []domain.Setting {
	return []domain.Setting{
		{ID: "p-high", Category: domain.SettingPriority, Key: "high", Label: "High"},
		{ID: "p-med", Category: domain.SettingPriority, Key: "medium", Label: "Medium"},
		{ID: "p-low", Category: domain.SettingPriority, Key: "low", Label: "Low"},
		{ID: "s1", Category: domain.SettingSegment, Key: "restaurant", Label: "Restaurant"},
	}
}

func daysAgo(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}

func TestNeedsVisitInclusionThreshold(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	orgs := []domain.Organization{
		{ID: "fresh", Name: "Fresh"},
		{ID: "boundary", Name: "Boundary"},
		{ID: "stale", Name: "Stale"},
		{ID: "never", Name: "Never"},
	}
	interactions := []domain.Interaction{
		{OrganizationID: "fresh", CreatedAt: daysAgo(now, 5)},
		{OrganizationID: "boundary", CreatedAt: daysAgo(now, 30)},
		{OrganizationID: "stale", CreatedAt: daysAgo(now, 90)},
	}

	out := ComputeNeedsVisit(orgs, nil, interactions, visitSettings(), now)

	ids := make([]string, 0, len(out))
	for _, row := range out {
		ids = append(ids, row.OrganizationID)
		assert.GreaterOrEqual(t, row.DaysSinceContact, NeedsVisitThresholdDays)
	}
	assert.ElementsMatch(t, []string{"boundary", "stale", "never"}, ids)
}

func TestNeedsVisitScoring(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	orgs := []domain.Organization{
		{ID: "o1", Name: "Quai 21", PriorityID: "p-high", SegmentID: "s1", AccountManager: "am-7"},
	}
	contacts := []domain.Contact{
		{ID: "c1", OrganizationID: "o1"},
		{ID: "c2", OrganizationID: "o1"},
	}
	interactions := []domain.Interaction{
		{OrganizationID: "o1", CreatedAt: daysAgo(now, 400)},
		{OrganizationID: "o1", CreatedAt: daysAgo(now, 500)}, // older, ignored
	}

	out := ComputeNeedsVisit(orgs, contacts, interactions, visitSettings(), now)

	require.Len(t, out, 1)
	row := out[0]
	assert.Equal(t, 400, row.DaysSinceContact)
	assert.Equal(t, 460, row.UrgencyScore) // 400 + 50 high + 2*5 contacts
	assert.Equal(t, 2, row.ContactCount)
	assert.Equal(t, "High", row.Priority)
	assert.Equal(t, "Restaurant", row.Segment)
	assert.Equal(t, "am-7", row.AccountManager)
	require.NotNil(t, row.LastContactDate)
	assert.Equal(t, daysAgo(now, 400), *row.LastContactDate)
}

func TestNeedsVisitPriorityBonuses(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		priorityID string
		wantScore  int
	}{
		{"high", "p-high", 90},
		{"medium", "p-med", 65},
		{"low", "p-low", 40},
		{"unresolved", "nope", 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orgs := []domain.Organization{{ID: "o1", PriorityID: tt.priorityID}}
			interactions := []domain.Interaction{{OrganizationID: "o1", CreatedAt: daysAgo(now, 40)}}

			out := ComputeNeedsVisit(orgs, nil, interactions, visitSettings(), now)

			require.Len(t, out, 1)
			assert.Equal(t, tt.wantScore, out[0].UrgencyScore)
			assert.GreaterOrEqual(t, out[0].UrgencyScore, out[0].DaysSinceContact)
		})
	}
}

func TestNeedsVisitNeverContacted(t *testing.T) {
	now := time.Now()
	orgs := []domain.Organization{{ID: "o1", Name: "Ghost"}}

	out := ComputeNeedsVisit(orgs, nil, nil, visitSettings(), now)

	require.Len(t, out, 1)
	assert.Equal(t, domain.NeverContactedDays, out[0].DaysSinceContact)
	assert.Nil(t, out[0].LastContactDate)
	assert.Equal(t, domain.NeverContactedDays, out[0].UrgencyScore)
	assert.Equal(t, "Unknown", out[0].Priority)
	assert.Equal(t, "Unknown", out[0].Segment)
}

func TestNeedsVisitOrdering(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	orgs := []domain.Organization{
		{ID: "b", PriorityID: "p-low"},
		{ID: "a", PriorityID: "p-low"},
		{ID: "c", PriorityID: "p-high"},
	}
	interactions := []domain.Interaction{
		{OrganizationID: "a", CreatedAt: daysAgo(now, 60)},
		{OrganizationID: "b", CreatedAt: daysAgo(now, 60)},
		{OrganizationID: "c", CreatedAt: daysAgo(now, 60)},
	}

	out := ComputeNeedsVisit(orgs, nil, interactions, visitSettings(), now)

	require.Len(t, out, 3)
	// c wins on the priority bonus; a and b tie and fall back to id order
	assert.Equal(t, "c", out[0].OrganizationID)
	assert.Equal(t, "a", out[1].OrganizationID)
	assert.Equal(t, "b", out[2].OrganizationID)
}

func TestNeedsVisitGatewayFailure(t *testing.T) {
	a := NewAggregator(&failingGateway{err: context.DeadlineExceeded})

	out, err := a.NeedsVisit(context.Background())

	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrNeedsVisitReport)
}
