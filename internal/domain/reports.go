package domain

import (
	"time"
)

// TrendCounts holds interaction counts over backward-looking windows
// relative to the moment the report was generated.
type TrendCounts struct {
	Daily   int `json:"daily"`   // last 24h
	Weekly  int `json:"weekly"`  // last 7d
	Monthly int `json:"monthly"` // last 30d
}

// DashboardSummary is the aggregate view shown on the main dashboard.
type DashboardSummary struct {
	TotalInteractions  int         `json:"total_interactions"`
	TotalOrganizations int         `json:"total_organizations"`
	TotalContacts      int         `json:"total_contacts"`
	TotalOpportunities int         `json:"total_opportunities"`
	PipelineValue      float64     `json:"pipeline_value"`
	ConversionRate     float64     `json:"conversion_rate"` // percent, 0-100
	Trends             TrendCounts `json:"trends"`
	GeneratedAt        time.Time   `json:"generated_at"`
}

// BreakdownEntry is one slice of an interaction breakdown (by type,
// by principal, by segment).
type BreakdownEntry struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"` // percent of the filtered set, 2 decimals
}

// TimelineEntry is one calendar day of the fixed 30-day timeline.
type TimelineEntry struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Count     int    `json:"count"`
	Completed int    `json:"completed"`
}

// InteractionMetrics is the interaction analytics report.
// Timeline always holds exactly 30 entries, oldest first.
type InteractionMetrics struct {
	Total       int              `json:"total"`
	ByType      []BreakdownEntry `json:"by_type"`
	ByPrincipal []BreakdownEntry `json:"by_principal"`
	BySegment   []BreakdownEntry `json:"by_segment"`
	Timeline    []TimelineEntry  `json:"timeline"`
}

// NeverContactedDays is the days-since-contact sentinel for organizations
// with no interaction on record.
const NeverContactedDays = 999

// OrganizationNeedsVisit is one row of the prioritized "needs attention"
// list. UrgencyScore is always >= DaysSinceContact.
type OrganizationNeedsVisit struct {
	OrganizationID   string     `json:"organization_id"`
	Name             string     `json:"name"`
	Segment          string     `json:"segment"`
	Priority         string     `json:"priority"`
	LastContactDate  *time.Time `json:"last_contact_date"`
	DaysSinceContact int        `json:"days_since_contact"`
	UrgencyScore     int        `json:"urgency_score"`
	ContactCount     int        `json:"contact_count"`
	AccountManager   string     `json:"account_manager"`
}

// CSVColumn maps one record field to one CSV column. When Transform is
// nil the raw value is stringified as-is.
type CSVColumn struct {
	Key       string
	Header    string
	Transform func(value any) string
}

// CSVExportData is a finished export payload, ready for a download sink.
type CSVExportData struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
}
