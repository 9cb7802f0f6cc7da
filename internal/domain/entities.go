package domain

import (
	"time"
)

// SettingCategory enumerates the lookup-table categories referenced by id
// from the other entities.
type SettingCategory string

const (
	SettingPriority        SettingCategory = "priority"
	SettingSegment         SettingCategory = "segment"
	SettingDistributor     SettingCategory = "distributor"
	SettingInteractionType SettingCategory = "interaction_type"
)

// Organization represents a business relationship (customer, prospect,
// partner) managed in the CRM.
type Organization struct {
	ID             string     `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	PriorityID     string     `json:"priority_id" db:"priority_id"`
	SegmentID      string     `json:"segment_id" db:"segment_id"`
	DistributorID  string     `json:"distributor_id" db:"distributor_id"`
	Address        string     `json:"address" db:"address"`
	City           string     `json:"city" db:"city"`
	PostalCode     string     `json:"postal_code" db:"postal_code"`
	Country        string     `json:"country" db:"country"`
	Latitude       *float64   `json:"latitude" db:"latitude"`
	Longitude      *float64   `json:"longitude" db:"longitude"`
	AccountManager string     `json:"account_manager" db:"account_manager"`
	Revenue        float64    `json:"revenue" db:"revenue"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at" db:"updated_at"`
}

// Contact is a person attached to an organization.
type Contact struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	Email          string    `json:"email" db:"email"`
	Phone          string    `json:"phone" db:"phone"`
	IsPrimary      bool      `json:"is_primary" db:"is_primary"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// FullName returns the contact's display name.
func (c Contact) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Interaction is a logged touchpoint with an organization: a visit, a call,
// an email, etc. TypeID references an "interaction_type" setting.
type Interaction struct {
	ID             string     `json:"id" db:"id"`
	OrganizationID string     `json:"organization_id" db:"organization_id"`
	ContactID      *string    `json:"contact_id" db:"contact_id"`
	TypeID         string     `json:"type_id" db:"type_id"`
	Notes          string     `json:"notes" db:"notes"`
	IsCompleted    bool       `json:"is_completed" db:"is_completed"`
	CompletedAt    *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// Deal stages treated as successful when computing conversion.
const (
	DealStageWon       = "won"
	DealStageClosedWon = "closed-won"
)

// Deal is a sales opportunity attached to an organization. Stage is a
// free-form label; see DealStageWon / DealStageClosedWon.
type Deal struct {
	ID             string    `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	Name           string    `json:"name" db:"name"`
	Amount         float64   `json:"amount" db:"amount"`
	Stage          string    `json:"stage" db:"stage"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// IsWon reports whether the deal counts toward the conversion rate.
// Matching is exact and case-sensitive.
func (d Deal) IsWon() bool {
	return d.Stage == DealStageWon || d.Stage == DealStageClosedWon
}

// Setting is a generic lookup-table record (priority level, business
// segment, distributor, interaction type) referenced by id from the
// other entities.
type Setting struct {
	ID        string          `json:"id" db:"id"`
	Category  SettingCategory `json:"category" db:"category"`
	Key       string          `json:"key" db:"key"`
	Label     string          `json:"label" db:"label"`
	Color     string          `json:"color" db:"color"`
	SortOrder int             `json:"sort_order" db:"sort_order"`
	Active    bool            `json:"active" db:"active"`
}

// SettingsByID builds an id lookup map from a settings slice.
func SettingsByID(settings []Setting) map[string]Setting {
	m := make(map[string]Setting, len(settings))
	for _, s := range settings {
		m[s.ID] = s
	}
	return m
}
