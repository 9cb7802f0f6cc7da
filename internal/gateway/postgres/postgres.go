package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/ignite/crm-insights/internal/domain"
	"github.com/ignite/crm-insights/internal/gateway"
)

// Gateway implements gateway.Gateway against PostgreSQL.
type Gateway struct{ db *sql.DB }

// New creates a Postgres-backed gateway.
func New(db *sql.DB) *Gateway { return &Gateway{db: db} }

// allowed filter columns per table; anything else is ignored rather than
// interpolated into SQL.
var filterColumns = map[string]map[string]bool{
	"organizations": {"name": true, "priority_id": true, "segment_id": true},
	"contacts":      {"organization_id": true},
	"interactions":  {"organization_id": true, "type_id": true},
	"deals":         {"organization_id": true, "stage": true},
	"settings":      {"category": true},
}

func buildListQuery(table, columns string, p gateway.ListParams) (string, []any) {
	p = p.Normalize()
	q := fmt.Sprintf("SELECT %s FROM %s", columns, table)
	args := []any{}
	idx := 1

	allowed := filterColumns[table]
	cols := make([]string, 0, len(p.Filter))
	for col := range p.Filter {
		if allowed[col] {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols) // deterministic clause order
	var clauses []string
	for _, col := range cols {
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, p.Filter[col])
		idx++
	}
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}

	if p.Sort.Field != "" {
		order := "ASC"
		if strings.EqualFold(p.Sort.Order, "DESC") {
			order = "DESC"
		}
		// sort fields come from code, not user input, but keep them to
		// identifier characters anyway
		field := strings.Map(func(r rune) rune {
			if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				return r
			}
			return -1
		}, strings.ToLower(p.Sort.Field))
		if field != "" {
			q += fmt.Sprintf(" ORDER BY %s %s", field, order)
		}
	}

	q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, p.Pagination.PerPage, (p.Pagination.Page-1)*p.Pagination.PerPage)
	return q, args
}

func (g *Gateway) ListOrganizations(ctx context.Context, p gateway.ListParams) ([]domain.Organization, error) {
	q, args := buildListQuery("organizations", `
		id, name, COALESCE(priority_id,''), COALESCE(segment_id,''),
		COALESCE(distributor_id,''), COALESCE(address,''), COALESCE(city,''),
		COALESCE(postal_code,''), COALESCE(country,''), latitude, longitude,
		COALESCE(account_manager,''), COALESCE(revenue,0), created_at, updated_at`, p)

	rows, err := g.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var out []domain.Organization
	for rows.Next() {
		var o domain.Organization
		if err := rows.Scan(
			&o.ID, &o.Name, &o.PriorityID, &o.SegmentID,
			&o.DistributorID, &o.Address, &o.City,
			&o.PostalCode, &o.Country, &o.Latitude, &o.Longitude,
			&o.AccountManager, &o.Revenue, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (g *Gateway) ListContacts(ctx context.Context, p gateway.ListParams) ([]domain.Contact, error) {
	q, args := buildListQuery("contacts", `
		id, organization_id, COALESCE(first_name,''), COALESCE(last_name,''),
		COALESCE(email,''), COALESCE(phone,''), is_primary, created_at`, p)

	rows, err := g.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []domain.Contact
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(
			&c.ID, &c.OrganizationID, &c.FirstName, &c.LastName,
			&c.Email, &c.Phone, &c.IsPrimary, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (g *Gateway) ListInteractions(ctx context.Context, p gateway.ListParams) ([]domain.Interaction, error) {
	q, args := buildListQuery("interactions", `
		id, organization_id, contact_id, COALESCE(type_id,''),
		COALESCE(notes,''), is_completed, completed_at, created_at`, p)

	rows, err := g.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Interaction
	for rows.Next() {
		var i domain.Interaction
		if err := rows.Scan(
			&i.ID, &i.OrganizationID, &i.ContactID, &i.TypeID,
			&i.Notes, &i.IsCompleted, &i.CompletedAt, &i.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (g *Gateway) ListDeals(ctx context.Context, p gateway.ListParams) ([]domain.Deal, error) {
	q, args := buildListQuery("deals", `
		id, organization_id, COALESCE(name,''), COALESCE(amount,0),
		COALESCE(stage,''), created_at`, p)

	rows, err := g.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var out []domain.Deal
	for rows.Next() {
		var d domain.Deal
		if err := rows.Scan(
			&d.ID, &d.OrganizationID, &d.Name, &d.Amount, &d.Stage, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (g *Gateway) ListSettings(ctx context.Context, p gateway.ListParams) ([]domain.Setting, error) {
	q, args := buildListQuery("settings", `
		id, category, key, COALESCE(label,''), COALESCE(color,''),
		COALESCE(sort_order,0), active`, p)

	rows, err := g.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var out []domain.Setting
	for rows.Next() {
		var s domain.Setting
		if err := rows.Scan(
			&s.ID, &s.Category, &s.Key, &s.Label, &s.Color, &s.SortOrder, &s.Active,
		); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
