package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/crm-insights/internal/gateway"
)

func setupGateway(t *testing.T) (*Gateway, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return New(db), mock
}

func TestListOrganizations(t *testing.T) {
	gw, mock := setupGateway(t)
	created := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "name", "priority_id", "segment_id", "distributor_id",
		"address", "city", "postal_code", "country", "latitude", "longitude",
		"account_manager", "revenue", "created_at", "updated_at",
	}).AddRow(
		"o1", "Acme", "p1", "s1", "d1",
		"1 Main St", "Ghent", "9000", "BE", 51.05, 3.72,
		"am-1", 50000.0, created, nil,
	)

	mock.ExpectQuery("FROM organizations LIMIT \\$1 OFFSET \\$2").
		WithArgs(gateway.MaxPerPage, 0).
		WillReturnRows(rows)

	orgs, err := gw.ListOrganizations(context.Background(), gateway.All())
	require.NoError(t, err)
	require.Len(t, orgs, 1)

	o := orgs[0]
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, "Acme", o.Name)
	assert.Equal(t, "p1", o.PriorityID)
	require.NotNil(t, o.Latitude)
	assert.Equal(t, 51.05, *o.Latitude)
	assert.Equal(t, 50000.0, o.Revenue)
	assert.Nil(t, o.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrganizationsFilter(t *testing.T) {
	gw, mock := setupGateway(t)

	mock.ExpectQuery("FROM organizations WHERE name = \\$1 LIMIT \\$2 OFFSET \\$3").
		WithArgs("Acme", gateway.MaxPerPage, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "priority_id", "segment_id", "distributor_id",
			"address", "city", "postal_code", "country", "latitude", "longitude",
			"account_manager", "revenue", "created_at", "updated_at",
		}))

	params := gateway.All()
	params.Filter = map[string]any{"name": "Acme", "bogus_column": "ignored"}

	orgs, err := gw.ListOrganizations(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, orgs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListInteractionsSorted(t *testing.T) {
	gw, mock := setupGateway(t)
	created := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "organization_id", "contact_id", "type_id",
		"notes", "is_completed", "completed_at", "created_at",
	}).AddRow("i1", "o1", nil, "t1", "", false, nil, created)

	mock.ExpectQuery("FROM interactions ORDER BY created_at DESC LIMIT \\$1 OFFSET \\$2").
		WithArgs(gateway.MaxPerPage, 0).
		WillReturnRows(rows)

	params := gateway.All()
	params.Sort = gateway.Sort{Field: "created_at", Order: "DESC"}

	interactions, err := gw.ListInteractions(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, interactions, 1)
	assert.Nil(t, interactions[0].ContactID)
	assert.Equal(t, created, interactions[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDealsError(t *testing.T) {
	gw, mock := setupGateway(t)

	mock.ExpectQuery("FROM deals").
		WillReturnError(errors.New("connection reset"))

	deals, err := gw.ListDeals(context.Background(), gateway.All())
	assert.Nil(t, deals)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list deals")
}

func TestListSettingsByCategory(t *testing.T) {
	gw, mock := setupGateway(t)

	rows := sqlmock.NewRows([]string{
		"id", "category", "key", "label", "color", "sort_order", "active",
	}).
		AddRow("p1", "priority", "high", "High", "#f00", 1, true).
		AddRow("p2", "priority", "low", "Low", "#0f0", 2, true)

	mock.ExpectQuery("FROM settings WHERE category = \\$1 LIMIT \\$2 OFFSET \\$3").
		WithArgs("priority", gateway.MaxPerPage, 0).
		WillReturnRows(rows)

	params := gateway.All()
	params.Filter = map[string]any{"category": "priority"}

	settings, err := gw.ListSettings(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, settings, 2)
	assert.Equal(t, "high", settings[0].Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaginationClamped(t *testing.T) {
	gw, mock := setupGateway(t)

	// PerPage above the cap falls back to MaxPerPage; page 2 offsets
	mock.ExpectQuery("FROM contacts LIMIT \\$1 OFFSET \\$2").
		WithArgs(gateway.MaxPerPage, gateway.MaxPerPage).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "organization_id", "first_name", "last_name",
			"email", "phone", "is_primary", "created_at",
		}))

	params := gateway.ListParams{Pagination: gateway.Pagination{Page: 2, PerPage: 99999}}
	_, err := gw.ListContacts(context.Background(), params)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
