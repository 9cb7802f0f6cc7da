package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ignite/crm-insights/internal/domain"
)

// exportDateLayout is how timestamp fields render in export files.
const exportDateLayout = "2006-01-02"

// OrganizationColumns is the fixed column configuration for organization
// exports.
func OrganizationColumns() []domain.CSVColumn {
	return []domain.CSVColumn{
		{Key: "id", Header: "ID"},
		{Key: "name", Header: "Name"},
		{Key: "priority", Header: "Priority"},
		{Key: "segment", Header: "Segment"},
		{Key: "distributor", Header: "Distributor"},
		{Key: "address", Header: "Address"},
		{Key: "city", Header: "City"},
		{Key: "postal_code", Header: "Postal Code"},
		{Key: "country", Header: "Country"},
		{Key: "account_manager", Header: "Account Manager"},
		{Key: "revenue", Header: "Revenue", Transform: numberCell},
		{Key: "created_at", Header: "Created", Transform: dateCell},
	}
}

// InteractionColumns is the fixed column configuration for interaction
// exports.
func InteractionColumns() []domain.CSVColumn {
	return []domain.CSVColumn{
		{Key: "id", Header: "ID"},
		{Key: "organization", Header: "Organization"},
		{Key: "contact", Header: "Contact"},
		{Key: "type", Header: "Type"},
		{Key: "notes", Header: "Notes"},
		{Key: "is_completed", Header: "Completed", Transform: boolCell},
		{Key: "completed_at", Header: "Completed At", Transform: dateCell},
		{Key: "created_at", Header: "Created", Transform: dateCell},
	}
}

func dateCell(value any) string {
	switch v := value.(type) {
	case time.Time:
		return v.Format(exportDateLayout)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format(exportDateLayout)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func numberCell(value any) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func boolCell(value any) string {
	if b, ok := value.(bool); ok && b {
		return "yes"
	}
	return "no"
}
