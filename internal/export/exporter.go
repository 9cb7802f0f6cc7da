package export

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ignite/crm-insights/internal/domain"
	"github.com/ignite/crm-insights/internal/gateway"
)

// Domain errors for the export operations.
var (
	ErrExportOrganizations = errors.New("failed to export organizations")
	ErrExportInteractions  = errors.New("failed to export interactions")
)

// DefaultChunkSize is the batch size for chunked exports.
const DefaultChunkSize = 1000

// csvMimeType is the MIME type of every export payload.
const csvMimeType = "text/csv"

// ProgressFunc receives (processed, total) after each chunk of a chunked
// export.
type ProgressFunc func(processed, total int)

// Exporter joins raw entities with their lookup settings and drives the
// CSV serializer. It produces CSVExportData; delivery belongs to a
// download sink, not here.
type Exporter struct {
	gw        gateway.Gateway
	chunkSize int
}

// NewExporter creates an exporter with the default chunk size.
func NewExporter(gw gateway.Gateway) *Exporter {
	return &Exporter{gw: gw, chunkSize: DefaultChunkSize}
}

// SetChunkSize overrides the chunked-export batch size. Values below 1
// are ignored.
func (e *Exporter) SetChunkSize(n int) {
	if n > 0 {
		e.chunkSize = n
	}
}

// ExportOrganizations serializes the organization collection, with
// priority/segment/distributor labels resolved, to a CSV payload.
func (e *Exporter) ExportOrganizations(ctx context.Context, filter map[string]any) (*domain.CSVExportData, error) {
	records, err := e.organizationRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportOrganizations, err)
	}
	content := SerializeCSV(records, OrganizationColumns(), DefaultCSVOptions())
	return payload("organizations", content), nil
}

// ExportOrganizationsChunked is the batched variant of
// ExportOrganizations for large collections. Output is byte-identical to
// the plain path; only the delivery shape differs: progress is reported
// after every batch and the scheduler gets a chance to run other work
// between batches.
func (e *Exporter) ExportOrganizationsChunked(ctx context.Context, filter map[string]any, progress ProgressFunc) (*domain.CSVExportData, error) {
	records, err := e.organizationRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportOrganizations, err)
	}
	content := e.serializeChunked(records, OrganizationColumns(), progress)
	return payload("organizations", content), nil
}

// ExportInteractions serializes the interaction collection, with
// organization names, contact names, and type labels resolved, to a CSV
// payload.
func (e *Exporter) ExportInteractions(ctx context.Context, filter map[string]any) (*domain.CSVExportData, error) {
	records, err := e.interactionRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportInteractions, err)
	}
	content := SerializeCSV(records, InteractionColumns(), DefaultCSVOptions())
	return payload("interactions", content), nil
}

// ExportInteractionsChunked is the batched variant of ExportInteractions.
func (e *Exporter) ExportInteractionsChunked(ctx context.Context, filter map[string]any, progress ProgressFunc) (*domain.CSVExportData, error) {
	records, err := e.interactionRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportInteractions, err)
	}
	content := e.serializeChunked(records, InteractionColumns(), progress)
	return payload("interactions", content), nil
}

func (e *Exporter) organizationRecords(ctx context.Context, filter map[string]any) ([]map[string]any, error) {
	params := gateway.All()
	params.Filter = filter

	var (
		orgs     []domain.Organization
		settings []domain.Setting
	)
	err := fetchAll(
		func() (err error) { orgs, err = e.gw.ListOrganizations(ctx, params); return },
		func() (err error) { settings, err = e.gw.ListSettings(ctx, gateway.All()); return },
	)
	if err != nil {
		return nil, err
	}

	settingByID := domain.SettingsByID(settings)
	records := make([]map[string]any, 0, len(orgs))
	for _, o := range orgs {
		records = append(records, map[string]any{
			"id":              o.ID,
			"name":            o.Name,
			"priority":        lookupLabel(settingByID, o.PriorityID),
			"segment":         lookupLabel(settingByID, o.SegmentID),
			"distributor":     lookupLabel(settingByID, o.DistributorID),
			"address":         o.Address,
			"city":            o.City,
			"postal_code":     o.PostalCode,
			"country":         o.Country,
			"account_manager": o.AccountManager,
			"revenue":         o.Revenue,
			"created_at":      o.CreatedAt,
		})
	}
	return records, nil
}

func (e *Exporter) interactionRecords(ctx context.Context, filter map[string]any) ([]map[string]any, error) {
	params := gateway.All()
	params.Filter = filter

	var (
		interactions []domain.Interaction
		orgs         []domain.Organization
		contacts     []domain.Contact
		settings     []domain.Setting
	)
	err := fetchAll(
		func() (err error) { interactions, err = e.gw.ListInteractions(ctx, params); return },
		func() (err error) { orgs, err = e.gw.ListOrganizations(ctx, gateway.All()); return },
		func() (err error) { contacts, err = e.gw.ListContacts(ctx, gateway.All()); return },
		func() (err error) { settings, err = e.gw.ListSettings(ctx, gateway.All()); return },
	)
	if err != nil {
		return nil, err
	}

	orgByID := make(map[string]domain.Organization, len(orgs))
	for _, o := range orgs {
		orgByID[o.ID] = o
	}
	contactByID := make(map[string]domain.Contact, len(contacts))
	for _, c := range contacts {
		contactByID[c.ID] = c
	}
	settingByID := domain.SettingsByID(settings)

	records := make([]map[string]any, 0, len(interactions))
	for _, i := range interactions {
		contactName := ""
		if i.ContactID != nil {
			contactName = contactByID[*i.ContactID].FullName()
		}
		records = append(records, map[string]any{
			"id":           i.ID,
			"organization": orgByID[i.OrganizationID].Name,
			"contact":      contactName,
			"type":         lookupLabel(settingByID, i.TypeID),
			"notes":        i.Notes,
			"is_completed": i.IsCompleted,
			"completed_at": i.CompletedAt,
			"created_at":   i.CreatedAt,
		})
	}
	return records, nil
}

func lookupLabel(byID map[string]domain.Setting, id string) string {
	if s, ok := byID[id]; ok {
		return s.Label
	}
	return ""
}

func payload(base, content string) *domain.CSVExportData {
	return &domain.CSVExportData{
		Content:  content,
		Filename: fmt.Sprintf("%s-export-%s.csv", base, time.Now().Format("2006-01-02")),
		MimeType: csvMimeType,
	}
}

// serializeChunked builds the same text SerializeCSV would, batch by
// batch. The chunk size bounds how much work happens between two yields.
func (e *Exporter) serializeChunked(records []map[string]any, columns []domain.CSVColumn, progress ProgressFunc) string {
	size := e.chunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}

	var b strings.Builder
	opts := DefaultCSVOptions()
	for start := 0; start < len(records) || start == 0; start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		if start > 0 {
			b.WriteByte('\n')
			opts.IncludeHeaders = false
		}
		b.WriteString(SerializeCSV(records[start:end], columns, opts))
		if progress != nil {
			progress(end, len(records))
		}
		if end == len(records) {
			break
		}
		runtime.Gosched()
	}
	return b.String()
}

// fetchAll runs independent gateway reads concurrently, returning the
// first error.
func fetchAll(fns ...func() error) error {
	var wg sync.WaitGroup
	errs := make([]error, len(fns))
	for i, fn := range fns {
		wg.Add(1)
		go func(i int, fn func() error) {
			defer wg.Done()
			errs[i] = fn()
		}(i, fn)
	}
	wg.Wait()
	return errors.Join(errs...)
}
