package export

import (
	"fmt"
	"strings"

	"github.com/ignite/crm-insights/internal/domain"
)

// CSVOptions controls serialization. The zero value is not useful; start
// from DefaultCSVOptions.
type CSVOptions struct {
	IncludeHeaders bool
	Delimiter      string
}

// DefaultCSVOptions returns the standard comma-delimited, headered setup.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{IncludeHeaders: true, Delimiter: ","}
}

// SerializeCSV renders records to CSV text. Column order is exactly the
// order of columns. Rows are joined with \n and there is no trailing row
// separator. A nil or missing cell value becomes an empty string.
//
// Pure function: no I/O, no side effects. A panicking column transform
// propagates to the caller.
func SerializeCSV(records []map[string]any, columns []domain.CSVColumn, opts CSVOptions) string {
	if opts.Delimiter == "" {
		opts.Delimiter = ","
	}

	var b strings.Builder
	if opts.IncludeHeaders {
		writeRow(&b, columns, opts, func(col domain.CSVColumn) string { return col.Header })
	}
	for i, record := range records {
		if i > 0 || opts.IncludeHeaders {
			b.WriteByte('\n')
		}
		writeRow(&b, columns, opts, func(col domain.CSVColumn) string {
			return cellValue(record, col)
		})
	}
	return b.String()
}

func writeRow(b *strings.Builder, columns []domain.CSVColumn, opts CSVOptions, valueOf func(domain.CSVColumn) string) {
	for i, col := range columns {
		if i > 0 {
			b.WriteString(opts.Delimiter)
		}
		b.WriteString(escapeCell(valueOf(col), opts.Delimiter))
	}
}

func cellValue(record map[string]any, col domain.CSVColumn) string {
	raw, ok := record[col.Key]
	if col.Transform != nil {
		return col.Transform(raw)
	}
	if !ok || raw == nil {
		return ""
	}
	return fmt.Sprintf("%v", raw)
}

// escapeCell applies RFC-4180-style quoting: a cell containing a double
// quote, the delimiter, \n, or \r is wrapped in double quotes with
// internal double quotes doubled. Anything else passes through verbatim.
func escapeCell(value, delimiter string) string {
	if !strings.ContainsAny(value, "\"\n\r") && !strings.Contains(value, delimiter) {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
