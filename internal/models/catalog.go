// Package models defines core data structures for catalog sheets, hierarchies, and grid views.
package models

import (
	"strconv"
	"strings"
)

// Cell is a single header/value pair of a row record.
// Value is a string, int64, float64, bool, or nil when the cell is absent.
type Cell struct {
	Header string `json:"header"`
	Value  any    `json:"value"`
}

// Row is one record of a sheet. Cells are kept in column order and only
// non-empty cells are present.
type Row struct {
	ID    int    `json:"id"`
	Cells []Cell `json:"cells"`
}

// Get returns the value stored under header.
func (r Row) Get(header string) (any, bool) {
	for _, c := range r.Cells {
		if c.Header == header {
			return c.Value, true
		}
	}
	return nil, false
}

// Text returns the text form of the value under header, or "" when absent.
func (r Row) Text(header string) string {
	v, ok := r.Get(header)
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// Headers returns the row's headers in column order.
func (r Row) Headers() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Header
	}
	return out
}

// Sheet is a named sequence of row records.
type Sheet struct {
	Name string `json:"name"`
	Rows []Row  `json:"rows"`
}

// Workbook is a parsed catalog document. Sheets are in document order.
type Workbook struct {
	Sheets []Sheet `json:"sheets"`
}

// Sheet returns the sheet called name.
func (w *Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// FormatValue renders a cell value as text. Numbers use their shortest
// decimal form, so 10.0 renders as "10".
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// IsBlank reports whether v carries no usable text. Zero numbers are not blank.
func IsBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}
