package catalog

import "github.com/hyperjump/katalog/internal/models"

// LoadTable returns the flat rows of sheet with zero-based positional IDs.
// Headers are the keys of the first row only; an empty sheet has no headers.
func LoadTable(sheet models.Sheet) *models.Table {
	t := &models.Table{
		Sheet:   sheet.Name,
		Headers: []string{},
		Rows:    make([]models.Row, len(sheet.Rows)),
	}
	if len(sheet.Rows) > 0 {
		t.Headers = sheet.Rows[0].Headers()
	}
	for i, r := range sheet.Rows {
		t.Rows[i] = models.Row{ID: i, Cells: r.Cells}
	}
	return t
}
