package catalog

import "github.com/hyperjump/katalog/internal/models"

// Projector turns flat rows into the grouped grid.
type Projector struct {
	cols Columns
	rule models.MatchRule
}

// NewProjector returns a projector filtering with rule. An empty rule means exact match.
func NewProjector(cols Columns, rule models.MatchRule) *Projector {
	if rule == "" {
		rule = models.MatchExact
	}
	return &Projector{cols: cols, rule: rule}
}

// Filter keeps the rows with at least one attribute matching query.
// An empty query keeps every row.
func (p *Projector) Filter(rows []models.Row, query string) []models.Row {
	if query == "" {
		return rows
	}
	out := make([]models.Row, 0, len(rows))
	for _, r := range rows {
		if p.rule.MatchesRow(r, query) {
			out = append(out, r)
		}
	}
	return out
}

// Project returns the display rows of sheet for query and expansion state.
// Each distinct Name 1 gets one group row at its first occurrence; rows of an
// expanded group follow as detail rows, interleaved in original row order.
func (p *Projector) Project(sheet string, rows []models.Row, query string, expanded models.ExpansionState) []models.DisplayRow {
	filtered := p.Filter(rows, query)
	out := make([]models.DisplayRow, 0, len(filtered))
	emitted := make(map[string]bool)

	for _, r := range filtered {
		nameOne := r.Text(p.cols.NameOne)
		if !emitted[nameOne] {
			emitted[nameOne] = true
			out = append(out, p.groupRow(nameOne, r))
		}
		if expanded.IsExpanded(models.GroupKey{Sheet: sheet, NameOne: nameOne}) {
			nameTwo := r.Text(p.cols.NameTwo)
			out = append(out, models.DisplayRow{
				ID:      nameOne + "-" + nameTwo,
				NameOne: nameOne,
				NameTwo: nameTwo,
				Cells:   r.Cells,
			})
		}
	}
	return out
}

func (p *Projector) groupRow(nameOne string, r models.Row) models.DisplayRow {
	cells := []models.Cell{{Header: p.cols.NameOne, Value: nameOne}}
	for _, field := range p.cols.groupFields() {
		if v, ok := r.Get(field); ok {
			cells = append(cells, models.Cell{Header: field, Value: v})
		}
	}
	return models.DisplayRow{ID: nameOne, Group: true, NameOne: nameOne, Cells: cells}
}

// Grid projects rows and attaches the column layout.
func (p *Projector) Grid(sheet string, rows []models.Row, query string, expanded models.ExpansionState) *models.Grid {
	return &models.Grid{
		Sheet:   sheet,
		Query:   query,
		Columns: p.cols.GridColumns(),
		Rows:    p.Project(sheet, rows, query, expanded),
	}
}
