package catalog

import (
	"github.com/hyperjump/katalog/internal/models"
)

// testColumns keeps fixtures short.
var testColumns = Columns{
	NameOne:      "NameOne",
	NameTwo:      "NameTwo",
	Registration: "Reg",
	TotalCost:    "Cost",
	Unit:         "Unit",
	Manufacturer: "MNF",
}

// row builds a record from alternating header/value pairs.
func row(id int, kv ...any) models.Row {
	r := models.Row{ID: id}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Cells = append(r.Cells, models.Cell{Header: kv[i].(string), Value: kv[i+1]})
	}
	return r
}

func camASheet() models.Sheet {
	return models.Sheet{Name: "CamA", Rows: []models.Row{
		row(0, "NameOne", "Lens", "NameTwo", "L1", "Cost", int64(10)),
		row(1, "NameOne", "Lens", "NameTwo", "L2", "Cost", int64(10)),
		row(2, "NameOne", "Body", "NameTwo", "B1", "Cost", int64(20)),
	}}
}

func ids(rows []models.DisplayRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}
