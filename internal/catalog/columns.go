// Package catalog turns catalog sheets into part hierarchies, grouped grid rows,
// highlight sets, and hierarchy graphs.
package catalog

import "github.com/hyperjump/katalog/internal/models"

// Default column headers of the camera catalog document.
const (
	DefaultNameOne      = "Názov 1"
	DefaultNameTwo      = "Názov 2"
	DefaultRegistration = "Registračné číslo 2"
	DefaultTotalCost    = "Celková kalkulačná cena"
	DefaultUnit         = "MJ evidencia"
	DefaultManufacturer = "MNF"
)

// Columns names the headers the catalog logic relies on. Any other column is
// passed through untouched.
type Columns struct {
	NameOne      string
	NameTwo      string
	Registration string
	TotalCost    string
	Unit         string
	Manufacturer string
}

// DefaultColumns returns the headers used by the camera catalog.
func DefaultColumns() Columns {
	return Columns{
		NameOne:      DefaultNameOne,
		NameTwo:      DefaultNameTwo,
		Registration: DefaultRegistration,
		TotalCost:    DefaultTotalCost,
		Unit:         DefaultUnit,
		Manufacturer: DefaultManufacturer,
	}
}

// WithDefaults fills empty header names from DefaultColumns.
func (c Columns) WithDefaults() Columns {
	d := DefaultColumns()
	if c.NameOne == "" {
		c.NameOne = d.NameOne
	}
	if c.NameTwo == "" {
		c.NameTwo = d.NameTwo
	}
	if c.Registration == "" {
		c.Registration = d.Registration
	}
	if c.TotalCost == "" {
		c.TotalCost = d.TotalCost
	}
	if c.Unit == "" {
		c.Unit = d.Unit
	}
	if c.Manufacturer == "" {
		c.Manufacturer = d.Manufacturer
	}
	return c
}

// groupFields are the attribute columns a group row carries.
func (c Columns) groupFields() []string {
	return []string{c.Registration, c.TotalCost, c.Unit, c.Manufacturer}
}

// GridColumns returns the column layout of the grouped grid.
func (c Columns) GridColumns() []models.Column {
	return []models.Column{
		{Field: c.NameOne, Header: c.NameOne, Flex: 1},
		{Field: c.NameTwo, Header: c.NameTwo, Flex: 1, Hidden: true},
		{Field: c.Registration, Header: c.Registration, Flex: 0.7},
		{Field: c.Manufacturer, Header: c.Manufacturer, Flex: 0.2},
		{Field: c.Unit, Header: c.Unit, Flex: 0.2},
		{Field: c.TotalCost, Header: c.TotalCost, Flex: 0.3},
	}
}
