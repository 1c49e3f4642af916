package models

// SubpartNode is a distinct "Name 1" value of a sheet with the "Name 2"
// values found under it. Duplicate Name 2 values are kept as they appear.
type SubpartNode struct {
	Name     string   `json:"name"`
	Subparts []string `json:"subparts"`
}

// PartNode is the hierarchy root of one sheet (model).
type PartNode struct {
	Name     string        `json:"name"`
	Subparts []SubpartNode `json:"subparts"`
}

// Hierarchy is the per-document result of hierarchy extraction.
// Models holds exactly one entry per sheet name.
type Hierarchy struct {
	SheetNames []string             `json:"sheet_names"`
	Models     map[string]*PartNode `json:"models"`
	// NameOnes and NameTwos are the distinct names across all sheets, first-seen order.
	NameOnes []string `json:"name_ones"`
	NameTwos []string `json:"name_twos"`
	// NameOneSheets and NameTwoSheets list the sheet of every contributing row.
	NameOneSheets map[string][]string `json:"name_one_sheets"`
	NameTwoSheets map[string][]string `json:"name_two_sheets"`
}

// Model returns the part node for sheet name.
func (h *Hierarchy) Model(name string) (*PartNode, bool) {
	if h == nil {
		return nil, false
	}
	p, ok := h.Models[name]
	return p, ok
}
