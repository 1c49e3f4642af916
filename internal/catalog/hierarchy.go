package catalog

import "github.com/hyperjump/katalog/internal/models"

// ExtractHierarchy builds one part tree per sheet from the "Name 1" and
// "Name 2" columns. Rows without a Name 1 contribute nothing. Name 2 values are
// appended as they appear, duplicates included; only the document-wide name
// lists are deduplicated. The result is a pure function of its input.
func ExtractHierarchy(sheets []models.Sheet, cols Columns) *models.Hierarchy {
	h := &models.Hierarchy{
		SheetNames:    make([]string, 0, len(sheets)),
		Models:        make(map[string]*models.PartNode, len(sheets)),
		NameOnes:      []string{},
		NameTwos:      []string{},
		NameOneSheets: make(map[string][]string),
		NameTwoSheets: make(map[string][]string),
	}
	seenOne := make(map[string]bool)
	seenTwo := make(map[string]bool)

	for _, sheet := range sheets {
		part := &models.PartNode{Name: sheet.Name, Subparts: []models.SubpartNode{}}
		index := make(map[string]int) // Name 1 -> position in part.Subparts

		for _, row := range sheet.Rows {
			// Same grouping key as the projector, so grid groups and tree nodes agree.
			nameOne := row.Text(cols.NameOne)
			if nameOne == "" {
				continue
			}
			if !seenOne[nameOne] {
				seenOne[nameOne] = true
				h.NameOnes = append(h.NameOnes, nameOne)
			}
			h.NameOneSheets[nameOne] = append(h.NameOneSheets[nameOne], sheet.Name)

			pos, ok := index[nameOne]
			if !ok {
				pos = len(part.Subparts)
				index[nameOne] = pos
				part.Subparts = append(part.Subparts, models.SubpartNode{Name: nameOne, Subparts: []string{}})
			}

			nameTwo := row.Text(cols.NameTwo)
			if nameTwo == "" {
				continue
			}
			if !seenTwo[nameTwo] {
				seenTwo[nameTwo] = true
				h.NameTwos = append(h.NameTwos, nameTwo)
			}
			h.NameTwoSheets[nameTwo] = append(h.NameTwoSheets[nameTwo], sheet.Name)
			part.Subparts[pos].Subparts = append(part.Subparts[pos].Subparts, nameTwo)
		}

		h.SheetNames = append(h.SheetNames, sheet.Name)
		h.Models[sheet.Name] = part
	}
	return h
}
