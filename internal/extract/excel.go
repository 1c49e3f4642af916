package extract

import (
	"bytes"
	"strconv"

	"github.com/hyperjump/katalog/internal/models"
	"github.com/xuri/excelize/v2"
)

const emptyHeader = "__EMPTY"

func readExcel(content []byte) (*models.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, &ReadError{Err: err}
	}
	defer f.Close()

	wb := &models.Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := readSheet(f, name)
		if err != nil {
			return nil, &ReadError{Sheet: name, Err: err}
		}
		wb.Sheets = append(wb.Sheets, models.Sheet{Name: name, Rows: rows})
	}
	return wb, nil
}

func readSheet(f *excelize.File, sheet string) ([]models.Row, error) {
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	// Header row is the first row holding any value.
	start := 0
	for start < len(raw) && blankRow(raw[start]) {
		start++
	}
	if start == len(raw) {
		return []models.Row{}, nil
	}

	width := 0
	for _, r := range raw[start:] {
		if len(r) > width {
			width = len(r)
		}
	}
	headers := buildHeaders(raw[start], width)

	rows := []models.Row{}
	for i, r := range raw[start+1:] {
		rowNum := start + i + 2 // 1-based sheet row of r
		var cells []models.Cell
		for col, text := range r {
			if text == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return nil, err
			}
			cells = append(cells, models.Cell{Header: headers[col], Value: typedValue(f, sheet, cellName, text)})
		}
		if len(cells) == 0 {
			continue
		}
		rows = append(rows, models.Row{ID: len(rows), Cells: cells})
	}
	return rows, nil
}

// buildHeaders names each column. Empty header cells become __EMPTY, and
// repeated names get _1, _2, ... suffixes so every header is unique.
func buildHeaders(row []string, width int) []string {
	headers := make([]string, width)
	seen := make(map[string]int)
	for col := 0; col < width; col++ {
		base := emptyHeader
		if col < len(row) && row[col] != "" {
			base = row[col]
		}
		name := base
		if n := seen[base]; n > 0 {
			for {
				name = base + "_" + strconv.Itoa(n)
				n++
				if seen[name] == 0 {
					break
				}
			}
			seen[base] = n
			seen[name] = 1
		} else {
			seen[base] = 1
		}
		headers[col] = name
	}
	return headers
}

// typedValue converts the raw cell text to int64, float64 or bool using the
// cell type; anything else stays a string.
func typedValue(f *excelize.File, sheet, cell, text string) any {
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return text
	}
	switch typ {
	case excelize.CellTypeBool:
		return text == "1" || text == "TRUE" || text == "true"
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		return parseNumber(text)
	}
	return text
}

func parseNumber(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func blankRow(r []string) bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}
