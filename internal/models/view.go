package models

import (
	"encoding/json"
	"sort"
)

// DisplayRow is one row of the grouped grid: a group header per distinct
// "Name 1" value, or a detail row for an original record of an expanded group.
type DisplayRow struct {
	ID      string `json:"id"`
	Group   bool   `json:"is_group"`
	NameOne string `json:"name_one"`
	NameTwo string `json:"name_two,omitempty"`
	Cells   []Cell `json:"cells"`
}

// Text returns the text form of the value under header, or "" when absent.
func (d DisplayRow) Text(header string) string {
	return Row{Cells: d.Cells}.Text(header)
}

// GroupKey identifies a group within a sheet.
type GroupKey struct {
	Sheet   string `json:"sheet"`
	NameOne string `json:"name_one"`
}

// ExpansionState records which groups are expanded. The zero value has every
// group collapsed. Values are never mutated in place; Toggle and Set return a copy.
type ExpansionState struct {
	expanded map[GroupKey]bool
}

// IsExpanded reports whether key is expanded.
func (s ExpansionState) IsExpanded(key GroupKey) bool {
	return s.expanded[key]
}

// Toggle returns a new state with key flipped.
func (s ExpansionState) Toggle(key GroupKey) ExpansionState {
	return s.Set(key, !s.expanded[key])
}

// Set returns a new state with key set to expanded.
func (s ExpansionState) Set(key GroupKey, expanded bool) ExpansionState {
	next := make(map[GroupKey]bool, len(s.expanded)+1)
	for k, v := range s.expanded {
		next[k] = v
	}
	if expanded {
		next[key] = true
	} else {
		delete(next, key)
	}
	return ExpansionState{expanded: next}
}

// Keys returns the expanded keys sorted by sheet, then name.
func (s ExpansionState) Keys() []GroupKey {
	keys := make([]GroupKey, 0, len(s.expanded))
	for k := range s.expanded {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Sheet != keys[j].Sheet {
			return keys[i].Sheet < keys[j].Sheet
		}
		return keys[i].NameOne < keys[j].NameOne
	})
	return keys
}

// MarshalJSON encodes the expanded keys as a sorted list.
func (s ExpansionState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Keys())
}

// Table is the flat row data of one sheet.
type Table struct {
	Sheet   string   `json:"sheet"`
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Column describes one grid column for the presentation layer.
type Column struct {
	Field  string  `json:"field"`
	Header string  `json:"header_name"`
	Flex   float64 `json:"flex"`
	Hidden bool    `json:"hide,omitempty"`
}

// Grid is a projected grid ready to render.
type Grid struct {
	Sheet   string       `json:"sheet"`
	Query   string       `json:"query"`
	Columns []Column     `json:"columns"`
	Rows    []DisplayRow `json:"rows"`
}

// GraphNode is a node of the hierarchy diagram.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Main  bool   `json:"main,omitempty"`
}

// GraphEdge is a directed edge of the hierarchy diagram.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the node/edge list handed to a rendering surface.
type Graph struct {
	Model string      `json:"model"`
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}
