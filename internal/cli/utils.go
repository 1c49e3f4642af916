// Package cli provides CLI output writers for katalog.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hyperjump/katalog/internal/models"
	"github.com/hyperjump/katalog/internal/partindex"
	"github.com/hyperjump/katalog/internal/session"
	"github.com/hyperjump/katalog/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// maxCellWidth caps grid cells in text output.
const maxCellWidth = 40

// ParseOutputFormat validates s; empty means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (use text or json)", s)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteModels writes the model list. Selected models are marked with ">",
// highlighted ones with "*".
func WriteModels(w io.Writer, entries []session.ModelEntry, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, map[string]interface{}{"models": entries})
	}
	for _, e := range entries {
		mark := " "
		if e.Selected || e.Visualized {
			mark = ">"
		}
		hl := " "
		if e.Highlighted {
			hl = "*"
		}
		fmt.Fprintf(w, "%s%s %s\n", mark, hl, e.Name)
	}
	return nil
}

// WriteGrid writes the grouped grid. Text output shows the visible columns;
// detail rows are indented under their group and blank cells shown as "-".
func WriteGrid(w io.Writer, grid *models.Grid, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, grid)
	}
	var cols []models.Column
	for _, c := range grid.Columns {
		if !c.Hidden {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Header
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range grid.Rows {
		fields := make([]string, len(cols))
		for i, c := range cols {
			if row.Group {
				fields[i] = row.Text(c.Field)
			} else {
				fields[i] = utils.OrDash(row.Text(c.Field))
			}
			fields[i] = utils.Truncate(fields[i], maxCellWidth)
		}
		if !row.Group {
			fields[0] = "  └ " + utils.OrDash(row.NameTwo)
		}
		fmt.Fprintln(tw, strings.Join(fields, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d rows\n", len(grid.Rows))
	return nil
}

// WriteGraph writes a model hierarchy graph as an indented tree.
func WriteGraph(w io.Writer, graph *models.Graph, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, graph)
	}
	labels := make(map[string]string, len(graph.Nodes))
	var root string
	for _, n := range graph.Nodes {
		labels[n.ID] = n.Label
		if n.Main && root == "" {
			root = n.ID
		}
	}
	children := make(map[string][]string)
	for _, e := range graph.Edges {
		children[e.Source] = append(children[e.Source], e.Target)
	}
	visited := make(map[string]bool)
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		if visited[id] {
			return
		}
		visited[id] = true
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), labels[id])
		for _, c := range children[id] {
			walk(c, depth+1)
		}
	}
	if root != "" {
		walk(root, 0)
	}
	return nil
}

// WriteHighlight writes the models matching query.
func WriteHighlight(w io.Writer, query string, names []string, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, map[string]interface{}{"query": query, "highlighted": names})
	}
	fmt.Fprintf(w, "%d models match %q\n", len(names), query)
	for _, n := range names {
		fmt.Fprintf(w, "  %s\n", n)
	}
	return nil
}

// WriteParts writes part lookup hits.
func WriteParts(w io.Writer, query string, hits []*partindex.Hit, suggestions []partindex.Suggestion, format OutputFormat) error {
	if format == OutputJSON {
		out := map[string]interface{}{"query": query, "parts": hits}
		if len(suggestions) > 0 {
			out["suggestions"] = suggestions
		}
		return writeJSON(w, out)
	}
	if len(hits) == 0 {
		fmt.Fprintf(w, "No parts match %q\n", query)
		if len(suggestions) > 0 {
			terms := make([]string, len(suggestions))
			for i, sg := range suggestions {
				terms[i] = sg.Term
			}
			fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(terms, ", "))
		}
		return nil
	}
	for _, h := range hits {
		name := h.Name
		if h.Parent != "" {
			name = h.Parent + " / " + h.Name
		}
		fmt.Fprintf(w, "[%s] %s (%.3f)\n", h.Level, name, h.Score)
		fmt.Fprintf(w, "    in: %s\n", strings.Join(h.Sheets, ", "))
	}
	return nil
}

// WriteStatus writes the session status.
func WriteStatus(w io.Writer, st session.Status, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, st)
	}
	fmt.Fprintf(w, "Catalog:  %s\n", st.Path)
	if st.Version == "" {
		fmt.Fprintln(w, "Status:   not loaded")
		return nil
	}
	fmt.Fprintf(w, "Version:  %s\n", utils.Truncate(st.Version, 16))
	fmt.Fprintf(w, "Models:   %d\n", st.Models)
	fmt.Fprintf(w, "Name 1:   %d distinct\n", st.NameOnes)
	fmt.Fprintf(w, "Name 2:   %d distinct\n", st.NameTwos)
	fmt.Fprintf(w, "Indexed:  %d part names\n", st.IndexedParts)
	return nil
}
