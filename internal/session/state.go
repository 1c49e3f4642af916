package session

import "github.com/hyperjump/katalog/internal/models"

// ViewMode is the active presentation of the selected model.
type ViewMode string

const (
	ViewGrid          ViewMode = "grid"
	ViewVisualization ViewMode = "visualization"
)

// State is an immutable snapshot of the user's view. Every transition
// returns a new State; the receiver is never modified.
type State struct {
	Selected    string                `json:"selected,omitempty"`
	ViewMode    ViewMode              `json:"view_mode"`
	Query       string                `json:"query"`
	Expanded    models.ExpansionState `json:"expanded"`
	Highlighted []string              `json:"highlighted"`
	// Generation increases with every query change; highlight results carry
	// the generation they were computed for.
	Generation uint64 `json:"generation"`
	Loading    bool   `json:"loading"`
}

// InitialState is the state of a fresh session.
func InitialState() State {
	return State{ViewMode: ViewGrid, Highlighted: []string{}}
}

// WithSelection switches the grid to model.
func (s State) WithSelection(model string) State {
	s.Selected = model
	s.ViewMode = ViewGrid
	return s
}

// WithVisualization switches to the hierarchy view of model.
func (s State) WithVisualization(model string) State {
	s.Selected = model
	s.ViewMode = ViewVisualization
	return s
}

// WithQuery sets the search query and starts a new highlight generation.
// An empty query clears the highlight immediately.
func (s State) WithQuery(query string) State {
	s.Query = query
	s.Generation++
	if query == "" {
		s.Highlighted = []string{}
	}
	return s
}

// WithHighlighted applies a highlight result computed for generation. A
// stale result leaves the state unchanged and reports false.
func (s State) WithHighlighted(generation uint64, names []string) (State, bool) {
	if generation != s.Generation {
		return s, false
	}
	s.Highlighted = append([]string{}, names...)
	return s, true
}

// WithToggled flips the expansion of one group.
func (s State) WithToggled(key models.GroupKey) State {
	s.Expanded = s.Expanded.Toggle(key)
	return s
}

// Cleared drops the query and the selection.
func (s State) Cleared() State {
	s = s.WithQuery("")
	s.Selected = ""
	return s
}

// WithLoading sets the loading flag.
func (s State) WithLoading(loading bool) State {
	s.Loading = loading
	return s
}

// IsHighlighted reports whether model is in the highlight set.
func (s State) IsHighlighted(model string) bool {
	for _, n := range s.Highlighted {
		if n == model {
			return true
		}
	}
	return false
}
