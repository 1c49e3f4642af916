// Package session owns the loaded catalog document and the user's view state.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/katalog/internal/cache"
	"github.com/hyperjump/katalog/internal/catalog"
	"github.com/hyperjump/katalog/internal/extract"
	"github.com/hyperjump/katalog/internal/fileid"
	"github.com/hyperjump/katalog/internal/models"
	"github.com/hyperjump/katalog/internal/partindex"
	"go.uber.org/zap"
)

// ErrStale is returned when a highlight run was superseded by a newer query.
var ErrStale = errors.New("highlight result superseded by a newer query")

// document is one parsed version of the catalog. It is never mutated after load.
type document struct {
	version   string
	workbook  *models.Workbook
	hierarchy *models.Hierarchy
	parts     *partindex.Index
	loadedAt  time.Time
}

// ModelEntry is one model of the model list.
type ModelEntry struct {
	Name        string `json:"name"`
	Highlighted bool   `json:"highlighted"`
	Selected    bool   `json:"selected"`
	Visualized  bool   `json:"visualized"`
}

// Status summarizes the loaded document.
type Status struct {
	SessionID string    `json:"session_id"`
	Path      string    `json:"path"`
	Version   string    `json:"version,omitempty"`
	Models    int       `json:"models"`
	NameOnes  int       `json:"name_ones"`
	NameTwos  int       `json:"name_twos"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
	Cached    int       `json:"cached_highlights"`
	// IndexedParts counts name positions in the part lookup index.
	IndexedParts uint64 `json:"indexed_parts"`
	State        State  `json:"state"`
}

// Session holds one cached catalog document and the view state built on it.
// All methods are safe for concurrent use; state transitions are serialized.
type Session struct {
	id        string
	path      string
	extractor *extract.Extractor
	cols      catalog.Columns
	projector *catalog.Projector
	filter    models.MatchRule
	hlRule    models.MatchRule
	cache     *cache.HighlightCache
	logger    *zap.Logger

	mu         sync.Mutex
	doc        *document
	state      State
	table      *models.Table
	visualized *models.Graph
	cancelHL   context.CancelFunc
	loads      int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithColumns sets the catalog header names.
func WithColumns(c catalog.Columns) Option {
	return func(s *Session) { s.cols = c.WithDefaults() }
}

// WithMatchRules sets the grid filter rule and the model highlight rule.
func WithMatchRules(filter, highlight models.MatchRule) Option {
	return func(s *Session) {
		s.filter = filter
		s.hlRule = highlight
	}
}

// WithCacheSize sets how many highlight results are kept.
func WithCacheSize(n int) Option {
	return func(s *Session) { s.cache = cache.NewHighlightCache(n) }
}

// New creates a session for the catalog document at path. Nothing is read
// until Load is called.
func New(path string, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		path:      path,
		extractor: extract.NewExtractor(),
		cols:      catalog.DefaultColumns(),
		filter:    models.MatchExact,
		hlRule:    models.MatchContains,
		cache:     cache.NewHighlightCache(256),
		logger:    zap.NewNop(),
		state:     InitialState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.projector = catalog.NewProjector(s.cols, s.filter)
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Path returns the catalog document path.
func (s *Session) Path() string {
	return s.path
}

// Load reads the catalog document from disk and replaces the cached version.
// On failure the previous document and state are kept.
func (s *Session) Load(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	wb, content, err := s.extractor.ReadFile(s.path)
	if err != nil {
		loadErr := &models.LoadError{Path: s.path, Err: err}
		s.logger.Error("error loading data", zap.Error(loadErr))
		return loadErr
	}
	return s.apply(ctx, wb, fileid.Version(content))
}

// setLoading counts in-flight loads; the state reports loading until the last one ends.
func (s *Session) setLoading(loading bool) {
	s.mu.Lock()
	if loading {
		s.loads++
	} else if s.loads > 0 {
		s.loads--
	}
	s.state = s.state.WithLoading(s.loads > 0)
	s.mu.Unlock()
}

// apply installs a parsed workbook. An unchanged version is a no-op.
func (s *Session) apply(ctx context.Context, wb *models.Workbook, version string) error {
	s.mu.Lock()
	if s.doc != nil && s.doc.version == version {
		s.mu.Unlock()
		s.logger.Debug("catalog unchanged", zap.String("version", fileid.Short(version, 12)))
		return nil
	}
	s.mu.Unlock()

	hierarchy := catalog.ExtractHierarchy(wb.Sheets, s.cols)
	parts, err := partindex.New(hierarchy)
	if err != nil {
		loadErr := &models.LoadError{Path: s.path, Err: err}
		s.logger.Error("error loading data", zap.Error(loadErr))
		return loadErr
	}
	doc := &document{
		version:   version,
		workbook:  wb,
		hierarchy: hierarchy,
		parts:     parts,
		loadedAt:  time.Now(),
	}

	s.mu.Lock()
	old := s.doc
	s.doc = doc
	s.cache.Purge()
	if s.table != nil {
		// Keep showing the selected model with the new data.
		if sheet, ok := wb.Sheet(s.table.Sheet); ok {
			s.table = catalog.LoadTable(sheet)
		}
	}
	query := s.state.Query
	s.mu.Unlock()

	if old != nil && old.parts != nil {
		_ = old.parts.Close()
	}
	s.logger.Info("catalog loaded",
		zap.String("path", s.path),
		zap.String("version", fileid.Short(version, 12)),
		zap.Int("models", len(hierarchy.SheetNames)),
		zap.Int("name_ones", len(hierarchy.NameOnes)),
		zap.Int("name_twos", len(hierarchy.NameTwos)),
	)

	if query != "" {
		if _, err := s.SetQuery(ctx, query); err != nil && !errors.Is(err, ErrStale) {
			s.logger.Warn("re-highlight after reload failed", zap.Error(err))
		}
	}
	return nil
}

// State returns the current view state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Hierarchy returns the hierarchy of the loaded document.
func (s *Session) Hierarchy() (*models.Hierarchy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, models.ErrNotLoaded
	}
	return s.doc.hierarchy, nil
}

// Models lists the models in document order with their highlight and selection flags.
func (s *Session) Models() ([]ModelEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, models.ErrNotLoaded
	}
	names := s.doc.hierarchy.SheetNames
	out := make([]ModelEntry, len(names))
	for i, name := range names {
		selected := s.state.Selected == name
		out[i] = ModelEntry{
			Name:        name,
			Highlighted: s.state.IsHighlighted(name),
			Selected:    selected && s.state.ViewMode == ViewGrid,
			Visualized:  selected && s.state.ViewMode == ViewVisualization,
		}
	}
	return out, nil
}

// Select shows model in the grid. A model without rows is installed as an
// empty table and reported as models.ErrNoRows.
func (s *Session) Select(model string) (*models.Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, models.ErrNotLoaded
	}
	s.state = s.state.WithSelection(model)

	sheet, ok := s.doc.workbook.Sheet(model)
	if !ok {
		err := fmt.Errorf("%w: %s", models.ErrModelNotFound, model)
		s.logger.Error("error loading model data", zap.String("model", model), zap.Error(err))
		return s.gridLocked(), err
	}
	s.table = catalog.LoadTable(sheet)
	if len(s.table.Rows) == 0 {
		s.logger.Error("no data found for the selected model", zap.String("model", model))
		return s.gridLocked(), fmt.Errorf("%w: %s", models.ErrNoRows, model)
	}
	s.logger.Debug("model selected", zap.String("model", model), zap.Int("rows", len(s.table.Rows)))
	return s.gridLocked(), nil
}

// Table returns the flat rows of the grid's model, or nil before any selection.
func (s *Session) Table() *models.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// Grid projects the current rows with the current query and expansion state.
func (s *Session) Grid() *models.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gridLocked()
}

func (s *Session) gridLocked() *models.Grid {
	if s.table == nil {
		return s.projector.Grid("", nil, s.state.Query, s.state.Expanded)
	}
	return s.projector.Grid(s.table.Sheet, s.table.Rows, s.state.Query, s.state.Expanded)
}

// ToggleGroup expands or collapses the group nameOne of the grid's model.
func (s *Session) ToggleGroup(nameOne string) *models.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	sheet := ""
	if s.table != nil {
		sheet = s.table.Sheet
	}
	s.state = s.state.WithToggled(models.GroupKey{Sheet: sheet, NameOne: nameOne})
	return s.gridLocked()
}

// SetQuery changes the search query and recomputes the highlighted models.
// A run that is overtaken by a newer query is cancelled and returns ErrStale
// without touching the state.
func (s *Session) SetQuery(ctx context.Context, query string) ([]string, error) {
	gen, doc, hctx, cancel := s.beginHighlight(ctx, query)
	defer cancel()

	names, err := s.highlight(hctx, doc, query)
	if err != nil {
		if s.isStale(gen) {
			return nil, ErrStale
		}
		return nil, err
	}
	if !s.finishHighlight(gen, names) {
		s.logger.Debug("discarding stale highlight", zap.String("query", query), zap.Uint64("generation", gen))
		return nil, ErrStale
	}
	return names, nil
}

// ClearSearch empties the query and drops the selection.
func (s *Session) ClearSearch() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelHL != nil {
		s.cancelHL()
		s.cancelHL = nil
	}
	s.state = s.state.Cleared()
	return s.state
}

func (s *Session) beginHighlight(ctx context.Context, query string) (uint64, *document, context.Context, context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelHL != nil {
		s.cancelHL()
	}
	hctx, cancel := context.WithCancel(ctx)
	s.cancelHL = cancel
	s.state = s.state.WithQuery(query)
	return s.state.Generation, s.doc, hctx, cancel
}

func (s *Session) finishHighlight(gen uint64, names []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := s.state.WithHighlighted(gen, names)
	s.state = next
	return ok
}

func (s *Session) isStale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.state.Generation
}

// highlight scans the cached document, reusing earlier results for the same
// document version and query.
func (s *Session) highlight(ctx context.Context, doc *document, query string) ([]string, error) {
	if query == "" || doc == nil {
		return []string{}, nil
	}
	key := cache.Key(doc.version, query)
	if names, ok := s.cache.Get(key); ok {
		return names, nil
	}
	names, err := catalog.Highlight(ctx, doc.workbook.Sheets, query, s.hlRule)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, names)
	return names, nil
}

// Visualize switches to the hierarchy view of model and returns its graph.
// An unknown model is logged and reported as models.ErrModelNotFound; the
// previously visualized graph is kept.
func (s *Session) Visualize(model string) (*models.Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, models.ErrNotLoaded
	}
	s.state = s.state.WithVisualization(model)
	part, ok := s.doc.hierarchy.Model(model)
	if !ok {
		s.logger.Info("hierarchy for the selected model not found", zap.String("model", model))
		return s.visualized, fmt.Errorf("%w: %s", models.ErrModelNotFound, model)
	}
	s.visualized = catalog.BuildGraph(model, part)
	return s.visualized, nil
}

// Graph returns the graph of model without changing the view state.
func (s *Session) Graph(model string) (*models.Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, models.ErrNotLoaded
	}
	part, ok := s.doc.hierarchy.Model(model)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrModelNotFound, model)
	}
	return catalog.BuildGraph(model, part), nil
}

// Parts looks up part names across all models. A lookup that races a reload
// is retried on the new document.
func (s *Session) Parts(ctx context.Context, query string, limit int, opts *partindex.SearchOptions) ([]*partindex.Hit, error) {
	for attempt := 0; ; attempt++ {
		s.mu.Lock()
		doc := s.doc
		s.mu.Unlock()
		if doc == nil {
			return nil, models.ErrNotLoaded
		}
		hits, err := doc.parts.Search(ctx, query, limit, opts)
		if errors.Is(err, partindex.ErrClosed) && attempt < 2 {
			continue
		}
		return hits, err
	}
}

// Suggest returns "did you mean" terms for query words no part name contains.
func (s *Session) Suggest(query string, limit int) ([]partindex.Suggestion, error) {
	s.mu.Lock()
	doc := s.doc
	s.mu.Unlock()
	if doc == nil {
		return nil, models.ErrNotLoaded
	}
	return doc.parts.Suggest(query, limit), nil
}

// Status reports what is loaded.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{SessionID: s.id, Path: s.path, State: s.state, Cached: s.cache.Len()}
	if s.doc != nil {
		st.Version = s.doc.version
		st.Models = len(s.doc.hierarchy.SheetNames)
		st.NameOnes = len(s.doc.hierarchy.NameOnes)
		st.NameTwos = len(s.doc.hierarchy.NameTwos)
		st.LoadedAt = s.doc.loadedAt
		if n, err := s.doc.parts.DocCount(); err == nil {
			st.IndexedParts = n
		}
	}
	return st
}

// Close releases the cached document.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelHL != nil {
		s.cancelHL()
		s.cancelHL = nil
	}
	if s.doc != nil && s.doc.parts != nil {
		err := s.doc.parts.Close()
		s.doc = nil
		return err
	}
	return nil
}
