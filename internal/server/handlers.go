package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/katalog/internal/models"
	"github.com/hyperjump/katalog/internal/partindex"
	"github.com/hyperjump/katalog/internal/session"
	"go.uber.org/zap"
)

type selectResponse struct {
	Model   string       `json:"model"`
	Grid    *models.Grid `json:"grid"`
	Warning string       `json:"warning,omitempty"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Query       string   `json:"query"`
	Highlighted []string `json:"highlighted"`
	Generation  uint64   `json:"generation"`
}

type toggleRequest struct {
	NameOne string `json:"name_one"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.session.Status())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("reload request", zap.String("path", s.session.Path()))
	if err := s.session.Load(r.Context()); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, s.session.Status())
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	h, err := s.session.Hierarchy()
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, h)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	entries, err := s.session.Models()
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"models": entries})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	name, ok := s.modelParam(w, r)
	if !ok {
		return
	}
	s.logger.Debug("select model request", zap.String("model", name))
	grid, err := s.session.Select(name)
	switch {
	case err == nil:
		s.respondJSON(w, http.StatusOK, selectResponse{Model: name, Grid: grid})
	case errors.Is(err, models.ErrNoRows):
		// The selection is applied and the grid is empty.
		s.respondJSON(w, http.StatusOK, selectResponse{Model: name, Grid: grid, Warning: err.Error()})
	default:
		s.respondFailure(w, err)
	}
}

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	name, ok := s.modelParam(w, r)
	if !ok {
		return
	}
	graph, err := s.session.Visualize(name)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, graph)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	name, ok := s.modelParam(w, r)
	if !ok {
		return
	}
	graph, err := s.session.Graph(name)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, graph)
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.session.Grid())
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	table := s.session.Table()
	if table == nil {
		s.respondError(w, http.StatusNotFound, "no model selected")
		return
	}
	s.respondJSON(w, http.StatusOK, table)
}

func (s *Server) handleToggleGroup(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondJSON(w, http.StatusOK, s.session.ToggleGroup(req.NameOne))
}

func (s *Server) handleSetQuery(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request", zap.String("query", req.Query))
	names, err := s.session.SetQuery(r.Context(), req.Query)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	st := s.session.State()
	s.respondJSON(w, http.StatusOK, searchResponse{Query: req.Query, Highlighted: names, Generation: st.Generation})
}

func (s *Server) handleClearSearch(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.session.ClearSearch())
}

func (s *Server) handleParts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := s.search.PartLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	opts := &partindex.SearchOptions{Fuzziness: s.search.PartFuzziness}
	if v := q.Get("fuzzy"); v != "" {
		fuzzy, err := strconv.ParseBool(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid fuzzy flag")
			return
		}
		opts.FuzzyEnabled = fuzzy
	}
	hits, err := s.session.Parts(r.Context(), query, limit, opts)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	resp := map[string]interface{}{"query": query, "parts": hits}
	if len(hits) == 0 {
		suggestions, err := s.session.Suggest(query, 0)
		if err == nil && len(suggestions) > 0 {
			resp["suggestions"] = suggestions
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// modelParam returns the unescaped {name} URL parameter.
func (s *Server) modelParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		s.respondError(w, http.StatusBadRequest, "invalid model name")
		return "", false
	}
	return name, true
}

// respondFailure maps session and catalog errors to HTTP statuses.
func (s *Server) respondFailure(w http.ResponseWriter, err error) {
	var loadErr *models.LoadError
	switch {
	case errors.Is(err, models.ErrNotLoaded):
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, models.ErrModelNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrNoRows):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrStale):
		s.respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &loadErr):
		s.respondError(w, http.StatusInternalServerError, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
