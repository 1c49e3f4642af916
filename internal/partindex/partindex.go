// Package partindex provides a Bleve-backed lookup of part names across catalog models.
package partindex

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/katalog/internal/models"
)

// ErrClosed is returned by lookups on an index that was replaced and closed.
var ErrClosed = errors.New("part index closed")

// Levels of a part name in the hierarchy.
const (
	LevelNameOne = "name_one"
	LevelNameTwo = "name_two"
)

// SearchOptions optional parameters for part lookups. Nil means defaults.
type SearchOptions struct {
	// FuzzyEnabled matches terms within Fuzziness edits for typo tolerance.
	FuzzyEnabled bool
	// Fuzziness is the maximum Levenshtein distance (1 or 2). Default 1.
	Fuzziness int
}

// Hit is one part name with every model it appears in.
type Hit struct {
	Name   string   `json:"name"`
	Level  string   `json:"level"`
	Parent string   `json:"parent,omitempty"`
	Sheets []string `json:"sheets"`
	Score  float64  `json:"score"`
}

// partDoc is the indexed unit: one name at one position of one model.
type partDoc struct {
	Name   string `json:"name"`
	Level  string `json:"level"`
	Sheet  string `json:"sheet"`
	Parent string `json:"parent"`
}

// Index is an in-memory part name index. It is rebuilt for every loaded document.
type Index struct {
	index bleve.Index
	docs  int
	// vocab maps each lowercased name token to the number of names using it.
	vocab map[string]int

	// mu lets Close wait for in-flight searches.
	mu     sync.RWMutex
	closed bool
}

// New builds an index over the names of h.
func New(h *models.Hierarchy) (*Index, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	nameMapping := bleve.NewTextFieldMapping()
	// Standard analyzer lowercases and tokenizes without stemming, so part
	// codes like "L2" stay intact.
	nameMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("name", nameMapping)
	for _, field := range []string{"level", "sheet", "parent"} {
		docMapping.AddFieldMappingsAt(field, bleve.NewKeywordFieldMapping())
	}
	im.AddDocumentMapping("part", docMapping)
	im.DefaultType = "part"
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create part index: %w", err)
	}
	idx := &Index{index: index, vocab: make(map[string]int)}
	if err := idx.build(h); err != nil {
		_ = index.Close()
		return nil, err
	}
	return idx, nil
}

func (p *Index) build(h *models.Hierarchy) error {
	if h == nil {
		return nil
	}
	batch := p.index.NewBatch()
	seen := make(map[string]bool)
	add := func(doc partDoc) error {
		id := strings.Join([]string{doc.Sheet, doc.Level, doc.Parent, doc.Name}, "\x1f")
		if seen[id] {
			return nil
		}
		seen[id] = true
		p.docs++
		for _, tok := range tokenizeQuery(doc.Name) {
			p.vocab[tok]++
		}
		return batch.Index(id, doc)
	}
	for _, sheet := range h.SheetNames {
		part, ok := h.Model(sheet)
		if !ok {
			continue
		}
		for _, sub := range part.Subparts {
			if err := add(partDoc{Name: sub.Name, Level: LevelNameOne, Sheet: sheet}); err != nil {
				return fmt.Errorf("index part %q: %w", sub.Name, err)
			}
			for _, leaf := range sub.Subparts {
				if err := add(partDoc{Name: leaf, Level: LevelNameTwo, Sheet: sheet, Parent: sub.Name}); err != nil {
					return fmt.Errorf("index part %q: %w", leaf, err)
				}
			}
		}
	}
	if err := p.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to index parts: %w", err)
	}
	return nil
}

// Search returns up to limit part names matching query, best first. Hits for
// the same name at the same level are merged and list every model containing it.
func (p *Index) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*Hit, error) {
	terms := tokenizeQuery(query)
	if len(terms) == 0 {
		return []*Hit{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrClosed
	}

	req := bleve.NewSearchRequest(buildQuery(query, terms, opts))
	// Over-fetch: several documents collapse into one hit.
	req.Size = p.docs
	if req.Size < limit {
		req.Size = limit
	}
	req.Fields = []string{"*"}
	results, err := p.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("part search failed: %w", err)
	}

	merged := make(map[string]*Hit)
	var order []*Hit
	for _, h := range results.Hits {
		name, _ := h.Fields["name"].(string)
		level, _ := h.Fields["level"].(string)
		sheet, _ := h.Fields["sheet"].(string)
		parent, _ := h.Fields["parent"].(string)
		key := level + "\x1f" + name
		hit, ok := merged[key]
		if !ok {
			hit = &Hit{Name: name, Level: level, Parent: parent, Score: h.Score}
			merged[key] = hit
			order = append(order, hit)
		}
		if !contains(hit.Sheets, sheet) {
			hit.Sheets = append(hit.Sheets, sheet)
		}
		if h.Score > hit.Score {
			hit.Score = h.Score
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].Score > order[j].Score })
	if len(order) > limit {
		order = order[:limit]
	}
	return order, nil
}

// DocCount returns the number of indexed name positions.
func (p *Index) DocCount() (uint64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return 0, ErrClosed
	}
	return p.index.DocCount()
}

// Close releases the index once in-flight searches have finished. Later
// lookups return ErrClosed.
func (p *Index) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.index.Close()
}

func buildQuery(query string, terms []string, opts *SearchOptions) blevequery.Query {
	if opts == nil || !opts.FuzzyEnabled {
		mq := bleve.NewMatchQuery(query)
		mq.SetField("name")
		return mq
	}
	fuzziness := opts.Fuzziness
	if fuzziness <= 0 {
		fuzziness = 1
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		fq.SetField("name")
		queries = append(queries, fq)
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewDisjunctionQuery(queries...)
}

func tokenizeQuery(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
