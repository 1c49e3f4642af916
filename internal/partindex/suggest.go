package partindex

import (
	"sort"
)

// Suggestion is a known name token close to a query term.
type Suggestion struct {
	Term      string  `json:"term"`
	Distance  int     `json:"distance"`
	Frequency int     `json:"frequency"`
	Score     float64 `json:"score"`
}

const (
	suggestMaxDistance = 2
	defaultSuggestions = 5
)

// Suggest returns "did you mean" candidates for the query terms that no part
// name contains, best first. Closer and more frequent tokens rank higher.
func (p *Index) Suggest(query string, limit int) []Suggestion {
	if limit <= 0 {
		limit = defaultSuggestions
	}
	suggestions := make([]Suggestion, 0)
	seen := make(map[string]bool)
	for _, term := range tokenizeQuery(query) {
		if _, known := p.vocab[term]; known {
			continue
		}
		termLen := len([]rune(term))
		for token, freq := range p.vocab {
			if seen[token] {
				continue
			}
			// Length difference bounds the distance from below.
			lenDiff := len([]rune(token)) - termLen
			if lenDiff < 0 {
				lenDiff = -lenDiff
			}
			if lenDiff > suggestMaxDistance {
				continue
			}
			distance := LevenshteinDistance(term, token)
			if distance > suggestMaxDistance {
				continue
			}
			seen[token] = true
			suggestions = append(suggestions, Suggestion{
				Term:      token,
				Distance:  distance,
				Frequency: freq,
				Score:     float64(freq) / float64(distance+1),
			})
		}
	}
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Term < suggestions[j].Term
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// LevenshteinDistance returns the number of single-rune insertions, deletions
// or substitutions needed to turn a into b.
func LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Two rows of the edit matrix are enough.
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
