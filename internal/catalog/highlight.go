package catalog

import (
	"context"

	"github.com/hyperjump/katalog/internal/models"
)

// Highlight returns, in document order, the names of sheets holding at least
// one cell that matches query under rule (substring match when rule is empty).
// An empty query highlights nothing. The scan stops early when ctx is done.
func Highlight(ctx context.Context, sheets []models.Sheet, query string, rule models.MatchRule) ([]string, error) {
	if query == "" {
		return []string{}, nil
	}
	if rule == "" {
		rule = models.MatchContains
	}
	out := []string{}
	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, row := range sheet.Rows {
			if rule.MatchesRow(row, query) {
				out = append(out, sheet.Name)
				break
			}
		}
	}
	return out, nil
}
