// Package search implements the ranked multi-tier text search used by the
// herb catalog: exact name matches first, then name prefixes, then substring
// hits in any searchable field.
package search

import (
	"context"
	"strings"

	"DermanlykBackend/internal/model"
)

// Finder retrieves active herbs matching a single tier's predicate. Results
// arrive in the repository's default order (name ascending).
type Finder interface {
	FindNameExact(ctx context.Context, q string) ([]model.Herb, error)
	FindNamePrefix(ctx context.Context, q string) ([]model.Herb, error)
	FindSubstring(ctx context.Context, q string, fields []string) ([]model.Herb, error)
}

// Result is the pagination envelope returned to API clients.
type Result struct {
	Results []model.Herb `json:"results"`
	Count   int          `json:"count"`
	Page    int          `json:"page"`
	Pages   int          `json:"pages"`
}

type Engine struct {
	finder   Finder
	maxLimit int
}

func NewEngine(finder Finder, maxLimit int) *Engine {
	return &Engine{finder: finder, maxLimit: maxLimit}
}

// Search runs the three-tier ranked union for q over name plus the given
// secondary fields and slices out the requested page.
//
// Tier 1: name equals q (case-insensitive).
// Tier 2: name starts with q, minus tier 1.
// Tier 3: q is a substring of name or any secondary field, minus tiers 1-2.
// The concatenation of the tiers is the ranking; no further scoring applies.
func (e *Engine) Search(ctx context.Context, q string, secondaryFields []string, page, limit int) (Result, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if e.maxLimit > 0 && limit > e.maxLimit {
		limit = e.maxLimit
	}

	q = strings.TrimSpace(q)
	if q == "" {
		return Result{Results: []model.Herb{}, Page: page}, nil
	}

	exact, err := e.finder.FindNameExact(ctx, q)
	if err != nil {
		return Result{}, err
	}

	prefix, err := e.finder.FindNamePrefix(ctx, q)
	if err != nil {
		return Result{}, err
	}

	fields := append([]string{"name"}, secondaryFields...)
	other, err := e.finder.FindSubstring(ctx, q, fields)
	if err != nil {
		return Result{}, err
	}

	seen := make(map[int]bool, len(exact)+len(prefix)+len(other))
	combined := make([]model.Herb, 0, len(exact)+len(prefix)+len(other))
	for _, tier := range [][]model.Herb{exact, prefix, other} {
		for _, h := range tier {
			if seen[h.ID] {
				continue
			}
			seen[h.ID] = true
			combined = append(combined, h)
		}
	}

	return Paginate(combined, page, limit), nil
}

// Paginate wraps a full result set in the page envelope, slicing out the
// requested page. Page and limit must already be normalized to >= 1.
func Paginate(herbs []model.Herb, page, limit int) Result {
	count := len(herbs)
	pages := (count + limit - 1) / limit

	start := (page - 1) * limit
	end := start + limit
	if start > count {
		start = count
	}
	if end > count {
		end = count
	}

	return Result{
		Results: herbs[start:end],
		Count:   count,
		Page:    page,
		Pages:   pages,
	}
}
