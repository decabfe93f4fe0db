package search

import (
	"context"
	"strings"
	"testing"

	"DermanlykBackend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinder struct {
	herbs []model.Herb
	calls int
}

func (f *fakeFinder) FindNameExact(_ context.Context, q string) ([]model.Herb, error) {
	f.calls++
	var out []model.Herb
	for _, h := range f.herbs {
		if strings.EqualFold(h.Name, q) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeFinder) FindNamePrefix(_ context.Context, q string) ([]model.Herb, error) {
	f.calls++
	var out []model.Herb
	for _, h := range f.herbs {
		if strings.HasPrefix(strings.ToLower(h.Name), strings.ToLower(q)) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeFinder) FindSubstring(_ context.Context, q string, fields []string) ([]model.Herb, error) {
	f.calls++
	q = strings.ToLower(q)
	var out []model.Herb
	for _, h := range f.herbs {
		values := map[string]string{
			"name":           h.Name,
			"name_latin":     h.NameLatin,
			"character":      h.Character,
			"usage":          h.Usage,
			"natural_source": h.NaturalSource,
			"content":        h.Content,
		}
		for _, field := range fields {
			if strings.Contains(strings.ToLower(values[field]), q) {
				out = append(out, h)
				break
			}
		}
	}
	return out, nil
}

func names(herbs []model.Herb) []string {
	out := make([]string, len(herbs))
	for i, h := range herbs {
		out[i] = h.Name
	}
	return out
}

func TestSearchTierOrdering(t *testing.T) {
	finder := &fakeFinder{herbs: []model.Herb{
		{ID: 1, Name: "Chamomile"},
		{ID: 2, Name: "Chamomile Tea Blend"},
		{ID: 3, Name: "German Chamomile Extract"},
		{ID: 4, Name: "Lavender"},
	}}
	engine := NewEngine(finder, 100)

	res, err := engine.Search(context.Background(), "chamomile", nil, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"Chamomile", "Chamomile Tea Blend", "German Chamomile Extract"}, names(res.Results))
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 1, res.Pages)
}

func TestSearchSecondaryFields(t *testing.T) {
	finder := &fakeFinder{herbs: []model.Herb{
		{ID: 1, Name: "Valerian", Content: "calming bitter root"},
		{ID: 2, Name: "Mint", NameLatin: "Mentha"},
	}}
	engine := NewEngine(finder, 100)

	res, err := engine.Search(context.Background(), "mentha", []string{"name_latin", "content"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mint"}, names(res.Results))

	res, err = engine.Search(context.Background(), "bitter", []string{"name_latin", "content"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Valerian"}, names(res.Results))

	// Field outside the configured set must not match.
	res, err = engine.Search(context.Background(), "bitter", []string{"name_latin"}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Results)
}

func TestSearchNoOverlapBetweenTiers(t *testing.T) {
	// "Sage" is an exact, a prefix and a substring match at once; it must
	// appear exactly once, in the tier-1 position.
	finder := &fakeFinder{herbs: []model.Herb{
		{ID: 1, Name: "Sage"},
		{ID: 2, Name: "Sagebrush"},
	}}
	engine := NewEngine(finder, 100)

	res, err := engine.Search(context.Background(), "sage", nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sage", "Sagebrush"}, names(res.Results))
	assert.Equal(t, 2, res.Count)
}

func TestSearchEmptyQueryShortCircuits(t *testing.T) {
	finder := &fakeFinder{herbs: []model.Herb{{ID: 1, Name: "Nettle"}}}
	engine := NewEngine(finder, 100)

	for _, q := range []string{"", "   ", "\t\n"} {
		res, err := engine.Search(context.Background(), q, nil, 1, 10)
		require.NoError(t, err)
		assert.NotNil(t, res.Results)
		assert.Empty(t, res.Results)
		assert.Equal(t, 0, res.Count)
		assert.Equal(t, 0, res.Pages)
	}
	assert.Zero(t, finder.calls, "empty query must not reach the finder")
}

func TestSearchPagination(t *testing.T) {
	var herbs []model.Herb
	for i := 0; i < 7; i++ {
		herbs = append(herbs, model.Herb{ID: i + 1, Name: "Herb " + string(rune('A'+i))})
	}
	finder := &fakeFinder{herbs: herbs}
	engine := NewEngine(finder, 100)

	res, err := engine.Search(context.Background(), "herb", nil, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, res.Count)
	assert.Equal(t, 3, res.Pages)
	assert.Len(t, res.Results, 3)
	assert.Equal(t, "Herb A", res.Results[0].Name)

	res, err = engine.Search(context.Background(), "herb", nil, 3, 3)
	require.NoError(t, err)
	assert.Len(t, res.Results, 1)
	assert.Equal(t, "Herb G", res.Results[0].Name)

	// Past the last page: empty slice, same count.
	res, err = engine.Search(context.Background(), "herb", nil, 9, 3)
	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.Equal(t, 7, res.Count)
}

func TestSearchLimitClampAndDefaults(t *testing.T) {
	var herbs []model.Herb
	for i := 0; i < 30; i++ {
		herbs = append(herbs, model.Herb{ID: i + 1, Name: "Herb"})
	}
	finder := &fakeFinder{herbs: herbs}
	engine := NewEngine(finder, 5)

	res, err := engine.Search(context.Background(), "herb", nil, 1, 1000)
	require.NoError(t, err)
	assert.Len(t, res.Results, 5)

	res, err = engine.Search(context.Background(), "herb", nil, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Len(t, res.Results, 5)
}
