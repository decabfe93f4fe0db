package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResult struct {
	affected int64
	err      error
}

func (f fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (f fakeResult) RowsAffected() (int64, error) { return f.affected, f.err }

func TestRequireAffected(t *testing.T) {
	assert.NoError(t, requireAffected(fakeResult{affected: 1}))
	assert.ErrorIs(t, requireAffected(fakeResult{affected: 0}), ErrNotFound)

	boom := errors.New("boom")
	assert.ErrorIs(t, requireAffected(fakeResult{err: boom}), boom)
}

type fakeRow struct {
	values []any
	err    error
}

func (f fakeRow) Scan(dest ...any) error {
	if f.err != nil {
		return f.err
	}
	*(dest[0].(*int)) = f.values[0].(int)
	*(dest[1].(*string)) = f.values[1].(string)
	*(dest[2].(*string)) = f.values[2].(string)
	*(dest[3].(*string)) = f.values[3].(string)
	*(dest[4].(*string)) = f.values[4].(string)
	*(dest[5].(*string)) = f.values[5].(string)
	*(dest[6].(*string)) = f.values[6].(string)
	*(dest[7].(*sql.NullString)) = f.values[7].(sql.NullString)
	*(dest[8].(*bool)) = f.values[8].(bool)
	*(dest[9].(*time.Time)) = f.values[9].(time.Time)
	return nil
}

func TestScanHerb(t *testing.T) {
	now := time.Now()
	h, err := scanHerb(fakeRow{values: []any{
		3, "Mint", "Mentha", "cooling", "tea", "meadows", "article",
		sql.NullString{String: "herbs/abc.webp", Valid: true}, false, now,
	}})
	require.NoError(t, err)
	assert.Equal(t, 3, h.ID)
	assert.Equal(t, "Mint", h.Name)
	assert.Equal(t, "herbs/abc.webp", h.Photo)
	assert.Equal(t, now, h.CreatedAt)

	// NULL photo scans to the empty string.
	h, err = scanHerb(fakeRow{values: []any{
		4, "Sage", "", "", "", "", "", sql.NullString{}, false, now,
	}})
	require.NoError(t, err)
	assert.Empty(t, h.Photo)

	_, err = scanHerb(fakeRow{err: sql.ErrNoRows})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestFindSubstringIgnoresUnknownFields(t *testing.T) {
	r := NewHerbRepository(nil)

	herbs, err := r.FindSubstring(context.Background(), "mint", []string{"photo", "id"})
	require.NoError(t, err)
	assert.Empty(t, herbs, "unknown fields must not reach the database")
}
