package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"DermanlykBackend/internal/model"

	sq "github.com/Masterminds/squirrel"
)

// ErrNotFound is returned when a herb does not exist or is soft-deleted.
var ErrNotFound = errors.New("herb not found")

// searchColumns maps API field names to their SQL column expressions.
// "character" collides with the SQL type keyword and must stay quoted.
var searchColumns = map[string]string{
	"name":           "name",
	"name_latin":     "name_latin",
	"character":      `"character"`,
	"usage":          "usage",
	"natural_source": "natural_source",
	"content":        "content",
}

const herbColumns = `id, name, name_latin, "character", usage, natural_source, content, photo, is_deleted, created_at`

type HerbRepository struct {
	db *sql.DB
}

func NewHerbRepository(db *sql.DB) *HerbRepository {
	return &HerbRepository{db: db}
}

// selectActive is the base query every read path starts from: soft-deleted
// rows are filtered out beneath any caller predicate. Callers pick the order;
// the default across read paths is name ascending.
func (r *HerbRepository) selectActive() sq.SelectBuilder {
	return sq.Select(herbColumns).
		From("herbs").
		Where(sq.Eq{"is_deleted": false}).
		PlaceholderFormat(sq.Dollar)
}

func (r *HerbRepository) selectActiveByName() sq.SelectBuilder {
	return r.selectActive().OrderBy("name ASC")
}

func (r *HerbRepository) queryHerbs(ctx context.Context, b sq.SelectBuilder) ([]model.Herb, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build herbs query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query herbs: %w", err)
	}
	defer rows.Close()

	herbs := []model.Herb{}
	for rows.Next() {
		h, err := scanHerb(rows)
		if err != nil {
			return nil, err
		}
		herbs = append(herbs, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return herbs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHerb(row rowScanner) (model.Herb, error) {
	var h model.Herb
	var photo sql.NullString
	err := row.Scan(&h.ID, &h.Name, &h.NameLatin, &h.Character, &h.Usage,
		&h.NaturalSource, &h.Content, &photo, &h.IsDeleted, &h.CreatedAt)
	if err != nil {
		return model.Herb{}, fmt.Errorf("scan herb row: %w", err)
	}
	h.Photo = photo.String
	return h, nil
}

func (r *HerbRepository) ListActive(ctx context.Context) ([]model.Herb, error) {
	return r.queryHerbs(ctx, r.selectActiveByName())
}

func (r *HerbRepository) GetByID(ctx context.Context, id int) (*model.Herb, error) {
	query, args, err := r.selectActive().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build herb query: %w", err)
	}

	h, err := scanHerb(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Recent returns the newest active herbs, created_at descending.
func (r *HerbRepository) Recent(ctx context.Context, limit int) ([]model.Herb, error) {
	b := r.selectActive().OrderBy("created_at DESC").Limit(uint64(limit))
	return r.queryHerbs(ctx, b)
}

// Newest returns the single most recently created active herb.
func (r *HerbRepository) Newest(ctx context.Context) (*model.Herb, error) {
	herbs, err := r.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(herbs) == 0 {
		return nil, ErrNotFound
	}
	return &herbs[0], nil
}

func (r *HerbRepository) ActiveIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM herbs WHERE is_deleted = FALSE`)
	if err != nil {
		return nil, fmt.Errorf("query herb ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SuggestNames returns up to limit distinct active herb names containing q.
func (r *HerbRepository) SuggestNames(ctx context.Context, q string, limit int) ([]string, error) {
	query, args, err := sq.Select("DISTINCT name").
		From("herbs").
		Where(sq.Eq{"is_deleted": false}).
		Where(sq.ILike{"name": "%" + q + "%"}).
		OrderBy("name ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build suggestions query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// FindNameExact returns active herbs whose name equals q case-insensitively.
func (r *HerbRepository) FindNameExact(ctx context.Context, q string) ([]model.Herb, error) {
	b := r.selectActiveByName().Where(sq.Expr("LOWER(name) = LOWER(?)", q))
	return r.queryHerbs(ctx, b)
}

// FindNamePrefix returns active herbs whose name starts with q case-insensitively.
func (r *HerbRepository) FindNamePrefix(ctx context.Context, q string) ([]model.Herb, error) {
	b := r.selectActiveByName().Where(sq.ILike{"name": q + "%"})
	return r.queryHerbs(ctx, b)
}

// FindSubstring returns active herbs where q appears as a substring in any of
// the given fields. Unknown field names are ignored.
func (r *HerbRepository) FindSubstring(ctx context.Context, q string, fields []string) ([]model.Herb, error) {
	pattern := "%" + q + "%"
	or := sq.Or{}
	for _, f := range fields {
		col, ok := searchColumns[f]
		if !ok {
			continue
		}
		or = append(or, sq.ILike{col: pattern})
	}
	if len(or) == 0 {
		return []model.Herb{}, nil
	}
	return r.queryHerbs(ctx, r.selectActiveByName().Where(or))
}

func (r *HerbRepository) Insert(ctx context.Context, h *model.Herb) error {
	query, args, err := sq.Insert("herbs").
		Columns("name", "name_latin", `"character"`, "usage", "natural_source", "content", "photo").
		Values(h.Name, h.NameLatin, h.Character, h.Usage, h.NaturalSource, h.Content, h.Photo).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build herb insert: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&h.ID, &h.CreatedAt); err != nil {
		return fmt.Errorf("insert herb: %w", err)
	}
	return nil
}

func (r *HerbRepository) UpdatePhoto(ctx context.Context, id int, photo string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE herbs SET photo = $1 WHERE id = $2 AND is_deleted = FALSE`, photo, id)
	if err != nil {
		return fmt.Errorf("update herb photo: %w", err)
	}
	return requireAffected(res)
}

func (r *HerbRepository) SoftDelete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE herbs SET is_deleted = TRUE WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("soft delete herb: %w", err)
	}
	return requireAffected(res)
}

// CountActiveByPhoto counts active herbs other than excludeID that still
// reference the given stored photo path.
func (r *HerbRepository) CountActiveByPhoto(ctx context.Context, photo string, excludeID int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM herbs WHERE photo = $1 AND id <> $2 AND is_deleted = FALSE`,
		photo, excludeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count herbs by photo: %w", err)
	}
	return n, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
