package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"DermanlykBackend/internal/model"
	"DermanlykBackend/internal/repository/postgres"
	"DermanlykBackend/internal/search"
)

// ErrNotFound signals an empty catalog (random, word of the day) or a missing
// record (detail).
var ErrNotFound = errors.New("not found")

const (
	defaultSearchLimit      = 10
	defaultGlobalLimit      = 20
	defaultSuggestionsLimit = 5
	defaultPopularLimit     = 10
)

// catalog-scoped search looks at latin name and article body; global search
// widens to the descriptive fields.
var (
	catalogSearchFields = []string{"name_latin", "content"}
	globalSearchFields  = []string{"character", "usage", "natural_source"}
)

// Repository is the read surface the service needs from the catalog store.
type Repository interface {
	search.Finder
	ListActive(ctx context.Context) ([]model.Herb, error)
	GetByID(ctx context.Context, id int) (*model.Herb, error)
	Recent(ctx context.Context, limit int) ([]model.Herb, error)
	Newest(ctx context.Context) (*model.Herb, error)
	ActiveIDs(ctx context.Context) ([]int, error)
	SuggestNames(ctx context.Context, q string, limit int) ([]string, error)
}

type HerbService interface {
	List(ctx context.Context, page, limit int) (search.Result, error)
	Get(ctx context.Context, id int) (*model.Herb, error)
	Search(ctx context.Context, q string, page, limit int) (search.Result, error)
	GlobalSearch(ctx context.Context, q string, page, limit int) (search.Result, error)
	Suggestions(ctx context.Context, q string, limit int) ([]string, error)
	Popular(ctx context.Context, limit int) ([]model.Herb, error)
	Random(ctx context.Context) (*model.Herb, error)
	WordOfTheDay(ctx context.Context) (*model.Herb, error)
}

type herbService struct {
	repo     Repository
	engine   *search.Engine
	maxLimit int
}

func NewHerbService(repo Repository, maxLimit int) HerbService {
	return &herbService{
		repo:     repo,
		engine:   search.NewEngine(repo, maxLimit),
		maxLimit: maxLimit,
	}
}

func (s *herbService) List(ctx context.Context, page, limit int) (search.Result, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}

	herbs, err := s.repo.ListActive(ctx)
	if err != nil {
		return search.Result{}, err
	}
	return search.Paginate(herbs, page, limit), nil
}

func (s *herbService) Get(ctx context.Context, id int) (*model.Herb, error) {
	h, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, ErrNotFound
	}
	return h, err
}

func (s *herbService) Search(ctx context.Context, q string, page, limit int) (search.Result, error) {
	if limit < 1 {
		limit = defaultSearchLimit
	}
	return s.engine.Search(ctx, q, catalogSearchFields, page, limit)
}

func (s *herbService) GlobalSearch(ctx context.Context, q string, page, limit int) (search.Result, error) {
	if limit < 1 {
		limit = defaultGlobalLimit
	}
	return s.engine.Search(ctx, q, globalSearchFields, page, limit)
}

func (s *herbService) Suggestions(ctx context.Context, q string, limit int) ([]string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []string{}, nil
	}
	if limit < 1 {
		limit = defaultSuggestionsLimit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}
	return s.repo.SuggestNames(ctx, q, limit)
}

func (s *herbService) Popular(ctx context.Context, limit int) ([]model.Herb, error) {
	if limit < 1 {
		limit = defaultPopularLimit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}
	return s.repo.Recent(ctx, limit)
}

// Random picks uniformly over the active id set, then loads the record.
func (s *herbService) Random(ctx context.Context) (*model.Herb, error) {
	ids, err := s.repo.ActiveIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load herb ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, ids[rand.IntN(len(ids))])
}

func (s *herbService) WordOfTheDay(ctx context.Context) (*model.Herb, error) {
	h, err := s.repo.Newest(ctx)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, ErrNotFound
	}
	return h, err
}
