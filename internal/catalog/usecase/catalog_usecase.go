package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"admissions-backend/internal/catalog/domain"
	"admissions-backend/internal/catalog/repository"
	"admissions-backend/pkg/fuzzy"

	"github.com/patrickmn/go-cache"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// UniversityPage is one page of the university listing
type UniversityPage struct {
	Items  []*domain.University `json:"items"`
	Total  int64                `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

// CatalogUsecase serves catalog reads from an in-process cache
type CatalogUsecase interface {
	ListUniversities(country string, limit, offset int) (*UniversityPage, error)
	SearchUniversities(query string, limit int) ([]domain.UniversityHit, error)
	GetUniversity(id string) (*domain.University, error)
	ListExtracurriculars(category string) ([]*domain.Extracurricular, error)
}

type catalogUsecase struct {
	repo  repository.CatalogRepository
	cache *cache.Cache
}

func NewCatalogUsecase(repo repository.CatalogRepository, ttl time.Duration) CatalogUsecase {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &catalogUsecase{
		repo:  repo,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (u *catalogUsecase) ListUniversities(country string, limit, offset int) (*UniversityPage, error) {
	limit, offset = clampPage(limit, offset)
	country = strings.TrimSpace(country)

	key := fmt.Sprintf("universities:%s:%d:%d", strings.ToLower(country), limit, offset)
	if cached, found := u.cache.Get(key); found {
		return cached.(*UniversityPage), nil
	}

	items, total, err := u.repo.ListUniversities(country, limit, offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.University{}
	}
	page := &UniversityPage{Items: items, Total: total, Limit: limit, Offset: offset}
	u.cache.SetDefault(key, page)
	return page, nil
}

// SearchUniversities ranks the whole catalog against query by name, then
// city and country, then programs.
func (u *catalogUsecase) SearchUniversities(query string, limit int) ([]domain.UniversityHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.UniversityHit{}, nil
	}
	limit, _ = clampPage(limit, 0)

	all, err := u.allUniversities()
	if err != nil {
		return nil, err
	}

	var hits []domain.UniversityHit
	for _, uni := range all {
		score := fuzzy.Score(query,
			fuzzy.Field{Text: uni.Name, Weight: 3},
			fuzzy.Field{Text: uni.City, Weight: 1},
			fuzzy.Field{Text: uni.Country, Weight: 1},
			fuzzy.Field{Text: strings.Join(uni.Programs, " "), Weight: 0.5},
		)
		if score > 0 {
			hits = append(hits, domain.UniversityHit{University: uni, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	if hits == nil {
		hits = []domain.UniversityHit{}
	}
	return hits, nil
}

func (u *catalogUsecase) GetUniversity(id string) (*domain.University, error) {
	key := "university:" + id
	if cached, found := u.cache.Get(key); found {
		return cached.(*domain.University), nil
	}

	uni, err := u.repo.FindUniversityByID(id)
	if err != nil {
		return nil, err
	}
	if uni == nil {
		return nil, domain.ErrUniversityNotFound
	}
	u.cache.SetDefault(key, uni)
	return uni, nil
}

func (u *catalogUsecase) ListExtracurriculars(category string) ([]*domain.Extracurricular, error) {
	category = strings.TrimSpace(category)
	key := "extracurriculars:" + strings.ToLower(category)
	if cached, found := u.cache.Get(key); found {
		return cached.([]*domain.Extracurricular), nil
	}

	items, err := u.repo.ListExtracurriculars(category)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Extracurricular{}
	}
	u.cache.SetDefault(key, items)
	return items, nil
}

func (u *catalogUsecase) allUniversities() ([]*domain.University, error) {
	const key = "universities:all"
	if cached, found := u.cache.Get(key); found {
		return cached.([]*domain.University), nil
	}
	all, err := u.repo.AllUniversities()
	if err != nil {
		return nil, err
	}
	u.cache.SetDefault(key, all)
	return all, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
