package repository

import (
	"errors"
	"strings"

	"admissions-backend/internal/catalog/domain"

	"gorm.io/gorm"
)

// CatalogRepository reads the university and activity catalog.
// Rows are loaded by the import scripts; the API never writes them.
type CatalogRepository interface {
	ListUniversities(country string, limit, offset int) ([]*domain.University, int64, error)
	AllUniversities() ([]*domain.University, error)
	FindUniversityByID(id string) (*domain.University, error)
	ListExtracurriculars(category string) ([]*domain.Extracurricular, error)
}

type gormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) CatalogRepository {
	return &gormCatalogRepository{db: db}
}

// rankedFirst orders ranked universities by rank, then unranked ones by name
const rankedFirst = "CASE WHEN ranking > 0 THEN 0 ELSE 1 END, ranking ASC, name ASC"

func (r *gormCatalogRepository) ListUniversities(country string, limit, offset int) ([]*domain.University, int64, error) {
	var universities []*domain.University
	var total int64

	query := r.db.Model(&domain.University{})
	if country != "" {
		query = query.Where("LOWER(country) = ?", strings.ToLower(country))
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order(rankedFirst).Limit(limit).Offset(offset).Find(&universities).Error
	return universities, total, err
}

func (r *gormCatalogRepository) AllUniversities() ([]*domain.University, error) {
	var universities []*domain.University
	err := r.db.Order(rankedFirst).Find(&universities).Error
	return universities, err
}

func (r *gormCatalogRepository) FindUniversityByID(id string) (*domain.University, error) {
	var university domain.University
	if err := r.db.Where("id = ?", id).First(&university).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &university, nil
}

func (r *gormCatalogRepository) ListExtracurriculars(category string) ([]*domain.Extracurricular, error) {
	var items []*domain.Extracurricular
	query := r.db.Order("name ASC")
	if category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(category))
	}
	err := query.Find(&items).Error
	return items, err
}
