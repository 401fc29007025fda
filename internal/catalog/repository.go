// Package catalog manages products and their review aggregates.
package catalog

import (
	"context"
	"errors"

	"github.com/craftline/wardrobe/internal/domain"
	"gorm.io/gorm"
)

// ListFilter narrows and pages a product listing.
type ListFilter struct {
	Keyword     string
	ProductType string
	Category    string
	Page        int
	PerPage     int
}

type Repository interface {
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetBySku(ctx context.Context, sku string) (*domain.Product, error)
	List(ctx context.Context, f ListFilter) ([]domain.Product, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, p *domain.Product) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Errorf(domain.KindConflict, "sku %s already exists", p.Sku)
	}
	return err
}

func (r *gormRepository) Update(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *gormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Product{}, id).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Errorf(domain.KindNotFound, "product %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) GetBySku(ctx context.Context, sku string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Errorf(domain.KindNotFound, "product sku %s not found", sku)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) List(ctx context.Context, f ListFilter) ([]domain.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Product{})
	if f.Keyword != "" {
		kw := "%" + f.Keyword + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR tags ILIKE ?", kw, kw, kw)
	}
	if f.ProductType != "" {
		query = query.Where("product_type = ?", f.ProductType)
	}
	if f.Category != "" {
		query = query.Where("categories ILIKE ?", "%"+f.Category+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.PerPage <= 0 {
		f.PerPage = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	var products []domain.Product
	err := query.Order("created_at desc").
		Offset((f.Page - 1) * f.PerPage).
		Limit(f.PerPage).
		Find(&products).Error
	return products, total, err
}
