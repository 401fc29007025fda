// Package review stores customer reviews submitted through delivery
// invitations.
package review

import (
	"context"
	"errors"

	"github.com/craftline/wardrobe/internal/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, rv *domain.Review) error
	ListByProduct(ctx context.Context, productID int64, page, perPage int) ([]domain.Review, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, rv *domain.Review) error {
	err := r.db.WithContext(ctx).Create(rv).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Errorf(domain.KindConflict, "order %d is already reviewed", rv.OrderID)
	}
	return err
}

func (r *gormRepository) ListByProduct(ctx context.Context, productID int64, page, perPage int) ([]domain.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Review{}).Where("product_id = ?", productID)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	var reviews []domain.Review
	err := query.Order("created_at desc").
		Offset((page - 1) * perPage).Limit(perPage).Find(&reviews).Error
	return reviews, total, err
}
