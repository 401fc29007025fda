// Package cart implements the per-user cart aggregate.
package cart

import (
	"context"
	"errors"

	"github.com/craftline/wardrobe/internal/domain"
	"gorm.io/gorm"
)

type Repository interface {
	// GetByUser loads the user's cart with items, or NotFound.
	GetByUser(ctx context.Context, userID int64) (*domain.Cart, error)
	Create(ctx context.Context, c *domain.Cart) error
	// Save persists the cart header and replaces its item rows.
	Save(ctx context.Context, c *domain.Cart) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	var c domain.Cart
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Errorf(domain.KindNotFound, "cart for user %d not found", userID)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *gormRepository) Create(ctx context.Context, c *domain.Cart) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *gormRepository) Save(ctx context.Context, c *domain.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", c.ID).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(c).Error
	})
}
