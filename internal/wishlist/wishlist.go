// Package wishlist keeps per-user product bookmarks.
package wishlist

import (
	"context"
	"errors"

	"github.com/craftline/wardrobe/internal/catalog"
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/pkg/common"
	"gorm.io/gorm"
)

type Repository interface {
	Add(ctx context.Context, item *domain.WishlistItem) error
	Remove(ctx context.Context, userID, productID int64) error
	ListByUser(ctx context.Context, userID int64) ([]domain.WishlistItem, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Add(ctx context.Context, item *domain.WishlistItem) error {
	err := r.db.WithContext(ctx).Create(item).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Already bookmarked, nothing to do.
		return nil
	}
	return err
}

func (r *gormRepository) Remove(ctx context.Context, userID, productID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.WishlistItem{}).Error
}

func (r *gormRepository) ListByUser(ctx context.Context, userID int64) ([]domain.WishlistItem, error) {
	var items []domain.WishlistItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).Order("created_at desc").Find(&items).Error
	return items, err
}

type Service struct {
	repo     Repository
	products catalog.Repository
}

func NewService(repo Repository, products catalog.Repository) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) Add(ctx context.Context, userID, productID int64) error {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}
	return s.repo.Add(ctx, &domain.WishlistItem{
		ID:        common.UUIDint64(),
		UserID:    userID,
		ProductID: productID,
	})
}

func (s *Service) Remove(ctx context.Context, userID, productID int64) error {
	return s.repo.Remove(ctx, userID, productID)
}

// List resolves the bookmarked products, dropping entries whose product has
// been removed from the catalog.
func (s *Service) List(ctx context.Context, userID int64) ([]domain.Product, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(items))
	for _, it := range items {
		p, err := s.products.GetByID(ctx, it.ProductID)
		if err != nil {
			if domain.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}
