package catalog

import (
	"context"
	"fmt"

	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/pkg/cache"
	"github.com/craftline/wardrobe/pkg/common"
)

const listCachePrefix = "catalog:list:"

// Service wraps the repository with listing cache and aggregate updates.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

type ListResult struct {
	Products []domain.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PerPage  int              `json:"per_page"`
}

// List serves paged product listings through the TTL cache. Admin mutations
// invalidate the whole prefix.
func (s *Service) List(ctx context.Context, f ListFilter) (*ListResult, error) {
	key := fmt.Sprintf("%s%s|%s|%s|%d|%d",
		listCachePrefix, f.Keyword, f.ProductType, f.Category, f.Page, f.PerPage)
	if s.cache != nil {
		var cached ListResult
		if s.cache.Get(key, &cached) {
			return &cached, nil
		}
	}
	products, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	result := &ListResult{Products: products, Total: total, Page: f.Page, PerPage: f.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 20
	}
	if s.cache != nil {
		s.cache.Set(key, result)
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p *domain.Product) error {
	if p.Sku == "" || p.Name == "" {
		return domain.Errorf(domain.KindValidation, "sku and name are required")
	}
	if p.PriceAmount.IsNegative() {
		return domain.Errorf(domain.KindValidation, "price must not be negative")
	}
	if p.ID == 0 {
		p.ID = common.UUIDint64()
	}
	if p.Currency == "" {
		p.Currency = "INR"
	}
	if p.Status == "" {
		p.Status = common.ENABLED
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) Update(ctx context.Context, p *domain.Product) error {
	if p.PriceAmount.IsNegative() {
		return domain.Errorf(domain.KindValidation, "price must not be negative")
	}
	if _, err := s.repo.GetByID(ctx, p.ID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Restock adjusts sellable stock by delta, never below zero.
func (s *Service) Restock(ctx context.Context, id int64, delta int) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := p.Quantity + delta
	if next < 0 {
		return nil, domain.Errorf(domain.KindValidation, "stock cannot go below zero")
	}
	p.Quantity = next
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate()
	return p, nil
}

// ApplyReview folds a new rating into the product aggregate.
func (s *Service) ApplyReview(ctx context.Context, productID int64, rating int) error {
	if rating < 1 || rating > 5 {
		return domain.Errorf(domain.KindValidation, "rating must be between 1 and 5")
	}
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	p.ApplyRating(rating)
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// ReserveStock moves paid quantities from sellable to reserved, capped at
// the on-hand quantity.
func (s *Service) ReserveStock(ctx context.Context, productID int64, qty int) error {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	p.Reserved += qty
	if p.Reserved > p.Quantity {
		p.Reserved = p.Quantity
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) invalidate() {
	if s.cache != nil {
		s.cache.InvalidatePrefix(listCachePrefix)
	}
}
