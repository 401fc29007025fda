package review

import (
	"context"

	"github.com/craftline/wardrobe/internal/catalog"
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/internal/order"
	"github.com/craftline/wardrobe/pkg/common"
)

type Service struct {
	repo     Repository
	orders   *order.Service
	products *catalog.Service
}

func NewService(repo Repository, orders *order.Service, products *catalog.Service) *Service {
	return &Service{repo: repo, orders: orders, products: products}
}

type SubmitRequest struct {
	Token     string `json:"token"`
	ProductID int64  `json:"product_id,string"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Submit accepts a review through a delivery invitation token. The token is
// single use: it must still match the copy stored on the order, and it is
// cleared once the review lands.
func (s *Service) Submit(ctx context.Context, userID int64, req SubmitRequest) (*domain.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, domain.Errorf(domain.KindValidation, "rating must be between 1 and 5")
	}
	claims, err := s.orders.ParseReviewToken(req.Token)
	if err != nil {
		return nil, err
	}
	if claims.UserID != userID {
		return nil, domain.Errorf(domain.KindAuthenticity, "review token belongs to another account")
	}
	o, err := s.orders.Get(ctx, claims.OrderID)
	if err != nil {
		return nil, err
	}
	if o.Status != domain.OrderStatusDelivered {
		return nil, domain.Errorf(domain.KindConflict, "order %d is not delivered", o.ID)
	}
	if o.ReviewToken != req.Token {
		return nil, domain.Errorf(domain.KindAuthenticity, "review token already used")
	}
	found := false
	for _, it := range o.Items {
		if it.ProductID == req.ProductID {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.Errorf(domain.KindValidation,
			"product %d is not part of order %d", req.ProductID, o.ID)
	}

	rv := &domain.Review{
		ID:        common.UUIDint64(),
		ProductID: req.ProductID,
		UserID:    userID,
		OrderID:   o.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}
	if err := s.products.ApplyReview(ctx, req.ProductID, req.Rating); err != nil {
		return nil, err
	}
	if err := s.orders.ClearReviewToken(ctx, o.ID); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *Service) ListByProduct(ctx context.Context, productID int64, page, perPage int) ([]domain.Review, int64, error) {
	return s.repo.ListByProduct(ctx, productID, page, perPage)
}
