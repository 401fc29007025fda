package cart

import (
	"context"

	"github.com/craftline/wardrobe/internal/catalog"
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/pkg/common"
	"github.com/shopspring/decimal"
)

// Service owns all cart mutations. Every mutation recomputes the totals
// before persisting, so a stored cart is always internally consistent.
type Service struct {
	repo     Repository
	products catalog.Repository
}

func NewService(repo Repository, products catalog.Repository) *Service {
	return &Service{repo: repo, products: products}
}

// GetOrCreate returns the user's cart, creating an empty one on first use.
func (s *Service) GetOrCreate(ctx context.Context, userID int64) (*domain.Cart, error) {
	c, err := s.repo.GetByUser(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !domain.IsNotFound(err) {
		return nil, err
	}
	c = &domain.Cart{
		ID:       common.UUIDint64(),
		UserID:   userID,
		Discount: decimal.Zero,
		Subtotal: decimal.Zero,
		Total:    decimal.Zero,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddItem puts quantity units of the product in the cart, freezing the
// current catalog price. Adding an item that is already present raises its
// quantity.
func (s *Service) AddItem(ctx context.Context, userID, productID int64, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, domain.Errorf(domain.KindValidation, "quantity must be positive")
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	c, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if it := c.ItemFor(productID); it != nil {
		it.Quantity += quantity
	} else {
		c.Items = append(c.Items, domain.CartItem{
			ID:        common.UUIDint64(),
			CartID:    c.ID,
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.PriceAmount,
			Quantity:  quantity,
		})
	}
	return s.saveRecomputed(ctx, c)
}

// RemoveItem deletes the product's line entirely.
func (s *Service) RemoveItem(ctx context.Context, userID, productID int64) (*domain.Cart, error) {
	c, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	found := false
	items := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID == productID {
			found = true
			continue
		}
		items = append(items, it)
	}
	if !found {
		return nil, domain.Errorf(domain.KindNotFound, "product %d is not in the cart", productID)
	}
	c.Items = items
	return s.saveRecomputed(ctx, c)
}

// SetQuantity overwrites the line quantity. Zero or negative is rejected;
// use RemoveItem to drop a line.
func (s *Service) SetQuantity(ctx context.Context, userID, productID int64, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, domain.Errorf(domain.KindValidation, "quantity must be positive")
	}
	c, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	it := c.ItemFor(productID)
	if it == nil {
		return nil, domain.Errorf(domain.KindNotFound, "product %d is not in the cart", productID)
	}
	it.Quantity = quantity
	return s.saveRecomputed(ctx, c)
}

// ApplyDiscount sets an absolute discount. The recompute clamps the total
// at zero when the discount exceeds the subtotal.
func (s *Service) ApplyDiscount(ctx context.Context, userID int64, discount decimal.Decimal) (*domain.Cart, error) {
	if discount.IsNegative() {
		return nil, domain.Errorf(domain.KindValidation, "discount must not be negative")
	}
	c, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Discount = discount
	return s.saveRecomputed(ctx, c)
}

// Clear empties the cart and resets the discount. The row survives for the
// next purchase.
func (s *Service) Clear(ctx context.Context, userID int64) (*domain.Cart, error) {
	c, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Items = nil
	c.Discount = decimal.Zero
	return s.saveRecomputed(ctx, c)
}

func (s *Service) saveRecomputed(ctx context.Context, c *domain.Cart) (*domain.Cart, error) {
	c.Recompute()
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
