package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the per-user mutable aggregate. One row per user, created lazily
// on first mutation and emptied rather than deleted after checkout.
type Cart struct {
	ID        int64           `json:"id,string" gorm:"primaryKey"`
	UserID    int64           `json:"user_id,string" gorm:"uniqueIndex"`
	Discount  decimal.Decimal `json:"discount" gorm:"type:numeric(12,2)"`
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2)"`
	Total     decimal.Decimal `json:"total" gorm:"type:numeric(12,2)"`
	Items     []CartItem      `json:"items" gorm:"foreignKey:CartID"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Cart) TableName() string { return "cart" }

// CartItem freezes the product price at the moment it was added.
type CartItem struct {
	ID        int64           `json:"id,string" gorm:"primaryKey"`
	CartID    int64           `json:"cart_id,string" gorm:"index"`
	ProductID int64           `json:"product_id,string" gorm:"index"`
	Name      string          `json:"name" gorm:"size:200"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2)"`
	Quantity  int             `json:"quantity"`
}

func (CartItem) TableName() string { return "cart_item" }

// Recompute rebuilds subtotal and total from the items. Total is clamped at
// zero when the discount exceeds the subtotal.
func (c *Cart) Recompute() {
	sub := decimal.Zero
	for _, it := range c.Items {
		sub = sub.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	c.Subtotal = sub
	total := sub.Sub(c.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	c.Total = total
}

// ItemFor returns the cart line for a product, or nil.
func (c *Cart) ItemFor(productID int64) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
