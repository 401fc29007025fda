package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductTypeWardrobe = "Wardrobe"
	ProductTypeStorage  = "Storage"
)

// Product is a catalog entry. Price is frozen into cart items at add time,
// so later edits never change an existing cart or order.
type Product struct {
	ID           int64           `json:"id,string" gorm:"primaryKey"`
	Sku          string          `json:"sku" gorm:"uniqueIndex;size:64"`
	Name         string          `json:"name" gorm:"size:200"`
	Description  string          `json:"description"`
	ProductType  string          `json:"product_type" gorm:"size:32;index"`
	PriceAmount  decimal.Decimal `json:"price_amount" gorm:"type:numeric(12,2)"`
	Currency     string          `json:"currency" gorm:"size:8"`
	Quantity     int             `json:"quantity"`
	Reserved     int             `json:"reserved"`
	Categories   string          `json:"categories" gorm:"size:255"`
	Tags         string          `json:"tags" gorm:"size:255"`
	ImageURL     string          `json:"image_url" gorm:"size:512"`
	Status       string          `json:"status" gorm:"size:16;index"`
	ReviewCount  int             `json:"review_count"`
	ReviewAvg    decimal.Decimal `json:"review_avg" gorm:"type:numeric(4,2)"`
	Rating1      int             `json:"rating_1"`
	Rating2      int             `json:"rating_2"`
	Rating3      int             `json:"rating_3"`
	Rating4      int             `json:"rating_4"`
	Rating5      int             `json:"rating_5"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Product) TableName() string { return "product" }

// Available reports sellable stock after reservations.
func (p *Product) Available() int {
	n := p.Quantity - p.Reserved
	if n < 0 {
		return 0
	}
	return n
}

// RatingHistogram returns the per-star counts indexed 1..5.
func (p *Product) RatingHistogram() [6]int {
	return [6]int{0, p.Rating1, p.Rating2, p.Rating3, p.Rating4, p.Rating5}
}

// ApplyRating folds a new star rating into the aggregate and recomputes the
// average from the histogram.
func (p *Product) ApplyRating(stars int) {
	switch stars {
	case 1:
		p.Rating1++
	case 2:
		p.Rating2++
	case 3:
		p.Rating3++
	case 4:
		p.Rating4++
	case 5:
		p.Rating5++
	default:
		return
	}
	p.ReviewCount++
	total := p.Rating1 + 2*p.Rating2 + 3*p.Rating3 + 4*p.Rating4 + 5*p.Rating5
	p.ReviewAvg = decimal.NewFromInt(int64(total)).
		Div(decimal.NewFromInt(int64(p.ReviewCount))).Round(2)
}
