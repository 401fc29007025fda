package domain

import "time"

const (
	UserLevelCustomer = "customer"
	UserLevelAdmin    = "admin"
)

type User struct {
	ID        int64     `json:"id,string" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:128"`
	Password  string    `json:"-" gorm:"size:128"`
	Name      string    `json:"name" gorm:"size:100"`
	Mobile    string    `json:"mobile" gorm:"size:16"`
	Level     string    `json:"level" gorm:"size:16;index"`
	Status    string    `json:"status" gorm:"size:16"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "store_user" }

// Review is a customer rating left through a delivered order's invitation.
// One review per order, enforced by the unique index.
type Review struct {
	ID        int64     `json:"id,string" gorm:"primaryKey"`
	ProductID int64     `json:"product_id,string" gorm:"index"`
	UserID    int64     `json:"user_id,string" gorm:"index"`
	OrderID   int64     `json:"order_id,string" gorm:"uniqueIndex"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment" gorm:"size:2000"`
	CreatedAt time.Time `json:"created_at"`
}

func (Review) TableName() string { return "review" }

type WishlistItem struct {
	ID        int64     `json:"id,string" gorm:"primaryKey"`
	UserID    int64     `json:"user_id,string" gorm:"index:idx_wishlist_user_product,unique"`
	ProductID int64     `json:"product_id,string" gorm:"index:idx_wishlist_user_product,unique"`
	CreatedAt time.Time `json:"created_at"`
}

func (WishlistItem) TableName() string { return "wishlist_item" }
