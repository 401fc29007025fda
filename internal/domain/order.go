package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fulfillment statuses. Processing, Shipped and Delivered advance strictly
// forward; Cancelled is reachable from any state before Delivered.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

const (
	PaymentStatusPending = "Pending"
	PaymentStatusPaid    = "Paid"
	PaymentStatusFailed  = "Failed"
)

const (
	DeliveryStandard = "standard"
	DeliveryExpress  = "express"
)

const (
	SlotMorning   = "morning"
	SlotAfternoon = "afternoon"
	SlotEvening   = "evening"
)

// Order is the checkout result. Items are copied from the cart at initiation
// and are immutable afterwards; the cart itself stays mutable until payment
// is finalized.
type Order struct {
	ID             int64           `json:"id,string" gorm:"primaryKey"`
	UserID         int64           `json:"user_id,string" gorm:"index"`
	Status         string          `json:"status" gorm:"size:16;index"`
	PaymentStatus  string          `json:"payment_status" gorm:"size:16;index"`
	Subtotal       decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2)"`
	Discount       decimal.Decimal `json:"discount" gorm:"type:numeric(12,2)"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee" gorm:"type:numeric(12,2)"`
	Total          decimal.Decimal `json:"total" gorm:"type:numeric(12,2)"`
	DeliveryType   string          `json:"delivery_type" gorm:"size:16"`
	GatewayOrderID string          `json:"gateway_order_id" gorm:"size:64;index"`
	PaymentID      string          `json:"payment_id" gorm:"size:64"`
	SlotDate       string          `json:"slot_date" gorm:"size:16"`
	SlotTimeRange  string          `json:"slot_time_range" gorm:"size:16"`
	ShipName       string          `json:"ship_name" gorm:"size:100"`
	ShipMobile     string          `json:"ship_mobile" gorm:"size:16"`
	ShipStreet     string          `json:"ship_street" gorm:"size:255"`
	ShipCity       string          `json:"ship_city" gorm:"size:100"`
	ShipState      string          `json:"ship_state" gorm:"size:100"`
	ShipPincode    string          `json:"ship_pincode" gorm:"size:16"`
	ReviewToken    string          `json:"-" gorm:"size:512"`
	Items          []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	PaidAt         *time.Time      `json:"paid_at"`
	DeliveredAt    *time.Time      `json:"delivered_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Order) TableName() string { return "order_record" }

type OrderItem struct {
	ID        int64           `json:"id,string" gorm:"primaryKey"`
	OrderID   int64           `json:"order_id,string" gorm:"index"`
	ProductID int64           `json:"product_id,string" gorm:"index"`
	Name      string          `json:"name" gorm:"size:200"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2)"`
	Quantity  int             `json:"quantity"`
}

func (OrderItem) TableName() string { return "order_item" }

// Terminal reports whether no further fulfillment transitions are allowed.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

var statusRank = map[string]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
}

// CanTransition reports whether the fulfillment status may move to next.
// Forward-only through the rank order, Cancelled allowed until Delivered.
func (o *Order) CanTransition(next string) bool {
	if o.Terminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	cur, ok1 := statusRank[o.Status]
	nxt, ok2 := statusRank[next]
	return ok1 && ok2 && nxt > cur
}
