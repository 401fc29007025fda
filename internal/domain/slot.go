package domain

import "time"

// SlotReservation holds a measurement visit slot for one order. The unique
// index over (slot_date, time_range) is what makes Reserve atomic: the first
// insert wins, every concurrent attempt gets a duplicate-key error.
type SlotReservation struct {
	ID        int64     `json:"id,string" gorm:"primaryKey"`
	OrderID   int64     `json:"order_id,string" gorm:"uniqueIndex"`
	SlotDate  string    `json:"slot_date" gorm:"size:16;uniqueIndex:idx_slot_date_range"`
	TimeRange string    `json:"time_range" gorm:"size:16;uniqueIndex:idx_slot_date_range"`
	CreatedAt time.Time `json:"created_at"`
}

func (SlotReservation) TableName() string { return "slot_reservation" }
