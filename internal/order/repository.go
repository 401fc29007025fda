// Package order implements checkout, payment reconciliation and the
// fulfillment state machine.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/craftline/wardrobe/internal/domain"
	"gorm.io/gorm"
)

type ListFilter struct {
	UserID        int64
	Status        string
	PaymentStatus string
	Page          int
	PerPage       int
}

type Repository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByGatewayOrderID(ctx context.Context, gid string) (*domain.Order, error)
	List(ctx context.Context, f ListFilter) ([]domain.Order, int64, error)
	// ConfirmPayment flips payment_status to Paid only while it is still
	// Pending. Returns the number of rows changed; zero means someone else
	// confirmed (or failed) the payment first.
	ConfirmPayment(ctx context.Context, gatewayOrderID, paymentID string, paidAt time.Time) (int64, error)
	// FailPayment flips payment_status to Failed only while Pending.
	FailPayment(ctx context.Context, gatewayOrderID string) (int64, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Errorf(domain.KindNotFound, "order %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *gormRepository) GetByGatewayOrderID(ctx context.Context, gid string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("gateway_order_id = ?", gid).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Errorf(domain.KindNotFound, "order for gateway id %s not found", gid)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *gormRepository) List(ctx context.Context, f ListFilter) ([]domain.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Order{})
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		query = query.Where("payment_status = ?", f.PaymentStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.PerPage <= 0 {
		f.PerPage = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	var orders []domain.Order
	err := query.Preload("Items").Order("created_at desc").
		Offset((f.Page - 1) * f.PerPage).
		Limit(f.PerPage).
		Find(&orders).Error
	return orders, total, err
}

func (r *gormRepository) ConfirmPayment(ctx context.Context, gatewayOrderID, paymentID string, paidAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("gateway_order_id = ? AND payment_status = ?", gatewayOrderID, domain.PaymentStatusPending).
		Updates(map[string]interface{}{
			"payment_status": domain.PaymentStatusPaid,
			"payment_id":     paymentID,
			"status":         domain.OrderStatusProcessing,
			"paid_at":        paidAt,
		})
	return result.RowsAffected, result.Error
}

func (r *gormRepository) FailPayment(ctx context.Context, gatewayOrderID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("gateway_order_id = ? AND payment_status = ?", gatewayOrderID, domain.PaymentStatusPending).
		Update("payment_status", domain.PaymentStatusFailed)
	return result.RowsAffected, result.Error
}

func (r *gormRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ?", id).Updates(fields).Error
}
