package slot

import (
	"context"
	"errors"

	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/pkg/common"
	"gorm.io/gorm"
)

// Repository persists slot reservations. The gorm implementation relies on
// the unique (slot_date, time_range) index for mutual exclusion.
type Repository interface {
	Insert(ctx context.Context, r *domain.SlotReservation) error
	DeleteByOrder(ctx context.Context, orderID int64) error
	GetByOrder(ctx context.Context, orderID int64) (*domain.SlotReservation, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Insert(ctx context.Context, sr *domain.SlotReservation) error {
	err := r.db.WithContext(ctx).Create(sr).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Errorf(domain.KindConflict,
			"slot %s %s is already reserved", sr.SlotDate, sr.TimeRange)
	}
	return err
}

func (r *gormRepository) DeleteByOrder(ctx context.Context, orderID int64) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&domain.SlotReservation{}).Error
}

func (r *gormRepository) GetByOrder(ctx context.Context, orderID int64) (*domain.SlotReservation, error) {
	var sr domain.SlotReservation
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&sr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Errorf(domain.KindNotFound, "no reservation for order %d", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &sr, nil
}

// Registry hands out exclusive measurement slots. Reserve is first writer
// wins; everyone else gets a Conflict error.
type Registry struct {
	repo Repository
}

func NewRegistry(repo Repository) *Registry {
	return &Registry{repo: repo}
}

// Reserve atomically claims (date, timeRange) for orderID. A released slot
// is reservable again, including by the order that previously held it.
func (g *Registry) Reserve(ctx context.Context, orderID int64, date, timeRange string) error {
	return g.repo.Insert(ctx, &domain.SlotReservation{
		ID:        common.UUIDint64(),
		OrderID:   orderID,
		SlotDate:  date,
		TimeRange: timeRange,
	})
}

// Release frees whatever slot orderID holds. Releasing an order with no
// reservation is a no-op.
func (g *Registry) Release(ctx context.Context, orderID int64) error {
	return g.repo.DeleteByOrder(ctx, orderID)
}
