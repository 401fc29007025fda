// Package account covers registration, login and profile lookups.
package account

import (
	"context"
	"errors"

	"github.com/craftline/wardrobe/internal/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, keyword string, page, perPage int) ([]domain.User, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Errorf(domain.KindConflict, "email %s is already registered", u.Email)
	}
	return err
}

func (r *gormRepository) Update(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Errorf(domain.KindNotFound, "user %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *gormRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Errorf(domain.KindNotFound, "user %s not found", email)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *gormRepository) List(ctx context.Context, keyword string, page, perPage int) ([]domain.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.User{})
	if keyword != "" {
		kw := "%" + keyword + "%"
		query = query.Where("email ILIKE ? OR name ILIKE ? OR mobile ILIKE ?", kw, kw, kw)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	var users []domain.User
	err := query.Order("created_at desc").
		Offset((page - 1) * perPage).Limit(perPage).Find(&users).Error
	return users, total, err
}
