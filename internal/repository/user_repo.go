package repository

import (
	"context"
	"strings"

	"resumehub/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return r.db.WithContext(ctx).Create(u).Error
}

// FindActiveByID resolves a user by id. Soft-deleted users are excluded by
// the gorm.DeletedAt scope, so a deactivated subject surfaces as
// gorm.ErrRecordNotFound.
func (r *UserRepository) FindActiveByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}
