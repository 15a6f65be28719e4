package repository

import (
	"context"

	"gorm.io/gorm"

	"storefront/internal/model"
)

// UserRepository defines persistence operations.
type UserRepository interface {
	// Create stores a new user and sets user.ID. A taken name yields ErrDuplicate.
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByName(ctx context.Context, name string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	row := userRow{ID: newID(), Name: user.Name, PasswordHash: user.PasswordHash}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return gormErr(err)
	}
	user.ID = row.ID
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, gormErr(err)
	}
	return row.toModel(), nil
}

func (r *userRepository) FindByName(ctx context.Context, name string) (*model.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		return nil, gormErr(err)
	}
	return row.toModel(), nil
}

func (row userRow) toModel() *model.User {
	return &model.User{ID: row.ID, Name: row.Name, PasswordHash: row.PasswordHash}
}
