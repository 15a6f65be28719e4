package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type itemRow struct {
	ID          string          `gorm:"type:char(36);primaryKey"`
	Name        string          `gorm:"size:255;not null;uniqueIndex"`
	Cost        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description string          `gorm:"type:text;not null"`
	ImageURL    string          `gorm:"size:1024;not null"`
}

func (itemRow) TableName() string { return "items" }

type userRow struct {
	ID           string `gorm:"type:char(36);primaryKey"`
	Name         string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:255;not null"`
}

func (userRow) TableName() string { return "users" }

type cartRow struct {
	ID     string        `gorm:"type:char(36);primaryKey"`
	UserID string        `gorm:"type:char(36);not null;uniqueIndex"`
	Items  []cartItemRow `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

func (cartRow) TableName() string { return "carts" }

type cartItemRow struct {
	ID       uint   `gorm:"primaryKey"`
	CartID   string `gorm:"type:char(36);not null;index"`
	Position int    `gorm:"not null"`
	ItemID   string `gorm:"size:64;not null"`
	Count    int    `gorm:"not null"`
}

func (cartItemRow) TableName() string { return "cart_items" }

// AutoMigrate creates or updates the relational schema, including the unique
// indexes on user names and cart owners.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&itemRow{}, &userRow{}, &cartRow{}, &cartItemRow{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// NewGormRepositories builds GORM-backed repositories.
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Items: NewItemRepository(db),
		Users: NewUserRepository(db),
		Carts: NewCartRepository(db),
	}
}

func newID() string {
	return uuid.NewString()
}

// gormErr maps GORM sentinel errors onto the repository ones.
func gormErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}
