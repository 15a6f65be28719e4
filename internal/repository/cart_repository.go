package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/model"
)

// CartRepository defines cart persistence operations. Each user owns at most
// one cart.
type CartRepository interface {
	FindByUserID(ctx context.Context, userID string) (*model.Cart, error)
	// ReplaceItems overwrites the user's item list, creating the cart when
	// absent, and returns the stored cart.
	ReplaceItems(ctx context.Context, userID string, items []model.CartItem) (*model.Cart, error)
	// DeleteByUserID removes the user's cart. Deleting a missing cart is not an error.
	DeleteByUserID(ctx context.Context, userID string) error
}

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository builds a GORM-backed repository.
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) FindByUserID(ctx context.Context, userID string) (*model.Cart, error) {
	return r.findByUserID(r.db.WithContext(ctx), userID)
}

func (r *cartRepository) findByUserID(tx *gorm.DB, userID string) (*model.Cart, error) {
	var row cartRow
	err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		return nil, gormErr(err)
	}
	return row.toModel(), nil
}

func (r *cartRepository) ReplaceItems(ctx context.Context, userID string, items []model.CartItem) (*model.Cart, error) {
	cart := &model.Cart{UserID: userID, Items: items}
	if err := cart.Validate(); err != nil {
		return nil, err
	}

	var stored *model.Cart
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The unique index on user_id turns a concurrent first write into a no-op.
		row := cartRow{ID: newID(), UserID: userID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Omit("Items").Create(&row).Error; err != nil {
			return err
		}

		// First filters on a non-zero primary key, and row keeps its fresh id
		// when the insert was skipped.
		var existing cartRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(&existing).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", existing.ID).Delete(&cartItemRow{}).Error; err != nil {
			return err
		}

		if len(items) > 0 {
			lines := make([]cartItemRow, 0, len(items))
			for i, it := range items {
				lines = append(lines, cartItemRow{CartID: existing.ID, Position: i, ItemID: it.ItemID, Count: it.Count})
			}
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}

		var err error
		stored, err = r.findByUserID(tx, userID)
		return err
	})
	if err != nil {
		return nil, gormErr(err)
	}
	return stored, nil
}

func (r *cartRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row cartRow
		err := tx.Where("user_id = ?", userID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", row.ID).Delete(&cartItemRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&row).Error
	})
}

func (row cartRow) toModel() *model.Cart {
	items := make([]model.CartItem, 0, len(row.Items))
	for _, it := range row.Items {
		items = append(items, model.CartItem{ItemID: it.ItemID, Count: it.Count})
	}
	return &model.Cart{ID: row.ID, UserID: row.UserID, Items: items}
}
