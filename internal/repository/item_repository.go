package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/model"
)

// ItemRepository defines catalog persistence operations.
type ItemRepository interface {
	List(ctx context.Context) ([]model.Item, error)
	FindByID(ctx context.Context, id string) (*model.Item, error)
	// FindByIDs returns the items that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]model.Item, error)
	// Upsert creates or updates an item keyed by name and reports whether it
	// was created. item.ID is set on return.
	Upsert(ctx context.Context, item *model.Item) (bool, error)
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository builds a GORM-backed repository.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) List(ctx context.Context) ([]model.Item, error) {
	var rows []itemRow
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]model.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}

func (r *itemRepository) FindByID(ctx context.Context, id string) (*model.Item, error) {
	var row itemRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, gormErr(err)
	}
	item := row.toModel()
	return &item, nil
}

func (r *itemRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Item, error) {
	if len(ids) == 0 {
		return []model.Item{}, nil
	}
	var rows []itemRow
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]model.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}

func (r *itemRepository) Upsert(ctx context.Context, item *model.Item) (bool, error) {
	if err := item.Validate(); err != nil {
		return false, err
	}

	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing itemRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("name = ?", item.Name).First(&existing).Error
		switch {
		case err == nil:
			row := itemRowFromModel(item)
			row.ID = existing.ID
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
			item.ID = row.ID
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := itemRowFromModel(item)
			row.ID = newID()
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			item.ID = row.ID
			created = true
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return false, gormErr(err)
	}
	return created, nil
}

func itemRowFromModel(item *model.Item) itemRow {
	return itemRow{
		ID:          item.ID,
		Name:        item.Name,
		Cost:        item.Cost,
		Description: item.Description,
		ImageURL:    item.ImageURL,
	}
}

func (row itemRow) toModel() model.Item {
	return model.Item{
		ID:          row.ID,
		Name:        row.Name,
		Cost:        row.Cost,
		Description: row.Description,
		ImageURL:    row.ImageURL,
	}
}
