package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const (
	itemsCacheKey = "items:all"
	itemsCacheTTL = 5 * time.Minute
)

// ItemService exposes the read-only catalog and the seed operation.
type ItemService interface {
	List(ctx context.Context) ([]model.Item, error)
	Get(ctx context.Context, id string) (*model.Item, error)
	Seed(ctx context.Context, items []model.Item) (created, updated int, err error)
}

type itemService struct {
	itemRepo repository.ItemRepository
	cache    *cache.Client
}

// NewItemService creates an item service. cacheClient may be nil.
func NewItemService(itemRepo repository.ItemRepository, cacheClient *cache.Client) ItemService {
	return &itemService{itemRepo: itemRepo, cache: cacheClient}
}

// List returns every catalog item, served from cache when possible.
func (s *itemService) List(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if s.cache.GetJSON(ctx, itemsCacheKey, &items) {
		return items, nil
	}

	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	s.cache.SetJSON(ctx, itemsCacheKey, items, itemsCacheTTL)
	return items, nil
}

// Get returns one item by id.
func (s *itemService) Get(ctx context.Context, id string) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find item: %w", err)
	}
	return item, nil
}

// Seed upserts items by name and drops the cached catalog.
func (s *itemService) Seed(ctx context.Context, items []model.Item) (created, updated int, err error) {
	defer func() { _ = s.cache.Delete(ctx, itemsCacheKey) }()

	for i := range items {
		isNew, err := s.itemRepo.Upsert(ctx, &items[i])
		if err != nil {
			return created, updated, fmt.Errorf("seed item %q: %w", items[i].Name, err)
		}
		if isNew {
			created++
		} else {
			updated++
		}
	}
	return created, updated, nil
}
