package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// CartService manages the single cart of an authenticated user.
type CartService interface {
	Get(ctx context.Context, userID string) ([]model.CartLine, error)
	Replace(ctx context.Context, userID string, items []model.CartItem) ([]model.CartItem, error)
	Delete(ctx context.Context, userID string) error
}

type cartService struct {
	userRepo repository.UserRepository
	itemRepo repository.ItemRepository
	cartRepo repository.CartRepository
}

// NewCartService creates a cart service.
func NewCartService(userRepo repository.UserRepository, itemRepo repository.ItemRepository, cartRepo repository.CartRepository) CartService {
	return &cartService{
		userRepo: userRepo,
		itemRepo: itemRepo,
		cartRepo: cartRepo,
	}
}

// Get returns the user's cart lines with their items populated, or an empty
// list when the user has no cart. Lines whose item is gone carry a nil Item.
func (s *cartService) Get(ctx context.Context, userID string) ([]model.CartLine, error) {
	if _, err := findUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return []model.CartLine{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}

	ids := make([]string, 0, len(cart.Items))
	for _, line := range cart.Items {
		ids = append(ids, line.ItemID)
	}
	items, err := s.itemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("populate cart: %w", err)
	}
	byID := make(map[string]*model.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	lines := make([]model.CartLine, 0, len(cart.Items))
	for _, line := range cart.Items {
		lines = append(lines, model.CartLine{Item: byID[line.ItemID], Count: line.Count})
	}
	return lines, nil
}

// Replace overwrites the user's cart with items, creating the cart if needed,
// and returns the stored list.
func (s *cartService) Replace(ctx context.Context, userID string, items []model.CartItem) ([]model.CartItem, error) {
	if _, err := findUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}

	cart, err := model.NewCart(userID, items)
	if err != nil {
		return nil, err
	}
	stored, err := s.cartRepo.ReplaceItems(ctx, userID, cart.Items)
	if err != nil {
		return nil, fmt.Errorf("replace cart: %w", err)
	}
	return stored.Items, nil
}

// Delete removes the user's cart. Deleting a missing cart succeeds.
func (s *cartService) Delete(ctx context.Context, userID string) error {
	if _, err := findUser(ctx, s.userRepo, userID); err != nil {
		return err
	}
	if err := s.cartRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
