package repository

import (
	"context"
	"sync"

	"storefront/internal/model"
)

// NewMemoryRepositories builds process-local repositories. Data is lost on
// restart; meant for development and tests.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Items: &memoryItemRepository{byID: map[string]model.Item{}},
		Users: &memoryUserRepository{byID: map[string]model.User{}, byName: map[string]string{}},
		Carts: &memoryCartRepository{byUser: map[string]model.Cart{}},
	}
}

type memoryItemRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]model.Item
}

func (r *memoryItemRepository) List(ctx context.Context) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]model.Item, 0, len(r.order))
	for _, id := range r.order {
		items = append(items, r.byID[id])
	}
	return items, nil
}

func (r *memoryItemRepository) FindByID(ctx context.Context, id string) (*model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (r *memoryItemRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]model.Item, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if item, ok := r.byID[id]; ok && !seen[id] {
			seen[id] = true
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *memoryItemRepository) Upsert(ctx context.Context, item *model.Item) (bool, error) {
	if err := item.Validate(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		if r.byID[id].Name == item.Name {
			item.ID = id
			r.byID[id] = *item
			return false, nil
		}
	}
	item.ID = newID()
	r.order = append(r.order, item.ID)
	r.byID[item.ID] = *item
	return true, nil
}

type memoryUserRepository struct {
	mu     sync.RWMutex
	byID   map[string]model.User
	byName map[string]string
}

func (r *memoryUserRepository) Create(ctx context.Context, user *model.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[user.Name]; taken {
		return ErrDuplicate
	}
	user.ID = newID()
	r.byID[user.ID] = *user
	r.byName[user.Name] = user.ID
	return nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) FindByName(ctx context.Context, name string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	if !ok {
		return nil, ErrNotFound
	}
	user := r.byID[id]
	return &user, nil
}

type memoryCartRepository struct {
	mu     sync.RWMutex
	byUser map[string]model.Cart
}

func (r *memoryCartRepository) FindByUserID(ctx context.Context, userID string) (*model.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.byUser[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneCart(cart), nil
}

func (r *memoryCartRepository) ReplaceItems(ctx context.Context, userID string, items []model.CartItem) (*model.Cart, error) {
	cart := model.Cart{UserID: userID, Items: items}
	if err := cart.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byUser[userID]; ok {
		cart.ID = existing.ID
	} else {
		cart.ID = newID()
	}
	cart.Items = append([]model.CartItem(nil), items...)
	r.byUser[userID] = cart
	return cloneCart(cart), nil
}

func (r *memoryCartRepository) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
	return nil
}

func cloneCart(c model.Cart) *model.Cart {
	items := make([]model.CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return &c
}
