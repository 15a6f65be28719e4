package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// MockItemRepository is a mock implementation of ItemRepository.
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) List(ctx context.Context) ([]model.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Item), args.Error(1)
}

func (m *MockItemRepository) FindByID(ctx context.Context, id string) (*model.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Item, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Item), args.Error(1)
}

func (m *MockItemRepository) Upsert(ctx context.Context, item *model.Item) (bool, error) {
	args := m.Called(ctx, item)
	return args.Bool(0), args.Error(1)
}

// MockCartRepository is a mock implementation of CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByUserID(ctx context.Context, userID string) (*model.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartRepository) ReplaceItems(ctx context.Context, userID string, items []model.CartItem) (*model.Cart, error) {
	args := m.Called(ctx, userID, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartRepository) DeleteByUserID(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type cartMocks struct {
	users *MockUserRepository
	items *MockItemRepository
	carts *MockCartRepository
}

func newCartService() (CartService, cartMocks) {
	m := cartMocks{
		users: new(MockUserRepository),
		items: new(MockItemRepository),
		carts: new(MockCartRepository),
	}
	return NewCartService(m.users, m.items, m.carts), m
}

func (m cartMocks) assertExpectations(t *testing.T) {
	m.users.AssertExpectations(t)
	m.items.AssertExpectations(t)
	m.carts.AssertExpectations(t)
}

var alice = &model.User{ID: "user-1", Name: "alice", PasswordHash: "hash"}

func TestCartService_Get(t *testing.T) {
	pizza := model.Item{ID: "item-1", Name: "Margherita", Cost: decimal.NewFromInt(12), Description: "d", ImageURL: "i"}

	t.Run("populates lines and keeps dangling references", func(t *testing.T) {
		svc, m := newCartService()
		m.users.On("FindByID", mock.Anything, "user-1").Return(alice, nil)
		m.carts.On("FindByUserID", mock.Anything, "user-1").Return(&model.Cart{
			UserID: "user-1",
			Items:  []model.CartItem{{ItemID: "item-1", Count: 3}, {ItemID: "gone", Count: 1}},
		}, nil)
		m.items.On("FindByIDs", mock.Anything, []string{"item-1", "gone"}).Return([]model.Item{pizza}, nil)

		lines, err := svc.Get(context.Background(), "user-1")
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, &pizza, lines[0].Item)
		assert.Equal(t, 3, lines[0].Count)
		assert.Nil(t, lines[1].Item)
		assert.Equal(t, 1, lines[1].Count)
		m.assertExpectations(t)
	})

	t.Run("no cart yields empty list", func(t *testing.T) {
		svc, m := newCartService()
		m.users.On("FindByID", mock.Anything, "user-1").Return(alice, nil)
		m.carts.On("FindByUserID", mock.Anything, "user-1").Return(nil, repository.ErrNotFound)

		lines, err := svc.Get(context.Background(), "user-1")
		require.NoError(t, err)
		assert.NotNil(t, lines)
		assert.Empty(t, lines)
		m.assertExpectations(t)
	})

	t.Run("user vanished", func(t *testing.T) {
		svc, m := newCartService()
		m.users.On("FindByID", mock.Anything, "user-1").Return(nil, repository.ErrNotFound)

		_, err := svc.Get(context.Background(), "user-1")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		m.carts.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
	})
}

func TestCartService_Replace(t *testing.T) {
	items := []model.CartItem{{ItemID: "item-1", Count: 3}}

	t.Run("stores and returns the list", func(t *testing.T) {
		svc, m := newCartService()
		m.users.On("FindByID", mock.Anything, "user-1").Return(alice, nil)
		m.carts.On("ReplaceItems", mock.Anything, "user-1", items).Return(&model.Cart{UserID: "user-1", Items: items}, nil)

		stored, err := svc.Replace(context.Background(), "user-1", items)
		require.NoError(t, err)
		assert.Equal(t, items, stored)
		m.assertExpectations(t)
	})

	t.Run("line without item id is rejected before the store", func(t *testing.T) {
		svc, m := newCartService()
		m.users.On("FindByID", mock.Anything, "user-1").Return(alice, nil)

		_, err := svc.Replace(context.Background(), "user-1", []model.CartItem{{Count: 1}})
		assert.True(t, model.IsValidationError(err))
		m.carts.AssertNotCalled(t, "ReplaceItems", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-positive counts are accepted", func(t *testing.T) {
		svc, m := newCartService()
		odd := []model.CartItem{{ItemID: "item-1", Count: 0}, {ItemID: "item-2", Count: -2}}
		m.users.On("FindByID", mock.Anything, "user-1").Return(alice, nil)
		m.carts.On("ReplaceItems", mock.Anything, "user-1", odd).Return(&model.Cart{UserID: "user-1", Items: odd}, nil)

		stored, err := svc.Replace(context.Background(), "user-1", odd)
		require.NoError(t, err)
		assert.Equal(t, odd, stored)
	})
}

func TestCartService_Delete(t *testing.T) {
	svc, m := newCartService()
	m.users.On("FindByID", mock.Anything, "user-1").Return(alice, nil)
	m.carts.On("DeleteByUserID", mock.Anything, "user-1").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "user-1"))
	m.assertExpectations(t)

	svc, m = newCartService()
	m.users.On("FindByID", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), "ghost"), apperrors.ErrUserNotFound)
}
