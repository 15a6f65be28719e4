package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

func TestItemService_List(t *testing.T) {
	catalog := []model.Item{{ID: "item-1", Name: "Margherita", Cost: decimal.NewFromInt(12), Description: "d", ImageURL: "i"}}

	mockRepo := new(MockItemRepository)
	mockRepo.On("List", mock.Anything).Return(catalog, nil)

	items, err := NewItemService(mockRepo, nil).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog, items)

	failing := new(MockItemRepository)
	failing.On("List", mock.Anything).Return(nil, errors.New("boom"))
	_, err = NewItemService(failing, nil).List(context.Background())
	assert.Error(t, err)
}

func TestItemService_Get(t *testing.T) {
	mockRepo := new(MockItemRepository)
	pizza := &model.Item{ID: "item-1", Name: "Margherita"}
	mockRepo.On("FindByID", mock.Anything, "item-1").Return(pizza, nil)
	mockRepo.On("FindByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	svc := NewItemService(mockRepo, nil)

	got, err := svc.Get(context.Background(), "item-1")
	require.NoError(t, err)
	assert.Equal(t, pizza, got)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrItemNotFound)
	mockRepo.AssertExpectations(t)
}

func TestItemService_Seed(t *testing.T) {
	mockRepo := new(MockItemRepository)
	mockRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(i *model.Item) bool { return i.Name == "A" })).Return(true, nil)
	mockRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(i *model.Item) bool { return i.Name == "B" })).Return(false, nil)

	created, updated, err := NewItemService(mockRepo, nil).Seed(context.Background(), []model.Item{{Name: "A"}, {Name: "B"}})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, updated)

	failing := new(MockItemRepository)
	failing.On("Upsert", mock.Anything, mock.Anything).Return(false, &model.ValidationError{Record: "item", Field: "Name"})
	_, _, err = NewItemService(failing, nil).Seed(context.Background(), []model.Item{{}})
	assert.True(t, model.IsValidationError(err))
}
