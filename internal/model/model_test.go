package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNewItem(t *testing.T) {
	tests := []struct {
		name        string
		itemName    string
		cost        decimal.Decimal
		description string
		imageURL    string
		wantField   string
	}{
		{
			name:        "valid item",
			itemName:    "Margherita",
			cost:        decimal.RequireFromString("9.50"),
			description: "tomato, mozzarella, basil",
			imageURL:    "https://img.example.com/margherita.png",
		},
		{
			name:        "missing name",
			cost:        decimal.NewFromInt(3),
			description: "no name",
			imageURL:    "https://img.example.com/x.png",
			wantField:   "Name",
		},
		{
			name:        "negative cost is stored as given",
			itemName:    "Refund",
			cost:        decimal.NewFromInt(-1),
			description: "any number is a cost",
			imageURL:    "https://img.example.com/x.png",
		},
		{
			name:      "missing description and image",
			itemName:  "Bare",
			cost:      decimal.Zero,
			wantField: "Description",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewItem(tt.itemName, tt.cost, tt.description, tt.imageURL)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.itemName, item.Name)
				return
			}

			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.Equal(t, "item", ve.Record)
			assert.Nil(t, item)
		})
	}
}

func TestItemCostMarshalsAsNumber(t *testing.T) {
	item := Item{ID: "1", Name: "Pepperoni", Cost: decimal.RequireFromString("12.25"), Description: "d", ImageURL: "u"}

	raw, err := json.Marshal(item)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"cost":12.25`)
	assert.Contains(t, string(raw), `"imageURL":"u"`)
}

func TestNewUser(t *testing.T) {
	user, err := NewUser("alice", "$2a$10$hash")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Name)

	_, err = NewUser("", "$2a$10$hash")
	assert.True(t, IsValidationError(err))

	_, err = NewUser("bob", "")
	assert.True(t, IsValidationError(err))
}

func TestUserPasswordHashIsNotSerialised(t *testing.T) {
	raw, err := json.Marshal(User{ID: "u1", Name: "alice", PasswordHash: "secret"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
}

func TestNewCartItem(t *testing.T) {
	ci, err := NewCartItem("item-1", intPtr(3))
	require.NoError(t, err)
	assert.Equal(t, CartItem{ItemID: "item-1", Count: 3}, ci)

	// Counts are not range checked.
	ci, err = NewCartItem("item-1", intPtr(-2))
	require.NoError(t, err)
	assert.Equal(t, -2, ci.Count)

	_, err = NewCartItem("item-1", nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Count", ve.Field)

	_, err = NewCartItem("", intPtr(1))
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "ItemID", ve.Field)
}

func TestCartValidate(t *testing.T) {
	cart := Cart{UserID: "u1", Items: []CartItem{{ItemID: "a", Count: 1}}}
	assert.NoError(t, cart.Validate())

	cart.Items = append(cart.Items, CartItem{Count: 2})
	assert.True(t, IsValidationError(cart.Validate()))

	assert.True(t, IsValidationError((&Cart{}).Validate()))
}

func TestNewCart(t *testing.T) {
	cart, err := NewCart("u1", nil)
	require.NoError(t, err)
	assert.Equal(t, "u1", cart.UserID)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)

	_, err = NewCart("", nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "UserID", ve.Field)
}
