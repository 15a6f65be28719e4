package model

// CartItem is one line of a cart: an item reference and a quantity.
// Neither the reference nor the quantity is checked against the catalog.
type CartItem struct {
	ItemID string `json:"itemId" validate:"required"`
	Count  int    `json:"count"`
}

// NewCartItem builds a cart line. A nil count means the field was absent
// from the input, which fails validation.
func NewCartItem(itemID string, count *int) (CartItem, error) {
	if count == nil {
		return CartItem{}, &ValidationError{
			Record: "cart",
			Field:  "Count",
			Reason: "Count is a required field",
		}
	}
	ci := CartItem{ItemID: itemID, Count: *count}
	if err := check("cart", &ci); err != nil {
		return CartItem{}, err
	}
	return ci, nil
}

// Cart holds the pending order of one user. There is at most one cart per
// user and its item list is always replaced as a whole.
type Cart struct {
	ID     string     `json:"id"`
	UserID string     `json:"userId" validate:"required"`
	Items  []CartItem `json:"items" validate:"dive"`
}

// NewCart builds a validated cart for userID.
func NewCart(userID string, items []CartItem) (*Cart, error) {
	if items == nil {
		items = []CartItem{}
	}
	cart := &Cart{UserID: userID, Items: items}
	if err := cart.Validate(); err != nil {
		return nil, err
	}
	return cart, nil
}

// Validate checks the cart and each of its lines.
func (c *Cart) Validate() error {
	return check("cart", c)
}

// CartLine is a cart item with its catalog entry populated. Item is nil when
// the referenced item no longer exists.
type CartLine struct {
	Item  *Item `json:"itemId"`
	Count int   `json:"count"`
}
