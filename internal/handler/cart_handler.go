package handler

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"storefront/internal/model"
	"storefront/internal/service"
)

// CartHandler serves the authenticated user's cart. Every route sits behind
// the cart guard.
type CartHandler struct {
	cartService service.CartService
	log         logrus.FieldLogger
}

// NewCartHandler creates a cart handler.
func NewCartHandler(cartService service.CartService, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{cartService: cartService, log: log}
}

// CartItemRequest is one line of a cart replacement. Count is a pointer so
// an absent count can be told apart from zero.
type CartItemRequest struct {
	ItemID string   `json:"itemId"`
	Count  *float64 `json:"count" swaggertype:"integer"`
}

// maxWholeCount is the largest magnitude a float64 holds without losing integers.
const maxWholeCount = 1 << 53

// wholeCount converts Count to an int. A count written as 2.0 is accepted,
// a fractional one is not.
func (r CartItemRequest) wholeCount() (*int, bool) {
	if r.Count == nil {
		return nil, true
	}
	f := *r.Count
	if f != math.Trunc(f) || math.Abs(f) > maxWholeCount {
		return nil, false
	}
	n := int(f)
	return &n, true
}

// ReplaceCartRequest is the body of PUT /cart.
type ReplaceCartRequest struct {
	Items []CartItemRequest `json:"items"`
}

// Get godoc
// @Summary Get the cart
// @Description Lines carry the populated item under itemId, or null when the item no longer exists.
// @Tags cart
// @Produce json
// @Success 200 {array} model.CartLine
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return fail(c, h.log, err)
	}
	lines, err := h.cartService.Get(c.Request().Context(), userID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, lines)
}

// Put godoc
// @Summary Replace the cart
// @Description The submitted list replaces the stored one. Items are not checked against the catalog.
// @Tags cart
// @Accept json
// @Produce json
// @Param request body ReplaceCartRequest true "New cart lines"
// @Success 200 {array} model.CartItem
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /cart [put]
func (h *CartHandler) Put(c echo.Context) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	var req ReplaceCartRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody()
	}

	items := make([]model.CartItem, 0, len(req.Items))
	for _, line := range req.Items {
		count, ok := line.wholeCount()
		if !ok {
			return errInvalidBody()
		}
		item, err := model.NewCartItem(line.ItemID, count)
		if err != nil {
			return fail(c, h.log, err)
		}
		items = append(items, item)
	}

	stored, err := h.cartService.Replace(c.Request().Context(), userID, items)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, stored)
}

// Delete godoc
// @Summary Delete the cart
// @Tags cart
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /cart [delete]
func (h *CartHandler) Delete(c echo.Context) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return fail(c, h.log, err)
	}
	if err := h.cartService.Delete(c.Request().Context(), userID); err != nil {
		return fail(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
