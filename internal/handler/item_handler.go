package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"storefront/internal/service"
)

// ItemHandler serves the read-only catalog.
type ItemHandler struct {
	itemService service.ItemService
	log         logrus.FieldLogger
}

// NewItemHandler creates an item handler.
func NewItemHandler(itemService service.ItemService, log logrus.FieldLogger) *ItemHandler {
	return &ItemHandler{itemService: itemService, log: log}
}

// List godoc
// @Summary List items
// @Tags items
// @Produce json
// @Success 200 {array} model.Item
// @Failure 500 {object} errors.ErrorResponse
// @Router /items [get]
func (h *ItemHandler) List(c echo.Context) error {
	items, err := h.itemService.List(c.Request().Context())
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get godoc
// @Summary Get item by id
// @Tags items
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} model.Item
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /items/{id} [get]
func (h *ItemHandler) Get(c echo.Context) error {
	item, err := h.itemService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, item)
}
