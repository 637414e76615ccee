package handlers

import (
	"net/http"

	"shopadmin/internal/catalog"
	"shopadmin/internal/catalogsync"

	"github.com/labstack/echo/v4"
)

// RefHandler serves the category and brand reference lists feeding the
// four selection widgets: edit form and filter bar, each for categories
// and brands.
type RefHandler struct {
	ctrl *catalogsync.Controller
}

func NewRefHandler(ctrl *catalogsync.Controller) *RefHandler {
	return &RefHandler{ctrl: ctrl}
}

type widgetResponse struct {
	Options  []catalog.Option `json:"options"`
	Selected string           `json:"selected"`
}

// Refresh re-fetches both reference lists and repopulates every widget.
func (h *RefHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.ctrl.RefreshCategories(ctx); err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "failed to load categories"})
	}
	if err := h.ctrl.RefreshBrands(ctx); err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "failed to load brands"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "refreshed"})
}

// Categories returns one category widget's options; widget=filter picks
// the filter bar, anything else the edit form.
func (h *RefHandler) Categories(c echo.Context) error {
	selector := h.ctrl.EditCategories()
	if c.QueryParam("widget") == "filter" {
		selector = h.ctrl.FilterCategories()
	}
	return c.JSON(http.StatusOK, widgetResponse{
		Options:  selector.Options(),
		Selected: selector.Selected(),
	})
}

// Brands mirrors Categories for the brand widgets.
func (h *RefHandler) Brands(c echo.Context) error {
	selector := h.ctrl.EditBrands()
	if c.QueryParam("widget") == "filter" {
		selector = h.ctrl.FilterBrands()
	}
	return c.JSON(http.StatusOK, widgetResponse{
		Options:  selector.Options(),
		Selected: selector.Selected(),
	})
}
