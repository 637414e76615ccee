package handlers

import (
	"net/http"

	"shopadmin/internal/alert"

	"github.com/labstack/echo/v4"
)

// AlertHandler feeds the rendered notification surfaces: inline banners,
// the global banner and corner toasts.
type AlertHandler struct {
	presenter *alert.Presenter
}

func NewAlertHandler(presenter *alert.Presenter) *AlertHandler {
	return &AlertHandler{presenter: presenter}
}

// List returns the notices still alive; expired toasts and banners are
// pruned on read.
func (h *AlertHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]alert.Notice{
		"alerts": h.presenter.Active(),
	})
}

// DismissInline clears the inline banners, as closing a form surface
// does.
func (h *AlertHandler) DismissInline(c echo.Context) error {
	h.presenter.DismissInline()
	return c.JSON(http.StatusOK, map[string]string{"status": "dismissed"})
}
