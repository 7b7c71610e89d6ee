package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"paypal-order-sync/internal/dto"
	"paypal-order-sync/internal/order"
	"paypal-order-sync/internal/service"
)

type CheckoutHandler struct {
	syncService service.SyncService
}

func NewCheckoutHandler(syncService service.SyncService) *CheckoutHandler {
	return &CheckoutHandler{
		syncService: syncService,
	}
}

func (h *CheckoutHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if len(req.Lines) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "cart has no lines")
	}

	result, err := h.syncService.CreateOrder(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *CheckoutHandler) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID := c.Param("orderID")
	if orderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing order id")
	}

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.syncService.UpdateOrder(ctx, orderID, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "unknown order")
		}
		var structural *order.StructuralError
		if errors.As(err, &structural) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, structural.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CheckoutHandler) GetCapabilities(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.syncService.Capabilities(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CheckoutHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID := c.Param("orderID")
	if orderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing order id")
	}

	result, err := h.syncService.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
