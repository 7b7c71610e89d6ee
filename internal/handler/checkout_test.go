package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paypal-order-sync/internal/dto"
	"paypal-order-sync/internal/order"
)

// fakeSyncService implements service.SyncService for testing.
type fakeSyncService struct {
	createResp *dto.OrderResponse
	updateResp *dto.OrderResponse
	err        error
}

func (f *fakeSyncService) CreateOrder(context.Context, *dto.CheckoutRequest) (*dto.OrderResponse, error) {
	return f.createResp, f.err
}

func (f *fakeSyncService) UpdateOrder(context.Context, string, *dto.CheckoutRequest) (*dto.OrderResponse, error) {
	return f.updateResp, f.err
}

func (f *fakeSyncService) GetOrder(context.Context, string) (*order.Order, error) {
	return nil, f.err
}

func (f *fakeSyncService) Capabilities(context.Context) (*dto.CapabilitiesResponse, error) {
	return &dto.CapabilitiesResponse{VaultingAvailable: true}, f.err
}

const validBody = `{
	"currency": "USD",
	"lines": [{"name": "Widget", "quantity": 1, "unit_price": 5.00}],
	"totals": {"total": 5.00, "item_total": 5.00}
}`

func TestCreateOrder(t *testing.T) {
	h := NewCheckoutHandler(&fakeSyncService{
		createResp: &dto.OrderResponse{OrderID: "ORDER-1", Status: "CREATED"},
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/orders", strings.NewReader(validBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.CreateOrder(e.NewContext(req, rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "ORDER-1")
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	h := NewCheckoutHandler(&fakeSyncService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/orders",
		strings.NewReader(`{"currency":"USD","lines":[],"totals":{"total":0}}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.CreateOrder(e.NewContext(req, rec))
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestUpdateOrder(t *testing.T) {
	h := NewCheckoutHandler(&fakeSyncService{
		updateResp: &dto.OrderResponse{OrderID: "ORDER-1", Status: "CREATED", Patched: 1},
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/checkout/orders/ORDER-1", strings.NewReader(validBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := e.NewContext(req, rec)
	c.SetParamNames("orderID")
	c.SetParamValues("ORDER-1")

	err := h.UpdateOrder(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"patched":1`)
}

func TestGetCapabilities(t *testing.T) {
	h := NewCheckoutHandler(&fakeSyncService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/capabilities", nil)
	rec := httptest.NewRecorder()

	err := h.GetCapabilities(e.NewContext(req, rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"vaulting_available":true`)
}
