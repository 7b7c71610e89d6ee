package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"paypal-order-sync/internal/client"
	"paypal-order-sync/internal/dto"
	"paypal-order-sync/internal/model"
	"paypal-order-sync/internal/order"
	"paypal-order-sync/internal/patch"
	"paypal-order-sync/internal/repository"
)

// fakePaypalClient implements client.PaypalClient for testing.
type fakePaypalClient struct {
	createdID   string
	lastCreated *order.Order
	lastPatches []patch.Patch
	patchCalls  int
	remote      *order.Order
	err         error
}

func (f *fakePaypalClient) CreateOrder(_ context.Context, desired *order.Order) (*client.CreateOrderResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastCreated = desired

	payload, err := json.Marshal(desired)
	if err != nil {
		return nil, err
	}
	created, err := order.ParseOrder(payload)
	if err != nil {
		return nil, err
	}
	created.ID = f.createdID
	created.Status = order.StatusCreated
	return &client.CreateOrderResult{
		Order:      created,
		ApproveURL: "https://www.sandbox.paypal.com/checkoutnow?token=" + f.createdID,
	}, nil
}

func (f *fakePaypalClient) PatchOrder(_ context.Context, _ string, patches []patch.Patch) error {
	if f.err != nil {
		return f.err
	}
	f.patchCalls++
	f.lastPatches = patches
	return nil
}

func (f *fakePaypalClient) GetOrder(_ context.Context, _ string) (*order.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.remote, nil
}

func (f *fakePaypalClient) Capabilities(context.Context) (bool, bool, error) {
	return false, false, f.err
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.OrderSnapshot{}))
	return db
}

func newTestService(t *testing.T, fake *fakePaypalClient) (SyncService, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	svc := NewSyncService(
		db,
		fake,
		repository.NewSnapshotRepository(db),
		order.IntentCapture,
		decimal.Zero,
		zap.NewNop(),
	)
	return svc, db
}

func checkoutReq(total, itemTotal float64) *dto.CheckoutRequest {
	return &dto.CheckoutRequest{
		Currency: "USD",
		Lines: []dto.CartLine{
			{Name: "Widget", Sku: "WDG-1", Quantity: 2, UnitPrice: itemTotal / 2},
		},
		Totals: dto.CartTotals{Total: total, ItemTotal: itemTotal},
	}
}

func TestCreateOrder_StoresBaseline(t *testing.T) {
	fake := &fakePaypalClient{createdID: "ORDER-1"}
	svc, db := newTestService(t, fake)

	resp, err := svc.CreateOrder(context.Background(), checkoutReq(10.00, 10.00))
	require.NoError(t, err)

	assert.Equal(t, "ORDER-1", resp.OrderID)
	assert.Equal(t, "CREATED", resp.Status)
	assert.Contains(t, resp.ApproveURL, "ORDER-1")

	var stored model.OrderSnapshot
	require.NoError(t, db.Where("order_id = ?", "ORDER-1").First(&stored).Error)
	assert.Equal(t, "CREATED", stored.Status)

	baseline, err := order.ParseOrder(stored.Payload)
	require.NoError(t, err)
	assert.True(t, baseline.Created())
}

func TestUpdateOrder_NoChangesSkipsPatch(t *testing.T) {
	fake := &fakePaypalClient{createdID: "ORDER-2"}
	svc, _ := newTestService(t, fake)

	_, err := svc.CreateOrder(context.Background(), checkoutReq(10.00, 10.00))
	require.NoError(t, err)

	resp, err := svc.UpdateOrder(context.Background(), "ORDER-2", checkoutReq(10.00, 10.00))
	require.NoError(t, err)

	assert.Zero(t, resp.Patched)
	assert.Zero(t, fake.patchCalls)
}

func TestUpdateOrder_PatchesAndReplacesBaseline(t *testing.T) {
	fake := &fakePaypalClient{createdID: "ORDER-3"}
	svc, db := newTestService(t, fake)

	_, err := svc.CreateOrder(context.Background(), checkoutReq(10.00, 10.00))
	require.NoError(t, err)

	resp, err := svc.UpdateOrder(context.Background(), "ORDER-3", checkoutReq(12.00, 12.00))
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Patched)
	require.Len(t, fake.lastPatches, 1)
	assert.Equal(t, patch.OpReplace, fake.lastPatches[0].Op)

	// The stored baseline now reflects the patched state: re-syncing the
	// same cart produces no further operations.
	var stored model.OrderSnapshot
	require.NoError(t, db.Where("order_id = ?", "ORDER-3").First(&stored).Error)
	baseline, err := order.ParseOrder(stored.Payload)
	require.NoError(t, err)
	assert.Equal(t, "12.00", baseline.PurchaseUnits[0].Amount.Total.Value())

	again, err := svc.UpdateOrder(context.Background(), "ORDER-3", checkoutReq(12.00, 12.00))
	require.NoError(t, err)
	assert.Zero(t, again.Patched)
	assert.Equal(t, 1, fake.patchCalls)
}

func TestUpdateOrder_UnknownOrder(t *testing.T) {
	fake := &fakePaypalClient{}
	svc, _ := newTestService(t, fake)

	_, err := svc.UpdateOrder(context.Background(), "MISSING", checkoutReq(10.00, 10.00))
	assert.Error(t, err)
	assert.Zero(t, fake.patchCalls)
}

func TestGetOrder_RefreshesBaseline(t *testing.T) {
	remote, err := order.ParseOrder([]byte(`{
		"id": "ORDER-4",
		"status": "APPROVED",
		"intent": "CAPTURE",
		"purchase_units": [
			{"reference_id": "default", "amount": {"currency_code": "USD", "value": "10.00"}}
		]
	}`))
	require.NoError(t, err)

	fake := &fakePaypalClient{remote: remote}
	svc, db := newTestService(t, fake)

	fetched, err := svc.GetOrder(context.Background(), "ORDER-4")
	require.NoError(t, err)
	assert.Equal(t, order.StatusApproved, fetched.Status)

	var stored model.OrderSnapshot
	require.NoError(t, db.Where("order_id = ?", "ORDER-4").First(&stored).Error)
	assert.Equal(t, "APPROVED", stored.Status)
}
