package purchasing

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulverma-dev/medstock-backend/api/middleware"
	internalpurchasing "github.com/rahulverma-dev/medstock-backend/internal/purchasing"
	"github.com/rahulverma-dev/medstock-backend/pkg/db/models"
	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
	"github.com/rahulverma-dev/medstock-backend/pkg/logger"
)

type stubRepo struct {
	order *models.PurchaseOrder
}

func (s *stubRepo) WithTx(tx *gorm.DB) internalpurchasing.Repository { return s }

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubRepo) FindSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) IncrementItemReceived(ctx context.Context, itemID uuid.UUID, qty int) error {
	return nil
}

func (s *stubRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.PurchaseOrderStatus) error {
	return nil
}

func (s *stubRepo) FindItems(ctx context.Context, orderID uuid.UUID) ([]models.PurchaseOrderItem, error) {
	return nil, nil
}

func newRequest(orderID uuid.UUID, storeID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/purchase-orders/"+orderID.String(), nil)
	if storeID != "" {
		req = req.WithContext(middleware.WithStoreID(req.Context(), storeID))
	}
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("purchaseOrderId", orderID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestGetReturnsStoreScopedOrder(t *testing.T) {
	storeID := uuid.New()
	order := &models.PurchaseOrder{ID: uuid.New(), StoreID: storeID, Number: "PO-104", Status: enums.PurchaseOrderStatusSent}

	resp := httptest.NewRecorder()
	handler := Get(&stubRepo{order: order}, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	handler(resp, newRequest(order.ID, storeID.String()))

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGetHidesForeignStoreOrder(t *testing.T) {
	order := &models.PurchaseOrder{ID: uuid.New(), StoreID: uuid.New(), Number: "PO-104"}

	resp := httptest.NewRecorder()
	handler := Get(&stubRepo{order: order}, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	handler(resp, newRequest(order.ID, uuid.NewString()))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestGetMissingStoreContext(t *testing.T) {
	resp := httptest.NewRecorder()
	handler := Get(&stubRepo{}, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	handler(resp, newRequest(uuid.New(), ""))

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
