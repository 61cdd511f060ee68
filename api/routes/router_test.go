package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	grnsvc "github.com/rahulverma-dev/medstock-backend/internal/grn"
	internalpurchasing "github.com/rahulverma-dev/medstock-backend/internal/purchasing"
	"github.com/rahulverma-dev/medstock-backend/pkg/config"
	"github.com/rahulverma-dev/medstock-backend/pkg/db/models"
	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
	"github.com/rahulverma-dev/medstock-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubGRNService struct {
	lastCall string
}

func (s *stubGRNService) Initialize(ctx context.Context, input grnsvc.InitializeInput) (*models.GoodsReceivedNote, error) {
	s.lastCall = "initialize"
	return &models.GoodsReceivedNote{Number: "GRN2026080001"}, nil
}

func (s *stubGRNService) Get(ctx context.Context, storeID, id uuid.UUID) (*models.GoodsReceivedNote, error) {
	s.lastCall = "get"
	return &models.GoodsReceivedNote{ID: id}, nil
}

func (s *stubGRNService) List(ctx context.Context, params grnsvc.ListParams) (*grnsvc.ListResult, error) {
	s.lastCall = "list"
	return &grnsvc.ListResult{}, nil
}

func (s *stubGRNService) UpdateItem(ctx context.Context, input grnsvc.UpdateItemInput) (*models.GoodsReceivedNote, error) {
	s.lastCall = "update-item"
	return &models.GoodsReceivedNote{}, nil
}

func (s *stubGRNService) SplitItem(ctx context.Context, input grnsvc.SplitItemInput) (*models.GoodsReceivedNote, error) {
	s.lastCall = "split-item"
	return &models.GoodsReceivedNote{}, nil
}

func (s *stubGRNService) DeleteItem(ctx context.Context, input grnsvc.DeleteItemInput) (*models.GoodsReceivedNote, error) {
	s.lastCall = "delete-item"
	return &models.GoodsReceivedNote{}, nil
}

func (s *stubGRNService) RecordDiscrepancy(ctx context.Context, input grnsvc.RecordDiscrepancyInput) (*models.GRNDiscrepancy, error) {
	s.lastCall = "record-discrepancy"
	return &models.GRNDiscrepancy{}, nil
}

func (s *stubGRNService) ResolveDiscrepancy(ctx context.Context, input grnsvc.ResolveDiscrepancyInput) (*models.GRNDiscrepancy, error) {
	s.lastCall = "resolve-discrepancy"
	return &models.GRNDiscrepancy{}, nil
}

func (s *stubGRNService) Complete(ctx context.Context, input grnsvc.CompleteInput) (*models.GoodsReceivedNote, error) {
	s.lastCall = "complete"
	return &models.GoodsReceivedNote{Status: enums.GRNStatusCompleted}, nil
}

func (s *stubGRNService) Cancel(ctx context.Context, input grnsvc.CancelInput) (*models.GoodsReceivedNote, error) {
	s.lastCall = "cancel"
	return &models.GoodsReceivedNote{Status: enums.GRNStatusCancelled}, nil
}

func (s *stubGRNService) HardDelete(ctx context.Context, storeID, id uuid.UUID) error {
	s.lastCall = "hard-delete"
	return nil
}

type stubPurchasingRepo struct {
	order *models.PurchaseOrder
}

func (s *stubPurchasingRepo) WithTx(tx *gorm.DB) internalpurchasing.Repository { return s }

func (s *stubPurchasingRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	if s.order != nil && s.order.ID == id {
		return s.order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPurchasingRepo) FindSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPurchasingRepo) IncrementItemReceived(ctx context.Context, itemID uuid.UUID, qty int) error {
	return nil
}

func (s *stubPurchasingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.PurchaseOrderStatus) error {
	return nil
}

func (s *stubPurchasingRepo) FindItems(ctx context.Context, orderID uuid.UUID) ([]models.PurchaseOrderItem, error) {
	return nil, nil
}

func newTestRouter(svc grnsvc.Service, repo internalpurchasing.Repository) http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewRouter(cfg, logg, stubPinger{}, nil, svc, repo)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(&stubGRNService{}, &stubPurchasingRepo{})

	for _, path := range []string{"/healthz", "/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Errorf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestGRNRoutesRequireStoreHeader(t *testing.T) {
	router := newTestRouter(&stubGRNService{}, &stubPurchasingRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/grns", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without store header, got %d", resp.Code)
	}
}

func TestGRNRouteDispatch(t *testing.T) {
	grnID := uuid.NewString()
	itemID := uuid.NewString()
	discID := uuid.NewString()
	orderID := uuid.NewString()

	cases := []struct {
		method string
		path   string
		body   string
		call   string
	}{
		{http.MethodPost, "/api/v1/purchase-orders/" + orderID + "/grn", "", "initialize"},
		{http.MethodGet, "/api/v1/grns", "", "list"},
		{http.MethodGet, "/api/v1/grns/" + grnID, "", "get"},
		{http.MethodPatch, "/api/v1/grns/" + grnID + "/items/" + itemID, `{"receivedQty": 5}`, "update-item"},
		{http.MethodPost, "/api/v1/grns/" + grnID + "/items/" + itemID + "/split",
			`{"splits": [{"batchNumber": "B1", "receivedQty": 2, "expiryDate": "2027-06-30T00:00:00Z"}, {"batchNumber": "B2", "receivedQty": 3, "expiryDate": "2027-06-30T00:00:00Z"}]}`,
			"split-item"},
		{http.MethodDelete, "/api/v1/grns/" + grnID + "/items/" + itemID, "", "delete-item"},
		{http.MethodPost, "/api/v1/grns/" + grnID + "/discrepancies", `{"reason": "SHORTAGE", "description": "two strips short"}`, "record-discrepancy"},
		{http.MethodPost, "/api/v1/grns/" + grnID + "/discrepancies/" + discID + "/resolve", `{"resolution": "ACCEPTED"}`, "resolve-discrepancy"},
		{http.MethodPost, "/api/v1/grns/" + grnID + "/complete", `{}`, "complete"},
		{http.MethodPost, "/api/v1/grns/" + grnID + "/cancel", "", "cancel"},
		{http.MethodDelete, "/api/v1/grns/" + grnID, "", "hard-delete"},
	}

	for _, tc := range cases {
		svc := &stubGRNService{}
		router := newTestRouter(svc, &stubPurchasingRepo{})

		var req *http.Request
		if tc.body != "" {
			req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		} else {
			req = httptest.NewRequest(tc.method, tc.path, nil)
		}
		req.Header.Set("X-Store-ID", uuid.NewString())

		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Errorf("%s %s: expected 200 got %d: %s", tc.method, tc.path, resp.Code, resp.Body.String())
			continue
		}
		if svc.lastCall != tc.call {
			t.Errorf("%s %s: expected %s handler, got %q", tc.method, tc.path, tc.call, svc.lastCall)
		}
	}
}

func TestPurchaseOrderRoute(t *testing.T) {
	storeID := uuid.New()
	order := &models.PurchaseOrder{ID: uuid.New(), StoreID: storeID, Number: "PO-88", Status: enums.PurchaseOrderStatusSent}
	router := newTestRouter(&stubGRNService{}, &stubPurchasingRepo{order: order})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/purchase-orders/"+order.ID.String(), nil)
	req.Header.Set("X-Store-ID", storeID.String())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
