package grn

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rahulverma-dev/medstock-backend/api/middleware"
	grnsvc "github.com/rahulverma-dev/medstock-backend/internal/grn"
	"github.com/rahulverma-dev/medstock-backend/pkg/db/models"
	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
	"github.com/rahulverma-dev/medstock-backend/pkg/logger"
)

type testService struct {
	initializeFn func(ctx context.Context, input grnsvc.InitializeInput) (*models.GoodsReceivedNote, error)
	getFn        func(ctx context.Context, storeID, id uuid.UUID) (*models.GoodsReceivedNote, error)
	listFn       func(ctx context.Context, params grnsvc.ListParams) (*grnsvc.ListResult, error)
	updateFn     func(ctx context.Context, input grnsvc.UpdateItemInput) (*models.GoodsReceivedNote, error)
	splitFn      func(ctx context.Context, input grnsvc.SplitItemInput) (*models.GoodsReceivedNote, error)
	deleteItemFn func(ctx context.Context, input grnsvc.DeleteItemInput) (*models.GoodsReceivedNote, error)
	recordFn     func(ctx context.Context, input grnsvc.RecordDiscrepancyInput) (*models.GRNDiscrepancy, error)
	resolveFn    func(ctx context.Context, input grnsvc.ResolveDiscrepancyInput) (*models.GRNDiscrepancy, error)
	completeFn   func(ctx context.Context, input grnsvc.CompleteInput) (*models.GoodsReceivedNote, error)
	cancelFn     func(ctx context.Context, input grnsvc.CancelInput) (*models.GoodsReceivedNote, error)
	hardDeleteFn func(ctx context.Context, storeID, id uuid.UUID) error
}

func (s *testService) Initialize(ctx context.Context, input grnsvc.InitializeInput) (*models.GoodsReceivedNote, error) {
	if s.initializeFn != nil {
		return s.initializeFn(ctx, input)
	}
	return &models.GoodsReceivedNote{}, nil
}

func (s *testService) Get(ctx context.Context, storeID, id uuid.UUID) (*models.GoodsReceivedNote, error) {
	if s.getFn != nil {
		return s.getFn(ctx, storeID, id)
	}
	return &models.GoodsReceivedNote{}, nil
}

func (s *testService) List(ctx context.Context, params grnsvc.ListParams) (*grnsvc.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &grnsvc.ListResult{}, nil
}

func (s *testService) UpdateItem(ctx context.Context, input grnsvc.UpdateItemInput) (*models.GoodsReceivedNote, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, input)
	}
	return &models.GoodsReceivedNote{}, nil
}

func (s *testService) SplitItem(ctx context.Context, input grnsvc.SplitItemInput) (*models.GoodsReceivedNote, error) {
	if s.splitFn != nil {
		return s.splitFn(ctx, input)
	}
	return &models.GoodsReceivedNote{}, nil
}

func (s *testService) DeleteItem(ctx context.Context, input grnsvc.DeleteItemInput) (*models.GoodsReceivedNote, error) {
	if s.deleteItemFn != nil {
		return s.deleteItemFn(ctx, input)
	}
	return &models.GoodsReceivedNote{}, nil
}

func (s *testService) RecordDiscrepancy(ctx context.Context, input grnsvc.RecordDiscrepancyInput) (*models.GRNDiscrepancy, error) {
	if s.recordFn != nil {
		return s.recordFn(ctx, input)
	}
	return &models.GRNDiscrepancy{}, nil
}

func (s *testService) ResolveDiscrepancy(ctx context.Context, input grnsvc.ResolveDiscrepancyInput) (*models.GRNDiscrepancy, error) {
	if s.resolveFn != nil {
		return s.resolveFn(ctx, input)
	}
	return &models.GRNDiscrepancy{}, nil
}

func (s *testService) Complete(ctx context.Context, input grnsvc.CompleteInput) (*models.GoodsReceivedNote, error) {
	if s.completeFn != nil {
		return s.completeFn(ctx, input)
	}
	return &models.GoodsReceivedNote{}, nil
}

func (s *testService) Cancel(ctx context.Context, input grnsvc.CancelInput) (*models.GoodsReceivedNote, error) {
	if s.cancelFn != nil {
		return s.cancelFn(ctx, input)
	}
	return &models.GoodsReceivedNote{}, nil
}

func (s *testService) HardDelete(ctx context.Context, storeID, id uuid.UUID) error {
	if s.hardDeleteFn != nil {
		return s.hardDeleteFn(ctx, storeID, id)
	}
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx, ok := req.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		routeCtx = chi.NewRouteContext()
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	}
	routeCtx.URLParams.Add(key, value)
	return req
}

func withStore(req *http.Request, storeID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithStoreID(req.Context(), storeID.String()))
}

func TestInitializePassesStoreAndOrder(t *testing.T) {
	storeID := uuid.New()
	orderID := uuid.New()
	userID := uuid.New()
	var got grnsvc.InitializeInput
	svc := &testService{
		initializeFn: func(ctx context.Context, input grnsvc.InitializeInput) (*models.GoodsReceivedNote, error) {
			got = input
			return &models.GoodsReceivedNote{Number: "GRN2026080001"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchase-orders/"+orderID.String()+"/grn", nil)
	req = withStore(req, storeID)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	req = withRouteParam(req, "purchaseOrderId", orderID.String())

	resp := httptest.NewRecorder()
	Initialize(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.StoreID != storeID || got.PurchaseOrderID != orderID {
		t.Fatalf("unexpected input %+v", got)
	}
	if got.ActorUserID == nil || *got.ActorUserID != userID {
		t.Fatalf("expected actor user id %s, got %v", userID, got.ActorUserID)
	}
}

func TestInitializeMissingStore(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchase-orders/"+uuid.NewString()+"/grn", nil)
	req = withRouteParam(req, "purchaseOrderId", uuid.NewString())

	resp := httptest.NewRecorder()
	Initialize(&testService{}, testLogger())(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestGetRejectsInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/grns/not-a-uuid", nil)
	req = withStore(req, uuid.New())
	req = withRouteParam(req, "grnId", "not-a-uuid")

	resp := httptest.NewRecorder()
	Get(&testService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListParsesStatusFilter(t *testing.T) {
	storeID := uuid.New()
	var got grnsvc.ListParams
	svc := &testService{
		listFn: func(ctx context.Context, params grnsvc.ListParams) (*grnsvc.ListResult, error) {
			got = params
			return &grnsvc.ListResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/grns?status=COMPLETED&limit=5&cursor=abc", nil)
	req = withStore(req, storeID)

	resp := httptest.NewRecorder()
	List(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.Status == nil || *got.Status != enums.GRNStatusCompleted {
		t.Fatalf("expected COMPLETED filter, got %v", got.Status)
	}
	if got.Limit != 5 || got.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", got)
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/grns?status=SHIPPED", nil)
	req = withStore(req, uuid.New())

	resp := httptest.NewRecorder()
	List(&testService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateItemDecodesBody(t *testing.T) {
	storeID := uuid.New()
	grnID := uuid.New()
	itemID := uuid.New()
	var got grnsvc.UpdateItemInput
	svc := &testService{
		updateFn: func(ctx context.Context, input grnsvc.UpdateItemInput) (*models.GoodsReceivedNote, error) {
			got = input
			return &models.GoodsReceivedNote{}, nil
		},
	}

	body := `{"receivedQty": 40, "batchNumber": "B-77", "discountMode": "AFTER_TAX"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/grns/"+grnID.String()+"/items/"+itemID.String(), strings.NewReader(body))
	req = withStore(req, storeID)
	req = withRouteParam(req, "grnId", grnID.String())
	req = withRouteParam(req, "itemId", itemID.String())

	resp := httptest.NewRecorder()
	UpdateItem(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.ItemID != itemID || got.GRNID != grnID {
		t.Fatalf("unexpected input ids %+v", got)
	}
	if got.ReceivedQty == nil || *got.ReceivedQty != 40 {
		t.Fatalf("expected receivedQty 40, got %v", got.ReceivedQty)
	}
	if got.BatchNumber == nil || *got.BatchNumber != "B-77" {
		t.Fatalf("expected batch B-77, got %v", got.BatchNumber)
	}
	if got.DiscountMode == nil || *got.DiscountMode != enums.DiscountModeAfterTax {
		t.Fatalf("expected AFTER_TAX mode, got %v", got.DiscountMode)
	}
}

func TestUpdateItemRejectsUnknownDiscountMode(t *testing.T) {
	grnID := uuid.New()
	itemID := uuid.New()
	body := `{"discountMode": "SOMETIMES"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/grns/"+grnID.String()+"/items/"+itemID.String(), strings.NewReader(body))
	req = withStore(req, uuid.New())
	req = withRouteParam(req, "grnId", grnID.String())
	req = withRouteParam(req, "itemId", itemID.String())

	resp := httptest.NewRecorder()
	UpdateItem(&testService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateItemRejectsUnknownField(t *testing.T) {
	grnID := uuid.New()
	itemID := uuid.New()
	body := `{"quantity": 10}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/grns/"+grnID.String()+"/items/"+itemID.String(), strings.NewReader(body))
	req = withStore(req, uuid.New())
	req = withRouteParam(req, "grnId", grnID.String())
	req = withRouteParam(req, "itemId", itemID.String())

	resp := httptest.NewRecorder()
	UpdateItem(&testService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSplitItemRequiresTwoSplits(t *testing.T) {
	grnID := uuid.New()
	itemID := uuid.New()
	body := `{"splits": [{"batchNumber": "B1", "receivedQty": 10, "expiryDate": "2027-06-30T00:00:00Z"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/grns/"+grnID.String()+"/items/"+itemID.String()+"/split", strings.NewReader(body))
	req = withStore(req, uuid.New())
	req = withRouteParam(req, "grnId", grnID.String())
	req = withRouteParam(req, "itemId", itemID.String())

	resp := httptest.NewRecorder()
	SplitItem(&testService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSplitItemForwardsSpecs(t *testing.T) {
	grnID := uuid.New()
	itemID := uuid.New()
	var got grnsvc.SplitItemInput
	svc := &testService{
		splitFn: func(ctx context.Context, input grnsvc.SplitItemInput) (*models.GoodsReceivedNote, error) {
			got = input
			return &models.GoodsReceivedNote{}, nil
		},
	}

	body := `{"splits": [
		{"batchNumber": "B1", "receivedQty": 30, "expiryDate": "2027-06-30T00:00:00Z", "mrp": "18.50"},
		{"batchNumber": "B2", "receivedQty": 20, "freeQty": 2, "expiryDate": "2028-01-31T00:00:00Z", "mrp": "18.50"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/grns/"+grnID.String()+"/items/"+itemID.String()+"/split", strings.NewReader(body))
	req = withStore(req, uuid.New())
	req = withRouteParam(req, "grnId", grnID.String())
	req = withRouteParam(req, "itemId", itemID.String())

	resp := httptest.NewRecorder()
	SplitItem(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if len(got.Splits) != 2 {
		t.Fatalf("expected 2 splits, got %d", len(got.Splits))
	}
	if got.Splits[1].BatchNumber != "B2" || got.Splits[1].FreeQty != 2 {
		t.Fatalf("unexpected second split %+v", got.Splits[1])
	}
}

func TestRecordDiscrepancyRejectsUnknownReason(t *testing.T) {
	grnID := uuid.New()
	body := `{"reason": "LOST_IN_TRANSIT", "description": "three strips missing"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/grns/"+grnID.String()+"/discrepancies", strings.NewReader(body))
	req = withStore(req, uuid.New())
	req = withRouteParam(req, "grnId", grnID.String())

	resp := httptest.NewRecorder()
	RecordDiscrepancy(&testService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestResolveDiscrepancyForwardsResolution(t *testing.T) {
	grnID := uuid.New()
	discID := uuid.New()
	var got grnsvc.ResolveDiscrepancyInput
	svc := &testService{
		resolveFn: func(ctx context.Context, input grnsvc.ResolveDiscrepancyInput) (*models.GRNDiscrepancy, error) {
			got = input
			return &models.GRNDiscrepancy{}, nil
		},
	}

	body := `{"resolution": "CREDIT_NOTE", "note": "supplier confirmed"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/grns/"+grnID.String()+"/discrepancies/"+discID.String()+"/resolve", strings.NewReader(body))
	req = withStore(req, uuid.New())
	req = withRouteParam(req, "grnId", grnID.String())
	req = withRouteParam(req, "discrepancyId", discID.String())

	resp := httptest.NewRecorder()
	ResolveDiscrepancy(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.DiscrepancyID != discID || got.Resolution != enums.DiscrepancyResolutionCreditNote {
		t.Fatalf("unexpected input %+v", got)
	}
	if got.Note == nil || *got.Note != "supplier confirmed" {
		t.Fatalf("expected note, got %v", got.Note)
	}
}

func TestCompleteForwardsInvoiceAndForceClose(t *testing.T) {
	grnID := uuid.New()
	var got grnsvc.CompleteInput
	svc := &testService{
		completeFn: func(ctx context.Context, input grnsvc.CompleteInput) (*models.GoodsReceivedNote, error) {
			got = input
			return &models.GoodsReceivedNote{Status: enums.GRNStatusCompleted}, nil
		},
	}

	body := `{"invoiceNumber": "INV-2041", "forceClose": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/grns/"+grnID.String()+"/complete", strings.NewReader(body))
	req = withStore(req, uuid.New())
	req = withRouteParam(req, "grnId", grnID.String())

	resp := httptest.NewRecorder()
	Complete(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if !got.ForceClose {
		t.Fatal("expected forceClose forwarded")
	}
	if got.InvoiceNumber == nil || *got.InvoiceNumber != "INV-2041" {
		t.Fatalf("expected invoice number, got %v", got.InvoiceNumber)
	}
}

func TestHardDeleteWritesDeletedFlag(t *testing.T) {
	grnID := uuid.New()
	storeID := uuid.New()
	called := false
	svc := &testService{
		hardDeleteFn: func(ctx context.Context, sid, id uuid.UUID) error {
			called = true
			if sid != storeID || id != grnID {
				t.Fatalf("unexpected ids %s %s", sid, id)
			}
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/grns/"+grnID.String(), nil)
	req = withStore(req, storeID)
	req = withRouteParam(req, "grnId", grnID.String())

	resp := httptest.NewRecorder()
	HardDelete(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data["deleted"] {
		t.Fatal("response missing deleted flag")
	}
	if !called {
		t.Fatal("expected service called")
	}
}
