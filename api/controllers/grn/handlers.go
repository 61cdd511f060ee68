package grn

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rahulverma-dev/medstock-backend/api/middleware"
	"github.com/rahulverma-dev/medstock-backend/api/responses"
	"github.com/rahulverma-dev/medstock-backend/api/validators"
	grnsvc "github.com/rahulverma-dev/medstock-backend/internal/grn"
	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
	pkgerrors "github.com/rahulverma-dev/medstock-backend/pkg/errors"
	"github.com/rahulverma-dev/medstock-backend/pkg/logger"
	"github.com/rahulverma-dev/medstock-backend/pkg/pagination"
)

// Initialize creates (or returns the already active) GRN for a purchase order.
func Initialize(svc grnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grn service unavailable"))
			return
		}

		storeID, err := parseStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parsePathID(r, "purchaseOrderId", "purchase order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := grnsvc.InitializeInput{
			StoreID:         storeID,
			PurchaseOrderID: orderID,
			ActorUserID:     actorUserID(r),
		}

		note, err := svc.Initialize(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, note)
	}
}

// Get returns a single GRN with its items and discrepancies.
func Get(svc grnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grn service unavailable"))
			return
		}

		storeID, err := parseStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grnID, err := parsePathID(r, "grnId", "grn id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		note, err := svc.Get(r.Context(), storeID, grnID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, note)
	}
}

// List returns paginated GRNs for the active store, newest first.
func List(svc grnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grn service unavailable"))
			return
		}

		storeID, err := parseStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := grnsvc.ListParams{
			StoreID: storeID,
			Limit:   limit,
			Cursor:  strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseGRNStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			params.Status = &status
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// UpdateItem edits a single GRN line and re-derives totals and discrepancies.
func UpdateItem(svc grnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grn service unavailable"))
			return
		}

		storeID, grnID, err := parseStoreAndGRN(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := parsePathID(r, "itemId", "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := req.toInput(storeID, grnID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		note, err := svc.UpdateItem(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, note)
	}
}

// SplitItem breaks one received line into multiple batch lines.
func SplitItem(svc grnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grn service unavailable"))
			return
		}

		storeID, grnID, err := parseStoreAndGRN(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := parsePathID(r, "itemId", "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req splitItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		note, err := svc.SplitItem(r.Context(), req.toInput(storeID, grnID, itemID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, note)
	}
}

// DeleteItem removes a split child line; the last removal unmarks the parent.
func DeleteItem(svc grnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grn service unavailable"))
			return
		}

		storeID, grnID, err := parseStoreAndGRN(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := parsePathID(r, "itemId", "item id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		note, err := svc.DeleteItem(r.Context(), grnsvc.DeleteItemInput{
			StoreID: storeID,
			GRNID:   grnID,
			ItemID:  itemID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, note)
	}
}

// RecordDiscrepancy records or replaces a manual discrepancy on a GRN.
func RecordDiscrepancy(svc grnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grn service unavailable"))
			return
		}

		storeID, grnID, err := parseStoreAndGRN(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req recordDiscrepancyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reason, err := enums.ParseDiscrepancyReason(req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discrepancy reason"))
			return
		}

		disc, err := svc.RecordDiscrepancy(r.Context(), grnsvc.RecordDiscrepancyInput{
			StoreID:     storeID,
			GRNID:       grnID,
			ItemID:      req.ItemID,
			Reason:      reason,
			ExpectedQty: req.ExpectedQty,
			ActualQty:   req.ActualQty,
			Description: req.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, disc)
	}
}

// ResolveDiscrepancy sets the resolution outcome on a recorded discrepancy.
func ResolveDiscrepancy(svc grnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grn service unavailable"))
			return
		}

		storeID, grnID, err := parseStoreAndGRN(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discrepancyID, err := parsePathID(r, "discrepancyId", "discrepancy id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req resolveDiscrepancyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resolution, err := enums.ParseDiscrepancyResolution(req.Resolution)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid resolution"))
			return
		}

		disc, err := svc.ResolveDiscrepancy(r.Context(), grnsvc.ResolveDiscrepancyInput{
			StoreID:       storeID,
			GRNID:         grnID,
			DiscrepancyID: discrepancyID,
			Resolution:    resolution,
			Note:          req.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, disc)
	}
}

// Complete finalizes the GRN and applies stock, batches and order status.
func Complete(svc grnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grn service unavailable"))
			return
		}

		storeID, grnID, err := parseStoreAndGRN(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req completeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		note, err := svc.Complete(r.Context(), grnsvc.CompleteInput{
			StoreID:       storeID,
			GRNID:         grnID,
			InvoiceNumber: req.InvoiceNumber,
			InvoiceDate:   req.InvoiceDate,
			ForceClose:    req.ForceClose,
			ActorUserID:   actorUserID(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, note)
	}
}

// Cancel abandons an in-flight GRN without touching stock.
func Cancel(svc grnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grn service unavailable"))
			return
		}

		storeID, grnID, err := parseStoreAndGRN(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		note, err := svc.Cancel(r.Context(), grnsvc.CancelInput{StoreID: storeID, GRNID: grnID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, note)
	}
}

// HardDelete permanently removes a GRN that never reached completion.
func HardDelete(svc grnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "grn service unavailable"))
			return
		}

		storeID, grnID, err := parseStoreAndGRN(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.HardDelete(r.Context(), storeID, grnID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}

func parseStoreID(r *http.Request) (uuid.UUID, error) {
	storeID := middleware.StoreIDFromContext(r.Context())
	if storeID == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	parsed, err := uuid.Parse(storeID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}
	return parsed, nil
}

func parsePathID(r *http.Request, param, label string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, label+" is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
	}
	return parsed, nil
}

func parseStoreAndGRN(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	storeID, err := parseStoreID(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	grnID, err := parsePathID(r, "grnId", "grn id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return storeID, grnID, nil
}

func actorUserID(r *http.Request) *uuid.UUID {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return nil
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &parsed
}
