package grn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulverma-dev/medstock-backend/internal/numbering"
	"github.com/rahulverma-dev/medstock-backend/internal/receiving"
	"github.com/rahulverma-dev/medstock-backend/internal/taxledger"
	"github.com/rahulverma-dev/medstock-backend/pkg/db/models"
	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
	pkgerrors "github.com/rahulverma-dev/medstock-backend/pkg/errors"
	"github.com/rahulverma-dev/medstock-backend/pkg/logger"
	"github.com/rahulverma-dev/medstock-backend/pkg/metrics"
	"github.com/rahulverma-dev/medstock-backend/pkg/pagination"
)

// placeholderExpiryYears is how far out the expiry placeholder sits at
// initialization. The completion gate forces a real expiry before any
// inventory is written.
const placeholderExpiryYears = 10

const defaultCompletionTimeout = 15 * time.Second

// Service orchestrates the GRN receiving workflow from initialization through
// completion or cancellation.
type Service interface {
	Initialize(ctx context.Context, input InitializeInput) (*models.GoodsReceivedNote, error)
	Get(ctx context.Context, storeID, id uuid.UUID) (*models.GoodsReceivedNote, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	UpdateItem(ctx context.Context, input UpdateItemInput) (*models.GoodsReceivedNote, error)
	SplitItem(ctx context.Context, input SplitItemInput) (*models.GoodsReceivedNote, error)
	DeleteItem(ctx context.Context, input DeleteItemInput) (*models.GoodsReceivedNote, error)
	RecordDiscrepancy(ctx context.Context, input RecordDiscrepancyInput) (*models.GRNDiscrepancy, error)
	ResolveDiscrepancy(ctx context.Context, input ResolveDiscrepancyInput) (*models.GRNDiscrepancy, error)
	Complete(ctx context.Context, input CompleteInput) (*models.GoodsReceivedNote, error)
	Cancel(ctx context.Context, input CancelInput) (*models.GoodsReceivedNote, error)
	HardDelete(ctx context.Context, storeID, id uuid.UUID) error
}

type service struct {
	repo              Repository
	orders            PurchaseOrderSource
	tx                txRunner
	engine            InventoryApplier
	numbers           NumberSource
	taxSink           TaxEventSink
	logg              *logger.Logger
	metrics           *metrics.ReceivingMetrics
	completionTimeout time.Duration

	now func() time.Time
}

// ServiceOptions tunes workflow behavior beyond its hard dependencies.
type ServiceOptions struct {
	CompletionTimeout time.Duration
	Metrics           *metrics.ReceivingMetrics
}

// NewService wires the GRN workflow dependencies.
func NewService(repo Repository, orders PurchaseOrderSource, tx txRunner, engine InventoryApplier, numbers NumberSource, taxSink TaxEventSink, logg *logger.Logger, opts ServiceOptions) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("grn repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("purchase order source required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if engine == nil {
		return nil, fmt.Errorf("inventory applier required")
	}
	if numbers == nil {
		return nil, fmt.Errorf("number source required")
	}
	if taxSink == nil {
		taxSink = taxledger.NoopSink{}
	}
	timeout := opts.CompletionTimeout
	if timeout <= 0 {
		timeout = defaultCompletionTimeout
	}
	return &service{
		repo:              repo,
		orders:            orders,
		tx:                tx,
		engine:            engine,
		numbers:           numbers,
		taxSink:           taxSink,
		logg:              logg,
		metrics:           opts.Metrics,
		completionTimeout: timeout,
		now:               time.Now,
	}, nil
}

// Initialize starts a receiving cycle for a purchase order, or returns the
// cycle already in flight. Items mirror the order's outstanding quantities
// with a sentinel batch and a placeholder expiry.
func (s *service) Initialize(ctx context.Context, input InitializeInput) (*models.GoodsReceivedNote, error) {
	existing, err := s.repo.FindActiveByPurchaseOrder(ctx, input.StoreID, input.PurchaseOrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up active grn")
	}
	if existing != nil {
		return existing, nil
	}

	order, err := s.orders.FindByID(ctx, input.PurchaseOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase order")
	}
	if order.StoreID != input.StoreID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")
	}
	if !order.Status.CanReceive() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "purchase order is not receivable").
			WithDetails(map[string]any{"status": order.Status})
	}

	number, err := s.numbers.Next(ctx, input.StoreID, numbering.GRNPrefix)
	if err != nil {
		return nil, err
	}

	grn := &models.GoodsReceivedNote{
		ID:              uuid.New(),
		Number:          number,
		StoreID:         input.StoreID,
		PurchaseOrderID: order.ID,
		SupplierID:      order.SupplierID,
		Status:          enums.GRNStatusDraft,
	}

	placeholderExpiry := s.now().AddDate(placeholderExpiryYears, 0, 0)
	items := make([]models.GRNItem, 0, len(order.Items))
	for _, orderItem := range order.Items {
		outstanding := orderItem.OrderedQty - orderItem.ReceivedQty
		if outstanding < 0 {
			outstanding = 0
		}
		poItemID := orderItem.ID
		item := models.GRNItem{
			ID:              uuid.New(),
			GRNID:           grn.ID,
			POItemID:        &poItemID,
			DrugID:          orderItem.DrugID,
			OrderedQty:      outstanding,
			ReceivedQty:     outstanding,
			BatchNumber:     models.SentinelBatchNumber,
			ExpiryDate:      placeholderExpiry,
			UnitPrice:       orderItem.UnitPrice,
			DiscountPercent: orderItem.DiscountPercent,
			DiscountMode:    enums.DiscountModeBeforeTax,
			GSTPercent:      orderItem.GSTPercent,
		}
		item.LineTotal = CalculateLine(item).Total
		items = append(items, item)
	}

	totals := CalculateTotals(items)
	grn.Subtotal = totals.Subtotal
	grn.Tax = totals.Tax
	grn.Total = totals.Total

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, grn); err != nil {
			return err
		}
		return repo.CreateItems(ctx, items)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create grn")
	}

	if s.logg != nil {
		fields := map[string]any{
			"grn_id":            grn.ID.String(),
			"grn_number":        grn.Number,
			"purchase_order_id": order.ID.String(),
		}
		s.logg.Info(s.logg.WithFields(ctx, fields), "grn initialized")
	}
	return s.Get(ctx, input.StoreID, grn.ID)
}

func (s *service) Get(ctx context.Context, storeID, id uuid.UUID) (*models.GoodsReceivedNote, error) {
	grn, err := s.repo.FindByID(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "grn not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load grn")
	}
	return grn, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown grn status")
	}

	query := listParams{
		StoreID: params.StoreID,
		Status:  params.Status,
		Limit:   params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list grns")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

// UpdateItem applies per-line receiving edits, reprices the line, refreshes
// the cached totals, and re-runs discrepancy detection when the received
// quantity moved.
func (s *service) UpdateItem(ctx context.Context, input UpdateItemInput) (*models.GoodsReceivedNote, error) {
	grn, err := s.editableGRN(ctx, input.StoreID, input.GRNID)
	if err != nil {
		return nil, err
	}

	item, err := s.findItem(ctx, grn.ID, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item.IsSplit {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a split parent cannot be edited; edit its child batches")
	}
	if input.DiscountMode != nil && !input.DiscountMode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown discount mode")
	}

	receivedChanged := applyItemEdits(item, input)
	item.LineTotal = CalculateLine(*item).Total

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		updates := map[string]any{
			"received_qty":     item.ReceivedQty,
			"free_qty":         item.FreeQty,
			"rejected_qty":     item.RejectedQty,
			"batch_number":     item.BatchNumber,
			"expiry_date":      item.ExpiryDate,
			"mrp":              item.MRP,
			"unit_price":       item.UnitPrice,
			"discount_percent": item.DiscountPercent,
			"discount_mode":    item.DiscountMode,
			"gst_percent":      item.GSTPercent,
			"line_total":       item.LineTotal,
			"location":         item.Location,
		}
		if err := repo.UpdateItem(ctx, item.ID, updates); err != nil {
			return err
		}
		if receivedChanged {
			if err := s.syncDetectedDiscrepancy(ctx, repo, item); err != nil {
				return err
			}
		}
		return s.refreshTotals(ctx, repo, grn.ID, enums.GRNStatusInProgress)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update grn item")
	}
	return s.Get(ctx, input.StoreID, grn.ID)
}

// SplitItem fans one received line out into child batches. The parent is
// retained for audit and stops counting toward totals and inventory.
func (s *service) SplitItem(ctx context.Context, input SplitItemInput) (*models.GoodsReceivedNote, error) {
	grn, err := s.editableGRN(ctx, input.StoreID, input.GRNID)
	if err != nil {
		return nil, err
	}

	parent, err := s.findItem(ctx, grn.ID, input.ItemID)
	if err != nil {
		return nil, err
	}
	if err := validateSplit(parent, input.Splits); err != nil {
		return nil, err
	}

	children := buildChildItems(parent, input.Splits)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateItems(ctx, children); err != nil {
			return err
		}
		if err := repo.UpdateItem(ctx, parent.ID, map[string]any{"is_split": true}); err != nil {
			return err
		}
		// the parent no longer receives stock; its discrepancy, if any,
		// belongs to the children now
		if err := repo.DeleteDiscrepancyForItem(ctx, grn.ID, parent.ID); err != nil {
			return err
		}
		for i := range children {
			if err := s.syncDetectedDiscrepancy(ctx, repo, &children[i]); err != nil {
				return err
			}
		}
		return s.refreshTotals(ctx, repo, grn.ID, enums.GRNStatusInProgress)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "split grn item")
	}
	return s.Get(ctx, input.StoreID, grn.ID)
}

// DeleteItem removes one split child. Deleting the last child un-marks the
// parent so the line can be split again. Top-level lines cannot be removed.
func (s *service) DeleteItem(ctx context.Context, input DeleteItemInput) (*models.GoodsReceivedNote, error) {
	grn, err := s.editableGRN(ctx, input.StoreID, input.GRNID)
	if err != nil {
		return nil, err
	}

	item, err := s.findItem(ctx, grn.ID, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item.ParentItemID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only split child batches can be deleted")
	}
	parentID := *item.ParentItemID

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteDiscrepancyForItem(ctx, grn.ID, item.ID); err != nil {
			return err
		}
		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return err
		}
		remaining, err := repo.CountChildren(ctx, parentID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := repo.UpdateItem(ctx, parentID, map[string]any{"is_split": false}); err != nil {
				return err
			}
		}
		return s.refreshTotals(ctx, repo, grn.ID, enums.GRNStatusInProgress)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete grn item")
	}
	return s.Get(ctx, input.StoreID, grn.ID)
}

// RecordDiscrepancy is the manual discrepancy path. An existing record for
// the same item is updated rather than duplicated.
func (s *service) RecordDiscrepancy(ctx context.Context, input RecordDiscrepancyInput) (*models.GRNDiscrepancy, error) {
	grn, err := s.editableGRN(ctx, input.StoreID, input.GRNID)
	if err != nil {
		return nil, err
	}
	if !input.Reason.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown discrepancy reason")
	}
	if input.Description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discrepancy description required")
	}

	if input.ItemID != nil {
		if _, err := s.findItem(ctx, grn.ID, *input.ItemID); err != nil {
			return nil, err
		}
		existing, err := s.repo.FindDiscrepancyByItem(ctx, grn.ID, *input.ItemID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up discrepancy")
		}
		if existing != nil {
			updates := map[string]any{
				"reason":       input.Reason,
				"expected_qty": input.ExpectedQty,
				"actual_qty":   input.ActualQty,
				"delta_qty":    input.ActualQty - input.ExpectedQty,
				"description":  input.Description,
			}
			if err := s.repo.UpdateDiscrepancy(ctx, existing.ID, updates); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update discrepancy")
			}
			return s.repo.FindDiscrepancy(ctx, grn.ID, existing.ID)
		}
	}

	discrepancy := &models.GRNDiscrepancy{
		ID:          uuid.New(),
		GRNID:       grn.ID,
		GRNItemID:   input.ItemID,
		Reason:      input.Reason,
		ExpectedQty: input.ExpectedQty,
		ActualQty:   input.ActualQty,
		DeltaQty:    input.ActualQty - input.ExpectedQty,
		Description: input.Description,
		Resolution:  enums.DiscrepancyResolutionPending,
	}
	if err := s.repo.CreateDiscrepancy(ctx, discrepancy); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record discrepancy")
	}
	return discrepancy, nil
}

func (s *service) ResolveDiscrepancy(ctx context.Context, input ResolveDiscrepancyInput) (*models.GRNDiscrepancy, error) {
	if _, err := s.Get(ctx, input.StoreID, input.GRNID); err != nil {
		return nil, err
	}
	if !input.Resolution.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown resolution")
	}

	discrepancy, err := s.repo.FindDiscrepancy(ctx, input.GRNID, input.DiscrepancyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discrepancy not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load discrepancy")
	}

	updates := map[string]any{
		"resolution": input.Resolution,
		"note":       input.Note,
	}
	if err := s.repo.UpdateDiscrepancy(ctx, discrepancy.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve discrepancy")
	}
	return s.repo.FindDiscrepancy(ctx, input.GRNID, discrepancy.ID)
}

// Complete validates every leaf line, then commits the whole receiving
// side-effect graph in one transaction: fresh totals, the inventory
// application, and the status flip. The status flip doubles as the
// concurrency guard; the loser of a completion race gets a state conflict.
// The tax ledger event goes out after the commit and never blocks it.
func (s *service) Complete(ctx context.Context, input CompleteInput) (*models.GoodsReceivedNote, error) {
	grn, err := s.Get(ctx, input.StoreID, input.GRNID)
	if err != nil {
		return nil, err
	}
	if grn.Status == enums.GRNStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "grn is already completed")
	}
	if grn.Status == enums.GRNStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "grn is cancelled")
	}

	items, err := s.repo.FindItems(ctx, grn.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load grn items")
	}
	if err := validateCompletion(items); err != nil {
		return nil, err
	}

	totals := CalculateTotals(items)
	started := s.now()

	completionCtx, cancel := context.WithTimeout(ctx, s.completionTimeout)
	defer cancel()

	var applied *receiving.ApplyResult
	err = s.tx.WithTx(completionCtx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		claimed, err := repo.ClaimCompletion(completionCtx, grn.ID, completionStamp{
			CompletedAt:   started.UTC(),
			CompletedBy:   input.ActorUserID,
			InvoiceNumber: input.InvoiceNumber,
			InvoiceDate:   input.InvoiceDate,
			Subtotal:      totals.Subtotal,
			Tax:           totals.Tax,
			Total:         totals.Total,
		})
		if err != nil {
			return err
		}
		if !claimed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "grn was completed or cancelled by another request")
		}

		applied, err = s.engine.Apply(completionCtx, tx, grn, items, receiving.ApplyOptions{
			ForceClose:  input.ForceClose,
			ActorUserID: input.ActorUserID,
		})
		return err
	})

	store := grn.StoreID.String()
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncFailure(store)
		}
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete grn")
	}
	if s.metrics != nil {
		s.metrics.IncSuccess(store)
		s.metrics.ObserveDuration(store, s.now().Sub(started))
	}

	s.emitPurchaseEvent(ctx, grn, items, applied)

	if s.logg != nil {
		fields := map[string]any{
			"grn_id":       grn.ID.String(),
			"grn_number":   grn.Number,
			"order_status": applied.OrderStatus,
		}
		s.logg.Info(s.logg.WithFields(ctx, fields), "grn completed")
	}
	return s.Get(ctx, input.StoreID, grn.ID)
}

func (s *service) Cancel(ctx context.Context, input CancelInput) (*models.GoodsReceivedNote, error) {
	grn, err := s.Get(ctx, input.StoreID, input.GRNID)
	if err != nil {
		return nil, err
	}
	if grn.Status == enums.GRNStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a completed grn cannot be cancelled")
	}
	if grn.Status == enums.GRNStatusCancelled {
		return grn, nil
	}

	if err := s.repo.UpdateFields(ctx, grn.ID, map[string]any{"status": enums.GRNStatusCancelled}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel grn")
	}
	return s.Get(ctx, input.StoreID, grn.ID)
}

// HardDelete discards a draft receiving cycle without leaving a terminal
// record. Nothing was applied to inventory, so nothing survives.
func (s *service) HardDelete(ctx context.Context, storeID, id uuid.UUID) error {
	grn, err := s.Get(ctx, storeID, id)
	if err != nil {
		return err
	}
	if !grn.Status.IsEditable() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only a draft grn can be discarded")
	}
	if err := s.repo.HardDelete(ctx, grn.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "discard grn")
	}
	return nil
}

func (s *service) editableGRN(ctx context.Context, storeID, id uuid.UUID) (*models.GoodsReceivedNote, error) {
	grn, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if !grn.Status.IsEditable() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "grn can no longer be edited").
			WithDetails(map[string]any{"status": grn.Status})
	}
	return grn, nil
}

func (s *service) findItem(ctx context.Context, grnID, itemID uuid.UUID) (*models.GRNItem, error) {
	item, err := s.repo.FindItem(ctx, grnID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "grn item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load grn item")
	}
	return item, nil
}

// refreshTotals recomputes the cached totals from the current items and moves
// a draft into IN_PROGRESS on its first edit.
func (s *service) refreshTotals(ctx context.Context, repo Repository, grnID uuid.UUID, status enums.GRNStatus) error {
	items, err := repo.FindItems(ctx, grnID)
	if err != nil {
		return err
	}
	totals := CalculateTotals(items)
	return repo.UpdateFields(ctx, grnID, map[string]any{
		"subtotal": totals.Subtotal,
		"tax":      totals.Tax,
		"total":    totals.Total,
		"status":   status,
	})
}

// syncDetectedDiscrepancy reconciles the item's auto-detected discrepancy:
// created or updated when quantities disagree, removed when they agree again.
func (s *service) syncDetectedDiscrepancy(ctx context.Context, repo Repository, item *models.GRNItem) error {
	detected := detectDiscrepancy(item)
	existing, err := repo.FindDiscrepancyByItem(ctx, item.GRNID, item.ID)
	if err != nil {
		return err
	}

	switch {
	case detected == nil && existing == nil:
		return nil
	case detected == nil:
		return repo.DeleteDiscrepancyForItem(ctx, item.GRNID, item.ID)
	case existing == nil:
		return repo.CreateDiscrepancy(ctx, detected)
	default:
		return repo.UpdateDiscrepancy(ctx, existing.ID, map[string]any{
			"reason":       detected.Reason,
			"expected_qty": detected.ExpectedQty,
			"actual_qty":   detected.ActualQty,
			"delta_qty":    detected.DeltaQty,
			"description":  detected.Description,
		})
	}
}

// validateCompletion is the eager gate ahead of the completion transaction:
// every leaf line must carry a real batch, a real expiry, a positive MRP, and
// some stock. Failures name the drug and the broken field.
func validateCompletion(items []models.GRNItem) error {
	for _, item := range items {
		if item.IsSplit {
			continue
		}
		name := "item"
		if item.Drug != nil {
			name = item.Drug.Name
		}
		if item.BatchNumber == "" || item.BatchNumber == models.SentinelBatchNumber {
			return completionGateError(name, "batch number is not assigned", item.ID)
		}
		if item.ExpiryDate.IsZero() {
			return completionGateError(name, "expiry date is missing", item.ID)
		}
		if !item.MRP.IsPositive() {
			return completionGateError(name, "mrp must be greater than zero", item.ID)
		}
		if item.ReceivedQty+item.FreeQty <= 0 {
			return completionGateError(name, "received and free quantity are both zero", item.ID)
		}
	}
	return nil
}

func completionGateError(drugName, problem string, itemID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s: %s", drugName, problem)).
		WithDetails(map[string]any{"item_id": itemID.String()})
}

// applyItemEdits merges non-nil fields into the item and reports whether the
// received quantity changed.
func applyItemEdits(item *models.GRNItem, input UpdateItemInput) bool {
	receivedChanged := false
	if input.ReceivedQty != nil && *input.ReceivedQty != item.ReceivedQty {
		item.ReceivedQty = *input.ReceivedQty
		receivedChanged = true
	}
	if input.FreeQty != nil {
		item.FreeQty = *input.FreeQty
	}
	if input.RejectedQty != nil {
		item.RejectedQty = *input.RejectedQty
	}
	if input.BatchNumber != nil {
		item.BatchNumber = *input.BatchNumber
	}
	if input.ExpiryDate != nil {
		item.ExpiryDate = *input.ExpiryDate
	}
	if input.MRP != nil {
		item.MRP = *input.MRP
	}
	if input.UnitPrice != nil {
		item.UnitPrice = *input.UnitPrice
	}
	if input.DiscountPercent != nil {
		item.DiscountPercent = *input.DiscountPercent
	}
	if input.DiscountMode != nil {
		item.DiscountMode = *input.DiscountMode
	}
	if input.GSTPercent != nil {
		item.GSTPercent = *input.GSTPercent
	}
	if input.Location != nil {
		item.Location = input.Location
	}
	return receivedChanged
}

func (s *service) emitPurchaseEvent(ctx context.Context, grn *models.GoodsReceivedNote, items []models.GRNItem, applied *receiving.ApplyResult) {
	event := taxledger.PurchaseEvent{
		EventID:   uuid.NewString(),
		StoreID:   grn.StoreID.String(),
		Date:      s.now().UTC(),
		EventType: enums.TaxEventTypePurchase,
		Reference: grn.Number,
	}
	if applied != nil {
		event.SupplierState = applied.SupplierState
	}
	for _, item := range items {
		if item.IsSplit {
			continue
		}
		line := CalculateLine(item)
		eventItem := taxledger.PurchaseEventItem{
			ItemID:       item.ID.String(),
			TaxableValue: line.Subtotal.Round(2),
			TaxAmount:    line.Tax.Round(2),
			GSTPercent:   item.GSTPercent,
			Eligibility:  taxledger.EligibilityInputs,
		}
		if item.Drug != nil {
			eventItem.HSNCode = item.Drug.HSNCode
		}
		event.Items = append(event.Items, eventItem)
	}

	if err := s.taxSink.PublishPurchase(ctx, event); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "grn_number", grn.Number), "tax ledger emit failed", err)
		}
	}
}
