package receiving

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulverma-dev/medstock-backend/internal/catalog"
	"github.com/rahulverma-dev/medstock-backend/internal/purchasing"
	"github.com/rahulverma-dev/medstock-backend/pkg/db/models"
	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
	pkgerrors "github.com/rahulverma-dev/medstock-backend/pkg/errors"
	"github.com/rahulverma-dev/medstock-backend/pkg/logger"
)

// ItemUpdater rewrites GRN item rows when catalog scoping remaps a drug id.
// Implemented by the GRN repository; declared here to keep the dependency
// pointing engine -> grn storage rather than the reverse.
type ItemUpdater interface {
	UpdateItemDrug(ctx context.Context, itemID, drugID uuid.UUID) error
}

// ApplyOptions tunes one inventory application run.
type ApplyOptions struct {
	// ForceClose marks the purchase order RECEIVED even when shortages
	// remain, recording that the operator accepted them.
	ForceClose  bool
	ActorUserID *uuid.UUID
}

// ApplyResult reports what one application run touched.
type ApplyResult struct {
	// DrugRewrites maps original drug ids to the store-local ids that
	// replaced them during catalog scoping.
	DrugRewrites   map[uuid.UUID]uuid.UUID
	BatchesCreated int
	BatchesUpdated int
	MovementsAdded int
	OrderStatus    enums.PurchaseOrderStatus
	SupplierState  *string
}

// Engine applies a validated GRN to inventory. Every step runs on the
// caller's transaction; a failure anywhere rolls back the whole attempt,
// leaving no partial batches, movements, or order updates behind.
type Engine struct {
	catalog   catalog.Repository
	inventory InventoryRepository
	orders    purchasing.Repository
	items     ItemUpdater
	logg      *logger.Logger
}

// NewEngine builds an inventory application engine.
func NewEngine(catalogRepo catalog.Repository, inventoryRepo InventoryRepository, ordersRepo purchasing.Repository, items ItemUpdater, logg *logger.Logger) (*Engine, error) {
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("purchasing repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item updater required")
	}
	return &Engine{
		catalog:   catalogRepo,
		inventory: inventoryRepo,
		orders:    ordersRepo,
		items:     items,
		logg:      logg,
	}, nil
}

// Apply runs the application steps in order: catalog scoping, leaf
// flattening, sentinel validation, per-leaf batch upserts with ledger
// entries, and purchase order reconciliation. The GRN's own status flip is
// the caller's job, inside the same transaction.
func (e *Engine) Apply(ctx context.Context, tx *gorm.DB, grn *models.GoodsReceivedNote, items []models.GRNItem, opts ApplyOptions) (*ApplyResult, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction required for inventory application")
	}

	catalogRepo := e.catalog.WithTx(tx)
	inventoryRepo := e.inventory.WithTx(tx)
	ordersRepo := e.orders.WithTx(tx)

	result := &ApplyResult{DrugRewrites: map[uuid.UUID]uuid.UUID{}}

	rewrites, err := e.resolveCatalogScope(ctx, catalogRepo, grn, items)
	if err != nil {
		return nil, err
	}
	result.DrugRewrites = rewrites
	for i := range items {
		if local, ok := rewrites[items[i].DrugID]; ok {
			items[i].DrugID = local
		}
	}

	leaves := flattenLeaves(items)

	for _, leaf := range leaves {
		if leaf.BatchNumber == models.SentinelBatchNumber {
			details := map[string]any{"item_id": leaf.ID.String()}
			if leaf.Drug != nil {
				details["drug_name"] = leaf.Drug.Name
			}
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "batch number not assigned").
				WithDetails(details)
		}
	}

	for _, leaf := range leaves {
		qty := leaf.ReceivedQty + leaf.FreeQty
		if qty <= 0 {
			continue
		}
		created, err := e.upsertBatch(ctx, inventoryRepo, grn, leaf, qty, opts)
		if err != nil {
			return nil, err
		}
		if created {
			result.BatchesCreated++
		} else {
			result.BatchesUpdated++
		}
		result.MovementsAdded++
	}

	status, err := e.reconcileOrder(ctx, ordersRepo, grn, leaves, opts)
	if err != nil {
		return nil, err
	}
	result.OrderStatus = status

	if supplier, err := ordersRepo.FindSupplier(ctx, grn.SupplierID); err == nil && supplier != nil {
		result.SupplierState = supplier.State
	}

	return result, nil
}

// resolveCatalogScope computes the {original -> store-local} drug mapping and
// rewrites every referencing item row. Purchase orders raised against a shared
// catalog can reference drugs owned by another store; inventory rows must
// always point at drugs the receiving store owns.
func (e *Engine) resolveCatalogScope(ctx context.Context, catalogRepo catalog.Repository, grn *models.GoodsReceivedNote, items []models.GRNItem) (map[uuid.UUID]uuid.UUID, error) {
	distinct := map[uuid.UUID]bool{}
	for _, item := range items {
		distinct[item.DrugID] = true
	}

	rewrites := map[uuid.UUID]uuid.UUID{}
	for drugID := range distinct {
		drug, err := catalogRepo.FindDrug(ctx, drugID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "drug not found").
					WithDetails(map[string]any{"drug_id": drugID.String()})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load drug")
		}
		if drug.StoreID == grn.StoreID {
			continue
		}

		local, err := catalogRepo.FindStoreEquivalent(ctx, grn.StoreID, drug.Name, drug.Strength, drug.Form)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find store drug")
		}
		if local == nil {
			copyOf := *drug
			copyOf.ID = uuid.Nil
			copyOf.StoreID = grn.StoreID
			local, err = catalogRepo.CreateDrug(ctx, &copyOf)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store drug")
			}
			if e.logg != nil {
				fields := map[string]any{
					"drug_id":  drugID.String(),
					"local_id": local.ID.String(),
					"store_id": grn.StoreID.String(),
				}
				e.logg.Info(e.logg.WithFields(ctx, fields), "created store-local drug copy")
			}
		}
		rewrites[drugID] = local.ID
	}

	if len(rewrites) == 0 {
		return rewrites, nil
	}

	for _, item := range items {
		local, ok := rewrites[item.DrugID]
		if !ok {
			continue
		}
		if err := e.items.UpdateItemDrug(ctx, item.ID, local); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rewrite item drug")
		}
	}
	return rewrites, nil
}

// flattenLeaves expands the item list so split parents contribute their
// children instead of themselves.
func flattenLeaves(items []models.GRNItem) []models.GRNItem {
	leaves := make([]models.GRNItem, 0, len(items))
	for _, item := range items {
		if item.IsSplit {
			continue
		}
		leaves = append(leaves, item)
	}
	return leaves
}

func (e *Engine) upsertBatch(ctx context.Context, inventoryRepo InventoryRepository, grn *models.GoodsReceivedNote, leaf models.GRNItem, qty int, opts ApplyOptions) (created bool, err error) {
	existing, err := inventoryRepo.FindBatch(ctx, grn.StoreID, leaf.DrugID, leaf.BatchNumber)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find inventory batch")
	}

	var batchID uuid.UUID
	if existing != nil {
		refresh := BatchRefresh{
			MRP:           leaf.MRP,
			PurchasePrice: leaf.UnitPrice,
			ExpiryDate:    leaf.ExpiryDate,
			Location:      leaf.Location,
		}
		if err := inventoryRepo.IncrementBatch(ctx, existing.ID, qty, refresh); err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment inventory batch")
		}
		batchID = existing.ID
	} else {
		batch := &models.InventoryBatch{
			StoreID:       grn.StoreID,
			DrugID:        leaf.DrugID,
			BatchNumber:   leaf.BatchNumber,
			ExpiryDate:    leaf.ExpiryDate,
			Quantity:      qty,
			MRP:           leaf.MRP,
			PurchasePrice: leaf.UnitPrice,
			Location:      leaf.Location,
		}
		batch, err = inventoryRepo.CreateBatch(ctx, batch)
		if err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory batch")
		}
		batchID = batch.ID
		created = true
	}

	movement := &models.StockMovement{
		StoreID:      grn.StoreID,
		DrugID:       leaf.DrugID,
		BatchID:      batchID,
		MovementType: enums.StockMovementTypeIn,
		Quantity:     qty,
		Reference:    grn.Number,
		ActorUserID:  opts.ActorUserID,
	}
	if err := inventoryRepo.CreateMovement(ctx, movement); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append stock movement")
	}
	return created, nil
}

// reconcileOrder increments the purchase order's received counters by
// received quantity only (free stock is a bonus, never counted against the
// order) and recomputes the order status.
func (e *Engine) reconcileOrder(ctx context.Context, ordersRepo purchasing.Repository, grn *models.GoodsReceivedNote, leaves []models.GRNItem, opts ApplyOptions) (enums.PurchaseOrderStatus, error) {
	receivedByItem := map[uuid.UUID]int{}
	for _, leaf := range leaves {
		if leaf.POItemID == nil || leaf.ReceivedQty <= 0 {
			continue
		}
		receivedByItem[*leaf.POItemID] += leaf.ReceivedQty
	}

	for itemID, qty := range receivedByItem {
		if err := ordersRepo.IncrementItemReceived(ctx, itemID, qty); err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment order item received")
		}
	}

	items, err := ordersRepo.FindItems(ctx, grn.PurchaseOrderID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order items")
	}

	status := enums.PurchaseOrderStatusReceived
	if !opts.ForceClose {
		for _, item := range items {
			if item.ReceivedQty < item.OrderedQty {
				status = enums.PurchaseOrderStatusPartiallyReceived
				break
			}
		}
	}

	if err := ordersRepo.UpdateStatus(ctx, grn.PurchaseOrderID, status); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return status, nil
}
