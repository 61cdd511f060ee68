package grn

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulverma-dev/medstock-backend/internal/receiving"
	"github.com/rahulverma-dev/medstock-backend/internal/taxledger"
	"github.com/rahulverma-dev/medstock-backend/pkg/db/models"
	"github.com/rahulverma-dev/medstock-backend/pkg/pagination"
)

// Repository defines persistence operations for goods received notes, their
// items, and their discrepancies. It also exposes the document number index
// queries the numbering generator scans.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, grn *models.GoodsReceivedNote) error
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*models.GoodsReceivedNote, error)
	FindActiveByPurchaseOrder(ctx context.Context, storeID, purchaseOrderID uuid.UUID) (*models.GoodsReceivedNote, error)
	List(ctx context.Context, params listParams) ([]models.GoodsReceivedNote, *pagination.Cursor, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
	// ClaimCompletion flips an editable GRN to COMPLETED and reports whether
	// this caller won the flip. A false return means another completer got
	// there first or the GRN is terminal.
	ClaimCompletion(ctx context.Context, id uuid.UUID, input completionStamp) (bool, error)
	HardDelete(ctx context.Context, id uuid.UUID) error

	CreateItems(ctx context.Context, items []models.GRNItem) error
	FindItem(ctx context.Context, grnID, itemID uuid.UUID) (*models.GRNItem, error)
	FindItems(ctx context.Context, grnID uuid.UUID) ([]models.GRNItem, error)
	CountChildren(ctx context.Context, parentItemID uuid.UUID) (int64, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error
	UpdateItemDrug(ctx context.Context, itemID, drugID uuid.UUID) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error

	FindDiscrepancyByItem(ctx context.Context, grnID, itemID uuid.UUID) (*models.GRNDiscrepancy, error)
	FindDiscrepancy(ctx context.Context, grnID, discrepancyID uuid.UUID) (*models.GRNDiscrepancy, error)
	CreateDiscrepancy(ctx context.Context, discrepancy *models.GRNDiscrepancy) error
	UpdateDiscrepancy(ctx context.Context, discrepancyID uuid.UUID, updates map[string]any) error
	DeleteDiscrepancyForItem(ctx context.Context, grnID, itemID uuid.UUID) error

	HighestNumber(ctx context.Context, storeID uuid.UUID, numberPrefix string) (string, error)
	NumberExists(ctx context.Context, storeID uuid.UUID, number string) (bool, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// NumberSource proposes the next free document number for a store.
type NumberSource interface {
	Next(ctx context.Context, storeID uuid.UUID, prefix string) (string, error)
}

// InventoryApplier commits the receiving side-effect graph on the caller's
// transaction.
type InventoryApplier interface {
	Apply(ctx context.Context, tx *gorm.DB, grn *models.GoodsReceivedNote, items []models.GRNItem, opts receiving.ApplyOptions) (*receiving.ApplyResult, error)
}

// PurchaseOrderSource reads the originating purchase order at initialize time.
type PurchaseOrderSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
}

// TaxEventSink receives the purchase event emitted after a completed GRN
// commits. Delivery failure never affects the completion itself.
type TaxEventSink interface {
	PublishPurchase(ctx context.Context, event taxledger.PurchaseEvent) error
}
