package receiving

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rahulverma-dev/medstock-backend/pkg/db/models"
)

// InventoryRepository defines persistence operations for inventory batches and
// the stock ledger.
type InventoryRepository interface {
	WithTx(tx *gorm.DB) InventoryRepository
	FindBatch(ctx context.Context, storeID, drugID uuid.UUID, batchNumber string) (*models.InventoryBatch, error)
	CreateBatch(ctx context.Context, batch *models.InventoryBatch) (*models.InventoryBatch, error)
	IncrementBatch(ctx context.Context, id uuid.UUID, qty int, refresh BatchRefresh) error
	CreateMovement(ctx context.Context, movement *models.StockMovement) error
}

// BatchRefresh carries the per-receipt fields an existing batch refreshes on
// top of its quantity increment.
type BatchRefresh struct {
	MRP           decimal.Decimal
	PurchasePrice decimal.Decimal
	ExpiryDate    time.Time
	Location      *string
}

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository builds an inventory repository bound to the provided DB.
func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) WithTx(tx *gorm.DB) InventoryRepository {
	if tx == nil {
		return r
	}
	return &inventoryRepository{db: tx}
}

func (r *inventoryRepository) FindBatch(ctx context.Context, storeID, drugID uuid.UUID, batchNumber string) (*models.InventoryBatch, error) {
	var batch models.InventoryBatch
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND drug_id = ? AND batch_number = ?", storeID, drugID, batchNumber).
		First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

func (r *inventoryRepository) CreateBatch(ctx context.Context, batch *models.InventoryBatch) (*models.InventoryBatch, error) {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

// IncrementBatch adjusts the quantity in place and refreshes the pricing
// fields from the latest receipt. The quantity column is never overwritten
// with an absolute value.
func (r *inventoryRepository) IncrementBatch(ctx context.Context, id uuid.UUID, qty int, refresh BatchRefresh) error {
	updates := map[string]any{
		"quantity":       gorm.Expr("quantity + ?", qty),
		"mrp":            refresh.MRP,
		"purchase_price": refresh.PurchasePrice,
		"expiry_date":    refresh.ExpiryDate,
	}
	if refresh.Location != nil {
		updates["location"] = *refresh.Location
	}
	return r.db.WithContext(ctx).
		Model(&models.InventoryBatch{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *inventoryRepository) CreateMovement(ctx context.Context, movement *models.StockMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(movement).Error
}
