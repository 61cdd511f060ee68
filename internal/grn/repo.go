package grn

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulverma-dev/medstock-backend/pkg/db/models"
	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
	"github.com/rahulverma-dev/medstock-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a GRN repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, grn *models.GoodsReceivedNote) error {
	if grn.ID == uuid.Nil {
		grn.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(grn).Error
}

func (r *repository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*models.GoodsReceivedNote, error) {
	var grn models.GoodsReceivedNote
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Items.Drug").
		Preload("Discrepancies").
		Where("id = ? AND store_id = ?", id, storeID).
		First(&grn).Error
	if err != nil {
		return nil, err
	}
	return &grn, nil
}

func (r *repository) FindActiveByPurchaseOrder(ctx context.Context, storeID, purchaseOrderID uuid.UUID) (*models.GoodsReceivedNote, error) {
	var grn models.GoodsReceivedNote
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Items.Drug").
		Where("purchase_order_id = ? AND store_id = ? AND status IN ?",
			purchaseOrderID, storeID,
			[]enums.GRNStatus{enums.GRNStatusDraft, enums.GRNStatusInProgress}).
		First(&grn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &grn, nil
}

func (r *repository) List(ctx context.Context, params listParams) ([]models.GoodsReceivedNote, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.GoodsReceivedNote{}).
		Where("store_id = ?", params.StoreID)
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var grns []models.GoodsReceivedNote
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&grns).Error; err != nil {
		return nil, nil, err
	}

	if len(grns) > normalized {
		next := grns[normalized]
		grns = grns[:normalized]
		return grns, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return grns, nil, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.GoodsReceivedNote{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ClaimCompletion is the completion race guard: only one caller observes a
// row flip from an editable status to COMPLETED.
func (r *repository) ClaimCompletion(ctx context.Context, id uuid.UUID, stamp completionStamp) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.GoodsReceivedNote{}).
		Where("id = ? AND status IN ?", id,
			[]enums.GRNStatus{enums.GRNStatusDraft, enums.GRNStatusInProgress}).
		Updates(map[string]any{
			"status":         enums.GRNStatusCompleted,
			"completed_at":   stamp.CompletedAt,
			"completed_by":   stamp.CompletedBy,
			"invoice_number": stamp.InvoiceNumber,
			"invoice_date":   stamp.InvoiceDate,
			"subtotal":       stamp.Subtotal,
			"tax":            stamp.Tax,
			"total":          stamp.Total,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) HardDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("grn_id = ?", id).Delete(&models.GRNDiscrepancy{}).Error; err != nil {
			return err
		}
		if err := tx.Where("grn_id = ?", id).Delete(&models.GRNItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.GoodsReceivedNote{}).Error
	})
}

func (r *repository) CreateItems(ctx context.Context, items []models.GRNItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindItem(ctx context.Context, grnID, itemID uuid.UUID) (*models.GRNItem, error) {
	var item models.GRNItem
	err := r.db.WithContext(ctx).
		Preload("Drug").
		Where("id = ? AND grn_id = ?", itemID, grnID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindItems(ctx context.Context, grnID uuid.UUID) ([]models.GRNItem, error) {
	var items []models.GRNItem
	err := r.db.WithContext(ctx).
		Preload("Drug").
		Where("grn_id = ?", grnID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CountChildren(ctx context.Context, parentItemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GRNItem{}).
		Where("parent_item_id = ?", parentItemID).
		Count(&count).Error
	return count, err
}

func (r *repository) UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.GRNItem{}).
		Where("id = ?", itemID).
		Updates(updates).Error
}

func (r *repository) UpdateItemDrug(ctx context.Context, itemID, drugID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.GRNItem{}).
		Where("id = ?", itemID).
		Update("drug_id", drugID).Error
}

func (r *repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&models.GRNItem{}).Error
}

func (r *repository) FindDiscrepancyByItem(ctx context.Context, grnID, itemID uuid.UUID) (*models.GRNDiscrepancy, error) {
	var discrepancy models.GRNDiscrepancy
	err := r.db.WithContext(ctx).
		Where("grn_id = ? AND grn_item_id = ?", grnID, itemID).
		First(&discrepancy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &discrepancy, nil
}

func (r *repository) FindDiscrepancy(ctx context.Context, grnID, discrepancyID uuid.UUID) (*models.GRNDiscrepancy, error) {
	var discrepancy models.GRNDiscrepancy
	err := r.db.WithContext(ctx).
		Where("id = ? AND grn_id = ?", discrepancyID, grnID).
		First(&discrepancy).Error
	if err != nil {
		return nil, err
	}
	return &discrepancy, nil
}

func (r *repository) CreateDiscrepancy(ctx context.Context, discrepancy *models.GRNDiscrepancy) error {
	if discrepancy.ID == uuid.Nil {
		discrepancy.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(discrepancy).Error
}

func (r *repository) UpdateDiscrepancy(ctx context.Context, discrepancyID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.GRNDiscrepancy{}).
		Where("id = ?", discrepancyID).
		Updates(updates).Error
}

func (r *repository) DeleteDiscrepancyForItem(ctx context.Context, grnID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("grn_id = ? AND grn_item_id = ?", grnID, itemID).
		Delete(&models.GRNDiscrepancy{}).Error
}

// HighestNumber scans only dense sequence numbers: a trailing wildcard per
// sequence digit keeps timestamp fallback numbers out of the max computation.
func (r *repository) HighestNumber(ctx context.Context, storeID uuid.UUID, numberPrefix string) (string, error) {
	pattern := numberPrefix + strings.Repeat("_", 4)
	var number string
	err := r.db.WithContext(ctx).
		Model(&models.GoodsReceivedNote{}).
		Where("store_id = ? AND number LIKE ?", storeID, pattern).
		Order("number DESC").
		Limit(1).
		Pluck("number", &number).Error
	if err != nil {
		return "", err
	}
	return number, nil
}

func (r *repository) NumberExists(ctx context.Context, storeID uuid.UUID, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GoodsReceivedNote{}).
		Where("store_id = ? AND number = ?", storeID, number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
