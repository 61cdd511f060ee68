package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryBatch is a received lot, uniquely keyed by (store, drug, batch
// number). Quantity is adjusted by increments only, never overwritten.
type InventoryBatch struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID       uuid.UUID       `gorm:"column:store_id;type:uuid;not null;uniqueIndex:ux_inventory_batches_store_drug_batch"`
	DrugID        uuid.UUID       `gorm:"column:drug_id;type:uuid;not null;uniqueIndex:ux_inventory_batches_store_drug_batch"`
	BatchNumber   string          `gorm:"column:batch_number;not null;uniqueIndex:ux_inventory_batches_store_drug_batch"`
	ExpiryDate    time.Time       `gorm:"column:expiry_date;not null"`
	Quantity      int             `gorm:"column:quantity;not null;default:0"`
	MRP           decimal.Decimal `gorm:"column:mrp;type:numeric(12,2);not null;default:0"`
	PurchasePrice decimal.Decimal `gorm:"column:purchase_price;type:numeric(12,2);not null;default:0"`
	Location      *string         `gorm:"column:location"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
