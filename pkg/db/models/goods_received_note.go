package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
)

// GoodsReceivedNote records the physical receipt of goods against a purchase
// order. One GRN exists per PO per receiving cycle; totals are derived from
// leaf items and cached on the row.
type GoodsReceivedNote struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number          string            `gorm:"column:number;not null;uniqueIndex:ux_grns_number_store"`
	StoreID         uuid.UUID         `gorm:"column:store_id;type:uuid;not null;uniqueIndex:ux_grns_number_store;index"`
	PurchaseOrderID uuid.UUID         `gorm:"column:purchase_order_id;type:uuid;not null;index"`
	SupplierID      uuid.UUID         `gorm:"column:supplier_id;type:uuid;not null"`
	Status          enums.GRNStatus   `gorm:"column:status;type:text;not null;default:'DRAFT'"`
	Subtotal        decimal.Decimal   `gorm:"column:subtotal;type:numeric(14,2);not null;default:0"`
	Tax             decimal.Decimal   `gorm:"column:tax;type:numeric(14,2);not null;default:0"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(14,2);not null;default:0"`
	InvoiceNumber   *string           `gorm:"column:invoice_number"`
	InvoiceDate     *time.Time        `gorm:"column:invoice_date"`
	CompletedAt     *time.Time        `gorm:"column:completed_at"`
	CompletedBy     *uuid.UUID        `gorm:"column:completed_by;type:uuid"`
	Items           []GRNItem         `gorm:"foreignKey:GRNID;constraint:OnDelete:CASCADE"`
	Discrepancies   []GRNDiscrepancy  `gorm:"foreignKey:GRNID;constraint:OnDelete:CASCADE"`
	PurchaseOrder   *PurchaseOrder    `gorm:"foreignKey:PurchaseOrderID"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the initialism readable in SQL.
func (GoodsReceivedNote) TableName() string {
	return "goods_received_notes"
}
