package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
)

// SentinelBatchNumber marks a receiving line whose batch identity has not been
// assigned yet. Completion is blocked while any leaf item still carries it.
const SentinelBatchNumber = "TBD"

// GRNItem is one receiving line. The split tree is one level deep: a parent
// marked IsSplit contributes nothing to totals or inventory; its children
// (ParentItemID set) are the leaves that do. Children can never be split.
type GRNItem struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GRNID           uuid.UUID          `gorm:"column:grn_id;type:uuid;not null;index"`
	POItemID        *uuid.UUID         `gorm:"column:po_item_id;type:uuid"`
	DrugID          uuid.UUID          `gorm:"column:drug_id;type:uuid;not null"`
	Drug            *Drug              `gorm:"foreignKey:DrugID"`
	OrderedQty      int                `gorm:"column:ordered_qty;not null"`
	ReceivedQty     int                `gorm:"column:received_qty;not null;default:0"`
	FreeQty         int                `gorm:"column:free_qty;not null;default:0"`
	RejectedQty     int                `gorm:"column:rejected_qty;not null;default:0"`
	BatchNumber     string             `gorm:"column:batch_number;not null"`
	ExpiryDate      time.Time          `gorm:"column:expiry_date;not null"`
	MRP             decimal.Decimal    `gorm:"column:mrp;type:numeric(12,2);not null;default:0"`
	UnitPrice       decimal.Decimal    `gorm:"column:unit_price;type:numeric(12,2);not null;default:0"`
	DiscountPercent decimal.Decimal    `gorm:"column:discount_percent;type:numeric(5,2);not null;default:0"`
	DiscountMode    enums.DiscountMode `gorm:"column:discount_mode;type:text;not null;default:'BEFORE_TAX'"`
	GSTPercent      decimal.Decimal    `gorm:"column:gst_percent;type:numeric(5,2);not null;default:0"`
	LineTotal       decimal.Decimal    `gorm:"column:line_total;type:numeric(14,2);not null;default:0"`
	Location        *string            `gorm:"column:location"`
	IsSplit         bool               `gorm:"column:is_split;not null;default:false"`
	ParentItemID    *uuid.UUID         `gorm:"column:parent_item_id;type:uuid;index"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the initialism readable in SQL.
func (GRNItem) TableName() string {
	return "grn_items"
}

// IsLeaf reports whether the item maps to inventory (i.e. is not a split parent).
func (i GRNItem) IsLeaf() bool {
	return !i.IsSplit
}
