package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
)

// PurchaseOrder is the supplier order a goods received note reconciles against.
type PurchaseOrder struct {
	ID         uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number     string                    `gorm:"column:number;not null"`
	StoreID    uuid.UUID                 `gorm:"column:store_id;type:uuid;not null;index"`
	SupplierID uuid.UUID                 `gorm:"column:supplier_id;type:uuid;not null"`
	Status     enums.PurchaseOrderStatus `gorm:"column:status;type:text;not null;default:'DRAFT'"`
	Notes      *string                   `gorm:"column:notes"`
	Items      []PurchaseOrderItem       `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

// PurchaseOrderItem is one drug line on a purchase order. ReceivedQty is
// incremented at GRN completion by the received quantity only; free quantity
// is a bonus and never counts against the order.
type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PurchaseOrderID uuid.UUID       `gorm:"column:purchase_order_id;type:uuid;not null;index"`
	DrugID          uuid.UUID       `gorm:"column:drug_id;type:uuid;not null"`
	Drug            *Drug           `gorm:"foreignKey:DrugID"`
	OrderedQty      int             `gorm:"column:ordered_qty;not null"`
	ReceivedQty     int             `gorm:"column:received_qty;not null;default:0"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null;default:0"`
	GSTPercent      decimal.Decimal `gorm:"column:gst_percent;type:numeric(5,2);not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
