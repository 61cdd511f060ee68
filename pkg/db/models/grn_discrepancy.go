package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
)

// GRNDiscrepancy records an ordered-vs-received mismatch. At most one
// discrepancy exists per GRN item; repeat detections update in place.
type GRNDiscrepancy struct {
	ID          uuid.UUID                   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GRNID       uuid.UUID                   `gorm:"column:grn_id;type:uuid;not null;index"`
	GRNItemID   *uuid.UUID                  `gorm:"column:grn_item_id;type:uuid;index"`
	Reason      enums.DiscrepancyReason     `gorm:"column:reason;type:text;not null"`
	ExpectedQty int                         `gorm:"column:expected_qty;not null"`
	ActualQty   int                         `gorm:"column:actual_qty;not null"`
	DeltaQty    int                         `gorm:"column:delta_qty;not null"`
	Description string                      `gorm:"column:description;not null"`
	Resolution  enums.DiscrepancyResolution `gorm:"column:resolution;type:text;not null;default:'PENDING'"`
	Note        *string                     `gorm:"column:note"`
	CreatedAt   time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the initialism readable in SQL.
func (GRNDiscrepancy) TableName() string {
	return "grn_discrepancies"
}
