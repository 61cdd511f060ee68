package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
)

// StockMovement is an append-only ledger entry for one inventory batch.
// Quantity is signed; Reference points back at the originating document
// (e.g. a GRN number).
type StockMovement struct {
	ID           uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID               `gorm:"column:store_id;type:uuid;not null;index"`
	DrugID       uuid.UUID               `gorm:"column:drug_id;type:uuid;not null"`
	BatchID      uuid.UUID               `gorm:"column:batch_id;type:uuid;not null;index"`
	MovementType enums.StockMovementType `gorm:"column:movement_type;type:text;not null"`
	Quantity     int                     `gorm:"column:quantity;not null"`
	Reference    string                  `gorm:"column:reference;not null"`
	ActorUserID  *uuid.UUID              `gorm:"column:actor_user_id;type:uuid"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
}
