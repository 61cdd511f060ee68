package models

import (
	"time"

	"github.com/google/uuid"
)

// Store is a single pharmacy location. Drug catalog rows and inventory are
// scoped to a store; purchase documents carry the owning store id.
type Store struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	GSTIN     *string   `gorm:"column:gstin"`
	StateCode *string   `gorm:"column:state_code"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
