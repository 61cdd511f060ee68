package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Drug is a store-scoped catalog entry. A drug created under one store is not
// usable by another store's receiving flow; a store-local copy is created on
// demand during inventory application.
type Drug struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID       `gorm:"column:store_id;type:uuid;not null;index"`
	Name         string          `gorm:"column:name;not null"`
	Strength     *string         `gorm:"column:strength"`
	Form         *string         `gorm:"column:form"`
	Manufacturer *string         `gorm:"column:manufacturer"`
	HSNCode      *string         `gorm:"column:hsn_code"`
	GSTPercent   decimal.Decimal `gorm:"column:gst_percent;type:numeric(5,2);not null"`
	Schedule     *string         `gorm:"column:schedule"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
