package grn

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulverma-dev/medstock-backend/pkg/db/models"
	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
	"github.com/rahulverma-dev/medstock-backend/pkg/pagination"
)

// InitializeInput starts (or resumes) a receiving cycle for a purchase order.
type InitializeInput struct {
	StoreID         uuid.UUID
	PurchaseOrderID uuid.UUID
	ActorUserID     *uuid.UUID
}

// ListParams filters the GRN listing.
type ListParams struct {
	StoreID uuid.UUID
	Status  *enums.GRNStatus
	Limit   int
	Cursor  string
}

// ListResult wraps returned GRNs and the cursor for the next page.
type ListResult struct {
	Items  []models.GoodsReceivedNote `json:"items"`
	Cursor string                     `json:"cursor"`
}

type listParams struct {
	StoreID uuid.UUID
	Status  *enums.GRNStatus
	Limit   int
	Cursor  *pagination.Cursor
}

// UpdateItemInput carries per-line receiving edits. Nil fields are left
// untouched.
type UpdateItemInput struct {
	StoreID uuid.UUID
	GRNID   uuid.UUID
	ItemID  uuid.UUID

	ReceivedQty     *int
	FreeQty         *int
	RejectedQty     *int
	BatchNumber     *string
	ExpiryDate      *time.Time
	MRP             *decimal.Decimal
	UnitPrice       *decimal.Decimal
	DiscountPercent *decimal.Decimal
	DiscountMode    *enums.DiscountMode
	GSTPercent      *decimal.Decimal
	Location        *string
}

// SplitSpec describes one child batch produced by splitting a line.
type SplitSpec struct {
	BatchNumber     string
	ReceivedQty     int
	FreeQty         int
	ExpiryDate      time.Time
	MRP             decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	GSTPercent      decimal.Decimal
	Location        *string
}

// SplitItemInput splits one received line into multiple child batches.
type SplitItemInput struct {
	StoreID uuid.UUID
	GRNID   uuid.UUID
	ItemID  uuid.UUID
	Splits  []SplitSpec
}

// DeleteItemInput removes one child item produced by a split.
type DeleteItemInput struct {
	StoreID uuid.UUID
	GRNID   uuid.UUID
	ItemID  uuid.UUID
}

// RecordDiscrepancyInput is the manual discrepancy path.
type RecordDiscrepancyInput struct {
	StoreID     uuid.UUID
	GRNID       uuid.UUID
	ItemID      *uuid.UUID
	Reason      enums.DiscrepancyReason
	ExpectedQty int
	ActualQty   int
	Description string
}

// ResolveDiscrepancyInput updates a discrepancy's resolution state.
type ResolveDiscrepancyInput struct {
	StoreID       uuid.UUID
	GRNID         uuid.UUID
	DiscrepancyID uuid.UUID
	Resolution    enums.DiscrepancyResolution
	Note          *string
}

// CompleteInput finalizes a GRN and applies it to inventory.
type CompleteInput struct {
	StoreID       uuid.UUID
	GRNID         uuid.UUID
	InvoiceNumber *string
	InvoiceDate   *time.Time
	// ForceClose accepts outstanding shortages and marks the purchase order
	// fully received anyway.
	ForceClose  bool
	ActorUserID *uuid.UUID
}

// CancelInput abandons a receiving cycle without inventory effect.
type CancelInput struct {
	StoreID uuid.UUID
	GRNID   uuid.UUID
}

type completionStamp struct {
	CompletedAt   time.Time
	CompletedBy   *uuid.UUID
	InvoiceNumber *string
	InvoiceDate   *time.Time
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
}
