package grn

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	grnsvc "github.com/rahulverma-dev/medstock-backend/internal/grn"
	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
	pkgerrors "github.com/rahulverma-dev/medstock-backend/pkg/errors"
)

type updateItemRequest struct {
	ReceivedQty     *int             `json:"receivedQty" validate:"omitempty,min=0"`
	FreeQty         *int             `json:"freeQty" validate:"omitempty,min=0"`
	RejectedQty     *int             `json:"rejectedQty" validate:"omitempty,min=0"`
	BatchNumber     *string          `json:"batchNumber" validate:"omitempty,min=1,max=64"`
	ExpiryDate      *time.Time       `json:"expiryDate"`
	MRP             *decimal.Decimal `json:"mrp"`
	UnitPrice       *decimal.Decimal `json:"unitPrice"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
	DiscountMode    *string          `json:"discountMode"`
	GSTPercent      *decimal.Decimal `json:"gstPercent"`
	Location        *string          `json:"location" validate:"omitempty,max=128"`
}

func (req updateItemRequest) toInput(storeID, grnID, itemID uuid.UUID) (grnsvc.UpdateItemInput, error) {
	input := grnsvc.UpdateItemInput{
		StoreID:         storeID,
		GRNID:           grnID,
		ItemID:          itemID,
		ReceivedQty:     req.ReceivedQty,
		FreeQty:         req.FreeQty,
		RejectedQty:     req.RejectedQty,
		BatchNumber:     req.BatchNumber,
		ExpiryDate:      req.ExpiryDate,
		MRP:             req.MRP,
		UnitPrice:       req.UnitPrice,
		DiscountPercent: req.DiscountPercent,
		GSTPercent:      req.GSTPercent,
		Location:        req.Location,
	}
	if req.DiscountMode != nil {
		mode, err := enums.ParseDiscountMode(*req.DiscountMode)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount mode")
		}
		input.DiscountMode = &mode
	}
	return input, nil
}

type splitSpecRequest struct {
	BatchNumber     string          `json:"batchNumber" validate:"required,min=1,max=64"`
	ReceivedQty     int             `json:"receivedQty" validate:"required,min=1"`
	FreeQty         int             `json:"freeQty" validate:"omitempty,min=0"`
	ExpiryDate      time.Time       `json:"expiryDate" validate:"required"`
	MRP             decimal.Decimal `json:"mrp"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	GSTPercent      decimal.Decimal `json:"gstPercent"`
	Location        *string         `json:"location" validate:"omitempty,max=128"`
}

type splitItemRequest struct {
	Splits []splitSpecRequest `json:"splits" validate:"required,min=2,dive"`
}

func (req splitItemRequest) toInput(storeID, grnID, itemID uuid.UUID) grnsvc.SplitItemInput {
	input := grnsvc.SplitItemInput{
		StoreID: storeID,
		GRNID:   grnID,
		ItemID:  itemID,
	}
	for _, spec := range req.Splits {
		input.Splits = append(input.Splits, grnsvc.SplitSpec{
			BatchNumber:     spec.BatchNumber,
			ReceivedQty:     spec.ReceivedQty,
			FreeQty:         spec.FreeQty,
			ExpiryDate:      spec.ExpiryDate,
			MRP:             spec.MRP,
			UnitPrice:       spec.UnitPrice,
			DiscountPercent: spec.DiscountPercent,
			GSTPercent:      spec.GSTPercent,
			Location:        spec.Location,
		})
	}
	return input
}

type recordDiscrepancyRequest struct {
	ItemID      *uuid.UUID `json:"itemId"`
	Reason      string     `json:"reason" validate:"required"`
	ExpectedQty int        `json:"expectedQty" validate:"omitempty,min=0"`
	ActualQty   int        `json:"actualQty" validate:"omitempty,min=0"`
	Description string     `json:"description" validate:"required,min=1,max=500"`
}

type resolveDiscrepancyRequest struct {
	Resolution string  `json:"resolution" validate:"required"`
	Note       *string `json:"note" validate:"omitempty,max=500"`
}

type completeRequest struct {
	InvoiceNumber *string    `json:"invoiceNumber" validate:"omitempty,min=1,max=64"`
	InvoiceDate   *time.Time `json:"invoiceDate"`
	ForceClose    bool       `json:"forceClose"`
}
