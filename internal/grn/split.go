package grn

import (
	"math"

	"github.com/google/uuid"

	"github.com/rahulverma-dev/medstock-backend/pkg/db/models"
	pkgerrors "github.com/rahulverma-dev/medstock-backend/pkg/errors"
)

// validateSplit enforces the split preconditions: the target must be a
// top-level line that has not been split yet, and the child quantities must
// conserve the parent's received quantity exactly.
func validateSplit(parent *models.GRNItem, splits []SplitSpec) error {
	if parent.ParentItemID != nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "a split child cannot be split again")
	}
	if parent.IsSplit {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "item has already been split")
	}
	if len(splits) < 2 {
		return pkgerrors.New(pkgerrors.CodeValidation, "a split needs at least two child batches")
	}

	total := 0
	for _, split := range splits {
		if split.ReceivedQty <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "split received quantity must be positive").
				WithDetails(map[string]any{"batch_number": split.BatchNumber})
		}
		if split.BatchNumber == "" || split.BatchNumber == models.SentinelBatchNumber {
			return pkgerrors.New(pkgerrors.CodeValidation, "split batch number required").
				WithDetails(map[string]any{"batch_number": split.BatchNumber})
		}
		total += split.ReceivedQty
	}
	if total != parent.ReceivedQty {
		return pkgerrors.New(pkgerrors.CodeValidation, "split quantities must sum to the parent's received quantity").
			WithDetails(map[string]any{
				"parent_received": parent.ReceivedQty,
				"split_total":     total,
			})
	}
	return nil
}

// proportionalOrderedQty spreads the parent's ordered quantity over a child in
// proportion to the child's share of the received quantity. This keeps batch
// fragmentation from reading as a shortage.
func proportionalOrderedQty(parentOrdered, childReceived, parentReceived int) int {
	if parentReceived == 0 {
		return 0
	}
	return int(math.Round(float64(parentOrdered) * float64(childReceived) / float64(parentReceived)))
}

// buildChildItems materializes the split specs as leaf items under the parent.
// Children inherit the parent's purchase order linkage and discount ordering.
func buildChildItems(parent *models.GRNItem, splits []SplitSpec) []models.GRNItem {
	children := make([]models.GRNItem, 0, len(splits))
	for _, split := range splits {
		child := models.GRNItem{
			ID:              uuid.New(),
			GRNID:           parent.GRNID,
			POItemID:        parent.POItemID,
			DrugID:          parent.DrugID,
			OrderedQty:      proportionalOrderedQty(parent.OrderedQty, split.ReceivedQty, parent.ReceivedQty),
			ReceivedQty:     split.ReceivedQty,
			FreeQty:         split.FreeQty,
			BatchNumber:     split.BatchNumber,
			ExpiryDate:      split.ExpiryDate,
			MRP:             split.MRP,
			UnitPrice:       split.UnitPrice,
			DiscountPercent: split.DiscountPercent,
			DiscountMode:    parent.DiscountMode,
			GSTPercent:      split.GSTPercent,
			Location:        split.Location,
			ParentItemID:    &parent.ID,
		}
		child.LineTotal = CalculateLine(child).Total
		children = append(children, child)
	}
	return children
}
