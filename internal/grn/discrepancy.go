package grn

import (
	"fmt"

	"github.com/rahulverma-dev/medstock-backend/pkg/db/models"
	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
)

// detectDiscrepancy compares an item's received quantity against its ordered
// quantity and builds the record to persist, or nil when the quantities agree.
func detectDiscrepancy(item *models.GRNItem) *models.GRNDiscrepancy {
	if item.ReceivedQty == item.OrderedQty {
		return nil
	}

	reason := enums.DiscrepancyReasonShortage
	if item.ReceivedQty > item.OrderedQty {
		reason = enums.DiscrepancyReasonOverage
	}

	drugName := "item"
	if item.Drug != nil {
		drugName = item.Drug.Name
	}
	delta := item.ReceivedQty - item.OrderedQty
	description := fmt.Sprintf("%s: ordered %d, received %d (%+d)",
		drugName, item.OrderedQty, item.ReceivedQty, delta)

	itemID := item.ID
	return &models.GRNDiscrepancy{
		GRNID:       item.GRNID,
		GRNItemID:   &itemID,
		Reason:      reason,
		ExpectedQty: item.OrderedQty,
		ActualQty:   item.ReceivedQty,
		DeltaQty:    delta,
		Description: description,
		Resolution:  enums.DiscrepancyResolutionPending,
	}
}
