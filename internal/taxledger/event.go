package taxledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
)

// PurchaseEvent is the payload emitted when a goods received note completes.
// It feeds the downstream GST ledger pipeline.
type PurchaseEvent struct {
	EventID       string              `json:"eventId"`
	StoreID       string              `json:"storeId"`
	Date          time.Time           `json:"date"`
	EventType     enums.TaxEventType  `json:"eventType"`
	Reference     string              `json:"reference"`
	SupplierState *string             `json:"supplierState,omitempty"`
	Items         []PurchaseEventItem `json:"items"`
}

// PurchaseEventItem is one taxable line of a purchase event.
type PurchaseEventItem struct {
	ItemID       string          `json:"itemId"`
	HSNCode      *string         `json:"hsnCode,omitempty"`
	TaxableValue decimal.Decimal `json:"taxableValue"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	GSTPercent   decimal.Decimal `json:"gstPercent"`
	Eligibility  string          `json:"eligibility"`
}

// EligibilityInputs marks input-tax-credit eligible purchase lines.
const EligibilityInputs = "INPUTS"
