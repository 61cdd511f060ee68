package enums

import "fmt"

// TaxEventType labels events emitted to the asynchronous tax ledger channel.
type TaxEventType string

const (
	TaxEventTypePurchase TaxEventType = "PURCHASE"
	TaxEventTypeSale     TaxEventType = "SALE"
)

var validTaxEventTypes = []TaxEventType{
	TaxEventTypePurchase,
	TaxEventTypeSale,
}

// IsValid reports whether the value matches the canonical tax event type enum.
func (t TaxEventType) IsValid() bool {
	for _, candidate := range validTaxEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTaxEventType converts the raw string to TaxEventType.
func ParseTaxEventType(value string) (TaxEventType, error) {
	for _, candidate := range validTaxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tax event type %q", value)
}
