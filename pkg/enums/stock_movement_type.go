package enums

import "fmt"

// StockMovementType tags an append-only stock ledger entry.
type StockMovementType string

const (
	StockMovementTypeIn         StockMovementType = "IN"
	StockMovementTypeOut        StockMovementType = "OUT"
	StockMovementTypeAdjustment StockMovementType = "ADJUSTMENT"
)

var validStockMovementTypes = []StockMovementType{
	StockMovementTypeIn,
	StockMovementTypeOut,
	StockMovementTypeAdjustment,
}

// IsValid reports whether the value matches the canonical stock movement type enum.
func (t StockMovementType) IsValid() bool {
	for _, candidate := range validStockMovementTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseStockMovementType converts the raw string to StockMovementType.
func ParseStockMovementType(value string) (StockMovementType, error) {
	for _, candidate := range validStockMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock movement type %q", value)
}
