package enums

import "fmt"

// DiscountMode selects the ordering of discount and tax when pricing a line.
// Kept as an enum rather than a boolean so a third mode (e.g. tax-inclusive
// pricing) can be added without a schema change.
type DiscountMode string

const (
	DiscountModeBeforeTax DiscountMode = "BEFORE_TAX"
	DiscountModeAfterTax  DiscountMode = "AFTER_TAX"
)

var validDiscountModes = []DiscountMode{
	DiscountModeBeforeTax,
	DiscountModeAfterTax,
}

// IsValid reports whether the value matches the canonical discount mode enum.
func (m DiscountMode) IsValid() bool {
	for _, candidate := range validDiscountModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseDiscountMode converts the raw string to DiscountMode.
func ParseDiscountMode(value string) (DiscountMode, error) {
	for _, candidate := range validDiscountModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount mode %q", value)
}
