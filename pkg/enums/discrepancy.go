package enums

import "fmt"

// DiscrepancyReason classifies an ordered-vs-received quantity mismatch.
type DiscrepancyReason string

const (
	DiscrepancyReasonShortage DiscrepancyReason = "SHORTAGE"
	DiscrepancyReasonOverage  DiscrepancyReason = "OVERAGE"
	DiscrepancyReasonDamaged  DiscrepancyReason = "DAMAGED"
	DiscrepancyReasonOther    DiscrepancyReason = "OTHER"
)

var validDiscrepancyReasons = []DiscrepancyReason{
	DiscrepancyReasonShortage,
	DiscrepancyReasonOverage,
	DiscrepancyReasonDamaged,
	DiscrepancyReasonOther,
}

// IsValid reports whether the value matches the canonical discrepancy reason enum.
func (r DiscrepancyReason) IsValid() bool {
	for _, candidate := range validDiscrepancyReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseDiscrepancyReason converts the raw string to DiscrepancyReason.
func ParseDiscrepancyReason(value string) (DiscrepancyReason, error) {
	for _, candidate := range validDiscrepancyReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discrepancy reason %q", value)
}

// DiscrepancyResolution is the handling state of a recorded discrepancy.
type DiscrepancyResolution string

const (
	DiscrepancyResolutionPending    DiscrepancyResolution = "PENDING"
	DiscrepancyResolutionAccepted   DiscrepancyResolution = "ACCEPTED"
	DiscrepancyResolutionCreditNote DiscrepancyResolution = "CREDIT_NOTE"
	DiscrepancyResolutionReordered  DiscrepancyResolution = "REORDERED"
)

var validDiscrepancyResolutions = []DiscrepancyResolution{
	DiscrepancyResolutionPending,
	DiscrepancyResolutionAccepted,
	DiscrepancyResolutionCreditNote,
	DiscrepancyResolutionReordered,
}

// IsValid reports whether the value matches the canonical discrepancy resolution enum.
func (r DiscrepancyResolution) IsValid() bool {
	for _, candidate := range validDiscrepancyResolutions {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseDiscrepancyResolution converts the raw string to DiscrepancyResolution.
func ParseDiscrepancyResolution(value string) (DiscrepancyResolution, error) {
	for _, candidate := range validDiscrepancyResolutions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discrepancy resolution %q", value)
}
