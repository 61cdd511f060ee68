package enums

import "fmt"

// GRNStatus tracks a goods received note through its receiving lifecycle.
type GRNStatus string

const (
	GRNStatusDraft      GRNStatus = "DRAFT"
	GRNStatusInProgress GRNStatus = "IN_PROGRESS"
	GRNStatusCompleted  GRNStatus = "COMPLETED"
	GRNStatusCancelled  GRNStatus = "CANCELLED"
)

var validGRNStatuses = []GRNStatus{
	GRNStatusDraft,
	GRNStatusInProgress,
	GRNStatusCompleted,
	GRNStatusCancelled,
}

// IsValid reports whether the value matches the canonical GRN status enum.
func (s GRNStatus) IsValid() bool {
	for _, candidate := range validGRNStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further mutation.
func (s GRNStatus) IsTerminal() bool {
	return s == GRNStatusCompleted || s == GRNStatusCancelled
}

// IsEditable reports whether item edits, splits, and discrepancy changes are allowed.
// DRAFT and IN_PROGRESS are equivalent for edit permission purposes.
func (s GRNStatus) IsEditable() bool {
	return s == GRNStatusDraft || s == GRNStatusInProgress
}

// ParseGRNStatus converts the raw string to GRNStatus.
func ParseGRNStatus(value string) (GRNStatus, error) {
	for _, candidate := range validGRNStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid grn status %q", value)
}
