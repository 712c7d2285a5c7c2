package enums

import "fmt"

// SaleStatus tracks the lifecycle of a submitted sale. Wire values match the
// upstream sales API.
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "PENDIENTE"
	SaleStatusCompleted SaleStatus = "COMPLETADO"
	// SaleStatusCancelled marks sales voided by checkout compensation after a
	// partial detail submission failure.
	SaleStatusCancelled SaleStatus = "CANCELADO"
)

var validSaleStatuses = []SaleStatus{
	SaleStatusPending,
	SaleStatusCompleted,
	SaleStatusCancelled,
}

// String implements fmt.Stringer.
func (s SaleStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SaleStatus.
func (s SaleStatus) IsValid() bool {
	for _, candidate := range validSaleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSaleStatus converts raw input into a SaleStatus.
func ParseSaleStatus(value string) (SaleStatus, error) {
	for _, candidate := range validSaleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sale status %q", value)
}
