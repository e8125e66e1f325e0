package order

import "tracking/internal/core/domain/model/kernel"

// Status labels emitted by the feed classifiers and the timeline merger.
// Local history rows carry their own labels, which pass through unchanged.
const (
	OutForDelivery = "OUT FOR DELIVERY"
	Delivered      = "DELIVERED"
	NotDelivered   = "NOT DELIVERED"

	AwaitingAssembly = "AWAITING ASSEMBLY"
	OutForAssembly   = "OUT FOR ASSEMBLY"
	Assembled        = "ASSEMBLED"
	NotAssembled     = "NOT ASSEMBLED"
)

// CurrentStatus is the single label/timestamp pair summarizing an order's
// latest known state.
//
// The zero value is the unknown status: it renders as the placeholder for both
// label and timestamp.
type CurrentStatus struct {
	Label     string
	Timestamp kernel.Timestamp
}

// NewCurrentStatus builds a status from a label and its timestamp.
func NewCurrentStatus(label string, ts kernel.Timestamp) CurrentStatus {
	return CurrentStatus{Label: label, Timestamp: ts}
}

// UnknownStatus is reported when neither history nor feeds know the order.
func UnknownStatus() CurrentStatus {
	return CurrentStatus{}
}

// IsKnown reports whether a label is set.
func (s CurrentStatus) IsKnown() bool {
	return s.Label != ""
}

// DisplayLabel returns the label, or the placeholder when unknown.
func (s CurrentStatus) DisplayLabel() string {
	if s.Label == "" {
		return kernel.Placeholder
	}
	return s.Label
}

// DisplayTimestamp renders the timestamp, or the placeholder when missing.
func (s CurrentStatus) DisplayTimestamp() string {
	return s.Timestamp.String()
}
