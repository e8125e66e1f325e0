package feed

import (
	"fmt"

	"tracking/internal/pkg/errs"
)

// Kind identifies a provider feed.
type Kind int

const (
	// Unknown catches uninitialized Kind values.
	Unknown Kind = iota

	// Delivery is the driver task feed.
	Delivery

	// Assembly is the furniture installer task feed.
	Assembly
)

// Kinds lists the valid feeds in the order their classifications are applied.
// Assembly is last so that it takes precedence over delivery.
func Kinds() []Kind {
	return []Kind{Delivery, Assembly}
}

// Validate checks that k is Delivery or Assembly.
func (k Kind) Validate() error {
	if k != Delivery && k != Assembly {
		return errs.NewValueIsInvalidErrorWithCause("feed kind", fmt.Errorf("%d is not a valid feed kind", k))
	}
	return nil
}

// String returns the lowercase feed name used in logs, metrics and cache keys.
func (k Kind) String() string {
	switch k {
	case Delivery:
		return "delivery"
	case Assembly:
		return "assembly"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of String.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if k.String() == name {
			return k, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("feed kind", fmt.Errorf("%q is not a valid feed kind", name))
}

// ExpectedTaskType returns the schedule type label a feed accepts.
func (k Kind) ExpectedTaskType() string {
	switch k {
	case Delivery:
		return TaskTypeDelivery
	case Assembly:
		return TaskTypeAssembly
	default:
		return ""
	}
}

// IsDesiredActivity reports whether description is on the feed's whitelist.
//
// Delivery keeps "Delivery" and "Delivery not performed". Assembly keeps
// "Assembly", "Assembly not performed" and "Start of travel".
func (k Kind) IsDesiredActivity(description string) bool {
	switch k {
	case Delivery:
		return description == ActivityDelivery || description == ActivityDeliveryNotPerformed
	case Assembly:
		return description == ActivityAssembly ||
			description == ActivityAssemblyNotPerformed ||
			description == ActivityStartOfTravel
	default:
		return false
	}
}
