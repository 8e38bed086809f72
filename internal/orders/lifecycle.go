package orders

import "fmt"

// InvalidTransitionError reports a disallowed customer-initiated status
// change. Admin overrides never produce it.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %q to %q", e.From, e.To)
}

// ValidateCustomerCancel checks the one transition a customer may trigger:
// placed -> cancelled. Any other current status rejects the cancel and the
// order must be left untouched by the caller.
func ValidateCustomerCancel(current Status) error {
	if current != StatusPlaced {
		return InvalidTransitionError{From: current, To: StatusCancelled}
	}
	return nil
}

// StatusForDelivery returns the order status forced by a delivery-status
// update, and whether the order status changes at all. Delivered completes
// the order, failed cancels it; other delivery statuses leave the order
// status alone.
func StatusForDelivery(d DeliveryStatus) (Status, bool) {
	switch d {
	case DeliveryDelivered:
		return StatusComplete, true
	case DeliveryFailed:
		return StatusCancelled, true
	default:
		return "", false
	}
}

// DeliveryStatusForAssignment returns the delivery status an order takes
// when its assignment changes: out for delivery when a partner is set,
// back to pending when the assignment is cleared.
func DeliveryStatusForAssignment(assigned bool) DeliveryStatus {
	if assigned {
		return DeliveryOutForDelivery
	}
	return DeliveryPending
}
