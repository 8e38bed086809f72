package orders

import "fmt"

// Status is the overall lifecycle state of an order.
type Status string

// DeliveryStatus tracks the delivery leg of an order, owned by the
// assigned delivery partner.
type DeliveryStatus string

const (
	StatusPlaced         Status = "placed"
	StatusPending        Status = "pending"
	StatusOutForDelivery Status = "out for delivery"
	StatusCancelled      Status = "cancelled"
	StatusComplete       Status = "complete"
)

const (
	DeliveryPending        DeliveryStatus = "pending"
	DeliveryOutForDelivery DeliveryStatus = "out for delivery"
	DeliveryDelivered      DeliveryStatus = "delivered"
	DeliveryFailed         DeliveryStatus = "failed"
)

func validStatuses() map[Status]struct{} {
	return map[Status]struct{}{
		StatusPlaced:         {},
		StatusPending:        {},
		StatusOutForDelivery: {},
		StatusCancelled:      {},
		StatusComplete:       {},
	}
}

func validDeliveryStatuses() map[DeliveryStatus]struct{} {
	return map[DeliveryStatus]struct{}{
		DeliveryPending:        {},
		DeliveryOutForDelivery: {},
		DeliveryDelivered:      {},
		DeliveryFailed:         {},
	}
}

// Validate reports whether s is one of the known order statuses.
func (s Status) Validate() error {
	if _, ok := validStatuses()[s]; !ok {
		return fmt.Errorf("%q is not a valid order status", string(s))
	}
	return nil
}

// Validate reports whether d is one of the known delivery statuses.
func (d DeliveryStatus) Validate() error {
	if _, ok := validDeliveryStatuses()[d]; !ok {
		return fmt.Errorf("%q is not a valid delivery status", string(d))
	}
	return nil
}

func (s Status) String() string         { return string(s) }
func (d DeliveryStatus) String() string { return string(d) }
