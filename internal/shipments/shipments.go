// Package shipments is a stand-in for a carrier integration. It fabricates
// tracking handles so the frontend flow can be exercised end to end; no
// real carrier is called.
package shipments

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tracking is the fabricated shipment record for an order.
type Tracking struct {
	OrderID           string    `json:"orderId"`
	TrackingID        string    `json:"trackingId"`
	Carrier           string    `json:"carrier"`
	Status            string    `json:"status"`
	EstimatedDelivery time.Time `json:"estimatedDelivery"`
}

type Stub struct {
	Carrier string
	now     func() time.Time
}

func NewStub(carrier string) *Stub {
	if carrier == "" {
		carrier = "GRA-EXPRESS"
	}
	return &Stub{Carrier: carrier, now: time.Now}
}

// Track fabricates a tracking handle for the order.
func (s *Stub) Track(orderID string) Tracking {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	return Tracking{
		OrderID:           orderID,
		TrackingID:        fmt.Sprintf("%s-%s", s.Carrier, token),
		Carrier:           s.Carrier,
		Status:            "in transit",
		EstimatedDelivery: s.now().Add(72 * time.Hour),
	}
}
