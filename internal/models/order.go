package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/orders"
)

// OrderItem is a denormalized snapshot of a product at order time. It is
// frozen on checkout and never re-derived from the live product record.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
}

// OrderCustomer captures the contact details supplied at checkout.
type OrderCustomer struct {
	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email" json:"email"`
	Phone   string `bson:"phone" json:"phone"`
	Address string `bson:"address" json:"address"`
	Note    string `bson:"note,omitempty" json:"note,omitempty"`
}

// Order defines the persisted order document. Version guards every
// read-modify-write cycle: updates match on {_id, version} and bump the
// counter, so a stale writer surfaces as a conflict instead of silently
// overwriting.
type Order struct {
	ID             primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	UserID         *primitive.ObjectID   `bson:"userId" json:"userId"`
	Items          []OrderItem           `bson:"items" json:"items"`
	Subtotal       float64               `bson:"subtotal" json:"subtotal"`
	ShippingCost   float64               `bson:"shippingCost" json:"shippingCost"`
	Total          float64               `bson:"total" json:"total"`
	Customer       OrderCustomer         `bson:"customer" json:"customer"`
	PaymentMethod  string                `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus  string                `bson:"paymentStatus" json:"paymentStatus"`
	PaymentOrderID string                `bson:"paymentOrderId,omitempty" json:"paymentOrderId,omitempty"`
	Status         orders.Status         `bson:"status" json:"status"`
	AssignedTo     *primitive.ObjectID   `bson:"assignedTo" json:"assignedTo"`
	DeliveryStatus orders.DeliveryStatus `bson:"deliveryStatus" json:"deliveryStatus"`
	Version        int64                 `bson:"version" json:"version"`
	CreatedAt      time.Time             `bson:"createdAt" json:"createdAt"`
}

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)
