package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/orders"
)

func validOrderRequest() createOrderRequest {
	return createOrderRequest{
		Items: []createOrderItemRequest{
			{ProductID: primitive.NewObjectID().Hex(), Quantity: 2},
		},
		Customer: createOrderCustomerRequest{
			Name:    "Test Buyer",
			Email:   "Buyer@Example.com",
			Phone:   "9000000000",
			Address: "12 Market Road",
		},
		PaymentMethod: "cod",
	}
}

func TestBuildOrderFromRequestDefaults(t *testing.T) {
	order, err := buildOrderFromRequest(validOrderRequest())
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}
	if order.Status != orders.StatusPlaced {
		t.Fatalf("expected status placed, got %v", order.Status)
	}
	if order.DeliveryStatus != orders.DeliveryPending {
		t.Fatalf("expected delivery status pending, got %v", order.DeliveryStatus)
	}
	if order.AssignedTo != nil {
		t.Fatal("expected new order to be unassigned")
	}
	if order.Version != 0 {
		t.Fatalf("expected version 0, got %d", order.Version)
	}
	if order.Customer.Email != "buyer@example.com" {
		t.Fatalf("expected lowercased email, got %q", order.Customer.Email)
	}
}

func TestBuildOrderFromRequestRejectsEmptyItems(t *testing.T) {
	req := validOrderRequest()
	req.Items = nil
	if _, err := buildOrderFromRequest(req); err == nil {
		t.Fatal("expected error for empty items")
	}
}

func TestBuildOrderFromRequestRejectsBadPaymentMethod(t *testing.T) {
	req := validOrderRequest()
	req.PaymentMethod = "cheque"
	if _, err := buildOrderFromRequest(req); err == nil {
		t.Fatal("expected error for unknown payment method")
	}
}

func TestBuildOrderFromRequestRejectsZeroQuantity(t *testing.T) {
	req := validOrderRequest()
	req.Items[0].Quantity = 0
	if _, err := buildOrderFromRequest(req); err == nil {
		t.Fatal("expected error for zero quantity")
	}
}

func TestBuildOrderFromRequestRejectsBadProductID(t *testing.T) {
	req := validOrderRequest()
	req.Items[0].ProductID = "not-a-hex-id"
	if _, err := buildOrderFromRequest(req); err == nil {
		t.Fatal("expected error for malformed productId")
	}
}

func TestShippingCost(t *testing.T) {
	if got := shippingCost(100, 49, 499); got != 49 {
		t.Fatalf("expected flat rate 49 below threshold, got %v", got)
	}
	if got := shippingCost(499, 49, 499); got != 0 {
		t.Fatalf("expected free shipping at threshold, got %v", got)
	}
	if got := shippingCost(1000, 49, 0); got != 49 {
		t.Fatalf("expected flat rate when no threshold configured, got %v", got)
	}
}
