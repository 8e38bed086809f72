package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/shipments"
)

// GetShipment returns fabricated tracking info for one of the caller's
// orders. The order must exist and belong to the caller.
func GetShipment(db *mongo.Database, stub *shipments.Stub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/orders/:id/shipment"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		orderID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		order, ok := findOrder(c, db, orderID)
		if !ok {
			return
		}
		if order.UserID == nil || *order.UserID != userID {
			respondNotFound(c, "order not found")
			return
		}

		c.JSON(http.StatusOK, stub.Track(orderID.Hex()))
	}
}
