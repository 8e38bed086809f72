package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/events"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/metrics"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/orders"
)

type deliveryStatusRequest struct {
	DeliveryStatus string `json:"deliveryStatus" binding:"required"`
}

// GetAssignedOrders lists the orders currently assigned to the signed-in
// delivery partner, newest first.
func GetAssignedOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /partner/orders"
		defer handlePanic(c, route)

		partnerID, ok := contextPartnerID(c)
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"assignedTo": partnerID}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		list := make([]models.Order, 0)
		if err := cursor.All(ctx, &list); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

// UpdateDeliveryStatus lets the assigned partner report delivery progress.
// A terminal delivery status drags the order status with it: delivered
// completes the order, failed cancels it.
func UpdateDeliveryStatus(db *mongo.Database, hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /partner/orders/:id/delivery-status"
		defer handlePanic(c, route)

		partnerID, ok := contextPartnerID(c)
		if !ok {
			return
		}

		orderID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		var req deliveryStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		deliveryStatus := orders.DeliveryStatus(strings.TrimSpace(req.DeliveryStatus))
		if err := deliveryStatus.Validate(); err != nil {
			respondValidation(c, err.Error())
			return
		}

		order, ok := findOrder(c, db, orderID)
		if !ok {
			return
		}

		if order.AssignedTo == nil || *order.AssignedTo != partnerID {
			c.JSON(http.StatusForbidden, gin.H{"error": "order is not assigned to you"})
			return
		}

		set := bson.M{"deliveryStatus": deliveryStatus}
		status := order.Status
		if forced, ok := orders.StatusForDelivery(deliveryStatus); ok {
			status = forced
			set["status"] = forced
		}

		if !saveOrderFields(c, db, order, set, route) {
			return
		}

		hub.Publish(events.OrderStatusChanged, map[string]interface{}{
			"orderId":        orderID.Hex(),
			"status":         string(status),
			"deliveryStatus": string(deliveryStatus),
		})
		if status != order.Status {
			metrics.OrdersTotal.WithLabelValues(string(status)).Inc()
		}

		log.WithFields(log.Fields{
			"orderId":        orderID.Hex(),
			"partnerId":      partnerID.Hex(),
			"deliveryStatus": deliveryStatus,
		}).Info("[ORDER] delivery status updated")
		c.JSON(http.StatusOK, gin.H{
			"message":        "delivery status updated",
			"status":         status,
			"deliveryStatus": deliveryStatus,
		})
	}
}
