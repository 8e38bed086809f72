package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/events"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/metrics"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/orders"
)

type assignOrderRequest struct {
	// PartnerID empty or null clears the assignment.
	PartnerID *string `json:"partnerId"`
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetOrders lists every order for the admin view, optionally filtered by
// status, newest first.
func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders"
		defer handlePanic(c, route)

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("orders").Find(ctx, filter, findOptions)
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

// AssignOrder sets or clears the delivery partner on an order. Assignment
// pushes the delivery status to out for delivery, clearing it falls back
// to pending. Reassignment of an already-assigned order is allowed, last
// writer wins behind the version check.
func AssignOrder(db *mongo.Database, hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/orders/:id/assign"
		defer handlePanic(c, route)

		orderID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		var req assignOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		var partnerID *primitive.ObjectID
		if req.PartnerID != nil && strings.TrimSpace(*req.PartnerID) != "" {
			id, err := primitive.ObjectIDFromHex(strings.TrimSpace(*req.PartnerID))
			if err != nil {
				respondValidation(c, "invalid partnerId")
				return
			}

			ctx, cancel := storeContext(c)
			defer cancel()

			err = db.Collection("delivery-partners").FindOne(ctx, bson.M{
				"_id":    id,
				"status": models.PartnerActive,
			}).Err()
			if err != nil {
				if err == mongo.ErrNoDocuments {
					respondNotFound(c, "partner not found or inactive")
					return
				}
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			partnerID = &id
		}

		order, ok := findOrder(c, db, orderID)
		if !ok {
			return
		}

		deliveryStatus := orders.DeliveryStatusForAssignment(partnerID != nil)
		set := bson.M{
			"assignedTo":     partnerID,
			"deliveryStatus": deliveryStatus,
		}
		if !saveOrderFields(c, db, order, set, route) {
			return
		}

		payload := map[string]interface{}{
			"orderId":        orderID.Hex(),
			"deliveryStatus": string(deliveryStatus),
		}
		if partnerID != nil {
			payload["partnerId"] = partnerID.Hex()
		}
		hub.Publish(events.OrderAssigned, payload)

		log.WithField("orderId", orderID.Hex()).Info("[ORDER] assignment updated")
		c.JSON(http.StatusOK, gin.H{
			"message":        "assignment updated",
			"deliveryStatus": deliveryStatus,
		})
	}
}

// UpdateOrderStatus is the admin escape hatch: any valid status is
// accepted from any current status, bypassing the customer transition
// rules entirely.
func UpdateOrderStatus(db *mongo.Database, hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/orders/:id/status"
		defer handlePanic(c, route)

		orderID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		var req orderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		status := orders.Status(strings.TrimSpace(req.Status))
		if err := status.Validate(); err != nil {
			respondValidation(c, err.Error())
			return
		}

		order, ok := findOrder(c, db, orderID)
		if !ok {
			return
		}

		if !saveOrderFields(c, db, order, bson.M{"status": status}, route) {
			return
		}

		hub.Publish(events.OrderStatusChanged, map[string]interface{}{
			"orderId": orderID.Hex(),
			"status":  string(status),
		})
		metrics.OrdersTotal.WithLabelValues(string(status)).Inc()

		log.WithFields(log.Fields{"orderId": orderID.Hex(), "status": status}).
			Info("[ORDER] status overridden by admin")
		c.JSON(http.StatusOK, gin.H{"message": "status updated", "status": status})
	}
}

// DeleteOrder hard-deletes an order. Normal flows never delete; this is
// the admin cleanup endpoint.
func DeleteOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/orders/:id"
		defer handlePanic(c, route)

		orderID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		result, err := db.Collection("orders").DeleteOne(ctx, bson.M{"_id": orderID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondNotFound(c, "order not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}
