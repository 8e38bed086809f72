package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
)

// findOrder loads one order or responds NotFound.
func findOrder(c *gin.Context, db *mongo.Database, orderID primitive.ObjectID) (models.Order, bool) {
	ctx, cancel := storeContext(c)
	defer cancel()

	var order models.Order
	if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			respondNotFound(c, "order not found")
		} else {
			respondWithError(c, http.StatusInternalServerError, "order lookup", "db error")
		}
		return models.Order{}, false
	}
	return order, true
}

// saveOrderFields writes the given fields back with a compare-and-swap on
// the order version. A vanished order responds NotFound; a version mismatch
// responds Conflict. Returns true only when the write landed.
func saveOrderFields(c *gin.Context, db *mongo.Database, order models.Order, set bson.M, route string) bool {
	ctx, cancel := storeContext(c)
	defer cancel()

	res, err := db.Collection("orders").UpdateOne(ctx,
		bson.M{"_id": order.ID, "version": order.Version},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return false
	}
	if res.MatchedCount == 0 {
		if orderExists(ctx, db, order.ID) {
			respondConflict(c, "order was modified concurrently, retry")
		} else {
			respondNotFound(c, "order not found")
		}
		return false
	}
	return true
}

func orderExists(ctx context.Context, db *mongo.Database, orderID primitive.ObjectID) bool {
	err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Err()
	return err == nil
}
