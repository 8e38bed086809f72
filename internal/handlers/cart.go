package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/cart"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/events"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type cartAddRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartSyncItem struct {
	ProductID string    `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

type cartSyncRequest struct {
	Items []cartSyncItem `json:"items"`
}

func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondNotFound(c, "user not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"cart": user.Cart})
	}
}

// AddToCart merges one product into the cart. A product already present
// gets its quantity incremented instead of a second entry.
func AddToCart(db *mongo.Database, hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/cart"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		var req cartAddRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			respondValidation(c, "invalid productId")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		if err := db.Collection("products").FindOne(ctx, bson.M{
			"_id":       productID,
			"isDeleted": bson.M{"$ne": true},
		}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				respondNotFound(c, "product not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		mutateCart(c, db, hub, userID, route, func(items []models.CartItem) []models.CartItem {
			return cart.Add(items, productID, req.Quantity, time.Now())
		})
	}
}

// UpdateCartItem overwrites the quantity for one product; a non-positive
// quantity removes the entry.
func UpdateCartItem(db *mongo.Database, hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /user/cart/:productId"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("productId")))
		if err != nil {
			respondValidation(c, "invalid productId")
			return
		}

		var req cartQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		mutateCart(c, db, hub, userID, route, func(items []models.CartItem) []models.CartItem {
			return cart.SetQuantity(items, productID, req.Quantity)
		})
	}
}

func RemoveFromCart(db *mongo.Database, hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /user/cart/:productId"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("productId")))
		if err != nil {
			respondValidation(c, "invalid productId")
			return
		}

		mutateCart(c, db, hub, userID, route, func(items []models.CartItem) []models.CartItem {
			return cart.Remove(items, productID)
		})
	}
}

func ClearCart(db *mongo.Database, hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /user/cart"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		mutateCart(c, db, hub, userID, route, func([]models.CartItem) []models.CartItem {
			return []models.CartItem{}
		})
	}
}

// SyncCart replaces the stored cart with the client snapshot, last write
// wins. The version check rejects a snapshot taken against a cart that
// changed in the meantime, so the clobber is at least explicit.
func SyncCart(db *mongo.Database, hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /user/cart"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		var req cartSyncRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		now := time.Now()
		incoming := make([]models.CartItem, 0, len(req.Items))
		for _, item := range req.Items {
			productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(item.ProductID))
			if err != nil {
				respondValidation(c, "invalid productId")
				return
			}
			incoming = append(incoming, models.CartItem{
				ProductID: productID,
				Quantity:  item.Quantity,
				AddedAt:   item.AddedAt,
			})
		}

		mutateCart(c, db, hub, userID, route, func([]models.CartItem) []models.CartItem {
			return cart.Normalize(incoming, now)
		})
	}
}

// mutateCart runs one read-modify-write cycle over the user's cart with a
// CAS on the document version and publishes a cart event on success.
func mutateCart(c *gin.Context, db *mongo.Database, hub *events.Hub, userID primitive.ObjectID, route string, mutate func([]models.CartItem) []models.CartItem) {
	ctx, cancel := storeContext(c)
	defer cancel()

	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		respondNotFound(c, "user not found")
		return
	}

	updated := mutate(user.Cart)

	res, err := db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": userID, "version": user.Version},
		bson.M{
			"$set": bson.M{"cart": updated, "updatedAt": time.Now()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return
	}
	if res.MatchedCount == 0 {
		respondConflict(c, "cart was modified concurrently, retry")
		return
	}

	hub.Publish(events.CartUpdated, map[string]interface{}{
		"userId": userID.Hex(),
		"items":  len(updated),
	})

	c.JSON(http.StatusOK, gin.H{"cart": updated})
}
