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
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
)

type wishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func GetWishlist(db *mongo.Database) gin.HandlerFunc {
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

		c.JSON(http.StatusOK, gin.H{"wishlist": user.Wishlist})
	}
}

// AddToWishlist appends the product when absent; repeated adds are no-ops.
func AddToWishlist(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/wishlist"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		var req wishlistRequest
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

		mutateWishlist(c, db, userID, route, func(items []models.WishlistItem) []models.WishlistItem {
			return cart.AddToWishlist(items, productID, time.Now())
		})
	}
}

func RemoveFromWishlist(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /user/wishlist/:productId"
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

		mutateWishlist(c, db, userID, route, func(items []models.WishlistItem) []models.WishlistItem {
			return cart.RemoveFromWishlist(items, productID)
		})
	}
}

func mutateWishlist(c *gin.Context, db *mongo.Database, userID primitive.ObjectID, route string, mutate func([]models.WishlistItem) []models.WishlistItem) {
	ctx, cancel := storeContext(c)
	defer cancel()

	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		respondNotFound(c, "user not found")
		return
	}

	updated := mutate(user.Wishlist)

	res, err := db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": userID, "version": user.Version},
		bson.M{
			"$set": bson.M{"wishlist": updated, "updatedAt": time.Now()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return
	}
	if res.MatchedCount == 0 {
		respondConflict(c, "wishlist was modified concurrently, retry")
		return
	}

	c.JSON(http.StatusOK, gin.H{"wishlist": updated})
}
