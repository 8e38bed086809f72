package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
)

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func GetProductReviews(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:slug/reviews"
		defer handlePanic(c, route)

		slug := strings.TrimSpace(c.Param("slug"))

		ctx, cancel := storeContext(c)
		defer cancel()

		var product models.Product
		err := db.Collection("products").FindOne(ctx, bson.M{
			"slug":      slug,
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&product)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondNotFound(c, "product not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if product.Reviews == nil {
			product.Reviews = []models.Review{}
		}
		c.JSON(http.StatusOK, gin.H{"reviews": product.Reviews})
	}
}

// AddProductReview appends a review sub-document; one review per user,
// a second submit replaces the earlier one.
func AddProductReview(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products/:slug/reviews"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		var req reviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		slug := strings.TrimSpace(c.Param("slug"))

		ctx, cancel := storeContext(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondNotFound(c, "user not found")
			return
		}

		var product models.Product
		err := db.Collection("products").FindOne(ctx, bson.M{
			"slug":      slug,
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&product)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondNotFound(c, "product not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		reviews := make([]models.Review, 0, len(product.Reviews)+1)
		for _, review := range product.Reviews {
			if review.UserID == userID {
				continue
			}
			reviews = append(reviews, review)
		}
		reviews = append(reviews, models.Review{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      user.Name,
			Rating:    req.Rating,
			Comment:   strings.TrimSpace(req.Comment),
			CreatedAt: time.Now(),
		})

		_, err = db.Collection("products").UpdateByID(ctx, product.ID, bson.M{
			"$set": bson.M{"reviews": reviews, "updatedAt": time.Now()},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"reviews": reviews})
	}
}

// DeleteProductReview removes the caller's own review.
func DeleteProductReview(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /products/:slug/reviews"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		slug := strings.TrimSpace(c.Param("slug"))

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := db.Collection("products").UpdateOne(ctx,
			bson.M{"slug": slug, "isDeleted": bson.M{"$ne": true}},
			bson.M{
				"$pull": bson.M{"reviews": bson.M{"userId": userID}},
				"$set":  bson.M{"updatedAt": time.Now()},
			},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondNotFound(c, "product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "review removed"})
	}
}
