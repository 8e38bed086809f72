package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type partnerCreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
}

type partnerStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type partnerLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

/* =========================
   ADMIN: PARTNER CRUD
========================= */

func CreatePartner(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/partners"
		defer handlePanic(c, route)

		var req partnerCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "hash error")
			return
		}

		now := time.Now()
		partner := models.DeliveryPartner{
			Name:         strings.TrimSpace(req.Name),
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			Phone:        strings.TrimSpace(req.Phone),
			PasswordHash: string(hash),
			Status:       models.PartnerActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := db.Collection("delivery-partners").InsertOne(ctx, partner)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondConflict(c, "email already registered")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.WithField("email", partner.Email).Info("[PARTNER] partner created")
		c.JSON(http.StatusCreated, gin.H{"id": res.InsertedID})
	}
}

func GetPartners(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/partners"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("delivery-partners").Find(ctx, bson.M{}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		partners := make([]models.DeliveryPartner, 0)
		if err := cursor.All(ctx, &partners); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, partners)
	}
}

func UpdatePartnerStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/partners/:id/status"
		defer handlePanic(c, route)

		partnerID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		var req partnerStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		status := strings.TrimSpace(req.Status)
		if status != models.PartnerActive && status != models.PartnerInactive {
			respondValidation(c, "status must be active or inactive")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := db.Collection("delivery-partners").UpdateByID(ctx, partnerID, bson.M{
			"$set": bson.M{"status": status, "updatedAt": time.Now()},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondNotFound(c, "partner not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "partner updated"})
	}
}

func DeletePartner(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/partners/:id"
		defer handlePanic(c, route)

		partnerID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		// orders assigned to the partner fall back to unassigned
		_, err := db.Collection("orders").UpdateMany(ctx,
			bson.M{"assignedTo": partnerID},
			bson.M{
				"$set": bson.M{"assignedTo": nil, "deliveryStatus": "pending"},
				"$inc": bson.M{"version": 1},
			},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		res, err := db.Collection("delivery-partners").DeleteOne(ctx, bson.M{"_id": partnerID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondNotFound(c, "partner not found")
			return
		}

		log.WithField("partnerId", partnerID.Hex()).Info("[PARTNER] partner deleted")
		c.JSON(http.StatusOK, gin.H{"message": "partner deleted"})
	}
}

/* =========================
   PARTNER LOGIN
========================= */

func PartnerLogin(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /partner/login"
		defer handlePanic(c, route)

		var req partnerLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		var partner models.DeliveryPartner
		err := db.Collection("delivery-partners").FindOne(ctx, bson.M{
			"email": strings.ToLower(strings.TrimSpace(req.Email)),
		}).Decode(&partner)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if partner.Status != models.PartnerActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "partner account is inactive"})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(partner.PasswordHash), []byte(req.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := signPartnerToken(partner.ID, jwtSecret, accessTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token error")
			return
		}

		log.WithField("partnerId", partner.ID.Hex()).Info("[PARTNER] partner logged in")
		c.JSON(http.StatusOK, gin.H{
			"partner":   gin.H{"id": partner.ID.Hex(), "name": partner.Name, "email": partner.Email},
			"token":     token,
			"expiresIn": int64(accessTTL.Seconds()),
		})
	}
}

func signPartnerToken(partnerID primitive.ObjectID, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": partnerID.Hex(),
		"role":   "partner",
		"exp":    time.Now().Add(ttl).Unix(),
		"iat":    time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
