package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
)

type addressRequest struct {
	Label     string `json:"label" binding:"required"`
	Line1     string `json:"line1" binding:"required"`
	Line2     string `json:"line2"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state"`
	Pincode   string `json:"pincode" binding:"required"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"isDefault"`
}

type profileUpdateRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func GetMe(db *mongo.Database) gin.HandlerFunc {
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

		c.JSON(http.StatusOK, user)
	}
}

func UpdateProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /user/profile"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		var req profileUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if name := strings.TrimSpace(req.Name); name != "" {
			set["name"] = name
		}
		if phone := strings.TrimSpace(req.Phone); phone != "" {
			set["phone"] = phone
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{"$set": set})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondNotFound(c, "user not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
	}
}

/* =========================
   ADDRESSES
========================= */

func GetUserAddresses(db *mongo.Database) gin.HandlerFunc {
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

		c.JSON(http.StatusOK, gin.H{"addresses": user.Addresses})
	}
}

func CreateUserAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/addresses"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondNotFound(c, "user not found")
			return
		}

		// first address is always the default; a flagged one demotes the rest
		makeDefault := req.IsDefault || len(user.Addresses) == 0
		if makeDefault {
			for i := range user.Addresses {
				user.Addresses[i].IsDefault = false
			}
		}

		address := models.Address{
			ID:        uuid.NewString(),
			Label:     strings.TrimSpace(req.Label),
			Line1:     strings.TrimSpace(req.Line1),
			Line2:     strings.TrimSpace(req.Line2),
			City:      strings.TrimSpace(req.City),
			State:     strings.TrimSpace(req.State),
			Pincode:   strings.TrimSpace(req.Pincode),
			Phone:     strings.TrimSpace(req.Phone),
			IsDefault: makeDefault,
		}

		user.Addresses = append(user.Addresses, address)

		if ok := saveUserAddresses(c, db, &user, route); !ok {
			return
		}

		log.WithField("addressId", address.ID).Info("[ADDRESS] address created")
		c.JSON(http.StatusCreated, gin.H{"address": address})
	}
}

func UpdateUserAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /user/addresses/:id"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		addressID := strings.TrimSpace(c.Param("id"))
		if addressID == "" {
			respondValidation(c, "invalid address id")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondNotFound(c, "user not found")
			return
		}

		index := -1
		for i, addr := range user.Addresses {
			if addr.ID == addressID {
				index = i
				break
			}
		}
		if index == -1 {
			respondNotFound(c, "address not found")
			return
		}

		if req.IsDefault {
			for i := range user.Addresses {
				user.Addresses[i].IsDefault = false
			}
		}

		user.Addresses[index] = models.Address{
			ID:        addressID,
			Label:     strings.TrimSpace(req.Label),
			Line1:     strings.TrimSpace(req.Line1),
			Line2:     strings.TrimSpace(req.Line2),
			City:      strings.TrimSpace(req.City),
			State:     strings.TrimSpace(req.State),
			Pincode:   strings.TrimSpace(req.Pincode),
			Phone:     strings.TrimSpace(req.Phone),
			IsDefault: req.IsDefault,
		}

		if ok := saveUserAddresses(c, db, &user, route); !ok {
			return
		}

		log.WithField("addressId", addressID).Info("[ADDRESS] address updated")
		c.JSON(http.StatusOK, gin.H{"address": user.Addresses[index]})
	}
}

func DeleteUserAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /user/addresses/:id"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		addressID := strings.TrimSpace(c.Param("id"))
		if addressID == "" {
			respondValidation(c, "invalid address id")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondNotFound(c, "user not found")
			return
		}

		updated := make([]models.Address, 0, len(user.Addresses))
		found := false
		removedDefault := false
		for _, addr := range user.Addresses {
			if addr.ID == addressID {
				found = true
				removedDefault = addr.IsDefault
				continue
			}
			updated = append(updated, addr)
		}
		if !found {
			respondNotFound(c, "address not found")
			return
		}

		// keep exactly one default around when the default was removed
		if removedDefault && len(updated) > 0 {
			updated[0].IsDefault = true
		}

		user.Addresses = updated
		if ok := saveUserAddresses(c, db, &user, route); !ok {
			return
		}

		log.WithField("addressId", addressID).Info("[ADDRESS] address deleted")
		c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
	}
}

// saveUserAddresses writes the address list back with a version check so a
// concurrent mutation of the same user surfaces as a conflict.
func saveUserAddresses(c *gin.Context, db *mongo.Database, user *models.User, route string) bool {
	ctx, cancel := storeContext(c)
	defer cancel()

	res, err := db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": user.ID, "version": user.Version},
		bson.M{
			"$set": bson.M{"addresses": user.Addresses, "updatedAt": time.Now()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return false
	}
	if res.MatchedCount == 0 {
		respondConflict(c, "user was modified concurrently, retry")
		return false
	}
	return true
}
