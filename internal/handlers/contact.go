package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/events"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
)

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// SubmitContact stores a contact-form message and notifies listeners.
func SubmitContact(db *mongo.Database, hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /contact"
		defer handlePanic(c, route)

		var req contactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		contact := models.Contact{
			Name:      strings.TrimSpace(req.Name),
			Email:     strings.ToLower(strings.TrimSpace(req.Email)),
			Phone:     strings.TrimSpace(req.Phone),
			Subject:   strings.TrimSpace(req.Subject),
			Message:   strings.TrimSpace(req.Message),
			CreatedAt: time.Now(),
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := db.Collection("contacts").InsertOne(ctx, contact)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		hub.Publish(events.ContactReceived, map[string]interface{}{
			"subject": contact.Subject,
		})

		log.WithField("email", contact.Email).Info("[CONTACT] message received")
		c.JSON(http.StatusCreated, gin.H{"id": res.InsertedID, "message": "message received"})
	}
}

func GetContacts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/contacts"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("contacts").Find(ctx, bson.M{}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		contacts := make([]models.Contact, 0)
		if err := cursor.All(ctx, &contacts); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, contacts)
	}
}

func DeleteContact(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/contacts/:id"
		defer handlePanic(c, route)

		contactID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := db.Collection("contacts").DeleteOne(ctx, bson.M{"_id": contactID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondNotFound(c, "contact not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "contact deleted"})
	}
}
