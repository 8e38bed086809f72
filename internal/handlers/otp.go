package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/otp"
)

type otpRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type otpVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// RequestOTP issues a verification code for the given address. Codes are
// rate limited per address; hitting the cap returns 429.
func RequestOTP(svc *otp.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/otp/request"
		defer handlePanic(c, route)

		var req otpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if err := svc.Issue(email); err != nil {
			if errors.Is(err, otp.ErrRateLimited) {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many codes requested, try later"})
				return
			}
			respondUpstream(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "code sent"})
	}
}

// VerifyOTP consumes a code and marks the matching account verified.
func VerifyOTP(db *mongo.Database, svc *otp.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/otp/verify"
		defer handlePanic(c, route)

		var req otpVerifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if err := svc.Verify(email, strings.TrimSpace(req.Code)); err != nil {
			respondValidation(c, "code is invalid or expired")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		_, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"email": email},
			bson.M{"$set": bson.M{"emailVerified": true, "updatedAt": time.Now()}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.WithField("email", email).Info("[AUTH] email verified")
		c.JSON(http.StatusOK, gin.H{"message": "email verified"})
	}
}
