package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type authTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

/* =========================
   REGISTER / LOGIN
========================= */

func Register(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, route)

		var req registerRequest
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
		user := models.User{
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			PasswordHash: string(hash),
			Name:         strings.TrimSpace(req.Name),
			Phone:        strings.TrimSpace(req.Phone),
			Role:         models.RoleUser,
			Addresses:    []models.Address{},
			Cart:         []models.CartItem{},
			Wishlist:     []models.WishlistItem{},
			Version:      0,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondConflict(c, "email already registered")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		user.ID = res.InsertedID.(primitive.ObjectID)

		tokens, err := issueTokens(c, db, user.ID, user.Role, jwtSecret, accessTTL, refreshTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token error")
			return
		}

		log.WithField("userId", user.ID.Hex()).Info("[AUTH] user registered")
		c.JSON(http.StatusCreated, gin.H{
			"user":   gin.H{"id": user.ID.Hex(), "email": user.Email, "name": user.Name},
			"tokens": tokens,
		})
	}
}

func Login(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, route)

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{
			"email": strings.ToLower(strings.TrimSpace(req.Email)),
		}).Decode(&user)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		tokens, err := issueTokens(c, db, user.ID, user.Role, jwtSecret, accessTTL, refreshTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token error")
			return
		}

		log.WithField("userId", user.ID.Hex()).Info("[AUTH] user logged in")
		c.JSON(http.StatusOK, gin.H{
			"user":   gin.H{"id": user.ID.Hex(), "email": user.Email, "name": user.Name, "role": user.Role},
			"tokens": tokens,
		})
	}
}

/* =========================
   REFRESH / LOGOUT
========================= */

func Refresh(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/refresh"
		defer handlePanic(c, route)

		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		tokenHash := hashToken(req.RefreshToken)

		var stored models.RefreshToken
		err := db.Collection("refresh_tokens").FindOne(ctx, bson.M{
			"tokenHash": tokenHash,
			"revoked":   false,
			"expiresAt": bson.M{"$gt": time.Now()},
		}).Decode(&stored)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": stored.UserID}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		tokens, err := issueTokens(c, db, user.ID, user.Role, jwtSecret, accessTTL, refreshTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token error")
			return
		}

		// rotate: the old token is revoked and points at its replacement
		_, err = db.Collection("refresh_tokens").UpdateByID(ctx, stored.ID, bson.M{
			"$set": bson.M{"revoked": true},
		})
		if err != nil {
			log.WithError(err).Warn("[AUTH] refresh token revoke failed")
		}

		c.JSON(http.StatusOK, gin.H{"tokens": tokens})
	}
}

func Logout(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/logout"
		defer handlePanic(c, route)

		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		_, err := db.Collection("refresh_tokens").UpdateOne(ctx,
			bson.M{"tokenHash": hashToken(req.RefreshToken)},
			bson.M{"$set": bson.M{"revoked": true}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

/* =========================
   TOKEN HELPERS
========================= */

func issueTokens(c *gin.Context, db *mongo.Database, userID primitive.ObjectID, role, secret string, accessTTL, refreshTTL time.Duration) (authTokens, error) {
	access, err := signAccessToken(userID, role, secret, accessTTL)
	if err != nil {
		return authTokens{}, err
	}

	refresh, err := newOpaqueToken()
	if err != nil {
		return authTokens{}, err
	}

	ctx, cancel := storeContext(c)
	defer cancel()

	_, err = db.Collection("refresh_tokens").InsertOne(ctx, models.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(refresh),
		ExpiresAt: time.Now().Add(refreshTTL),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return authTokens{}, err
	}

	return authTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(accessTTL.Seconds()),
	}, nil
}

func signAccessToken(userID primitive.ObjectID, role, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"role":   role,
		"exp":    time.Now().Add(ttl).Unix(),
		"iat":    time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func newOpaqueToken() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
