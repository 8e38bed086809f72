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

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type productCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Slug        string   `json:"slug"`
	SKU         string   `json:"sku"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	SaleEnabled bool     `json:"saleEnabled"`
	SalePrice   float64  `json:"salePrice"`
	Categories  []string `json:"categories"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock"`
	IsActive    *bool    `json:"isActive"`
}

type productUpdateRequest struct {
	Name        *string  `json:"name"`
	Slug        *string  `json:"slug"`
	SKU         *string  `json:"sku"`
	Price       *float64 `json:"price"`
	SaleEnabled *bool    `json:"saleEnabled"`
	SalePrice   *float64 `json:"salePrice"`
	Categories  []string `json:"categories"`
	Description *string  `json:"description"`
	Images      []string `json:"images"`
	Stock       *int     `json:"stock"`
	IsActive    *bool    `json:"isActive"`
}

// GetAllProducts lists every product for the admin view, soft-deleted
// ones included.
func GetAllProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/products"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("products").Find(ctx, bson.M{}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, products)
	}
}

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/products"
		defer handlePanic(c, route)

		var req productCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		if err := validateSaleFields(req.Price, req.SaleEnabled, req.SalePrice); err != nil {
			respondValidation(c, err.Error())
			return
		}

		slug := strings.TrimSpace(req.Slug)
		if slug == "" {
			slug = slugify(req.Name)
		}
		if slug == "" {
			respondValidation(c, "slug could not be derived from name")
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		now := time.Now()
		product := models.Product{
			Name:        strings.TrimSpace(req.Name),
			Slug:        slug,
			SKU:         strings.TrimSpace(req.SKU),
			Price:       req.Price,
			SaleEnabled: req.SaleEnabled,
			SalePrice:   req.SalePrice,
			Categories:  req.Categories,
			Description: strings.TrimSpace(req.Description),
			Images:      req.Images,
			Stock:       req.Stock,
			IsActive:    isActive,
			Reviews:     []models.Review{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondConflict(c, "slug or sku already in use")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.WithField("slug", slug).Info("[PRODUCT] product created")
		c.JSON(http.StatusCreated, gin.H{"id": res.InsertedID, "slug": slug})
	}
}

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/products/:id"
		defer handlePanic(c, route)

		productID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		var req productUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		var existing models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&existing); err != nil {
			if err == mongo.ErrNoDocuments {
				respondNotFound(c, "product not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		set := bson.M{"updatedAt": time.Now()}

		price := existing.Price
		if req.Price != nil {
			price = *req.Price
			set["price"] = price
		}
		saleEnabled := existing.SaleEnabled
		if req.SaleEnabled != nil {
			saleEnabled = *req.SaleEnabled
			set["saleEnabled"] = saleEnabled
			if !saleEnabled {
				set["salePrice"] = float64(0)
			}
		}
		salePrice := existing.SalePrice
		if req.SalePrice != nil {
			salePrice = *req.SalePrice
			set["salePrice"] = salePrice
		}
		if err := validateSaleFields(price, saleEnabled, salePrice); err != nil {
			respondValidation(c, err.Error())
			return
		}

		if req.Name != nil {
			set["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Slug != nil {
			set["slug"] = slugify(*req.Slug)
		}
		if req.SKU != nil {
			set["sku"] = strings.TrimSpace(*req.SKU)
		}
		if req.Categories != nil {
			set["categories"] = req.Categories
		}
		if req.Description != nil {
			set["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Images != nil {
			set["images"] = req.Images
		}
		if req.Stock != nil {
			set["stock"] = *req.Stock
		}
		if req.IsActive != nil {
			set["isActive"] = *req.IsActive
		}

		_, err := db.Collection("products").UpdateByID(ctx, productID, bson.M{"$set": set})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondConflict(c, "slug or sku already in use")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product updated"})
	}
}

// DeleteProduct soft-deletes so existing order snapshots keep resolving.
func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/products/:id"
		defer handlePanic(c, route)

		productID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		now := time.Now()
		res, err := db.Collection("products").UpdateByID(ctx, productID, bson.M{
			"$set": bson.M{
				"isDeleted": true,
				"isActive":  false,
				"deletedAt": now,
				"updatedAt": now,
			},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondNotFound(c, "product not found")
			return
		}

		log.WithField("productId", productID.Hex()).Info("[PRODUCT] product soft-deleted")
		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
