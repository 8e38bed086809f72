package handlers

import (
	"errors"
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

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/events"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/metrics"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/orders"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/payments"
)

/* =========================
   REQUEST DTOs
========================= */

type createOrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type createOrderCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
	Note    string `json:"note"`
}

type createOrderRequest struct {
	Items         []createOrderItemRequest   `json:"items" binding:"required"`
	Customer      createOrderCustomerRequest `json:"customer" binding:"required"`
	PaymentMethod string                     `json:"paymentMethod" binding:"required"`
}

// CheckoutDeps bundles the collaborators the checkout flow touches.
type CheckoutDeps struct {
	JWTSecret             string
	Payments              *payments.Client
	PaymentCurrency       string
	ShippingFlatRate      float64
	FreeShippingThreshold float64
	Hub                   *events.Hub
}

/* =========================
   CREATE ORDER
========================= */

// CreateOrder checks out a cart: every line item is snapshotted from the
// live product inside a transaction that also decrements stock, so the
// order keeps its historical prices no matter what happens to the catalog
// afterwards.
func CreateOrder(db *mongo.Database, deps CheckoutDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}

		userID, err := userIDFromHeader(c.GetHeader("Authorization"), deps.JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		order, err := buildOrderFromRequest(req)
		if err != nil {
			respondValidation(c, err.Error())
			return
		}
		order.UserID = userID

		ctx, cancel := storeContext(c)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var orderID primitive.ObjectID
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			snapshotItems := make([]models.OrderItem, 0, len(order.Items))
			subtotal := 0.0

			for _, item := range order.Items {
				var product models.Product
				err := db.Collection("products").FindOne(
					sessCtx,
					bson.M{
						"_id":       item.ProductID,
						"isActive":  bson.M{"$ne": false},
						"isDeleted": bson.M{"$ne": true},
					},
				).Decode(&product)
				if err == mongo.ErrNoDocuments {
					return nil, productNotFoundError{ProductID: item.ProductID}
				}
				if err != nil {
					return nil, err
				}

				if product.Stock < item.Quantity {
					return nil, outOfStockError{
						ProductID: item.ProductID,
						Available: product.Stock,
						Requested: item.Quantity,
					}
				}

				unitPrice := effectiveProductPrice(product.Price, product.SaleEnabled, product.SalePrice)
				image := ""
				if len(product.Images) > 0 {
					image = product.Images[0]
				}
				snapshotItems = append(snapshotItems, models.OrderItem{
					ProductID: item.ProductID,
					Name:      product.Name,
					Price:     unitPrice,
					Quantity:  item.Quantity,
					Image:     image,
				})
				subtotal += unitPrice * float64(item.Quantity)

				filter := bson.M{
					"_id":       item.ProductID,
					"isDeleted": bson.M{"$ne": true},
					"stock":     bson.M{"$gte": item.Quantity},
				}
				update := bson.M{"$inc": bson.M{"stock": -item.Quantity}}

				res, err := db.Collection("products").UpdateOne(sessCtx, filter, update)
				if err != nil {
					return nil, err
				}
				if res.MatchedCount == 0 {
					return nil, outOfStockError{
						ProductID: item.ProductID,
						Available: product.Stock,
						Requested: item.Quantity,
					}
				}
			}

			order.Items = snapshotItems
			order.Subtotal = subtotal
			order.ShippingCost = shippingCost(subtotal, deps.ShippingFlatRate, deps.FreeShippingThreshold)
			order.Total = subtotal + order.ShippingCost

			res, err := db.Collection("orders").InsertOne(sessCtx, order)
			if err != nil {
				return nil, err
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				orderID = id
			}

			if userID != nil {
				_, err = db.Collection("users").UpdateByID(sessCtx, *userID, bson.M{
					"$push": bson.M{"orders": orderID},
				})
				if err != nil {
					return nil, err
				}
			}
			return nil, nil
		})
		if err != nil {
			var stockErr outOfStockError
			if errors.As(err, &stockErr) {
				c.JSON(http.StatusConflict, gin.H{
					"error":     "insufficient stock",
					"productId": stockErr.ProductID.Hex(),
					"available": stockErr.Available,
					"requested": stockErr.Requested,
				})
				return
			}
			var notFoundErr productNotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusNotFound, gin.H{
					"error":     "product not found",
					"productId": notFoundErr.ProductID.Hex(),
				})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		order.ID = orderID

		// online payments register the total with the gateway after the
		// order committed; a gateway failure leaves the order in payment
		// failed rather than rolling anything back
		var gatewayOrderID string
		if order.PaymentMethod == "online" {
			gateway, err := deps.Payments.CreateOrder(
				payments.MinorUnits(order.Total),
				deps.PaymentCurrency,
				orderID.Hex(),
			)
			if err != nil {
				markPaymentFailed(c, db, orderID)
				respondUpstream(c, route, err)
				return
			}
			gatewayOrderID = gateway.ID

			_, err = db.Collection("orders").UpdateByID(ctx, orderID, bson.M{
				"$set": bson.M{"paymentOrderId": gatewayOrderID},
			})
			if err != nil {
				log.WithError(err).Error("[ORDER] payment handle save failed")
			}
		}

		deps.Hub.Publish(events.OrderCreated, map[string]interface{}{
			"orderId": orderID.Hex(),
			"total":   order.Total,
		})
		metrics.OrdersTotal.WithLabelValues(string(orders.StatusPlaced)).Inc()

		if userID != nil {
			log.WithField("userId", userID.Hex()).Info("[ORDER] order created")
		} else {
			log.Info("[ORDER] guest order created")
		}

		c.JSON(http.StatusCreated, gin.H{
			"orderId":        orderID.Hex(),
			"total":          order.Total,
			"paymentOrderId": gatewayOrderID,
			"message":        "order created",
		})
	}
}

/* =========================
   READ / CANCEL
========================= */

// GetMyOrders lists the caller's own orders, newest first.
func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/orders"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": userID}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		list := make([]models.Order, 0)
		if err := cursor.All(ctx, &list); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

// GetOrder returns one order to its owner or to an admin.
func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/orders/:id"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		orderID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		order, ok := findOrder(c, db, orderID)
		if !ok {
			return
		}

		role, _ := c.Get("role")
		isAdmin := role == models.RoleAdmin
		if !isAdmin && (order.UserID == nil || *order.UserID != userID) {
			respondNotFound(c, "order not found")
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// CancelOrder is the single customer-initiated transition: placed orders
// cancel, everything else is rejected and left untouched.
func CancelOrder(db *mongo.Database, hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /user/orders/:id/cancel"
		defer handlePanic(c, route)

		userID, ok := contextUserID(c)
		if !ok {
			return
		}

		orderID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		order, ok := findOrder(c, db, orderID)
		if !ok {
			return
		}

		if order.UserID == nil || *order.UserID != userID {
			respondNotFound(c, "order not found")
			return
		}

		if err := orders.ValidateCustomerCancel(order.Status); err != nil {
			respondInvalidTransition(c, err)
			return
		}

		set := bson.M{"status": orders.StatusCancelled}
		if !saveOrderFields(c, db, order, set, route) {
			return
		}

		hub.Publish(events.OrderStatusChanged, map[string]interface{}{
			"orderId": orderID.Hex(),
			"status":  string(orders.StatusCancelled),
		})
		metrics.OrdersTotal.WithLabelValues(string(orders.StatusCancelled)).Inc()

		log.WithField("orderId", orderID.Hex()).Info("[ORDER] order cancelled by customer")
		c.JSON(http.StatusOK, gin.H{"message": "order cancelled", "status": orders.StatusCancelled})
	}
}

/* =========================
   HELPERS
========================= */

func buildOrderFromRequest(req createOrderRequest) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, errors.New("at least one item is required")
	}

	if req.PaymentMethod != "cod" && req.PaymentMethod != "online" {
		return models.Order{}, errors.New("invalid payment method")
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(item.ProductID))
		if err != nil {
			return models.Order{}, errors.New("invalid productId")
		}
		if item.Quantity <= 0 {
			return models.Order{}, errors.New("quantity must be greater than zero")
		}
		items = append(items, models.OrderItem{ProductID: productID, Quantity: item.Quantity})
	}

	return models.Order{
		Items: items,
		Customer: models.OrderCustomer{
			Name:    strings.TrimSpace(req.Customer.Name),
			Email:   strings.ToLower(strings.TrimSpace(req.Customer.Email)),
			Phone:   strings.TrimSpace(req.Customer.Phone),
			Address: strings.TrimSpace(req.Customer.Address),
			Note:    strings.TrimSpace(req.Customer.Note),
		},
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  models.PaymentStatusPending,
		Status:         orders.StatusPlaced,
		AssignedTo:     nil,
		DeliveryStatus: orders.DeliveryPending,
		Version:        0,
		CreatedAt:      time.Now(),
	}, nil
}

func shippingCost(subtotal, flatRate, freeThreshold float64) float64 {
	if freeThreshold > 0 && subtotal >= freeThreshold {
		return 0
	}
	return flatRate
}

func markPaymentFailed(c *gin.Context, db *mongo.Database, orderID primitive.ObjectID) {
	ctx, cancel := storeContext(c)
	defer cancel()

	_, err := db.Collection("orders").UpdateByID(ctx, orderID, bson.M{
		"$set": bson.M{"paymentStatus": models.PaymentStatusFailed},
	})
	if err != nil {
		log.WithError(err).Error("[ORDER] payment status update failed")
	}
}

func userIDFromHeader(header, secret string) (*primitive.ObjectID, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.New("invalid token format")
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userIDValue, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userIDValue) == "" {
		return nil, errors.New("userId claim missing")
	}

	userID, err := primitive.ObjectIDFromHex(userIDValue)
	if err != nil {
		return nil, errors.New("invalid userId")
	}

	return &userID, nil
}

type outOfStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e outOfStockError) Error() string {
	return "product out of stock"
}

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}
