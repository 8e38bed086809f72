package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/config"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/database"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/events"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/handlers"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/jobs"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/kvstore"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/mailer"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/metrics"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/middleware"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/otp"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/payments"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/shipments"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Warnf("user index warning: %v", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Warnf("product index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Warnf("order index warning: %v", err)
	}
	if err := database.EnsureBlogIndexes(db); err != nil {
		log.Warnf("blog index warning: %v", err)
	}
	if err := database.EnsurePartnerIndexes(db); err != nil {
		log.Warnf("partner index warning: %v", err)
	}

	store := kvstore.NewMemory()
	sweeper := jobs.NewStoreSweeperJob(store)
	if err := sweeper.Start(); err != nil {
		log.Fatal(err)
	}
	defer sweeper.Stop()

	var otpMailer mailer.Mailer = mailer.Log{}
	if config.AppEnv.SMTPAddr != "" {
		otpMailer = &mailer.SMTP{Addr: config.AppEnv.SMTPAddr, From: config.AppEnv.SMTPFrom}
	}
	otpService := otp.NewService(store, otpMailer)

	paymentClient := payments.NewClient(
		config.AppEnv.PaymentBaseURL,
		config.AppEnv.PaymentKeyID,
		config.AppEnv.PaymentKeySecret,
	)
	shipmentStub := shipments.NewStub("")
	hub := events.NewHub()

	checkout := handlers.CheckoutDeps{
		JWTSecret:             config.AppEnv.JWTSecret,
		Payments:              paymentClient,
		PaymentCurrency:       config.AppEnv.PaymentCurrency,
		ShippingFlatRate:      config.AppEnv.ShippingFlatRate,
		FreeShippingThreshold: config.AppEnv.FreeShippingThreshold,
		Hub:                   hub,
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppEnv.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(metrics.Middleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/events", handlers.StreamEvents(hub))

	r.POST("/auth/register", handlers.Register(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/login", handlers.Login(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/refresh", handlers.Refresh(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/logout", handlers.Logout(db))
	r.POST("/auth/otp/request", handlers.RequestOTP(otpService))
	r.POST("/auth/otp/verify", handlers.VerifyOTP(db, otpService))

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/:slug", handlers.GetProductBySlug(db))
	r.GET("/products/:slug/reviews", handlers.GetProductReviews(db))

	r.GET("/blogs", handlers.GetBlogs(db))
	r.GET("/blogs/:slug", handlers.GetBlogBySlug(db))
	r.POST("/blogs/:slug/comments", handlers.AddBlogComment(db))
	r.POST("/blogs/:slug/comments/:commentId/replies", handlers.AddBlogReply(db))

	r.POST("/contact", handlers.SubmitContact(db, hub))

	r.POST("/orders", handlers.CreateOrder(db, checkout))

	r.POST("/partner/login", handlers.PartnerLogin(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))

	user := r.Group("/user")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.GET("/me", handlers.GetMe(db))
		user.PUT("/me", handlers.UpdateProfile(db))

		user.GET("/addresses", handlers.GetUserAddresses(db))
		user.POST("/addresses", handlers.CreateUserAddress(db))
		user.PUT("/addresses/:id", handlers.UpdateUserAddress(db))
		user.DELETE("/addresses/:id", handlers.DeleteUserAddress(db))

		user.GET("/cart", handlers.GetCart(db))
		user.POST("/cart", handlers.AddToCart(db, hub))
		user.PUT("/cart/:productId", handlers.UpdateCartItem(db, hub))
		user.DELETE("/cart/:productId", handlers.RemoveFromCart(db, hub))
		user.DELETE("/cart", handlers.ClearCart(db, hub))
		user.PUT("/cart", handlers.SyncCart(db, hub))

		user.GET("/wishlist", handlers.GetWishlist(db))
		user.POST("/wishlist", handlers.AddToWishlist(db))
		user.DELETE("/wishlist/:productId", handlers.RemoveFromWishlist(db))

		user.POST("/products/:slug/reviews", handlers.AddProductReview(db))
		user.DELETE("/products/:slug/reviews", handlers.DeleteProductReview(db))

		user.GET("/orders", handlers.GetMyOrders(db))
		user.GET("/orders/:id", handlers.GetOrder(db))
		user.PUT("/orders/:id/cancel", handlers.CancelOrder(db, hub))
		user.GET("/orders/:id/shipment", handlers.GetShipment(db, shipmentStub))
	}

	partner := r.Group("/partner")
	partner.Use(middleware.PartnerAuth(config.AppEnv.JWTSecret))
	{
		partner.GET("/orders", handlers.GetAssignedOrders(db))
		partner.PUT("/orders/:id/delivery-status", handlers.UpdateDeliveryStatus(db, hub))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.GET("/products", handlers.GetAllProducts(db))
		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))

		admin.POST("/blogs", handlers.CreateBlog(db))
		admin.PUT("/blogs/:id", handlers.UpdateBlog(db))
		admin.DELETE("/blogs/:id", handlers.DeleteBlog(db))

		admin.GET("/contacts", handlers.GetContacts(db))
		admin.DELETE("/contacts/:id", handlers.DeleteContact(db))

		admin.GET("/partners", handlers.GetPartners(db))
		admin.POST("/partners", handlers.CreatePartner(db))
		admin.PUT("/partners/:id/status", handlers.UpdatePartnerStatus(db))
		admin.DELETE("/partners/:id", handlers.DeletePartner(db))

		admin.GET("/orders", handlers.GetOrders(db))
		admin.PUT("/orders/:id/assign", handlers.AssignOrder(db, hub))
		admin.PUT("/orders/:id/status", handlers.UpdateOrderStatus(db, hub))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
