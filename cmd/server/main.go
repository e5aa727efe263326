package main

import (
	"log"
	"time"

	"barba-negra-app/config"
	"barba-negra-app/internal/handler"
	"barba-negra-app/internal/loyalty"
	"barba-negra-app/internal/middleware"
	"barba-negra-app/internal/models"
	"barba-negra-app/pkg/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load Configuration
	config.LoadConfig()

	// 2. Connect to Database
	database.Connect()

	// 3. Auto-Migrate Models
	log.Println("Running migrations...")

	err := database.DB.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.LoginHistory{},
		&models.Client{},
		&models.Service{},
		&models.Product{},
		&models.StockEntry{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.LoyaltyCard{},
		&models.StampEvent{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations completed successfully.")

	// 3a. Seed Data
	database.SeedRolesAndAdmin()
	database.SeedBaseServices()

	// 4. Initialize Router
	r := gin.Default()

	r.Use(middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 5. Loyalty components
	loyaltyStore := loyalty.NewStore(database.DB, config.AppConfig.Loyalty.CardPrefix)
	loyaltyEngine := loyalty.NewEngine(database.DB, config.AppConfig.Loyalty.StampTarget)
	loyaltyHook := loyalty.NewHook(loyaltyStore, loyaltyEngine)

	// 6. Setup Routes
	authHandler := &handler.AuthHandler{}
	authRoutes := r.Group("/api/v1/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
	}

	userRoutes := r.Group("/api/v1/user")
	userRoutes.Use(middleware.AuthMiddleware())
	{
		userRoutes.PUT("/password", authHandler.ChangePassword)
	}

	adminHandler := &handler.AdminHandler{}
	adminRoutes := r.Group("/api/v1/admin")
	adminRoutes.Use(middleware.AuthMiddleware("admin"))
	{
		adminRoutes.POST("/employees", adminHandler.CreateEmployee)
		adminRoutes.GET("/employees", adminHandler.ListEmployees)
		adminRoutes.PUT("/employees/:id", adminHandler.UpdateEmployee)
		adminRoutes.PUT("/employees/:id/role", adminHandler.UpdateEmployeeRole)
		adminRoutes.PUT("/employees/:id/status", adminHandler.UpdateEmployeeStatus)
		adminRoutes.PUT("/employees/:id/password", adminHandler.ResetEmployeePassword)
		adminRoutes.GET("/login-history", adminHandler.GetLoginHistory)
		adminRoutes.GET("/dashboard", adminHandler.GetDashboardStats)
	}

	catalogHandler := &handler.CatalogHandler{}

	// Public Read (Authenticated)
	r.GET("/api/v1/catalog/services", middleware.AuthMiddleware(), catalogHandler.ListServices)
	r.GET("/api/v1/catalog/products", middleware.AuthMiddleware(), catalogHandler.ListProducts)

	// Protected Catalog Ops
	catalogRoutes := r.Group("/api/v1/catalog")
	catalogRoutes.Use(middleware.AuthMiddleware("admin", "manager"))
	{
		catalogRoutes.POST("/services", catalogHandler.CreateService)
		catalogRoutes.PUT("/services/:id/deactivate", catalogHandler.DeactivateService)
		catalogRoutes.POST("/products", catalogHandler.CreateProduct)
		catalogRoutes.POST("/stock", catalogHandler.AddStock)
		catalogRoutes.GET("/alerts", catalogHandler.GetLowStockAlerts)
	}

	clientsHandler := &handler.ClientsHandler{}
	clientRoutes := r.Group("/api/v1/clients")
	clientRoutes.Use(middleware.AuthMiddleware("biller", "barber", "manager", "admin"))
	{
		clientRoutes.POST("", clientsHandler.CreateClient)
		clientRoutes.GET("", clientsHandler.SearchClients)
		clientRoutes.GET("/:id", clientsHandler.GetClient)
		clientRoutes.PUT("/:id", clientsHandler.UpdateClient)
	}

	billingHandler := &handler.BillingHandler{Hook: loyaltyHook}
	billingRoutes := r.Group("/api/v1/billing")
	billingRoutes.Use(middleware.AuthMiddleware("biller", "barber", "manager", "admin"))
	{
		billingRoutes.POST("/facturas", billingHandler.CreateInvoice)
		billingRoutes.GET("/facturas", billingHandler.ListInvoices)
		billingRoutes.GET("/next-factura-no", billingHandler.GetNextInvoiceNo)
		billingRoutes.GET("/my-sales", billingHandler.MyTodaySales)
	}

	managerRoutes := r.Group("/api/v1/manager")
	managerRoutes.Use(middleware.AuthMiddleware("manager", "admin"))
	{
		managerRoutes.GET("/reports/sales", billingHandler.GetSalesReport)
	}

	// Loyalty card surface, kept at its historical paths for the frontend.
	loyaltyHandler := handler.NewLoyaltyHandler(loyaltyStore, loyaltyEngine)
	cardRoutes := r.Group("/tarjetas-fidelidad")
	cardRoutes.Use(middleware.AuthMiddleware("biller", "barber", "manager", "admin"))
	{
		cardRoutes.GET("", loyaltyHandler.ListCards)
		cardRoutes.POST("", loyaltyHandler.CreateCard)
		cardRoutes.GET("/cliente/:clienteId", loyaltyHandler.CardByClient)
		cardRoutes.POST("/:id/sello", loyaltyHandler.AddStamp)
		cardRoutes.POST("/:id/quitar-sello", loyaltyHandler.RemoveStamp)
		cardRoutes.GET("/:id/historial", loyaltyHandler.History)
		cardRoutes.DELETE("/:id", loyaltyHandler.DeleteCard)
	}

	publicHandler := &handler.PublicHandler{}
	publicRoutes := r.Group("/api/v1/public")
	{
		publicRoutes.GET("/site-info", publicHandler.GetSiteInfo)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 7. Start Server
	port := config.AppConfig.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
