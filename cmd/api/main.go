package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-shop-api/internal/handler"
	"go-shop-api/internal/middleware"
	"go-shop-api/internal/model"
	"go-shop-api/internal/repository"
	"go-shop-api/internal/service"
	"go-shop-api/internal/ws"
	"go-shop-api/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductVariation{},
		&model.ProductImage{},
		&model.Order{},
		&model.OrderItem{},
	)

	// 3. Seed default admin user
	seedAdmin(db)

	// 4. Setup WebSocket Hub for the admin order feed
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)

	authService := service.NewAuthService(userRepo)
	catalogService := service.NewCatalogService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo, db)
	orderService := service.NewOrderService(orderRepo, db, wsHub)

	authHandler := handler.NewAuthHandler(authService)
	categoryHandler := handler.NewCategoryHandler(catalogService)
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Shop API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.RequireAuth(userRepo), authHandler.Me)

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Category read paths
	protected.Get("/categories", categoryHandler.GetCategories)
	protected.Get("/categories/tree", categoryHandler.GetTree)
	protected.Get("/categories/:id", categoryHandler.GetCategory)

	// Category write paths (admin)
	protected.Post("/categories", middleware.RequireAdmin(), categoryHandler.CreateCategory)
	protected.Put("/categories/:id", middleware.RequireAdmin(), categoryHandler.UpdateCategory)
	protected.Delete("/categories/:id", middleware.RequireAdmin(), categoryHandler.DeleteCategory)
	protected.Post("/categories/:id/image", middleware.RequireAdmin(), categoryHandler.UploadImage)

	// Product read paths
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/search", productHandler.SearchProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Get("/products/:id/variations", productHandler.GetVariations)

	// Product write paths (admin)
	protected.Post("/products", middleware.RequireAdmin(), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequireAdmin(), productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequireAdmin(), productHandler.DeleteProduct)
	protected.Post("/products/:id/images", middleware.RequireAdmin(), productHandler.UploadImage)

	// Orders
	protected.Get("/orders", orderHandler.GetOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Put("/orders/:id", middleware.RequireAdmin(), orderHandler.UpdateOrder)
	protected.Get("/orders/:id/total", orderHandler.GetOrderTotal)
	protected.Get("/orders/:id/status", orderHandler.GetOrderStatus)

	// WebSocket Route (admin order feed). Events carry cross-user order
	// data, so the upgrade requires an admin token.
	app.Use("/ws", middleware.RequireAuthWS(userRepo), middleware.RequireAdmin(), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdmin creates the default admin account if it doesn't exist yet
func seedAdmin(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := &model.User{
		Email:    email,
		FullName: "Administrator",
		IsActive: true,
		Role:     model.RoleAdmin,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Printf("Admin user created: %s", email)
	}
}
