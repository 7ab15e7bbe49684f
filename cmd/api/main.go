package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-invoicehub/internal/ai"
	"go-invoicehub/internal/config"
	"go-invoicehub/internal/handler"
	"go-invoicehub/internal/mailer"
	"go-invoicehub/internal/middleware"
	"go-invoicehub/internal/model"
	"go-invoicehub/internal/pdf"
	"go-invoicehub/internal/repository"
	"go-invoicehub/internal/service"
	"go-invoicehub/internal/storage"
	"go-invoicehub/internal/ws"
	"go-invoicehub/pkg/database"
	"go-invoicehub/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 2. Setup Database
	db := database.ConnectDB(cfg)
	db.AutoMigrate(
		&model.User{},
		&model.Admin{},
		&model.Product{},
		&model.Customer{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.Complaint{},
	)

	// 3. Seed default admin account
	seedAdmin(db, cfg, logger)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(logger)
	go wsHub.Run()

	// 5. Collaborators
	tokens := jwt.NewManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
	mail := mailer.NewSMTP(cfg)
	renderer := pdf.NewRenderer()
	generator := ai.NewOpenAIGenerator(cfg, logger)
	store, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal("failed to init upload storage", zap.Error(err))
	}

	// 6. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	adminRepo := repository.NewAdminRepo(db)
	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)
	complaintRepo := repository.NewComplaintRepo(db)

	authService := service.NewAuthService(userRepo, tokens, mail, logger)
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo, store, wsHub, logger)
	customerService := service.NewCustomerService(customerRepo)
	invoiceService := service.NewInvoiceService(db, invoiceRepo, productRepo, customerRepo, userRepo, renderer, mail, wsHub, logger)
	dashboardService := service.NewDashboardService(invoiceRepo, productRepo, customerRepo)
	reportService := service.NewReportService(invoiceRepo)
	insightService := service.NewInsightService(generator, userRepo, invoiceRepo, productRepo, customerRepo, logger)
	complaintService := service.NewComplaintService(complaintRepo, store, logger)
	adminService := service.NewAdminService(adminRepo, userRepo, complaintRepo, tokens)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService)
	customerHandler := handler.NewCustomerHandler(customerService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, reportService)
	insightHandler := handler.NewInsightHandler(insightService)
	complaintHandler := handler.NewComplaintHandler(complaintService)
	adminHandler := handler.NewAdminHandler(adminService)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "InvoiceHub v1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// Uploaded product images and complaint screenshots
	app.Static("/uploads", cfg.UploadDir)

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/resend-otp", authHandler.ResendOTP)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/logout", middleware.RequireAuth(tokens), authHandler.Logout)
	auth.Post("/change-password", middleware.RequireAuth(tokens), authHandler.ChangePassword)

	api.Get("/users/check-username", userHandler.CheckUsername)
	api.Post("/admin/login", adminHandler.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(tokens))

	protected.Get("/users/me", userHandler.GetProfile)
	protected.Put("/users/me", userHandler.UpdateAccount)
	protected.Delete("/users/me", userHandler.DeleteAccount)

	protected.Get("/products", productHandler.GetAll)
	protected.Post("/products", productHandler.Create)
	protected.Get("/products/:id", productHandler.GetByID)
	protected.Put("/products/:id", productHandler.Update)
	protected.Delete("/products/:id", productHandler.Delete)

	protected.Get("/customers", customerHandler.GetAll)
	protected.Post("/customers", customerHandler.Create)
	protected.Get("/customers/:id", customerHandler.GetByID)
	protected.Put("/customers/:id", customerHandler.Update)
	protected.Delete("/customers/:id", customerHandler.Delete)

	protected.Get("/invoices", invoiceHandler.GetAll)
	protected.Post("/invoices", invoiceHandler.Create)
	protected.Get("/invoices/:id", invoiceHandler.GetByID)
	protected.Patch("/invoices/:id/status", invoiceHandler.UpdateStatus)
	protected.Post("/invoices/:id/remind", invoiceHandler.SendReminder)
	protected.Get("/invoices/:id/download", invoiceHandler.Download)
	protected.Get("/invoices/:id/view", invoiceHandler.View)

	protected.Get("/dashboard", dashboardHandler.GetDashboard)
	protected.Get("/reports", dashboardHandler.GetReport)

	protected.Get("/ai/insights", insightHandler.GetInsights)
	protected.Post("/ai/chat", insightHandler.Chat)

	protected.Get("/complaints", complaintHandler.GetMine)
	protected.Post("/complaints", complaintHandler.Submit)

	// Admin routes
	admin := api.Group("/admin", middleware.RequireAuth(tokens), middleware.RequireAdmin())
	admin.Get("/users", adminHandler.ListUsers)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
	admin.Get("/complaints", adminHandler.ListComplaints)
	admin.Patch("/complaints/:id", adminHandler.UpdateComplaint)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
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

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdmin creates the default support admin if it doesn't exist.
func seedAdmin(db *gorm.DB, cfg *config.Config, logger *zap.Logger) {
	if cfg.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	adminRepo := repository.NewAdminRepo(db)
	if _, err := adminRepo.FindByEmail(cfg.AdminEmail); err == nil {
		return
	}

	admin := &model.Admin{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
	}
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		logger.Warn("failed to hash admin password", zap.Error(err))
		return
	}
	if err := adminRepo.Create(admin); err != nil {
		logger.Warn("failed to create admin account", zap.Error(err))
		return
	}
	logger.Info("admin account created", zap.String("email", cfg.AdminEmail))
}
