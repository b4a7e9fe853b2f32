package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"tickethub/internal/config"
	"tickethub/internal/database"
	"tickethub/internal/handlers"
	"tickethub/internal/middleware"
	"tickethub/internal/repositories"
	"tickethub/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	dbConfig := database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}

	db, err := database.NewConnection(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connection established")

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create session store
	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400, // matches the server-side session lifetime
		HttpOnly: true,
		Secure:   cfg.Server.Env == "production",
		SameSite: http.SameSiteLaxMode,
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)
	ticketRepo := repositories.NewTicketRepository(db.DB)
	promotionRepo := repositories.NewPromotionRepository(db.DB)
	couponRepo := repositories.NewCouponRepository(db.DB)
	pointRepo := repositories.NewPointRepository(db.DB)
	transactionRepo := repositories.NewTransactionRepository(db.DB)

	// Email goes through Resend when an API key is configured, otherwise the
	// log-only service keeps local development working without credentials.
	var emailService services.EmailService
	if cfg.Resend.APIKey != "" {
		emailService = services.NewResendEmailService(services.ResendConfig{
			APIKey:    cfg.Resend.APIKey,
			FromEmail: cfg.Resend.FromEmail,
			FromName:  cfg.Resend.FromName,
		})
	} else {
		emailService = services.NewLogEmailService()
		log.Println("RESEND_API_KEY not set, emails will be logged only")
	}

	// Initialize services
	pointsService := services.NewPointsService(pointRepo, userRepo)
	couponService := services.NewCouponService(couponRepo)
	referralService := services.NewReferralService(pointsService, couponService)
	authService := services.NewAuthService(userRepo, emailService, referralService, cfg.Referral.GrantOnVerify)
	userService := services.NewUserService(userRepo)
	eventService := services.NewEventService(eventRepo)
	settlementService := services.NewSettlementService(ticketRepo, eventRepo, promotionRepo, couponRepo, transactionRepo)
	dashboardService := services.NewDashboardService(db.DB)

	// Initialize middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authService, sessionStore)

	authHandler := handlers.NewAuthHandler(authService, authMiddleware)
	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService)
	transactionHandler := handlers.NewTransactionHandler(settlementService)
	pointHandler := handlers.NewPointHandler(pointsService)
	couponHandler := handlers.NewCouponHandler(couponService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Set up router
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(authMiddleware.LoadUser)

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/verify", authHandler.VerifyEmail)
			r.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})

		r.Route("/event", func(r chi.Router) {
			r.Get("/list", eventHandler.List)
			r.Get("/{id}", eventHandler.Get)
			r.With(authMiddleware.RequireOrganizer).Post("/create", eventHandler.Create)
		})

		r.Route("/transaction", func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Post("/create", transactionHandler.Create)
			r.Get("/mine", transactionHandler.ListMine)
			r.Get("/{id}", transactionHandler.Get)
		})

		r.Route("/point", func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Post("/redeem", pointHandler.Redeem)
			r.Get("/balance", pointHandler.Balance)
		})

		r.Route("/coupon", func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Get("/mine", couponHandler.ListMine)
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Get("/profile", userHandler.GetProfile)
			r.Put("/profile", userHandler.UpdateProfile)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(authMiddleware.RequireOrganizer)
			r.Get("/events", dashboardHandler.Events)
			r.Get("/registrations", dashboardHandler.Registrations)
			r.Get("/transactions", dashboardHandler.Transactions)
			r.Get("/revenue", dashboardHandler.Revenue)
		})
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on http://%s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
