package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"medverify/config"
	"medverify/database"
	"medverify/handlers"
	"medverify/middleware"
	"medverify/store"
	"medverify/uploads"
	"medverify/utils"
	"medverify/verification"
	"medverify/verifier"
)

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	config.ValidateConfig(cfg)

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	if err := utils.InitializeJWT(cfg.JWTSecret); err != nil {
		logger.Fatal("Failed to initialize JWT", zap.Error(err))
	}

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	files, err := uploads.NewDiskStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal("Failed to initialize upload storage", zap.Error(err))
	}

	svc := verification.NewService(
		store.NewGormRequestStore(db),
		files,
		verifier.NewStubVerifiers(),
		logger,
	)

	h := handlers.NewHandlers(db, svc, cfg, logger)

	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.CORS)
	r.Use(middleware.NewRateLimiter(10, 50).Middleware)
	r.Use(middleware.RequestLogging(logger))

	// Public routes
	r.HandleFunc("/api/register", h.Register).Methods("POST")
	r.HandleFunc("/api/token", h.Token).Methods("POST")
	r.HandleFunc("/api/health", h.HealthCheck).Methods("GET")

	// Protected routes
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.JWTAuth)

	protected.HandleFunc("/me", h.Me).Methods("GET")

	// Verification request routes
	protected.HandleFunc("/requests", h.CreateRequest).Methods("POST")
	protected.HandleFunc("/requests", h.ListRequests).Methods("GET")
	protected.HandleFunc("/requests/{id:[0-9]+}", h.GetRequest).Methods("GET")
	protected.HandleFunc("/requests/{id:[0-9]+}/status", h.UpdateStatus).Methods("PUT")
	protected.HandleFunc("/requests/{id:[0-9]+}/{kind:id-card|face|work-badge|bank-card}", h.UpdateArtifact).Methods("PUT")

	// Artifact upload routes
	protected.HandleFunc("/{kind:id-card|face|work-badge|bank-card}/{id:[0-9]+}", h.UploadArtifact).Methods("POST")

	// Statistics
	protected.HandleFunc("/stats", h.GetStats).Methods("GET")

	// Admin routes
	adminRoutes := protected.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AdminAuth)
	adminRoutes.HandleFunc("/audit-logs", h.GetAuditLogs).Methods("GET")
	adminRoutes.HandleFunc("/users", h.GetAllUsers).Methods("GET")

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	logger.Info("Server starting",
		zap.String("port", port),
		zap.String("environment", cfg.Environment),
		zap.String("database", cfg.DatabaseURL))
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
