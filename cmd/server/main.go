// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/athenaai/go-tutor/internal/config"
	"github.com/athenaai/go-tutor/internal/domain"
	"github.com/athenaai/go-tutor/internal/handlers"
	"github.com/athenaai/go-tutor/internal/middleware"
	"github.com/athenaai/go-tutor/internal/ratelimit"
	doubtrepo "github.com/athenaai/go-tutor/internal/repository/doubt"
	messagerepo "github.com/athenaai/go-tutor/internal/repository/message"
	userrepo "github.com/athenaai/go-tutor/internal/repository/user"
	"github.com/athenaai/go-tutor/internal/services"
	"github.com/athenaai/go-tutor/internal/services/ai"
	"github.com/athenaai/go-tutor/internal/services/doubts"
	"github.com/athenaai/go-tutor/internal/services/image"
	"github.com/athenaai/go-tutor/internal/services/user_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Doubt{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := userrepo.NewGormUserRepository(db)
	doubtRepo := doubtrepo.NewDoubtRepository(db)
	messageRepo := messagerepo.NewMessageRepository(db)

	// --- Services ---
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.OpenRouterAPIKey
	aiConfig.Model = cfg.Model
	aiConfig.SiteURL = cfg.SiteURL
	aiConfig.SiteName = cfg.SiteName
	if err := aiConfig.Validate(); err != nil {
		log.Fatalf("FATAL: AI configuration invalid: %v", err)
	}
	aiService := services.NewAIService(ai.NewOpenRouterProvider(aiConfig), aiConfig)

	imageConfig := image.DefaultConfig()
	imageConfig.APIKey = cfg.ClipdropAPIKey
	if err := imageConfig.Validate(); err != nil {
		log.Fatalf("FATAL: image configuration invalid: %v", err)
	}
	imageService := services.NewImageService(image.NewClipdropProvider(imageConfig), imageConfig)

	authService := user_services.NewAuthService(userRepo, cfg.JWTSecretKey, services.NewLogger("auth"))

	store, err := doubts.NewStoreAdapter(doubtRepo, messageRepo, services.NewLogger("doubts"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize doubt store: %v", err)
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, userRepo)
	aiHandler := handlers.NewAIHandler(aiService, imageService)
	doubtHandler := handlers.NewDoubtHandler(store)
	sessionHandler := handlers.NewSessionHandler(store, aiService, imageService, services.NewLogger("session"))

	// --- Rate Limiters ---
	authLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAuthConfig())
	askLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.AskConfig())
	defer authLimiter.Close()
	defer askLimiter.Close()

	authLimit := middleware.RateLimitMiddleware(authLimiter, "auth")
	authSuccess := middleware.AuthSuccessMiddleware(authLimiter, "auth")
	askLimit := middleware.RateLimitMiddleware(askLimiter, "ask")

	optionalAuth := middleware.OptionalAuth(authService)
	requireAuth := middleware.RequireAuth(authService)

	// --- Router Setup ---
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	// --- Auth Routes ---
	r.Handle("/api/auth/register", authLimit(http.HandlerFunc(authHandler.Register))).Methods("POST")
	r.Handle("/api/auth/login", authLimit(authSuccess(http.HandlerFunc(authHandler.Login)))).Methods("POST")
	r.HandleFunc("/api/auth/logout", authHandler.Logout).Methods("POST")
	r.Handle("/api/auth/me", requireAuth(http.HandlerFunc(authHandler.Me))).Methods("GET")

	// --- Stateless AI Routes ---
	r.Handle("/api/ask", askLimit(http.HandlerFunc(aiHandler.AskDoubt))).Methods("POST")
	r.Handle("/api/ask/stream", askLimit(http.HandlerFunc(aiHandler.StreamDoubt))).Methods("POST")
	r.Handle("/api/image/generate-image", askLimit(http.HandlerFunc(aiHandler.GenerateImage))).Methods("POST")
	r.HandleFunc("/api/status", aiHandler.ProviderStatus).Methods("GET")

	// --- Session Routes (anonymous use allowed) ---
	sessionRoutes := r.PathPrefix("/api/session").Subrouter()
	sessionRoutes.Use(optionalAuth)
	sessionRoutes.HandleFunc("/history", sessionHandler.History).Methods("GET")
	sessionRoutes.HandleFunc("/active", sessionHandler.Active).Methods("GET")
	sessionRoutes.HandleFunc("/select", sessionHandler.Select).Methods("POST")
	sessionRoutes.Handle("/send", askLimit(http.HandlerFunc(sessionHandler.Send))).Methods("POST")
	sessionRoutes.HandleFunc("/new", sessionHandler.Create).Methods("POST")
	sessionRoutes.HandleFunc("/{id}", sessionHandler.Delete).Methods("DELETE")

	// --- Doubt History Routes (account required) ---
	doubtRoutes := r.PathPrefix("/api/doubts").Subrouter()
	doubtRoutes.Use(requireAuth)
	doubtRoutes.HandleFunc("", doubtHandler.ListDoubts).Methods("GET")
	doubtRoutes.HandleFunc("", doubtHandler.CreateDoubt).Methods("POST")
	doubtRoutes.HandleFunc("/{id:[0-9]+}", doubtHandler.GetDoubt).Methods("GET")
	doubtRoutes.HandleFunc("/{id:[0-9]+}", doubtHandler.UpdateDoubt).Methods("PUT")
	doubtRoutes.HandleFunc("/{id:[0-9]+}", doubtHandler.DeleteDoubt).Methods("DELETE")

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("AthenaAI tutor backend starting on port %s", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
