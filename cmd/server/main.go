package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/arosaje/backend/internal/db"
	"github.com/arosaje/backend/internal/handlers"
	"github.com/arosaje/backend/internal/logger"
	"github.com/arosaje/backend/internal/notify"
	"github.com/arosaje/backend/internal/repositories"
	"github.com/arosaje/backend/internal/services"
)

// @title A'rosa-je API
// @version 1.0
// @description Plant care advice versioning and validation service
// @BasePath /api
func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	zlog, err := logger.New()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zlog.Sync()

	// Database connection
	config := db.NewConfig()
	database, err := db.Connect(config)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Health(); err != nil {
		zlog.Fatal("Database health check failed", zap.Error(err))
	}
	zlog.Info("Database connection established",
		zap.String("host", config.Host), zap.String("database", config.Name))

	// Notification channel: shoutrrr URLs when configured, log-only otherwise
	var notifier notify.Notifier
	if urls := os.Getenv("NOTIFY_URLS"); urls != "" {
		notifier, err = notify.NewShoutrrrNotifier(strings.Split(urls, ","), zlog)
		if err != nil {
			zlog.Fatal("Failed to configure notifications", zap.Error(err))
		}
		zlog.Info("Push notifications enabled")
	} else {
		notifier = notify.NewLogNotifier(zlog)
	}

	// Repositories
	adviceRepo := repositories.NewAdviceRepository(database)
	reviewRepo := repositories.NewReviewRepository(database)
	plantCareRepo := repositories.NewPlantCareRepository(database)
	userRepo := repositories.NewUserRepository(database)

	// Services
	adviceService := services.NewAdviceService(adviceRepo, plantCareRepo, userRepo, notifier, zlog)
	reviewService := services.NewReviewService(reviewRepo)

	// Router
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, corsMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		code := http.StatusOK
		if err := database.Health(); err != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{
			"status":  status,
			"service": "arosaje-backend",
		})
	}).Methods(http.MethodGet)

	adviceHandler := handlers.NewPlantCareAdviceHandler(adviceService, reviewService, zlog)
	adviceHandler.Register(r)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	zlog.Info("Server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, r); err != nil {
		zlog.Fatal("Server stopped", zap.Error(err))
	}
}

// requestIDMiddleware tags every request with an id for log correlation
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID, X-User-Role, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
