package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/pedishift/scheduler/config"
	"github.com/pedishift/scheduler/internal/handlers"
	"github.com/pedishift/scheduler/internal/middleware"
	"github.com/pedishift/scheduler/internal/repository"
	"github.com/pedishift/scheduler/internal/services/auth"
	"github.com/pedishift/scheduler/internal/services/notification"
	"github.com/pedishift/scheduler/internal/services/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Printf("Warning: Database ping failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Failed to parse Redis URL: %v, using defaults", err)
		redisOpts = &redis.Options{Addr: "localhost:6379", DB: 0}
	}
	redisClient := redis.NewClient(redisOpts)

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		log.Printf("Warning: Redis ping failed: %v", err)
	}
	defer redisClient.Close()

	jwtService, err := auth.NewJWTService(
		cfg.JWTSecret,
		cfg.JWTRefreshSecret,
		cfg.JWTAccessDuration,
		cfg.JWTRefreshDuration,
	)
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}

	smsService := notification.NewSMSService(&notification.SMSConfig{
		AccountSID:      cfg.TwilioAccountSID,
		AuthToken:       cfg.TwilioAuthToken,
		FromPhoneNumber: cfg.TwilioFromPhone,
	})
	if smsService.IsConfigured() {
		log.Println("[SMSService] Twilio configured, assignment notices enabled")
	} else {
		log.Println("[SMSService] Twilio not configured - assignment notices disabled")
	}
	notifier := notification.NewAssignmentNotifier(smsService)

	workerRepo := repository.NewWorkerRepository(db)

	schedulerService := scheduler.New(db, redisClient, notifier)

	scenarioHandler := handlers.NewScenarioHandler(schedulerService)
	workerHandler := handlers.NewWorkerHandler(workerRepo)
	healthHandler := handlers.NewHealthHandler(db, redisClient)

	router := gin.Default()

	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.SetJWTService(jwtService))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Detail)
		v1.GET("/health/summary", healthHandler.Summary)

		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			workers := protected.Group("/workers")
			{
				workers.GET("", workerHandler.List)
				workers.GET("/:id", workerHandler.GetByID)
			}

			scenarios := protected.Group("/scenarios")
			{
				scenarios.POST("/run", middleware.RequireRole("admin", "scheduler"), middleware.RunRateLimit(redisClient, cfg.RunRateLimit), scenarioHandler.Run)
				scenarios.GET("/:id", scenarioHandler.GetByID)
				scenarios.POST("/:id/publish", middleware.RequireRole("admin", "scheduler"), scenarioHandler.Publish)
				scenarios.POST("/:id/archive", middleware.RequireRole("admin", "scheduler"), scenarioHandler.Archive)
			}
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("pedishift API server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
