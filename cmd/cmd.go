package cmd

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"babysteps-backend/internal/config"
	"babysteps-backend/internal/email"
	"babysteps-backend/internal/handlers"
	"babysteps-backend/internal/middleware"
	"babysteps-backend/internal/migrations"
	"babysteps-backend/internal/repository"
	"babysteps-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Run migrations
	if err := runMigrations(cfg.Database.DSN()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	babyRepo := repository.NewBabyRepository(db)
	stepRepo := repository.NewStepRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	descRepo := repository.NewDescriptionRepository(db)

	// Initialize services
	storageService, err := services.NewStorageService(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage service")
	}
	sessionService := services.NewSessionService(sessionRepo, userRepo)
	babyService := services.NewBabyService(babyRepo, stepRepo, descRepo, storageService)
	stepService := services.NewStepService(stepRepo, babyRepo, locationRepo, descRepo, storageService)
	descService := services.NewDescriptionService(descRepo, babyRepo)
	locationService := services.NewLocationService(locationRepo)
	uploadQueueService := services.NewUploadQueueService(storageService)
	placesService := services.NewPlacesService(cfg.Places.APIKey, cfg.Server.AppURL)
	mailerService := services.NewMailerService(
		email.NewClient(cfg.Email.APIKey, cfg.Email.From),
		cfg.Auth.TokenSecret,
		cfg.Server.AppURL,
	)

	// Initialize handlers
	userHandler := handlers.NewUserHandler()
	authHandler := handlers.NewAuthHandler(mailerService, userRepo)
	babyHandler := handlers.NewBabyHandler(babyService)
	stepHandler := handlers.NewStepHandler(stepService)
	descHandler := handlers.NewDescriptionHandler(descService)
	locationHandler := handlers.NewLocationHandler(locationService)
	placesHandler := handlers.NewPlacesHandler(placesService)
	uploadHandler := handlers.NewUploadHandler(storageService, uploadQueueService, babyService, stepService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/forgot-password", authHandler.ForgotPassword)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(sessionService))

			r.Get("/me", userHandler.Me)
			r.Post("/auth/send-verification", authHandler.SendVerification)

			r.Get("/babies", babyHandler.ListBabies)
			r.Post("/babies", babyHandler.CreateBaby)
			r.Get("/babies/current", babyHandler.GetCurrentBaby)
			r.Post("/babies/{baby_id}/switch", babyHandler.SwitchBaby)
			r.Patch("/babies/{baby_id}", babyHandler.UpdateBaby)
			r.Delete("/babies/{baby_id}", babyHandler.DeleteBaby)

			r.Get("/babies/{baby_id}/steps", stepHandler.ListSteps)
			r.Get("/babies/{baby_id}/heatmap", stepHandler.Heatmap)
			r.Post("/steps", stepHandler.CreateStep)
			r.Post("/steps/bulk", stepHandler.CreateBulkSteps)
			r.Delete("/steps/{step_id}", stepHandler.DeleteStep)

			r.Get("/babies/{baby_id}/descriptions/{date}", descHandler.GetDescription)
			r.Put("/babies/{baby_id}/descriptions/{date}", descHandler.UpsertDescription)

			r.Get("/locations", locationHandler.ListLocations)
			r.Post("/locations", locationHandler.CreateLocation)
			r.Delete("/locations/{location_id}", locationHandler.DeleteLocation)

			r.Post("/upload", uploadHandler.Upload)
			r.Post("/babies/{baby_id}/upload-batch", uploadHandler.UploadBatch)

			r.Post("/places/autocomplete", placesHandler.Autocomplete)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // media uploads
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// runMigrations applies the embedded goose migrations
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(context.Background(), db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
