package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caloriecam/config"
	"caloriecam/controllers"
	"caloriecam/routes"
	"caloriecam/services"
	"caloriecam/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// backend is what a storage backend must provide.
type backend interface {
	services.Store
	services.UserRepository
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	log := utils.NewLogger(cfg.App.LogLevel, cfg.IsDevelopment())
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("open storage")
	}

	estimator, err := buildEstimator(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("set up calorie estimator")
	}

	var uploader controllers.ImageUploader
	if cfg.AWS.S3Bucket != "" {
		u, err := utils.NewImageUploader(ctx, cfg.AWS.S3Region, cfg.AWS.S3Bucket, cfg.AWS.CloudFrontURL)
		if err != nil {
			log.WithError(err).Fatal("set up S3 uploader")
		}
		uploader = u
	} else {
		log.Info("S3_BUCKET not set, meal photos are not stored")
	}

	hub := services.NewRealtimeHub(log)
	loc := cfg.Location()
	logSvc := services.NewLogService(store, log, loc, cfg.App.RetentionDays, services.WithPublisher(hub))
	adviceSvc := services.NewAdviceService(store, logSvc, hub, log)
	authSvc := services.NewAuthService(store, cfg.JWT.Secret, cfg.JWT.TTL, log)

	router := routes.SetupRouter(routes.Dependencies{
		Log:       log,
		JWTSecret: cfg.JWT.Secret,
		Auth:      controllers.NewAuthController(authSvc, log),
		Profile:   controllers.NewProfileController(store, log),
		Meals:     controllers.NewMealController(estimator, logSvc, uploader, log),
		Logs:      controllers.NewLogController(logSvc, services.NewExportService(loc), log),
		Advice:    controllers.NewAdviceController(adviceSvc, log),
		Realtime:  controllers.NewRealtimeController(hub, cfg.App.CORSOrigins, log),
	})

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.App.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"*"},
	}).Handler(router)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("port", cfg.App.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	log.Info("server stopped")
}

func openStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (backend, error) {
	switch cfg.Storage.Backend {
	case "sheets":
		store, err := services.NewSheetsStore(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID)
		if err != nil {
			return nil, err
		}
		if err := store.TestConnection(ctx); err != nil {
			return nil, err
		}
		log.Info("using Google Sheets storage")
		return store, nil
	default:
		db, err := config.InitDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		log.Info("using postgres storage")
		return services.NewGormStore(db), nil
	}
}

func buildEstimator(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (services.Estimator, error) {
	var est services.Estimator
	backendName := cfg.Estimator.Backend
	switch backendName {
	case "rekognition":
		rek, err := services.NewRekognitionService(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		edamam := services.NewEdamamService(cfg.Edamam.FoodAppID, cfg.Edamam.FoodAppKey,
			cfg.Edamam.NutriAppID, cfg.Edamam.NutriAppKey, "")
		est = services.NewLabelEstimator(rek, edamam, log)
	default:
		if cfg.Estimator.GeminiAPIKey == "" {
			log.Warn("GEMINI_API_KEY not set, image analysis will fail")
		}
		gemini, err := services.NewGeminiService(ctx, cfg.Estimator.GeminiAPIKey, cfg.Estimator.GeminiModel, cfg.Estimator.GeminiEndpoint)
		if err != nil {
			return nil, err
		}
		est = gemini
	}
	est = services.NewInstrumentedEstimator(est, backendName, log)

	rdb, err := config.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		// the cache is optional; analyses just go uncached
		log.WithError(err).Warn("redis unavailable, estimation cache disabled")
		return est, nil
	}
	if rdb == nil {
		return est, nil
	}
	return services.NewCachedEstimator(est, rdb, cfg.Redis.CacheTTL, log), nil
}
