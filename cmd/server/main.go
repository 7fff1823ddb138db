package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/photo-gallery/adapters/event"
	httpAdapter "github.com/khoahotran/photo-gallery/adapters/http"
	"github.com/khoahotran/photo-gallery/adapters/media_storage"
	"github.com/khoahotran/photo-gallery/adapters/persistence"
	authUC "github.com/khoahotran/photo-gallery/internal/application/usecase/auth"
	photoUC "github.com/khoahotran/photo-gallery/internal/application/usecase/photo"
	"github.com/khoahotran/photo-gallery/internal/config"
	"github.com/khoahotran/photo-gallery/pkg/auth"
	"github.com/khoahotran/photo-gallery/pkg/logger"
)

func main() {
	fmt.Println("Start Photo Gallery API Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Redis: %v", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot init Kafka: %v", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	photoRepo := persistence.NewPostgresPhotoRepo(dbPool, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	uploader, err := media_storage.NewCloudinaryAdapter(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize uploader: %v", err)
	}
	uploadLimiter := persistence.NewRedisRateLimiter(redisClient, cfg.Upload.RateLimit, cfg.Upload.RateWindow)

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	addPhotoUseCase := photoUC.NewAddPhotoUseCase(photoRepo, uploader, uploadLimiter, kafkaClient, appLogger)
	setMainPhotoUseCase := photoUC.NewSetMainPhotoUseCase(photoRepo, kafkaClient, appLogger)
	deletePhotoUseCase := photoUC.NewDeletePhotoUseCase(photoRepo, uploader, kafkaClient, appLogger)
	updatePhotoUseCase := photoUC.NewUpdatePhotoUseCase(photoRepo)
	galleryViewUseCase := photoUC.NewGalleryViewUseCase(photoRepo)

	// HTTP Handlers
	authHandler := httpAdapter.NewAuthHandler(loginUseCase)
	photoHandler := httpAdapter.NewPhotoHandler(
		addPhotoUseCase,
		setMainPhotoUseCase,
		deletePhotoUseCase,
		updatePhotoUseCase,
		galleryViewUseCase,
		appLogger,
	)

	// Middleware
	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc)
	errorMiddleware := httpAdapter.ErrorMiddleware(appLogger)

	// Setup Gin router
	router := gin.Default()
	router.Use(errorMiddleware)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "UP"}) })
		api.POST("/auth/login", authHandler.Login)

		me := api.Group("/me")
		me.Use(authMiddleware)
		{
			photos := me.Group("/photos")
			{
				photos.POST("", photoHandler.AddPhoto)
				photos.GET("", photoHandler.GetGallery)
				photos.PUT("/:id/main", photoHandler.SetMainPhoto)
				photos.PUT("/:id", photoHandler.UpdatePhoto)
				photos.DELETE("/:id", photoHandler.DeletePhoto)
			}
		}
	}

	log.Printf("Server running on port %s", cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Cannot run server: %v", err)
	}
}
