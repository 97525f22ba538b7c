package main

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"marketplace/internal/adapter/api"
	"marketplace/internal/adapter/api/handler"
	"marketplace/internal/adapter/api/middleware"
	"marketplace/internal/adapter/api/router"
	"marketplace/internal/adapter/repository"
	"marketplace/internal/domain/service"
	"marketplace/internal/infrastructure/auth"
	"marketplace/internal/infrastructure/mail"
	"marketplace/internal/infrastructure/ratelimit"
	"marketplace/internal/infrastructure/storage"
	"marketplace/internal/infrastructure/websocket"
	"marketplace/internal/usecase"
	"marketplace/pkg/config"
	"marketplace/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config: %v", err)
		panic(err)
	}

	ctx := context.Background()

	var firestoreOpts []option.ClientOption
	if cfg.GoogleCredentials != "" {
		firestoreOpts = append(firestoreOpts, option.WithCredentialsFile(cfg.GoogleCredentials))
	}
	firestoreClient, err := firestore.NewClient(ctx, cfg.GoogleProject, firestoreOpts...)
	if err != nil {
		logger.Error("Failed to create Firestore client: %v", err)
		panic(err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.GoogleCredentials)
	if err != nil {
		logger.Error("Failed to create storage client: %v", err)
		panic(err)
	}
	defer storageClient.Close()

	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)

	paymentService := service.NewPayPalPaymentService(
		cfg.PayPalClientID,
		cfg.PayPalSecret,
		cfg.PayPalEnvironment == "production",
	)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	productRepo := repository.NewFirestoreProductRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)

	hub := websocket.NewHub()
	hub.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(userRepo, jwtManager, mailer, cfg.BaseURL)
	userUseCase := usecase.NewUserUseCase(userRepo, storageClient)
	productUseCase := usecase.NewProductUseCase(productRepo, userRepo, storageClient)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, productRepo, userRepo, paymentService)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, hub)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	roleMiddleware := middleware.NewRoleMiddleware()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(
		ratelimit.NewRateLimiter(10, 10, time.Minute),
	)

	handler.Setup(
		cfg,
		authUseCase,
		userUseCase,
		productUseCase,
		orderUseCase,
		chatUseCase,
		handler.WebSocketDeps{Hub: hub, AuthMiddleware: authMiddleware},
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	router.Setup(e, authMiddleware, roleMiddleware, rateLimitMiddleware)

	logger.Info("Starting server on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		logger.Error("Server stopped: %v", err)
	}
}
