package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"skydrive/internal/adapter/api"
	"skydrive/internal/adapter/api/handler"
	apimiddleware "skydrive/internal/adapter/api/middleware"
	"skydrive/internal/adapter/api/router"
	"skydrive/internal/adapter/repository"
	"skydrive/internal/infrastructure/cache"
	"skydrive/internal/infrastructure/firebase"
	"skydrive/internal/infrastructure/storage"
	"skydrive/internal/usecase"
	"skydrive/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	fbAuth, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}
	authClient := firebase.NewAuthClient(fbAuth)

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	s3Client, err := storage.NewS3Client(storage.S3Config{
		Endpoint:    cfg.S3Endpoint,
		Region:      cfg.S3Region,
		Bucket:      cfg.S3Bucket,
		AccessKey:   cfg.S3AccessKey,
		SecretKey:   cfg.S3SecretKey,
		UseSSL:      cfg.S3UseSSL,
		UploadTTL:   time.Duration(cfg.UploadURLTTL) * time.Second,
		DownloadTTL: time.Duration(cfg.DownloadURLTTL) * time.Second,
	})
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
	defer redisCache.Close()

	fileRepo := repository.NewFirestoreFileRepository(firestoreClient)
	folderRepo := repository.NewFirestoreFolderRepository(firestoreClient)
	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	planRepo := repository.NewFirestorePlanRepository(firestoreClient)
	transactor := repository.NewFirestoreTransactor(firestoreClient)

	quotaUseCase := usecase.NewQuotaUseCase(userRepo, planRepo)
	uploadUseCase := usecase.NewUploadUseCase(fileRepo, folderRepo, userRepo, planRepo, s3Client, transactor, quotaUseCase, redisCache)
	storageUseCase := usecase.NewStorageUseCase(fileRepo, userRepo, s3Client, transactor, quotaUseCase, redisCache)
	fileUseCase := usecase.NewFileUseCase(fileRepo, folderRepo, userRepo, planRepo, s3Client, transactor, quotaUseCase, redisCache)
	trashUseCase := usecase.NewTrashUseCase(fileRepo)
	folderUseCase := usecase.NewFolderUseCase(folderRepo, fileRepo)
	userUseCase := usecase.NewUserUseCase(userRepo, planRepo, fileRepo, folderRepo, storageUseCase, quotaUseCase, redisCache)
	authUseCase := usecase.NewAuthUseCase(userRepo, planRepo, redisCache)
	planUseCase := usecase.NewPlanUseCase(planRepo)

	if err := planUseCase.EnsureDefaults(ctx); err != nil {
		log.Fatalf("Failed to seed plans: %v", err)
	}

	handler.Setup(uploadUseCase, fileUseCase, trashUseCase, storageUseCase, folderUseCase, userUseCase, planUseCase)
	handler.SetupHealthHandler(authClient)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient, authUseCase)
	quotaMiddleware := apimiddleware.NewQuotaMiddleware(quotaUseCase)

	router.Setup(e, authMiddleware, quotaMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
