package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-service/common/logger"
	"catalog-service/controllers"
	"catalog-service/database"
	"catalog-service/models"
	aws_pkg "catalog-service/pkg/aws"
	"catalog-service/repository"
	"catalog-service/routes"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	log := logger.Initialize(getEnv("APP_ENV", "production"))
	defer log.Sync() //nolint:errcheck

	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// --- 1. Stores ---

	db, err := database.ConnectPostgres(cfg.Postgres, log, &models.Category{}, &models.Product{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer database.ClosePostgres(db) //nolint:errcheck

	if cfg.SeedData {
		seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := database.Seed(seedCtx, db, log); err != nil {
			log.Warn("Failed to seed catalog", zap.Error(err))
		}
		cancel()
	}

	var (
		mongoClient *mongo.Client
		awsReady    bool
	)
	sdkCfg, awsErr := aws_pkg.LoadAWSConfig(context.Background(), cfg.AWS)
	if awsErr != nil {
		log.Warn("AWS config unavailable, S3 and SNS disabled", zap.Error(awsErr))
	} else {
		awsReady = true
	}

	var imageRepo repository.ImageRepo
	switch cfg.ImageStore {
	case "s3":
		if !awsReady {
			log.Fatal("IMAGE_STORE=s3 requires a usable AWS config", zap.Error(awsErr))
		}
		imageRepo = repository.NewS3ImageRepository(aws_pkg.NewS3Client(sdkCfg, cfg.AWS.Endpoint), cfg.S3Bucket, cfg.S3Prefix)
		log.Info("Using S3 image store", zap.String("bucket", cfg.S3Bucket), zap.String("prefix", cfg.S3Prefix))
	default:
		client, mdb, err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDB, log)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		mongoClient = client
		mongoImages := repository.NewMongoImageRepository(mdb, cfg.MongoImageCollection)
		idxCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := mongoImages.EnsureIndexes(idxCtx); err != nil {
			log.Warn("Failed to ensure image indexes", zap.Error(err))
		}
		cancel()
		imageRepo = mongoImages
	}

	var cacheClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Warn("Failed to parse REDIS_URL, cache disabled", zap.Error(err))
		} else {
			cacheClient = redis.NewClient(redisOpts)
		}
	}

	// --- 2. Dependency Injection ---

	opts := []services.Option{services.WithLookupConcurrency(cfg.ImageLookupConcurrency)}
	if awsReady && cfg.CatalogSNSTopicARN != "" {
		opts = append(opts, services.WithEventPublisher(
			services.NewSNSEventPublisher(aws_pkg.NewSNSClient(sdkCfg), cfg.CatalogSNSTopicARN),
		))
	}

	catalogService := services.NewCatalogService(
		repository.NewGormProductRepository(db),
		imageRepo,
		log,
		opts...,
	)
	categoryService := services.NewCategoryService(repository.NewGormCategoryRepository(db), log)

	cache := controllers.NewCacheManager(cacheClient, cfg.CacheTTL)
	validator := controllers.NewRequestValidator(cfg.MaxImageSize)

	productController := controllers.NewProductController(catalogService, cache, validator)
	categoryController := controllers.NewCategoryController(categoryService, catalogService, cache, validator)
	menuController := controllers.NewMenuController(catalogService, cache)

	// --- 3. HTTP Server & Middleware ---

	engineCtx, stopEngine := context.WithCancel(context.Background())
	defer stopEngine()
	r, err := newEngine(engineCtx, cfg, log)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	routes.RegisterRoutes(r, productController, categoryController, menuController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "catalog-service"})
	})

	// --- 4. Graceful Shutdown ---

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	log.Info("Catalog service started", zap.String("port", cfg.Port), zap.String("image_store", cfg.ImageStore))
	<-quit
	log.Info("Shutting down catalog service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if cacheClient != nil {
		if err := cacheClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}
	if mongoClient != nil {
		if err := database.CloseMongo(mongoClient); err != nil {
			log.Error("Failed to close MongoDB", zap.Error(err))
		}
	}

	log.Info("Catalog service stopped gracefully")
}
