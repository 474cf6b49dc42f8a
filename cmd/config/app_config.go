package config

import (
	"NativeRecipe-Backend/internal/api/handlers"
	"NativeRecipe-Backend/internal/api/routes"
	"NativeRecipe-Backend/internal/metrics"
	"NativeRecipe-Backend/internal/middleware"
	"NativeRecipe-Backend/internal/utils"
	"NativeRecipe-Backend/internal/utils/mailing"
	"NativeRecipe-Backend/internal/utils/storage"
	"NativeRecipe-Backend/pkg/ai"
	"NativeRecipe-Backend/pkg/jwt"
	"NativeRecipe-Backend/pkg/midtrans"
	"NativeRecipe-Backend/pkg/recipe"
	"NativeRecipe-Backend/pkg/subscription"
	"NativeRecipe-Backend/pkg/user"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	redisstorage "github.com/gofiber/storage/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewApp wires every dependency. rdb may be nil, token revocation then uses
// the database and the limiter keeps its counters in memory.
func NewApp(db *gorm.DB, rdb redis.UniversalClient) (*fiber.App, error) {
	utils.InitValidator()
	cfg := utils.GetAppConfig()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         10 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	limiterConfig := limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
		Next: func(c *fiber.Ctx) bool {
			// gateway retries must never be throttled
			return c.Path() == "/api/subscription/webhook"
		},
	}
	if cfg.RedisHost != "" {
		limiterConfig.Storage = redisstorage.New(redisstorage.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			Database: cfg.RedisDB,
		})
	}
	app.Use(limiter.New(limiterConfig))

	// metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	subscriptionMetrics := metrics.NewSubscriptionMetrics(registry)

	// utils
	var s3 storage.AwsS3
	if cfg.AWSS3Bucket != "" {
		s3 = storage.NewAwsS3()
	} else {
		log.Warn("AWS_S3_BUCKET is empty, recipe image uploads are disabled")
	}
	mailer := mailing.NewMailer(mailing.LoadMailConfig())

	var revoker jwt.TokenRevoker
	if rdb != nil {
		revoker = jwt.NewRedisTokenRevoker(rdb)
	} else {
		revoker = jwt.NewDBTokenRevoker(db)
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	subscriptionRepository := subscription.NewSubscriptionRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)

	// Service
	jwtService := jwt.NewJWTService(revoker)
	userService := user.NewUserService(userRepository, jwtService)
	subscriptionService := subscription.NewSubscriptionService(
		subscriptionRepository,
		midtrans.NewMidtransGateway(),
		userRepository,
		subscriptionMetrics,
		mailer,
		subscription.Config{
			MonthlyPrice: cfg.SubscriptionMonthlyPrice,
			YearlyPrice:  cfg.SubscriptionYearlyPrice,
		},
	)
	recipeService := recipe.NewRecipeService(recipeRepository, s3)
	aiService := ai.NewAiService()

	// Handler
	authHandler := handlers.NewAuthHandler(userService, validator)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	aiHandler := handlers.NewAiHandler(aiService, recipeService, validator)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		AuthHandler:         authHandler,
		SubscriptionHandler: subscriptionHandler,
		RecipeHandler:       recipeHandler,
		AiHandler:           aiHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
		SubscriptionService: subscriptionService,
		Registry:            registry,
	}
	routesConfig.Setup()
	return app, nil
}
