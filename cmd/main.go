package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/mellobo05/diet-ai-recommender/internal/api"
	"github.com/mellobo05/diet-ai-recommender/internal/classifier"
	"github.com/mellobo05/diet-ai-recommender/internal/config"
	"github.com/mellobo05/diet-ai-recommender/internal/consumer"
	"github.com/mellobo05/diet-ai-recommender/internal/repository"
	"github.com/mellobo05/diet-ai-recommender/internal/service"
	"github.com/mellobo05/diet-ai-recommender/internal/sharding"
	"github.com/mellobo05/diet-ai-recommender/migrations"
)

func connectDBEnv(host, port, user, pass, dbname string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", dbname)
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, dbname, host, port, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", dbname, host, port, err)
}

func main() {
	cfg := config.Load()

	primaryDB, err := connectDBEnv(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPass, cfg.DBName)
	if err != nil {
		panic(err)
	}

	// Order shards default to the primary database unless dedicated shard
	// databases are configured.
	orderDBs := make([]*sql.DB, cfg.OrderDBCount)
	for i := range orderDBs {
		host := os.Getenv(fmt.Sprintf("ORDER_DB%d_HOST", i+1))
		if host == "" {
			orderDBs[i] = primaryDB
			continue
		}
		orderDBs[i], err = connectDBEnv(host,
			os.Getenv(fmt.Sprintf("ORDER_DB%d_PORT", i+1)),
			os.Getenv(fmt.Sprintf("ORDER_DB%d_USER", i+1)),
			os.Getenv(fmt.Sprintf("ORDER_DB%d_PASS", i+1)),
			os.Getenv(fmt.Sprintf("ORDER_DB%d_NAME", i+1)))
		if err != nil {
			panic(err)
		}
	}

	if err := migrations.AutoMigrateUsers(3, primaryDB); err != nil {
		log.Fatalf("Failed to migrate users table: %v", err)
	}
	if err := migrations.AutoMigrateProducts(3, primaryDB); err != nil {
		log.Fatalf("Failed to migrate products table: %v", err)
	}
	if err := migrations.AutoMigrateOrders(3, orderDBs...); err != nil {
		log.Fatalf("Failed to migrate orders tables: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	kafkaWriter := config.NewKafkaWriter(config.OrderTopic)
	router := sharding.NewShardRouter(cfg.OrderDBCount)

	productRepo := repository.NewProductRepository(primaryDB)
	orderRepo := repository.NewOrderRepository(orderDBs, router)
	userRepo := repository.NewUserRepository(primaryDB)

	classifierClient := classifier.New(cfg.ClassifierURL, cfg.ClassifierTimeout)

	catalogService := service.NewCatalogService(productRepo, rdb, cfg.CatalogSourceURL)
	recommendService := service.NewRecommendService(productRepo, classifierClient)
	orderService := service.NewOrderService(productRepo, orderRepo, userRepo,
		service.NewRedisIdempotencyGuard(rdb), kafkaWriter)
	userService := service.NewUserService(userRepo)

	orderHandler := api.NewOrderHandler(orderService)
	productHandler := api.NewProductHandler(catalogService)
	recommendHandler := api.NewRecommendHandler(recommendService)
	userHandler := api.NewUserHandler(userService)

	orderConsumer := consumer.NewConsumer(catalogService)
	go orderConsumer.StartKafkaConsumer()

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(10),
				Burst:     30,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	e.POST("/orders", orderHandler.CreateOrder)
	e.GET("/orders/user/:userId", orderHandler.ListOrdersForUser)

	e.POST("/products/sync", productHandler.SyncCatalog)
	e.POST("/products/classify", recommendHandler.ClassifyCatalog)
	e.GET("/products", productHandler.ListProducts)

	e.GET("/recommendations/top", recommendHandler.TopDiet)

	e.POST("/users", userHandler.CreateUser)
	e.GET("/users", userHandler.GetUsers)
	e.GET("/users/:id", userHandler.GetUserByID)
	e.PATCH("/users/:id/diet", userHandler.SetDietStatus)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "diet-recommender",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
