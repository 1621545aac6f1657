package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"canteenscore/canteen-service/internal/app/canteen/config"
	"canteenscore/canteen-service/internal/app/canteen/handler"
	"canteenscore/canteen-service/internal/app/canteen/infrastructure"
	"canteenscore/canteen-service/internal/app/canteen/infrastructure/cache"
	classifierhttp "canteenscore/canteen-service/internal/app/canteen/infrastructure/http"
	"canteenscore/canteen-service/internal/app/canteen/infrastructure/messaging"
	"canteenscore/canteen-service/internal/app/canteen/processor"
	"canteenscore/canteen-service/internal/app/canteen/repository"
	"canteenscore/canteen-service/internal/app/canteen/service"
	"canteenscore/pkg/logger"
)

const serviceName = "canteen-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Log.Level)

	if cfg.Log.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.Log.LogstashAddr, serviceName, cfg.Log.Level); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", cfg.Log.LogstashAddr).Msg("Connected to Logstash")
		}
	}

	ctx := context.Background()

	pool, err := connectDB(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()
	logger.Info().
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	if err := repository.Migrate(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("Failed to apply schema")
	}

	// Отзывы, лайки и ответы идут через gorm поверх того же пула
	gormDB, err := openGorm(pool)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize gorm")
	}

	// Redis нужен только кешу распознавания, без него сервис работает
	var predictionCache infrastructure.PredictionCache
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, classification cache disabled")
	} else {
		defer redisClient.Close()
		predictionCache = cache.NewPredictionCache(redisClient, cfg.Classifier.CacheTTL)
		logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")
	}

	reviewProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.ReviewTopic)
	defer reviewProducer.Close()
	catalogProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.CatalogTopic)
	defer catalogProducer.Close()
	logger.Info().
		Str("review_topic", cfg.Kafka.ReviewTopic).
		Str("catalog_topic", cfg.Kafka.CatalogTopic).
		Msg("Initialized Kafka producers")

	siteRepo := repository.NewSiteRepository(pool)
	subLocationRepo := repository.NewSubLocationRepository(pool)
	itemRepo := repository.NewItemRepository(pool)
	aggregationRepo := repository.NewAggregationRepository(pool)
	reviewRepo := repository.NewReviewRepository(gormDB)
	likeRepo := repository.NewLikeRepository(gormDB)
	replyRepo := repository.NewReplyRepository(gormDB)

	engine := service.NewAggregationEngine(siteRepo, subLocationRepo, itemRepo, aggregationRepo)
	catalogService := service.NewCatalogService(siteRepo, subLocationRepo, itemRepo, engine, catalogProducer)
	reviewService := service.NewReviewService(reviewRepo, itemRepo, reviewProducer)
	likeService := service.NewLikeService(likeRepo, reviewRepo)
	replyService := service.NewReplyService(replyRepo, reviewRepo)
	classificationService := service.NewClassificationService(
		classifierhttp.NewClassifierClient(cfg.Classifier.URL, cfg.Classifier.Timeout),
		predictionCache,
		cfg.Classifier.MaxImageBytes,
	)

	poolStats := processor.NewPoolStatsScheduler(processor.NewPgxPoolSource(pool))
	if err := poolStats.Start(cfg.Scheduler.PoolStatsSchedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start pool stats scheduler")
	}
	defer poolStats.Stop()

	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	router := handler.SetupRoutes(
		handler.NewCatalogHandler(catalogService),
		handler.NewReviewHandler(reviewService, likeService, replyService),
		handler.NewStatsHandler(engine),
		handler.NewClassifyHandler(classificationService, cfg.Classifier.MaxImageBytes),
		authMiddleware,
	)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Canteen Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Canteen Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Canteen Service stopped gracefully")
}

// connectDB поднимает пул pgx с повторными попытками: в Docker PostgreSQL стартует позже
func connectDB(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	var pool *pgxpool.Pool
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

func openGorm(pool *pgxpool.Pool) (*gorm.DB, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)

	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}
