package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"floatchat/internal/chat"
	"floatchat/internal/config"
	v1 "floatchat/internal/controller/http/v1"
	"floatchat/internal/domain/entity"
	"floatchat/internal/domain/usecase"
	psqlRepo "floatchat/internal/repository/psql"
	rabbitRepo "floatchat/internal/repository/rabbitmq"
	redisStore "floatchat/internal/repository/redis"
	s3Repo "floatchat/internal/repository/s3"
	"floatchat/internal/simulation"
	"floatchat/pkg/client/psql"
	redisClient "floatchat/pkg/client/redis"
	s3Client "floatchat/pkg/client/s3"
	"floatchat/pkg/middleware"
)

type Config struct {
	Port       string
	ConfigPath string

	RedisAddr  string
	RedisDB    int
	SessionTTL time.Duration

	PSQLHost     string
	PSQLPort     int
	PSQLUser     string
	PSQLPassword string
	PSQLDBName   string
	PSQLSSLMode  string

	S3Host      string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	RabbitMQURL string

	RateLimit       int
	RateLimitWindow time.Duration
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg := loadConfig(log)
	ctx := context.Background()

	domainCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		log.Fatalw("load domain config", "path", cfg.ConfigPath, "error", err)
	}

	generator := simulation.NewGenerator(domainCfg.Simulation)
	selector, err := chat.NewSelector(domainCfg.Chat)
	if err != nil {
		log.Fatalw("build response selector", "error", err)
	}

	rdb, err := redisClient.NewRedisClient(ctx, redisClient.Config{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err != nil {
		log.Fatalw("connect redis", "error", err)
	}

	db, err := psql.NewPostgresDB(psql.Config{
		Host:     cfg.PSQLHost,
		User:     cfg.PSQLUser,
		Password: cfg.PSQLPassword,
		DBName:   cfg.PSQLDBName,
		Port:     cfg.PSQLPort,
		SslMode:  cfg.PSQLSSLMode,
	})
	if err != nil {
		log.Fatalw("connect postgres", "error", err)
	}
	if err := db.AutoMigrate(&entity.ChatRecord{}, &entity.ExportJob{}); err != nil {
		log.Fatalw("migrate schema", "error", err)
	}

	storage, err := s3Client.NewS3Client(cfg.S3Host, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		log.Fatalw("connect s3", "error", err)
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalw("connect rabbitmq", "error", err)
	}
	defer conn.Close()

	publisher, err := rabbitRepo.NewExportPublisher(conn, "exports.exchange", "exports.requested")
	if err != nil {
		log.Fatalw("init export publisher", "error", err)
	}

	store := redisStore.NewRedisRepo(rdb, cfg.SessionTTL)
	chatRepo := psqlRepo.NewGormChatRepo(db)
	exportRepo := psqlRepo.NewGormExportRepo(db)
	artifacts := s3Repo.NewS3Repo(storage)

	sessions := usecase.NewSessionUseCase(store, generator)
	chats := usecase.NewChatUseCase(sessions, selector, chatRepo)
	exports := usecase.NewExportUseCase(store, exportRepo, artifacts, publisher, sessions)

	sessionHandler := v1.NewSessionHandler(sessions)
	chatHandler := v1.NewChatHandler(chats)
	exportHandler := v1.NewExportHandler(exports)

	metrics := middleware.NewHTTPMetrics()

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(metrics.Middleware())
	r.Use(middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RedisClient: rdb,
		Limit:       cfg.RateLimit,
		Window:      cfg.RateLimitWindow,
		KeyPrefix:   "rl:",
	}))

	r.GET("/metrics", metrics.Handler())
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	v1Group := r.Group("/api/v1")
	{
		v1Group.POST("/sessions", sessionHandler.CreateSession)
		v1Group.GET("/sessions/:session_id/floats", sessionHandler.GetFloats)
		v1Group.GET("/sessions/:session_id/floats/:float_id/profile", sessionHandler.GetProfile)
		v1Group.GET("/sessions/:session_id/floats/:float_id/trajectory", sessionHandler.GetTrajectory)

		v1Group.POST("/sessions/:session_id/chat", chatHandler.PostMessage)
		v1Group.GET("/sessions/:session_id/chat/history", chatHandler.GetHistory)
		v1Group.DELETE("/sessions/:session_id/chat/history", chatHandler.ClearHistory)

		v1Group.POST("/sessions/:session_id/exports", exportHandler.CreateExport)
		v1Group.GET("/exports/:job_id", exportHandler.GetStatus)
	}

	log.Infow("floatchat API listening", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalw("http server stopped", "error", err)
	}
}

func loadConfig(log *zap.SugaredLogger) Config {
	if err := godotenv.Load("./.env.local"); err != nil {
		log.Info("no .env file found, falling back to OS environment variables")
	}
	mustGetEnv := func(key string) string {
		val := os.Getenv(key)
		if val == "" {
			log.Fatalf("environment variable %s is not set", key)
		}
		return val
	}

	// REDIS
	redisHost := mustGetEnv("REDIS_HOST")
	redisPort := mustGetEnv("REDIS_PORT")
	redisDBStr := os.Getenv("REDIS_DB")
	if redisDBStr == "" {
		redisDBStr = "0"
	}
	redisDB, err := strconv.Atoi(redisDBStr)
	if err != nil {
		log.Fatalf("invalid REDIS_DB value: %v", err)
	}

	// PSQL
	psqlPort, err := strconv.Atoi(mustGetEnv("PSQL_PORT"))
	if err != nil {
		log.Fatalf("invalid PSQL_PORT value: %v", err)
	}

	// RABBITMQ
	rmqUser := mustGetEnv("RABBITMQ_USER")
	rmqPassword := mustGetEnv("RABBITMQ_PASSWORD")
	rmqHost := mustGetEnv("RABBITMQ_HOST")
	rmqPort := mustGetEnv("RABBITMQ_PORT")
	rabbitMQURL := "amqp://" + rmqUser + ":" + rmqPassword + "@" + rmqHost + ":" + rmqPort + "/"

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	sessionTTL := 24 * time.Hour
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("invalid SESSION_TTL value: %v", err)
		}
		sessionTTL = ttl
	}

	rateLimit := 10
	if raw := os.Getenv("RATE_LIMIT"); raw != "" {
		rateLimit, err = strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("invalid RATE_LIMIT value: %v", err)
		}
	}

	return Config{
		Port:       port,
		ConfigPath: os.Getenv("FLOATCHAT_CONFIG"),

		RedisAddr:  redisHost + ":" + redisPort,
		RedisDB:    redisDB,
		SessionTTL: sessionTTL,

		PSQLHost:     mustGetEnv("PSQL_HOST"),
		PSQLPort:     psqlPort,
		PSQLUser:     mustGetEnv("PSQL_USER"),
		PSQLPassword: mustGetEnv("PSQL_PASSWORD"),
		PSQLDBName:   mustGetEnv("PSQL_DB"),
		PSQLSSLMode:  mustGetEnv("PSQL_SSLMODE"),

		S3Host:      mustGetEnv("S3_HOST") + ":" + mustGetEnv("S3_PORT"),
		S3Bucket:    mustGetEnv("S3_BUCKET"),
		S3AccessKey: mustGetEnv("S3_ACCESS_KEY"),
		S3SecretKey: mustGetEnv("S3_SECRET_KEY"),

		RabbitMQURL: rabbitMQURL,

		RateLimit:       rateLimit,
		RateLimitWindow: time.Second,
	}
}
