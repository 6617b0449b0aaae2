package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"floatchat/internal/config"
	"floatchat/internal/domain/usecase"
	psqlRepo "floatchat/internal/repository/psql"
	"floatchat/internal/repository/rabbitmq"
	redisStore "floatchat/internal/repository/redis"
	s3Repo "floatchat/internal/repository/s3"
	"floatchat/internal/simulation"
	"floatchat/pkg/client/psql"
	redisClient "floatchat/pkg/client/redis"
	s3Client "floatchat/pkg/client/s3"
)

type Config struct {
	ConfigPath string

	RedisAddr string
	RedisDB   int

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
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg := loadConfig(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	domainCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		log.Fatalw("load domain config", "path", cfg.ConfigPath, "error", err)
	}
	generator := simulation.NewGenerator(domainCfg.Simulation)

	rdb, err := redisClient.NewRedisClient(ctx, redisClient.Config{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err != nil {
		log.Fatalw("connect redis", "error", err)
	}
	statusRepo := redisStore.NewRedisRepo(rdb, 0)

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
	jobRepo := psqlRepo.NewGormExportRepo(db)

	storage, err := s3Client.NewS3Client(cfg.S3Host, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		log.Fatalw("connect s3", "error", err)
	}
	artifacts := s3Repo.NewS3Repo(storage)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalw("connect rabbitmq", "error", err)
	}
	defer conn.Close()

	exporter := usecase.NewExporterUseCase(generator, jobRepo, statusRepo, artifacts, log)

	consumer, err := rabbitmq.NewExportConsumer(conn, "exports.exchange", "exports.requested", "exports.requested.q", exporter, log)
	if err != nil {
		log.Fatalw("init export consumer", "error", err)
	}

	go func() {
		if err := consumer.Start(ctx); err != nil {
			log.Fatalw("consumer stopped", "error", err)
		}
	}()

	log.Info("exporter service started")
	<-sigCh
	log.Info("shutting down exporter service")
	cancel()
	time.Sleep(time.Second)
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

	psqlPort, err := strconv.Atoi(mustGetEnv("PSQL_PORT"))
	if err != nil {
		log.Fatalf("invalid PSQL_PORT value: %v", err)
	}

	rmqUser := mustGetEnv("RABBITMQ_USER")
	rmqPassword := mustGetEnv("RABBITMQ_PASSWORD")
	rmqHost := mustGetEnv("RABBITMQ_HOST")
	rmqPort := mustGetEnv("RABBITMQ_PORT")
	rabbitMQURL := "amqp://" + rmqUser + ":" + rmqPassword + "@" + rmqHost + ":" + rmqPort + "/"

	return Config{
		ConfigPath: os.Getenv("FLOATCHAT_CONFIG"),

		RedisAddr: redisHost + ":" + redisPort,
		RedisDB:   redisDB,

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
	}
}
