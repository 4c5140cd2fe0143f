package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Lee-sungheon/Loopin/internal/config"
	"github.com/Lee-sungheon/Loopin/internal/handler"
	"github.com/Lee-sungheon/Loopin/internal/repository"
	"github.com/Lee-sungheon/Loopin/internal/repository/memory"
	"github.com/Lee-sungheon/Loopin/internal/repository/postgres"
	"github.com/Lee-sungheon/Loopin/internal/repository/redisrepo"
	"github.com/Lee-sungheon/Loopin/internal/server"
	"github.com/Lee-sungheon/Loopin/internal/service"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := loadEnv(); err != nil {
		logger.Sugar().Warnf("failed to load environment variables: %s", err.Error())
	}

	if err := initConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	ledgerConfig := config.NewLedgerConfig(viper.GetViper())
	if err := ledgerConfig.Validate(); err != nil {
		logger.Sugar().Panicf("invalid ledger config: %s", err.Error())
	}

	var tables *postgres.PostgresRepository
	switch ledgerConfig.Store {
	case "memory":
		users := memory.NewUserInfo()
		users.AutoRegister = true
		tables = memory.New(users)
		logger.Warn("Using in-memory post store, data is lost on restart")
	default:
		dbConfig := config.DBConfig{
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			DBName:   os.Getenv("POSTGRES_DATABASE"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		}
		db, err := postgres.DB(ctx, dbConfig)
		if err != nil {
			logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
		}
		defer db.Close()
		if err := db.Ping(ctx); err != nil {
			logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
		}
		logger.Info("Successfully connected to PostgreSQL")

		tables = postgres.New(db, logger)
	}

	var rdb *redis.Client

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		redisConfig := config.RedisConfig{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		}
		rdb = redis.NewClient(&redis.Options{
			Addr:     redisConfig.Addr,
			Password: redisConfig.Password,
			DB:       redisConfig.DB,
		})
		defer rdb.Close()
		pong, err := rdb.Ping(ctx).Result()
		if err != nil {
			logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
		}
		logger.Sugar().Infof("Successfully connected to Redis: %s", pong)
	} else {
		logger.Warn("REDIS_ADDR not set, index repair queue and shared index lock are disabled")
	}

	repos := repository.New(tables, rdb, redisrepo.Options{LockTTL: ledgerConfig.LockTTL})
	services := service.New(logger, repos, service.Options{
		IndexLock:           ledgerConfig.IndexLock,
		LockTimeout:         ledgerConfig.LockTimeout,
		RemoteTimeout:       ledgerConfig.RemoteTimeout,
		LoungeDeleteUnindex: ledgerConfig.LoungeDeleteUnindex,
		RepairMaxAttempts:   ledgerConfig.RepairMaxAttempts,
		RepairPollTimeout:   ledgerConfig.RepairPollTimeout,
		IndexCacheTTL:       ledgerConfig.IndexCacheTTL,
	})

	if err := services.LoadAll(ctx); err != nil {
		logger.Sugar().Errorf("failed to warm post cache: %s", err.Error())
	}

	handlers := handler.New(logger, services, handler.Config{
		ClientOrigin: viper.GetString("client.origin"),
		AccessSecret: []byte(os.Getenv("ACCESS_SECRET")),
	})

	srv := server.New()
	serverConfig := config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	}
	go func(srv *server.Server, cfg config.ServerConfig) {
		if err := srv.Run(cfg); err != nil {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}(srv, serverConfig)

	go services.Repair.Start(ctx)

	logger.Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}
}

func loadEnv() error {
	return godotenv.Load()
}

func initConfig() error {
	config.SetDefaults(viper.GetViper())
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	return viper.ReadInConfig()
}
