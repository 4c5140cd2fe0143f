package main

import (
	"database/sql"
	"flag"
	"os"

	"github.com/Lee-sungheon/Loopin/internal/config"
	"github.com/Lee-sungheon/Loopin/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	command := flag.String("command", "up", "goose command: up, down, status, version, reset")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Sugar().Warnf("no .env loaded: %s", err.Error())
	}

	dbConfig := config.DBConfig{
		Username: os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		DBName:   os.Getenv("POSTGRES_DATABASE"),
		SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
	}

	db, err := sql.Open("pgx", dbConfig.DSN())
	if err != nil {
		logger.Sugar().Fatalf("failed to open postgres: %s", err.Error())
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		logger.Sugar().Fatalf("failed to set goose dialect: %s", err.Error())
	}

	if err := goose.Run(*command, db, "."); err != nil {
		logger.Sugar().Fatalf("failed to run migrations (%s): %s", *command, err.Error())
	}

	logger.Sugar().Infof("migrations %s finished", *command)
}
