package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/olaniyigeorge/iHR/repository"
	"github.com/olaniyigeorge/iHR/services"
)

func main() {
	// Setup structured logging with JSON format
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	config := services.LoadConfig()

	if config.Database.URL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	sqlDB, err := sql.Open("pgx", config.Database.URL)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	sqlDB.SetMaxIdleConns(config.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.Database.MaxOpenConns)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(config.Database.LogLevel)),
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()
	slog.Info("Connected to database")

	store := repository.NewStore(db)
	if err := store.AutoMigrate(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	if config.Database.Seed {
		seeder := services.NewDatabaseSeeder(store)
		if err := seeder.SeedDatabase(context.Background()); err != nil {
			slog.Error("Failed to seed database", "error", err)
		}
	}

	var rdb *redis.Client
	if opts, err := redis.ParseURL(config.Redis.URL); err != nil {
		slog.Warn("Invalid Redis URL, context caching disabled", "error", err)
	} else {
		rdb = redis.NewClient(opts)
		defer rdb.Close()
	}
	cache := repository.NewContextCache(rdb, config.Cache.TTL)

	server := services.NewServer(config, store, cache)
	server.InitializeServices()
	server.Start()
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}
