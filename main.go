package main

import (
	"chatapp-client/internal/database"
	"chatapp-client/internal/email"
	"chatapp-client/internal/handlers"
	"chatapp-client/internal/hub"
	"chatapp-client/internal/jwt"
	"chatapp-client/internal/keyValue"
	"chatapp-client/internal/models"
	"chatapp-client/internal/repository"
	"chatapp-client/internal/snowflake"
	"chatapp-client/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const outboxAddress = "127.0.0.1:3010"

func setupLogger(cfg *models.ConfigFile) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	if cfg.LogToFile {
		config.OutputPaths = []string{"app.log", "stdout"}
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		config.Level = level
	}

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}

// readConfig reads config.json if there is one, then lets .env and the
// environment override it.
func readConfig() (*models.ConfigFile, error) {
	cfg := &models.ConfigFile{
		Address:     "127.0.0.1",
		Port:        "3000",
		LogLevel:    "info",
		StoragePath: "./public",
	}

	bytes, err := os.ReadFile("config.json")
	if err == nil {
		err = json.Unmarshal(bytes, cfg)
		if err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	err = godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	err = env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.JwtSecret == "" {
		return nil, errors.New("JwtSecret isn't set")
	}

	return cfg, nil
}

func setupRedis(cfg *models.ConfigFile) (*redis.Client, error) {
	if cfg.RedisAddress == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	err := rdb.Ping(context.Background()).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func main() {
	fmt.Println("Reading config file...")
	cfg, err := readConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	sugar, err := setupLogger(cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer sugar.Sync()

	ctx := context.Background()

	err = snowflake.Setup(cfg.SnowflakeWorkerID)
	if err != nil {
		sugar.Fatal(err)
	}

	db, err := database.Setup(cfg, sugar)
	if err != nil {
		sugar.Fatal(err)
	}
	defer db.Close()

	if cfg.RedisAddress != "" {
		sugar.Info("Connecting to redis...")
	}
	redisClient, err := setupRedis(cfg)
	if err != nil {
		sugar.Fatal(err)
	}

	if cfg.SelfContained() {
		sugar.Info("Running self contained, without external services")
	}

	isHttps := cfg.TlsCert != "" && cfg.TlsKey != ""

	httpProtocol := "http"
	if isHttps {
		httpProtocol = "https"
	}
	fullAddress := fmt.Sprintf("%s://%s:%s", httpProtocol, cfg.Address, cfg.Port)

	kv := keyValue.New(ctx, sugar, redisClient)

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		sugar.Fatal(err)
	}

	sender := email.New(cfg, sugar, kv, fullAddress)
	if cfg.SmtpServer == "" {
		go func() {
			err := sender.ServeOutbox(outboxAddress)
			if err != nil {
				sugar.Error(err)
			}
		}()
	}

	backend := &repository.Backend{
		Sugar:   sugar,
		DB:      db,
		Hub:     hub.New(sugar, redisClient),
		KV:      kv,
		Storage: store,
		Signer:  jwt.NewSigner(cfg.JwtSecret, isHttps),
		Email:   sender,
	}

	sugar.Infof("Server is running on %s", fullAddress)

	err = handlers.Setup(cfg, backend)
	if err != nil {
		sugar.Fatal(err)
	}
}
