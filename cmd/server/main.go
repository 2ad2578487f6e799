package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/superpizzeria/order-service/internal/bot"
	"github.com/superpizzeria/order-service/internal/config"
	"github.com/superpizzeria/order-service/internal/database"
	"github.com/superpizzeria/order-service/internal/handler"
	"github.com/superpizzeria/order-service/internal/repository"
	"github.com/superpizzeria/order-service/internal/router"
	"github.com/superpizzeria/order-service/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	log, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatal("schema setup failed", zap.Error(err))
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	orders := repository.NewOrderRepo(db)

	publisher := service.NewRabbitPublisher(cfg.RabbitURL, log)
	authSvc := service.NewAuthService(users, tokens, cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, cfg.BcryptCost)
	orderSvc := service.NewOrderService(orders, publisher, log)

	// The messaging front end consumes lookup requests for as long as
	// the server lives.
	botConsumer := bot.NewConsumer(cfg.RabbitURL, orderSvc, publisher, log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := botConsumer.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("bot consumer stopped", zap.Error(err))
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, handler.NewAuthHandler(authSvc), handler.NewOrderHandler(orderSvc), cfg, rdb)

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// newLogger builds the production zap logger used across the service.
func newLogger() (*zap.Logger, error) {
	c := zap.NewProductionConfig()
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	c.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return c.Build()
}
