package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/user/fxjournal/internal/auth"
	"github.com/user/fxjournal/internal/config"
	"github.com/user/fxjournal/internal/database"
	"github.com/user/fxjournal/internal/handlers"
	"github.com/user/fxjournal/internal/logger"
	"github.com/user/fxjournal/internal/marketdata"
	"github.com/user/fxjournal/internal/middleware"
	"github.com/user/fxjournal/internal/tagger"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.Auth.JWTSecret == "" {
		zlog.Fatal("auth.jwt_secret must be configured")
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}
	zlog.Info("Connected to database")

	userStore := database.NewUserStore(pool)
	tradeStore := database.NewTradeStore(pool)
	eventStore := database.NewEventStore(pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	calendarClient := marketdata.NewCalendarClient(cfg.MarketData.FinnhubAPIKey, zlog)
	pricingClient := marketdata.NewPricingClient(cfg.MarketData.AlphaVantageKey, zlog)
	eventTagger := tagger.New(eventStore)

	authHandler := handlers.NewAuthHandler(userStore, tokens, zlog)
	tradeHandler := handlers.NewTradeHandler(tradeStore, eventTagger, zlog)
	analyticsHandler := handlers.NewAnalyticsHandler(tradeStore, zlog)
	eventHandler := handlers.NewEventHandler(eventStore, calendarClient, zlog)
	forexHandler := handlers.NewForexHandler(pricingClient, zlog)

	app := fiber.New(fiber.Config{
		BodyLimit: 16 * 1024 * 1024, // room for screenshot uploads
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.Origins,
	}))

	// Health check (public)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy", "service": "forex-trading-journal"})
	})

	api := app.Group("/api")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Everything below requires a valid bearer token
	api.Use(middleware.Protected(tokens))

	api.Get("/auth/me", authHandler.Me)

	tradesGroup := api.Group("/trades")
	tradesGroup.Post("/", tradeHandler.Create)
	tradesGroup.Get("/", tradeHandler.List)
	tradesGroup.Get("/:id", tradeHandler.Get)
	tradesGroup.Put("/:id", tradeHandler.Update)
	tradesGroup.Delete("/:id", tradeHandler.Delete)
	tradesGroup.Post("/:id/upload-screenshot", tradeHandler.UploadScreenshot)

	analyticsGroup := api.Group("/analytics")
	analyticsGroup.Get("/stats", analyticsHandler.Stats)
	analyticsGroup.Get("/equity-curve", analyticsHandler.EquityCurve)

	eventsGroup := api.Group("/events")
	eventsGroup.Post("/sync", eventHandler.Sync)
	eventsGroup.Get("/high-impact", eventHandler.HighImpact)

	api.Get("/forex/price/:symbol", forexHandler.Price)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zlog.Info("Starting server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		zlog.Fatal("Server stopped", zap.Error(err))
	}
}
