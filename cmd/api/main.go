package main

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/sudo-init-do/skillmarket/internal/auth"
	"github.com/sudo-init-do/skillmarket/internal/cache"
	"github.com/sudo-init-do/skillmarket/internal/config"
	"github.com/sudo-init-do/skillmarket/internal/httpx"
	"github.com/sudo-init-do/skillmarket/internal/identity"
	"github.com/sudo-init-do/skillmarket/internal/marketplace"
	"github.com/sudo-init-do/skillmarket/internal/platform/logger"
	"github.com/sudo-init-do/skillmarket/internal/store/postgres"
	"github.com/sudo-init-do/skillmarket/internal/upload"
	"github.com/sudo-init-do/skillmarket/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()
	st, err := postgres.Open(ctx, cfg.DSN)
	if err != nil {
		zlog.Fatal("database", "err", err)
	}
	defer st.Close()
	zlog.Info("connected to postgres")

	var listings *cache.ServiceListings
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			zlog.Warn("redis unreachable, listing cache disabled", "err", err)
		} else {
			listings = cache.NewServiceListings(rdb, cfg.CacheTTL)
			zlog.Info("listing cache enabled", "addr", cfg.RedisAddr)
		}
	}

	uploads, err := upload.NewStorage(cfg.UploadDir)
	if err != nil {
		zlog.Fatal("uploads", "err", err)
	}

	tokens := identity.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authH := auth.NewHandler(st.Users(), tokens, zlog)
	userH := user.NewHandler(st.Users(), st.Reviews(), uploads, zlog)
	marketH := marketplace.NewHandler(st, listings, uploads, zlog)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpx.NewValidator()
	e.HTTPErrorHandler = httpx.ErrorHandler(zlog)
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if err := st.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Uploaded files are served statically; the store only records paths.
	e.Static("/uploads", cfg.UploadDir)

	// Public auth routes, rate limited per IP.
	pub := e.Group("/api")
	pub.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	pub.POST("/signup", authH.Signup)
	pub.POST("/login", authH.Login)

	// Everything else requires a resolved actor.
	api := e.Group("/api")
	api.Use(identity.Middleware(tokens, st.Users()))

	api.GET("/users", userH.List)
	api.GET("/users/:id", userH.Get)
	api.PUT("/users/:id", userH.Update)
	api.POST("/users/:id/profile-picture", userH.UploadProfilePicture)
	api.PUT("/users/:id/profile-picture", userH.UploadProfilePicture)

	api.GET("/services", marketH.ListServices)
	api.GET("/services/:id", marketH.GetService)
	api.POST("/services", marketH.CreateService)
	api.PUT("/services/:id", marketH.UpdateService)
	api.DELETE("/services/:id", marketH.DeleteService)
	api.POST("/services/:id/picture", marketH.UploadServicePicture)
	api.PUT("/services/:id/picture", marketH.UploadServicePicture)

	api.GET("/orders", marketH.ListOrders)
	api.GET("/orders/:id", marketH.GetOrder)
	api.POST("/orders", marketH.CreateOrder)
	api.PUT("/orders/:id", marketH.UpdateOrder)
	api.DELETE("/orders/:id", marketH.DeleteOrder)

	api.GET("/reviews", marketH.ListReviews)
	api.GET("/reviews/:id", marketH.GetReview)
	api.POST("/reviews", marketH.CreateReview)
	api.PUT("/reviews/:id", marketH.UpdateReview)
	api.DELETE("/reviews/:id", marketH.DeleteReview)

	zlog.Info("api listening", "port", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		zlog.Fatal("server", "err", err)
	}
}
