package main

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/hotel-reservation/internal/booking"
    "github.com/iliyamo/hotel-reservation/internal/config"
    "github.com/iliyamo/hotel-reservation/internal/database"
    "github.com/iliyamo/hotel-reservation/internal/handler"
    "github.com/iliyamo/hotel-reservation/internal/middleware"
    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/queue"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/router"
    "github.com/iliyamo/hotel-reservation/internal/service"
)

func main() {
    if err := godotenv.Load(); err != nil {
        logrus.WithError(err).Warn(".env not loaded; using process environment")
    }
    cfg := config.Load()
    log := config.NewLogger(cfg)

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    db, err := database.Open(ctx, database.Options{
        User:         cfg.DBUser,
        Pass:         cfg.DBPass,
        Host:         cfg.DBHost,
        Port:         cfg.DBPort,
        Name:         cfg.DBName,
        MaxOpenConns: cfg.DBMaxOpenConns,
    })
    if err != nil {
        log.WithError(err).Fatal("database connection failed")
    }
    defer db.Close()

    if cfg.DBMigrate {
        if err := database.Migrate(ctx, db); err != nil {
            log.WithError(err).Fatal("schema migration failed")
        }
    }

    initial, err := model.ParseBookingStatus(cfg.BookingInitialStatus)
    if err != nil {
        log.WithError(err).Fatal("BOOKING_INITIAL_STATUS")
    }

    rooms := repository.NewRoomRepo(db)
    bookings := repository.NewBookingRepo(db)
    publisher := service.NewPublisher(cfg.RabbitMQURL, log)

    engine, err := booking.NewEngine(
        repository.NewUnitOfWorkFactory(rooms, bookings),
        rooms,
        bookings,
        booking.Config{
            InitialStatus: initial,
            MaxAttempts:   cfg.BookingMaxAttempts,
            TxTimeout:     cfg.BookingTxTimeout,
        },
        log,
        booking.WithNotifier(publisher),
    )
    if err != nil {
        log.WithError(err).Fatal("booking engine")
    }

    rdb := config.NewRedisClient(log)
    if rdb != nil {
        defer rdb.Close()
    }
    cache := middleware.NewCache(config.LoadCacheConfig(), rdb, log)

    if cfg.NotifyConsumerEnabled {
        consumer := queue.NewConsumer(cfg.RabbitMQURL, "", log)
        go func() {
            if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
                log.WithError(err).Error("booking consumer stopped")
            }
        }()
    }

    e := echo.New()
    e.HideBanner = true
    e.Validator = handler.NewRequestValidator()
    e.Use(echomw.RequestID())
    e.Use(echomw.Logger())
    e.Use(echomw.Recover())

    var purger handler.CachePurger
    if cache != nil {
        purger = cache
    }
    h := handler.NewBookingHandler(engine, purger, cfg.IsProduction(), log)
    deps := router.Deps{
        JWTSecret: cfg.JWTSecret,
        RoomCache: cache.Middleware(),
        RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
    }
    router.RegisterRoutes(e)
    router.RegisterPublic(e, h, deps)
    router.RegisterAdmin(e, h, deps)

    go func() {
        addr := ":" + cfg.Port
        log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
        if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
            log.WithError(err).Fatal("http server")
        }
    }()

    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := e.Shutdown(shutdownCtx); err != nil {
        log.WithError(err).Error("shutdown")
    }
}
