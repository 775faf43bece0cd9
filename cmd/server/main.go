package main

import (
    "log"

    "github.com/labstack/echo/v4"

    "github.com/GitRE41187/lab-reservation/internal/booking"
    "github.com/GitRE41187/lab-reservation/internal/config"
    "github.com/GitRE41187/lab-reservation/internal/database"
    "github.com/GitRE41187/lab-reservation/internal/gateway"
    "github.com/GitRE41187/lab-reservation/internal/handler"
    "github.com/GitRE41187/lab-reservation/internal/queue"
    "github.com/GitRE41187/lab-reservation/internal/repository"
    "github.com/GitRE41187/lab-reservation/internal/router"
    "github.com/GitRE41187/lab-reservation/internal/service"
)

func main() {
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()
    if err := database.EnsureSchema(db); err != nil {
        log.Fatalf("schema: %v", err)
    }

    rdb := config.NewRedisClient() // nil when Redis is absent; middleware passes through

    openMin, err := booking.ParseClock(cfg.BookingOpen)
    if err != nil {
        log.Fatalf("BOOKING_OPEN: %v", err)
    }
    closeMin, err := booking.ParseClock(cfg.BookingClose)
    if err != nil {
        log.Fatalf("BOOKING_CLOSE: %v", err)
    }
    window := booking.Window{OpenMin: openMin, CloseMin: closeMin, MaxDurationMin: cfg.MaxDurationMin}

    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    labs := repository.NewLabRepo(db)
    bookings := repository.NewBookingRepo(db)
    executions := repository.NewExecutionRepo(db)
    activity := repository.NewActivityRepo(db)

    bookingSvc := service.NewBookingService(bookings, labs, window)
    gw := gateway.NewClient(cfg.GatewayURL, cfg.GatewayTimeout, cfg.GatewayExecTimeout)
    gate := service.NewControlGate(bookingSvc, gw, executions, cfg.ControlStrict)

    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    e.HideBanner = true
    router.Register(e, router.Handlers{
        Auth:      handler.NewAuthHandler(cfg, users, tokens),
        Labs:      handler.NewLabHandler(labs),
        Bookings:  handler.NewBookingHandler(bookingSvc, labs, activity),
        Robot:     handler.NewRobotHandler(gate, activity),
        History:   handler.NewHistoryHandler(activity),
        Dashboard: handler.NewDashboardHandler(bookings, labs, executions),
    }, cfg, rdb)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
