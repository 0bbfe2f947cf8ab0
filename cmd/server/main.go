// Entry point for the activity booking API server.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-booking/internal/config"
	"github.com/iliyamo/activity-booking/internal/database"
	"github.com/iliyamo/activity-booking/internal/handler"
	"github.com/iliyamo/activity-booking/internal/middleware"
	"github.com/iliyamo/activity-booking/internal/queue"
	"github.com/iliyamo/activity-booking/internal/repository"
	"github.com/iliyamo/activity-booking/internal/router"
	"github.com/iliyamo/activity-booking/internal/service"
)

func main() {
	// Load .env when present; real environments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and the rate limiter.  A nil
	// client disables both rather than failing startup.
	rdb := config.NewRedisClient()

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	activities := repository.NewActivityRepo(db)
	cartLines := repository.NewCartRepo(db)
	bookings := repository.NewBookingRepo(db)
	capacity := repository.NewCapacityRepo(db)

	// Services.
	events := service.QueuePublisher{}
	cartSvc := service.NewCartService(activities, cartLines)
	checkoutSvc := service.NewCheckoutService(activities, cartLines, capacity, bookings, events)
	bookingSvc := service.NewBookingService(bookings, capacity, events)
	sweeper := service.NewCompletionSweeper(bookings, events, time.Duration(cfg.SweepIntervalMin)*time.Minute)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(activities)
	cartH := handler.NewCartHandler(cartSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc)
	customerBookingH := handler.NewCustomerBookingHandler(bookingSvc, bookings)
	vendorActivityH := handler.NewVendorActivityHandler(activities)
	vendorBookingH := handler.NewVendorBookingHandler(bookingSvc, bookings)

	e := echo.New()

	var publicMW, limitedMW []echo.MiddlewareFunc
	if rdb != nil {
		publicMW = append(publicMW, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
		limitedMW = append(limitedMW, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, publicMW...)
	router.RegisterCustomer(e, cartH, checkoutH, customerBookingH, cfg.JWTSecret, limitedMW...)
	router.RegisterVendor(e, vendorActivityH, vendorBookingH, cfg.JWTSecret, limitedMW...)

	// Background workers: the event consumer logs booking events, the
	// sweeper completes confirmed bookings past their date.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking-consumer: %v", err)
		}
	}()
	go sweeper.Run(context.Background())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
