package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/hotelamin/booking-system/internal/config"
	"github.com/hotelamin/booking-system/internal/handler"
	"github.com/hotelamin/booking-system/internal/repository"
	"github.com/hotelamin/booking-system/internal/service"
	"github.com/hotelamin/booking-system/internal/validator"
	"github.com/hotelamin/booking-system/pkg/cache"
	"github.com/hotelamin/booking-system/pkg/database"
	"github.com/hotelamin/booking-system/pkg/rabbitmq"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Optional collaborators: the system runs without either.
	rdb := cache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	var events service.EventPublisher
	if cfg.AMQP.URL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.AMQP.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
		}
		defer publisher.Close()
		events = publisher
	}

	app := fiber.New(fiber.Config{
		AppName:      "Hotel Booking System",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())

	validate := validator.New()

	// Repositories
	roomRepo := repository.NewRoomRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	usageRepo := repository.NewUsageRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	accommodationRepo := repository.NewAccommodationRepository(pool)

	// Services
	resolver := service.NewUserResolver(userRepo)
	catalog := service.NewAccommodationCatalog(accommodationRepo, rdb, time.Duration(cfg.Redis.TTL)*time.Second)
	couponService := service.NewCouponService(couponRepo, usageRepo)
	bookingService := service.NewBookingService(pool, roomRepo, bookingRepo, couponRepo, usageRepo, resolver, catalog, events)

	// Handlers
	bookingHandler := handler.NewBookingHandler(bookingService, validate)
	couponHandler := handler.NewCouponHandler(couponService, validate)
	healthHandler := handler.NewHealthHandler(pool)

	app.Get("/health", healthHandler.Check)

	app.Post("/api/bookings", bookingHandler.CreateBooking)
	app.Post("/api/bookings/accommodation", bookingHandler.CreateAccommodationBooking)
	app.Post("/api/bookings/guest", bookingHandler.CreateGuestBooking)
	app.Get("/api/bookings", bookingHandler.ListBookings)
	app.Get("/api/bookings/:id", bookingHandler.GetBooking)
	app.Patch("/api/bookings/:id", bookingHandler.UpdateBooking)
	app.Delete("/api/bookings/:id", bookingHandler.DeleteBooking)

	app.Post("/api/coupons", couponHandler.CreateCoupon)
	app.Get("/api/coupons", couponHandler.ListCoupons)
	app.Get("/api/coupons/:code", couponHandler.GetCoupon)
	app.Patch("/api/coupons/:code", couponHandler.UpdateCoupon)
	app.Delete("/api/coupons/:code", couponHandler.DeleteCoupon)
	app.Get("/api/coupons/:code/usage", couponHandler.GetCouponUsage)
	app.Get("/api/coupon-usages", couponHandler.ListCouponUsages)

	// Periodic coupon expiry sweep. Safe to run at any frequency,
	// concurrently with bookings.
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.Sweep.Schedule, func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := couponService.SweepExpired(sweepCtx); err != nil {
			log.Error().Err(err).Msg("coupon expiry sweep failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Sweep.Schedule).Msg("invalid sweep schedule")
	}
	sweeper.Start()

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Stop scheduling new sweeps, then wait for in-flight requests.
	sweepStop := sweeper.Stop()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	<-sweepStop.Done()

	if rdb != nil {
		_ = rdb.Close()
	}
	pool.Close()
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
