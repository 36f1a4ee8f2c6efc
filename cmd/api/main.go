package main

import (
	availabilitycache "propshoot/internal/availability/cache"
	availabilityhandler "propshoot/internal/availability/handler"
	availabilityservice "propshoot/internal/availability/service"
	blockedhandler "propshoot/internal/blockeddays/handler"
	blockedrepo "propshoot/internal/blockeddays/repository"
	blockedservice "propshoot/internal/blockeddays/service"
	blockedvalidator "propshoot/internal/blockeddays/validator"
	bookinghandler "propshoot/internal/bookings/handler"
	bookingrepo "propshoot/internal/bookings/repository"
	bookingservice "propshoot/internal/bookings/service"
	bookingvalidator "propshoot/internal/bookings/validator"
	discounthandler "propshoot/internal/discounts/handler"
	discountrepo "propshoot/internal/discounts/repository"
	discountservice "propshoot/internal/discounts/service"
	discountvalidator "propshoot/internal/discounts/validator"
	orderhandler "propshoot/internal/orders/handler"
	paymenthandler "propshoot/internal/payments/handler"
	"propshoot/pkg/app"
	"propshoot/pkg/config"
	"propshoot/pkg/contracts"
	"propshoot/pkg/events"
)

const ServiceName = "propshoot-api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting booking API")

	publisher, err := events.New(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}

	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	})
	serverApp.SetApp(initHandlers(cfg, publisher)...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, publisher events.Publisher) []contracts.Handler {
	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingrepo.NewBookingLockRepository(cfg)
	blockedRepo := blockedrepo.NewMongoBlockedDayRepository(cfg)
	discountRepo := discountrepo.NewMongoDiscountRepository(cfg)

	monthCache := availabilitycache.NewMonthCache(cfg.Client.Redis, cfg.MonthCacheTTL, cfg.Log)
	availability := availabilityservice.NewAvailabilityService(bookingRepo, blockedRepo, monthCache, cfg)
	publisher = events.WithInvalidation(publisher, availability.Invalidate, cfg.Log)

	discounts := discountservice.NewDiscountService(
		discountRepo,
		discountvalidator.NewDiscountValidator(cfg.Log),
		cfg,
	)
	bookings := bookingservice.NewBookingService(
		bookingRepo,
		lockRepo,
		discounts,
		publisher,
		bookingvalidator.NewBookingValidator(cfg.Log),
		cfg,
	)
	blocked := blockedservice.NewBlockedDayService(
		blockedRepo,
		publisher,
		blockedvalidator.NewBlockedDayValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName, "cache", cfg.Client.Redis != nil)

	return []contracts.Handler{
		availabilityhandler.NewAvailabilityHandler(availability, cfg.Log),
		orderhandler.NewOrderHandler(availability, discounts, cfg.Log),
		bookinghandler.NewBookingHandler(bookings, cfg.Log),
		discounthandler.NewDiscountHandler(discounts, cfg.Log),
		blockedhandler.NewBlockedDayHandler(blocked, cfg.Log),
		paymenthandler.NewStripeWebhookHandler(bookings, cfg.StripeWebhookSecret, cfg.StripeWebhookTolerance, cfg.Log),
	}
}
