package main

import (
	bookinghandler "github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/bookings/handler"
	bookingservice "github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/bookings/service"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/bookings/validator"
	reminderhandler "github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/reminders/handler"
	reminderservice "github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/reminders/service"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/repository"
	vehiclehandler "github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/vehicles/handler"
	vehicleservice "github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/vehicles/service"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/app"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/config"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/contracts"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/middleware"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/notify"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/sanitizer"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetStore()

	cfg.Log.Info("Starting Bookings service")

	dispatcher, closer, err := notify.New(cfg.NotifyDriver, cfg.NotifyTopic, ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize notification dispatcher", "error", err, "driver", cfg.NotifyDriver)
	}

	serverApp := app.NewApplication()
	handlers, limiter := initHandlers(cfg, dispatcher)
	serverApp.SetApp(cfg, handlers...)
	serverApp.OnShutdown(closer)
	if limiter != nil {
		serverApp.OnShutdown(limiter)
	}
	serverApp.Run()
}

func initHandlers(cfg *config.Config, dispatcher notify.Dispatcher) ([]contracts.Handler, *middleware.PhoneRateLimiter) {
	bookingRepo := repository.NewBookingRepository(cfg.Store, cfg.Now)
	reminderRepo := repository.NewReminderRepository(cfg.Store)
	vehicleRepo := repository.NewVehicleRepository(cfg.Store, cfg.Now)

	reminderService := reminderservice.NewReminderService(reminderRepo, bookingRepo, dispatcher, cfg)
	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		vehicleRepo,
		reminderService,
		dispatcher,
		validator.NewBookingValidator(cfg.Log),
		cfg,
	)
	vehicleService := vehicleservice.NewVehicleService(vehicleRepo, cfg)

	bookingHandler := bookinghandler.NewBookingHandler(bookingService, cfg.Log)
	var limiter *middleware.PhoneRateLimiter
	if cfg.BookingRateLimit > 0 {
		limiter = middleware.NewPhoneRateLimiter(
			cfg.BookingRateLimit,
			cfg.BookingRateWindow,
			middleware.JSONPhoneExtractor("customer_phone", func(phone string) string {
				return sanitizer.NormalizePhone(phone, cfg.PhoneRegion)
			}),
			cfg.Log,
		)
		bookingHandler.WithCreateLimit(limiter)
	}

	cfg.Log.Info("Booking services initialized", "store", cfg.StoreDriver, "notify", cfg.NotifyDriver, "booking_rate_limit", cfg.BookingRateLimit)
	return []contracts.Handler{
		bookingHandler,
		reminderhandler.NewReminderHandler(reminderService, cfg.Log),
		vehiclehandler.NewVehicleHandler(vehicleService, cfg.Log),
	}, limiter
}
