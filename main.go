package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonpro-bookings/bookings"
	"salonpro-bookings/config"
	"salonpro-bookings/routes"
	"salonpro-bookings/services"
	"salonpro-bookings/store"

	"github.com/gin-gonic/gin"
)

func main() {
	settings := config.Load()
	config.SetLogLevel(settings.LogLevel)
	logger := config.GetLogger()

	if settings.DatabaseURL == "" {
		logger.Fatal("DB_URL is required")
	}
	config.ConnectDB(settings.DatabaseURL)
	db := store.NewGormStore(config.DB)
	if err := db.Migrate(); err != nil {
		config.LogError(logger, "main", "main", "Migration failed", nil, err)
		os.Exit(1)
	}

	// Redis locks when configured, otherwise a single-instance mutex.
	var locker bookings.Locker = bookings.NewKeyedMutex()
	if settings.RedisAddress != "" {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := config.ConnectRedis(ctx, settings.RedisAddress, settings.RedisPassword, 3)
		cancel()
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, using in-process booking locks")
		} else {
			locker = bookings.NewRedisLocker(config.GetRedisLock(), settings.LockTTL, logger)
		}
	}

	opts := []bookings.Option{bookings.WithPriceLookup(db)}
	var receipts *services.ReceiptService
	if settings.TwilioAccountSID != "" && settings.TwilioAuthToken != "" {
		sender := services.NewTwilioSender(settings.TwilioAccountSID, settings.TwilioAuthToken)
		receipts = services.NewReceiptService(db, sender, settings.TwilioPhoneNumber, settings.TwilioWhatsAppNumber, logger)
		opts = append(opts, bookings.WithSaleListener(receipts))
	} else {
		logger.Info("Twilio not configured, receipts disabled")
	}
	engine := bookings.NewEngine(db, locker, logger, opts...)

	reconciler := services.NewReconcileService(engine, settings.ReconcileSpec, logger)
	if err := reconciler.StartScheduler(); err != nil {
		config.LogError(logger, "main", "main", "Failed to start reconciliation", settings.ReconcileSpec, err)
		os.Exit(1)
	}

	r, err := routes.SetupRouter(routes.Deps{
		Engine:         engine,
		Bookings:       db,
		Ledger:         db,
		Customers:      db,
		Catalog:        db,
		Users:          db,
		AllowedOrigins: settings.AllowedOrigins,
	})
	if err != nil {
		config.LogError(logger, "main", "main", "Failed to build router", nil, err)
		os.Exit(1)
	}
	printRoutes(r)

	srv := &http.Server{Addr: ":" + settings.Port, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server stopped")
		}
	}()
	logger.WithField("port", settings.Port).Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("Server shutdown")
	}
	reconciler.Stop()
	if receipts != nil {
		receipts.Wait()
	}
	logger.Info("Server exited")
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
