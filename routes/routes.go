package routes

import (
	"salonpro-bookings/bookings"
	"salonpro-bookings/config"
	"salonpro-bookings/controllers"
	"salonpro-bookings/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps is everything the router hands to controllers.
type Deps struct {
	Engine         controllers.BookingEngine
	Bookings       bookings.BookingStore
	Ledger         bookings.LedgerReader
	Customers      controllers.CustomerStore
	Catalog        controllers.CatalogStore
	Users          controllers.UserStore
	AllowedOrigins []string
}

func SetupRouter(deps Deps) (*gin.Engine, error) {
	if err := controllers.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())

	allowed := make(map[string]bool, len(deps.AllowedOrigins))
	for _, origin := range deps.AllowedOrigins {
		allowed[origin] = true
	}
	r.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return allowed[origin]
		},
	}))

	r.Use(config.PerformanceLogger())

	authController := controllers.AuthController{Users: deps.Users}
	auth := r.Group("/auth")
	{
		auth.POST("/login", authController.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", authController.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Booking routes
		bookingController := controllers.BookingController{Engine: deps.Engine, Bookings: deps.Bookings}
		bookingRoutes := api.Group("/bookings")
		{
			bookingRoutes.POST("", bookingController.CreateBooking)
			bookingRoutes.GET("", bookingController.GetBookings)
			bookingRoutes.GET("/:id", bookingController.GetBooking)
			bookingRoutes.POST("/:id/status", bookingController.UpdateStatus)
			bookingRoutes.POST("/:id/complete", bookingController.CompleteBooking)
		}
		api.POST("/carts/checkout", bookingController.Checkout)

		// Ledger routes
		transactionController := controllers.TransactionController{Ledger: deps.Ledger}
		api.GET("/transactions", transactionController.GetTransactions)
		api.GET("/transactions/:id", transactionController.GetTransaction)

		// Reports routes
		reportController := controllers.ReportController{Ledger: deps.Ledger}
		api.GET("/reports/revenue", reportController.GetRevenueReport)

		// Customer routes
		customerController := controllers.CustomerController{Customers: deps.Customers}
		api.POST("/customers", customerController.CreateCustomer)
		api.GET("/customers/:id", customerController.GetCustomer)

		// Catalog routes
		catalogController := controllers.CatalogController{Catalog: deps.Catalog}
		api.POST("/catalog", catalogController.CreateCatalogItem)
		api.GET("/catalog", catalogController.GetCatalogItems)
	}

	return r, nil
}
