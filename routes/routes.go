package routes

import (
	"garagehub-backend/config"
	"garagehub-backend/controllers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://www.vinnykj.co.ke",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	api := r.Group("/api")
	{
		// Product catalog routes
		products := api.Group("/products")
		{
			products.POST("", controllers.CreateProduct)
			products.GET("", controllers.GetProducts)
			products.GET("/:id", controllers.GetProduct)
			products.PUT("/:id", controllers.UpdateProduct)
			products.POST("/:id/restock", controllers.RestockProduct)
			products.DELETE("/:id", controllers.DeleteProduct)
		}

		// Service catalog routes
		services := api.Group("/services")
		{
			services.POST("", controllers.CreateService)
			services.GET("", controllers.GetServices)
			services.GET("/:id", controllers.GetService)
			services.GET("/:id/slots", controllers.GetAvailableSlots)
			services.PUT("/:id", controllers.UpdateService)
			services.DELETE("/:id", controllers.DeleteService)
		}

		// Order routes
		orders := api.Group("/orders")
		{
			orders.POST("", controllers.CreateOrder)
			orders.GET("", controllers.GetOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.POST("/:id/cancel", controllers.CancelOrder)
		}

		// Booking routes
		bookings := api.Group("/bookings")
		{
			bookings.POST("", controllers.CreateBooking)
			bookings.GET("", controllers.GetBookings)
			bookings.GET("/:id", controllers.GetBooking)
			bookings.POST("/:id/confirm", controllers.ConfirmBooking)
			bookings.POST("/:id/complete", controllers.CompleteBooking)
			bookings.POST("/:id/cancel", controllers.CancelBooking)
		}

		// Payment routes
		payments := api.Group("/payments")
		{
			payments.POST("/mpesa/initiate/:orderId", controllers.InitiateMpesaPayment)
			payments.POST("/mpesa/callback", controllers.MpesaCallback)
			payments.GET("/status/:transactionId", controllers.GetPaymentStatus)
			payments.GET("/order/:orderId", controllers.GetOrderPayments)
		}
	}

	return r
}
