package main

import (
	"fmt"
	"log"
	"os"

	"garagehub-backend/config"
	"garagehub-backend/controllers"
	"garagehub-backend/models"
	"garagehub-backend/routes"
	"garagehub-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Product{},
		&models.Service{},
		&models.Order{},
		&models.OrderItem{},
		&models.Booking{},
		&models.Payment{},
	)

	// Partial unique index backing slot exclusivity: gorm tags cannot
	// express the WHERE clause, so it is created with raw SQL.
	if err := config.DB.Exec(models.BookingSlotIndexSQL).Error; err != nil {
		log.Printf("Failed to ensure booking slot index: %v", err)
	}

	controllers.Setup(config.DB)
}

func main() {
	sweeper := services.NewPaymentSweeper(config.DB)
	sweeper.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
