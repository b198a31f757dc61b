package storage

import (
	"flynext-server/models"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connection to db: " + dbError.Error())
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.Hotel{},
		&models.Room{},
		&models.Booking{},
		&models.FlightBooking{},
		&models.HotelBooking{},
		&models.Payment{},
		&models.Invoice{},
		&models.Notification{},
		&models.City{},
		&models.AuditLog{},
	)

	// One open cart per user: the data model alone would allow several
	// pending bookings, the business logic assumes exactly one.
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_one_pending_booking_per_user ON bookings (user_id) WHERE status = 'pending' AND deleted_at IS NULL;")
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	return db
}
