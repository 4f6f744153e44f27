package db

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"realestate-api/models"
)

var DB *gorm.DB

func DbConnect() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USERNAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to the database")
	}
	DB = conn
	fmt.Println("Connected to the database")
}

func GetDB() *gorm.DB {
	if DB == nil {
		DbConnect()
	}
	return DB
}

// Use installs an already-open connection in place of the lazy
// environment-driven one. Tests install an in-memory database here.
func Use(conn *gorm.DB) {
	DB = conn
}

func MakeMigration(DB *gorm.DB) {
	DB.AutoMigrate(
		&models.Profile{},
		&models.Property{},
		&models.PropertyImage{},
		&models.SavedProperty{},
		&models.Inquiry{},
	)
	fmt.Println("Database migrated successfully")
}
