package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ReportLocation is the fixed civil timezone every day range and
// report timestamp resolves against. Defaults to America/Panama.
var ReportLocation *time.Location

func Connect() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	dsn := os.Getenv("DB_DSN")
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	zone := os.Getenv("REPORT_TIME_ZONE")
	if zone == "" {
		zone = "America/Panama"
	}
	ReportLocation, err = time.LoadLocation(zone)
	if err != nil {
		log.Fatal("Failed to load report timezone:", err)
	}

	// Run migrations
	if err := Migrations(DB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Seed core checklist templates and the bootstrap director
	SeedCoreData()
}

// IsProduction reports whether the server runs with production error
// masking (rendering failures answer with a generic message).
func IsProduction() bool {
	return os.Getenv("APP_ENV") == "production"
}

// LogoPath points at the PNG painted in the PDF header.
func LogoPath() string {
	if p := os.Getenv("LOGO_PATH"); p != "" {
		return p
	}
	return "./assets/logomapelec.png"
}
