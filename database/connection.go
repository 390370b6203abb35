package database

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the PostgreSQL connection for transaction receipts.
// On Cloud Run it goes through the Cloud SQL unix socket; locally it
// uses TCP with DB_HOST/DB_PORT.
func Connect() (*gorm.DB, error) {
	dbUser := getenvDefault("DB_USER", "postgres")
	dbPass := os.Getenv("DB_PASS")
	dbName := getenvDefault("DB_NAME", "quicktopup")

	var dsn string
	if instance := os.Getenv("INSTANCE_CONNECTION_NAME"); instance != "" {
		dsn = fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
			instance, dbUser, dbPass, dbName)
		log.Printf("Connecting to Cloud SQL via socket: %s", instance)
	} else {
		host := getenvDefault("DB_HOST", "localhost")
		port := getenvDefault("DB_PORT", "5432")
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			host, dbUser, dbPass, dbName, port)
		log.Printf("Connecting to PostgreSQL at %s:%s", host, port)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("✅ Database connected successfully!")
	return db, nil
}

func getenvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
