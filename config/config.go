package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

var (
	Port             string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	RedisAddress     string
	JWTSecret        string
	DefaultPassword  string
	UploadDir        string
	SweepInterval    time.Duration
)

// LoadConfig loads the environment variables from the .env file if present
// and fills the exported configuration variables
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	Port = getEnv("API_PORT", "8080")
	PostgresHost = getEnv("POSTGRES_HOST", "localhost")
	PostgresPort = getEnv("POSTGRES_PORT", "5432")
	PostgresUser = getEnv("POSTGRES_USER", "postgres")
	PostgresPassword = getEnv("POSTGRES_PASSWORD", "postgres")
	PostgresDB = getEnv("POSTGRES_DB", "competitions")
	RedisAddress = os.Getenv("REDIS_ADDRESS")
	JWTSecret = getEnv("JWT_SECRET", "change-me")
	DefaultPassword = os.Getenv("DEFAULT_ADMIN_PASSWORD")
	UploadDir = getEnv("UPLOAD_DIR", "./uploads")

	// Expired competitions are swept to ENDED on this interval
	SweepInterval = time.Hour
	if raw := os.Getenv("SWEEP_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("Invalid SWEEP_INTERVAL %q, keeping default: %v", raw, err)
		} else {
			SweepInterval = d
		}
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
