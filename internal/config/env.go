package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Env holds process settings read from the environment.
type Env struct {
	DataDir       string
	ConfigDir     string
	League        string
	HTTPAddr      string
	GRPCAddr      string
	RedisURL      string
	SQLitePath    string
	WatchInterval time.Duration
	Workers       int
}

// LoadEnv reads a .env file when present and then the environment.
func LoadEnv(files ...string) Env {
	if err := godotenv.Load(files...); err != nil {
		log.Println("[config] no .env file found")
	} else {
		log.Println("[config] loaded .env file")
	}
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() Env {
	return Env{
		DataDir:       getEnvOrDefault("RICHGO_DATA_DIR", "data"),
		ConfigDir:     getEnvOrDefault("RICHGO_CONFIG_DIR", "config"),
		League:        os.Getenv("RICHGO_LEAGUE"),
		HTTPAddr:      getEnvOrDefault("RICHGO_HTTP_ADDR", ":8080"),
		GRPCAddr:      os.Getenv("RICHGO_GRPC_ADDR"),
		RedisURL:      os.Getenv("REDIS_URL"),
		SQLitePath:    os.Getenv("RICHGO_SQLITE_PATH"),
		WatchInterval: getEnvAsDurationOrDefault("RICHGO_WATCH_INTERVAL", 5*time.Second),
		Workers:       getEnvAsIntOrDefault("RICHGO_WORKERS", 0),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
