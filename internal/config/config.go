package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type StoreDriver string

const (
	StoreMongo    StoreDriver = "mongo"
	StoreSQLite   StoreDriver = "sqlite"
	StorePostgres StoreDriver = "postgres"
	StoreMemory   StoreDriver = "memory"
)

type Config struct {
	HTTPAddr string

	StoreDriver   StoreDriver
	MongoURL      string
	MongoDatabase string
	DBDSN         string // sqlite/postgres

	SecretKey      string
	SeedSampleData bool

	CORSOrigins []string
}

// Load reads an optional .env file into the environment, then FromEnv.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded (%v), using process environment", err)
	}
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		HTTPAddr:       envOr("HTTP_ADDR", ":9000"),
		StoreDriver:    StoreDriver(strings.ToLower(envOr("STORE_DRIVER", string(StoreMongo)))),
		MongoURL:       envOr("MONGODB_URL", "mongodb://localhost/?directConnection=true&serverSelectionTimeoutMS=200"),
		MongoDatabase:  envOr("MONGODB_DATABASE", "student_submissions"),
		DBDSN:          os.Getenv("DB_DSN"),
		SecretKey:      envOr("SECRET_KEY", "your-secret-key-change-this-in-production"),
		SeedSampleData: envBool("SEED_SAMPLE_DATA", false),
		CORSOrigins:    csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
