package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	SERVER_PORT int

	DATABASE_URL string

	GOOGLE_CLIENT_ID     string
	GOOGLE_CLIENT_SECRET string
	OAUTH_REDIRECT_URL   string

	S3_BUCKET string
	S3_REGION string

	KAFKA_ADDRESS string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string

	SESSION_TTL_HOURS int
	LOG_LEVEL         string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		SERVER_PORT: EnvIntDefault("SERVER_PORT", 8080),

		DATABASE_URL: os.Getenv("DATABASE_URL"),

		GOOGLE_CLIENT_ID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GOOGLE_CLIENT_SECRET: os.Getenv("GOOGLE_CLIENT_SECRET"),
		OAUTH_REDIRECT_URL:   EnvDefault("OAUTH_REDIRECT_URL", "http://127.0.0.1:8080/auth/callback"),

		S3_BUCKET: os.Getenv("S3_BUCKET"),
		S3_REGION: EnvDefault("S3_REGION", "us-east-1"),

		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),

		ES_URL:      os.Getenv("ES_URL"),
		ES_USER:     os.Getenv("ES_USER"),
		ES_PASSWORD: os.Getenv("ES_PASSWORD"),

		SESSION_TTL_HOURS: EnvIntDefault("SESSION_TTL_HOURS", 72),
		LOG_LEVEL:         EnvDefault("LOG_LEVEL", "info"),
	}

	return config, nil
}

func (c *Config) Require() {
	MustNonEmpty(c.DATABASE_URL, "DATABASE_URL")
	MustNonEmpty(c.GOOGLE_CLIENT_ID, "GOOGLE_CLIENT_ID")
	MustNonEmpty(c.GOOGLE_CLIENT_SECRET, "GOOGLE_CLIENT_SECRET")
	MustNonEmpty(c.S3_BUCKET, "S3_BUCKET")
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
