package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBDSN       string
	LogFile     string
	JWTSecret   string
	JWTTTL      time.Duration
	EmailDomain string
}

func Load() Config {
	// Optional .env in the working directory, same as the original deployment.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "campusmarket.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./campusmarket.log"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-only-insecure-secret"
		log.Printf("[config] JWT_SECRET not set; using dev default")
	}
	ttl := 4 * time.Hour
	if v := os.Getenv("JWT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		} else {
			log.Printf("[config] bad JWT_TTL %q, keeping %s", v, ttl)
		}
	}
	domain := os.Getenv("EMAIL_DOMAIN")
	if domain == "" {
		domain = "columbus.edu"
	}

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile, JWTSecret: secret, JWTTTL: ttl, EmailDomain: domain}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s JWT_TTL=%s EMAIL_DOMAIN=%s", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.JWTTTL, cfg.EmailDomain)
	return cfg
}
