package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"afford-tracker/internal/models"
)

const minSecretLength = 32

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string
	AppEnv        string

	CloudName string
	APIKey    string
	APISecret string
	UploadDir string
	MaxUpload int64

	RedisAddr      string
	LoginRateLimit int

	ShutdownTimeout time.Duration

	AdminUsername string
	AdminPassword string
	AdminCity     models.City
}

// Production reports whether cookies must be marked Secure.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

// UseCloudinary is true when all three Cloudinary credentials are present.
func (c *Config) UseCloudinary() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// Load reads .env (if any) and the environment, exiting on bad configuration.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		AppEnv:        getEnv("APP_ENV", "development"),
		CloudName:     os.Getenv("CLOUD_NAME"),
		APIKey:        os.Getenv("API_KEY"),
		APISecret:     os.Getenv("API_SECRET"),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminCity:     models.City(getEnv("ADMIN_CITY", string(models.CityBhopal))),
	}

	maxMB, err := getEnvAsInt("MAX_UPLOAD_MB", 10)
	if err != nil {
		return nil, err
	}
	cfg.MaxUpload = int64(maxMB) << 20

	if cfg.LoginRateLimit, err = getEnvAsInt("LOGIN_RATE_LIMIT_PER_MINUTE", 20); err != nil {
		return nil, err
	}

	shutdown, err := getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 15)
	if err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout = time.Duration(shutdown) * time.Second

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBDSN == "" {
		return errors.New("DB_DSN is not set")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is not set")
	}
	if len(c.SessionSecret) < minSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSecretLength)
	}
	if c.MaxUpload <= 0 {
		return errors.New("MAX_UPLOAD_MB must be greater than 0")
	}
	if c.LoginRateLimit <= 0 {
		return errors.New("LOGIN_RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	if !c.AdminCity.Valid() {
		return fmt.Errorf("ADMIN_CITY %q is not a service city", c.AdminCity)
	}
	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s", key)
	}
	return i, nil
}
