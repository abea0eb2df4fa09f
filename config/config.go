package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application-level configuration
type Config struct {
	// Portal credentials
	Email    string
	Password string

	// Persistence
	MongoURI string
	MongoDB  string

	// Portal
	BaseURL           string
	MovementsPageSize int
	ItemsPageSize     int

	// Navigation
	NavTimeout    time.Duration
	NavRetries    int
	NavRetryDelay time.Duration
	SelectorWait  time.Duration

	// Jobs
	ScraperTimeout time.Duration
	RunAllTimeout  time.Duration

	// Server / scheduling
	Port   int
	CronTZ string
}

// Load reads configuration from a .env file (when present) and environment
// variables, falling back to defaults. Credentials and the Mongo URI are
// required.
func Load() (*Config, error) {
	// Missing .env is fine in containerized deployments.
	_ = godotenv.Load()

	cfg := &Config{
		Email:             os.Getenv("AGR_EMAIL"),
		Password:          os.Getenv("AGR_PASSWORD"),
		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDB:           getEnv("MONGO_DB", "agr"),
		BaseURL:           getEnv("AGR_URL", "https://adm.agrcloud.com.ar"),
		MovementsPageSize: getEnvInt("MOVEMENTS_PAGE_SIZE", 20),
		ItemsPageSize:     getEnvInt("ITEMS_PAGE_SIZE", 50),
		NavTimeout:        getEnvMillis("NAV_TIMEOUT_MS", 240000),
		NavRetries:        getEnvInt("NAV_RETRIES", 2),
		NavRetryDelay:     getEnvMillis("NAV_RETRY_DELAY_MS", 1500),
		SelectorWait:      getEnvMillis("SELECTOR_WAIT_MS", 15000),
		ScraperTimeout:    getEnvMillis("SCRAPER_TIMEOUT_MS", 25*60*1000),
		RunAllTimeout:     getEnvMillis("RUN_ALL_TIMEOUT_MS", 60*60*1000),
		Port:              getEnvInt("PORT", 8080),
		CronTZ:            os.Getenv("CRON_TZ"),
	}

	if cfg.Email == "" || cfg.Password == "" || cfg.MongoURI == "" {
		return nil, fmt.Errorf("missing AGR_EMAIL, AGR_PASSWORD or MONGO_URI")
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvMillis(key string, defaultVal int) time.Duration {
	return time.Duration(getEnvInt(key, defaultVal)) * time.Millisecond
}
