package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Stock restore policies for items removed from an invoice
const (
	RestorePolicyRestore = "restore"
	RestorePolicyKeep    = "keep"
)

// DBConfig holds database configuration
type DBConfig struct {
	Driver          string // postgres | sqlite
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	SQLitePath      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

// DSN returns the connection string for the configured driver.
// DATABASE_URL wins over the discrete postgres fields when set.
func (c *DBConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.SQLitePath
	}
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	AppName     string
	Port        string
	Env         string
	CORSOrigins string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// SalesConfig holds the business knobs of the invoice and stock flows
type SalesConfig struct {
	LowStockThreshold  int
	InvoiceDueDays     int
	StockRestorePolicy string
}

// RestoreStock reports whether stock of removed invoice items goes back to the product.
func (c SalesConfig) RestoreStock() bool {
	return c.StockRestorePolicy != RestorePolicyKeep
}

// Config holds all configuration
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Log    LogConfig
	Sales  SalesConfig
}

// Load loads configuration from the environment, reading .env first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional, real environments set variables directly
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			AppName:     getEnv("APP_NAME", "SalesNexus API"),
			Port:        getEnv("PORT", "5000"),
			Env:         getEnv("APP_ENV", "development"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		DB: DBConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "salesnexus"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			SQLitePath:      getEnv("SQLITE_PATH", "salesnexus.db"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			LogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Sales: SalesConfig{
			LowStockThreshold:  getEnvAsInt("LOW_STOCK_THRESHOLD", 10),
			InvoiceDueDays:     getEnvAsInt("INVOICE_DUE_DAYS", 30),
			StockRestorePolicy: strings.ToLower(getEnv("STOCK_RESTORE_POLICY", RestorePolicyRestore)),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	switch c.Sales.StockRestorePolicy {
	case RestorePolicyRestore, RestorePolicyKeep:
	default:
		return fmt.Errorf("unsupported STOCK_RESTORE_POLICY %q", c.Sales.StockRestorePolicy)
	}
	if c.Sales.InvoiceDueDays < 0 {
		return fmt.Errorf("INVOICE_DUE_DAYS must not be negative")
	}
	return nil
}

// IsProduction reports whether the app runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
