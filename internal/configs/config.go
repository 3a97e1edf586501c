package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

type RESTConfig struct {
	PORT               string
	CORSAllowedOrigins []string
}

// StorefrontAPIConfig - удаленный API магазина и кэширование его ответов
type StorefrontAPIConfig struct {
	BaseURL     string
	PageSize    int
	ReviewsTTL  time.Duration
	ProductsTTL time.Duration
}

type StorageConfig struct {
	Driver      string
	DatabaseURL string
	MaxConns    int32
}

type RabbitMQConfig struct {
	Enabled      bool
	URL          string
	ExchangeName string
}

// CheckoutConfig - сколько хранится итог оформления заказа.
type CheckoutConfig struct {
	StatusRetention time.Duration
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName       string
	Rest          RESTConfig
	StorefrontAPI StorefrontAPIConfig
	Checkout      CheckoutConfig
	Storage       StorageConfig
	RabbitMQ      RabbitMQConfig
	FluentBit     FluentBitConfig
	StdoutLogger  StdoutLogConfig
}

// LoadConfig загружает конфигурацию из .env (если он есть) и переменных окружения.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		// Без .env работаем на переменных окружения
		log.Printf("Info: Could not load .env file (path: %v): %v. Using environment only.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "storefront-service")

	cfg.Rest.PORT = getEnvAsString("PORT", "8080")
	cfg.Rest.CORSAllowedOrigins = getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})

	cfg.StorefrontAPI.BaseURL = strings.TrimRight(getEnvAsString("STOREFRONT_API_URL", "http://o-complex.com:1337"), "/")
	cfg.StorefrontAPI.PageSize = getEnvAsInt("CATALOG_PAGE_SIZE", 20)
	if cfg.StorefrontAPI.PageSize <= 0 {
		return nil, fmt.Errorf("CATALOG_PAGE_SIZE must be positive, got %d", cfg.StorefrontAPI.PageSize)
	}
	cfg.StorefrontAPI.ReviewsTTL = time.Duration(getEnvAsInt("REVIEWS_CACHE_TTL_SEC", 300)) * time.Second
	cfg.StorefrontAPI.ProductsTTL = time.Duration(getEnvAsInt("PRODUCTS_CACHE_TTL_SEC", 60)) * time.Second

	cfg.Checkout.StatusRetention = time.Duration(getEnvAsInt("CHECKOUT_STATUS_TTL_SEC", 3600)) * time.Second

	cfg.Storage.Driver = strings.ToLower(getEnvAsString("STORAGE_DRIVER", StorageDriverMemory))
	switch cfg.Storage.Driver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		cfg.Storage.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.Storage.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for STORAGE_DRIVER=postgres")
		}
		cfg.Storage.MaxConns = int32(getEnvAsInt("DB_MAX_CONNS", 0))
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q (expected %q or %q)", cfg.Storage.Driver, StorageDriverMemory, StorageDriverPostgres)
	}

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED is true")
		}
		cfg.RabbitMQ.ExchangeName = getEnvAsString("ORDER_EVENTS_EXCHANGE", "storefront_exchange")
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную как int. Если значение не разбирается,
// пишет предупреждение и возвращает значение по умолчанию.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists || valStr == "" {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(strings.TrimSpace(valStr))
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsSlice читает список через запятую, пустые элементы отбрасываются.
func getEnvAsSlice(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valStr) == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
