package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name                 string        `envconfig:"APP_NAME" default:"Cajero"`
		LogFile              string        `envconfig:"LOG_FILE" default:"cajero.log"`
		LogLevel             string        `envconfig:"LOG_LEVEL" default:"info"`
		SlowRequestThreshold time.Duration `envconfig:"SLOW_REQUEST_THRESHOLD" default:"8s"`
		PageSize             int           `envconfig:"PAGE_SIZE" default:"20"`
	}

	API struct {
		BaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:8080/api/"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"30s"`
	}

	Store struct {
		// One of memory, file, postgres, redis.
		Driver string `envconfig:"STORE_DRIVER" default:"file"`
		Dir    string `envconfig:"STORE_DIR" default:".cajero"`
		Prefix string `envconfig:"STORE_PREFIX" default:"cajero:"`

		// Postgres rows are keyed by profile.
		Profile string `envconfig:"STORE_PROFILE" default:"default"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"cajero"`
	}

	Redis struct {
		URL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	}

	Sandbox struct {
		Port        int           `envconfig:"SANDBOX_PORT" default:"8080"`
		JWTSecret   string        `envconfig:"SANDBOX_JWT_SECRET" default:"sandbox-secret"`
		TokenTTL    time.Duration `envconfig:"SANDBOX_TOKEN_TTL" default:"8h"`
		ProductsCSV string        `envconfig:"SANDBOX_PRODUCTS_CSV"`
		CORSOrigins []string      `envconfig:"SANDBOX_CORS_ORIGINS" default:"*"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
