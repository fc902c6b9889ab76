package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	Database   DatabaseConfig   `yaml:"database"`
	Server     ServerConfig     `yaml:"rest"`
	Stripe     StripeConfig     `yaml:"stripe"`
	Public     PublicConfig     `yaml:"public"`
	Analytics  AnalyticsConfig  `yaml:"analytics"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver     string `yaml:"driver" env:"DATABASE_DRIVER" env-default:"postgres"`
	URL        string `yaml:"url" env:"DATABASE_URL"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"./data/sitebuilder.db"`
	MaxConns   int32  `yaml:"max_conns" env:"DATABASE_MAX_CONNS" env-default:"10"`
}

type ServerConfig struct {
	Port           string   `yaml:"port" env:"PORT" env-default:"8080"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

type StripeConfig struct {
	SecretKey string `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
}

type PublicConfig struct {
	BaseURL string `yaml:"base_url" env:"PUBLIC_BASE_URL" env-default:"http://localhost:3000"`
}

type AnalyticsConfig struct {
	// ReadModifyWrite selects the unsynchronized counter; the atomic upsert is used otherwise.
	ReadModifyWrite bool          `yaml:"read_modify_write" env:"ANALYTICS_READ_MODIFY_WRITE"`
	RetentionDays   int           `yaml:"retention_days" env:"ANALYTICS_RETENTION_DAYS" env-default:"0"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"ANALYTICS_CLEANUP_INTERVAL" env-default:"1h"`
}

// ClickHouseConfig enables the raw page-view sink when Addr is set.
type ClickHouseConfig struct {
	Addr     string `yaml:"addr" env:"CLICKHOUSE_ADDR"`
	Database string `yaml:"database" env:"CLICKHOUSE_DB" env-default:"default"`
	Username string `yaml:"username" env:"CLICKHOUSE_USERNAME" env-default:"default"`
	Password string `yaml:"password" env:"CLICKHOUSE_PASSWORD"`
}

func MustLoad() *Config {
	path := fetchConfigPath()

	if path == "" {
		panic("Config file not found in path")
	}

	log.Printf("Loading config from %s", path)
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the YAML file at path, applies environment overrides and checks
// the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for the postgres driver")
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("database.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Public.BaseURL == "" {
		return fmt.Errorf("public.base_url is required")
	}
	if c.Analytics.RetentionDays < 0 {
		return fmt.Errorf("analytics.retention_days must not be negative")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "config path")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	if res == "" {
		res = "./config/local.yaml"
	}

	return res
}
