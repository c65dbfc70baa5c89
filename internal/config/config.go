// Package config loads application settings from an optional YAML file,
// a .env file and STOCKBOOK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// EnvPrefix is prepended to every environment override, e.g. STOCKBOOK_DATABASE_DSN.
const EnvPrefix = "STOCKBOOK"

// Config is the root configuration.
type Config struct {
	HTTP struct {
		Addr            string        `mapstructure:"addr"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"http"`

	Database struct {
		DSN         string `mapstructure:"dsn"`
		MaxConns    int32  `mapstructure:"max_conns"`
		MinConns    int32  `mapstructure:"min_conns"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
	} `mapstructure:"database"`

	Log struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`

	Reports struct {
		// LowStockRule is a CEL expression over current_stock, min_stock and category.
		LowStockRule string `mapstructure:"low_stock_rule"`
	} `mapstructure:"reports"`

	Documents struct {
		ReceiptPrefix string `mapstructure:"receipt_prefix"`
		SalePrefix    string `mapstructure:"sale_prefix"`
	} `mapstructure:"documents"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("reports.low_stock_rule", "current_stock <= min_stock")

	v.SetDefault("documents.receipt_prefix", "RC")
	v.SetDefault("documents.sale_prefix", "SL")

	v.SetDefault("metrics.enabled", true)
}

// Load reads configuration. path may be empty, in which case only defaults,
// .env and environment variables are used. A missing .env file is ignored.
func Load(path string) (Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate checks settings that have no usable default.
func (c Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required (set %s_DATABASE_DSN)", EnvPrefix)
	}
	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("database.max_conns must be positive")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns must not exceed max_conns")
	}
	if c.Documents.ReceiptPrefix == "" || c.Documents.SalePrefix == "" {
		return fmt.Errorf("document prefixes must not be empty")
	}
	if c.Documents.ReceiptPrefix == c.Documents.SalePrefix {
		return fmt.Errorf("receipt and sale prefixes must differ")
	}
	return nil
}
