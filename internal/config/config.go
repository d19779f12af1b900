// Package config loads engine configuration from file and environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full engine configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Printer PrinterConfig `mapstructure:"printer"`
	Receipt ReceiptConfig `mapstructure:"receipt"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// PrinterConfig configures detection and delivery.
type PrinterConfig struct {
	RegistryPath    string        `mapstructure:"registry_path"`
	MonitorInterval time.Duration `mapstructure:"monitor_interval"`
	MaxRetries      int           `mapstructure:"max_retries"`
	DefaultBaud     int           `mapstructure:"default_baud"`
}

// ReceiptConfig sets rendering defaults applied when a document leaves
// them unspecified.
type ReceiptConfig struct {
	PaperWidth       string `mapstructure:"paper_width"`
	CurrencySymbol   string `mapstructure:"currency_symbol"`
	CurrencyPosition string `mapstructure:"currency_position"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// Load reads configuration from the named file (or the defaults search
// path when empty) plus ESCPOS_-prefixed environment variables. A
// missing config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.escpos-engine")
		v.AddConfigPath("/etc/escpos-engine")
	}

	v.SetEnvPrefix("ESCPOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("printer.registry_path", "./printers.json")
	v.SetDefault("printer.monitor_interval", "5s")
	v.SetDefault("printer.max_retries", 3)
	v.SetDefault("printer.default_baud", 9600)

	v.SetDefault("receipt.paper_width", "80mm")
	v.SetDefault("receipt.currency_symbol", "$")
	v.SetDefault("receipt.currency_position", "before")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	switch cfg.Receipt.PaperWidth {
	case "58mm", "80mm":
	default:
		return fmt.Errorf("receipt.paper_width must be 58mm or 80mm, got %q", cfg.Receipt.PaperWidth)
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, fatal")
	}

	return nil
}

// ServerAddr returns the host:port the API listens on.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
