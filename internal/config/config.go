// Package config defines the data structures related to configuration and
// includes functions for loading and defaulting the config.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"carfinance/internal/mailer"
	"carfinance/pkg/constants"
)

// Configuration holds all configuration for carfinance.
type Configuration struct {
	Catalog CatalogConfig `yaml:"catalog"`
	SMTP    mailer.Config `yaml:"smtp"`
	Image   ImageConfig   `yaml:"image"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// CatalogConfig points at the source tabular file.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// ImageConfig parameterizes the primary image provider.
type ImageConfig struct {
	ImaginCustomer string `yaml:"imaginCustomer"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // json, console
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A .env file, when present, is loaded first so that
// SMTP credentials can stay out of the YAML. A missing config file is not an
// error; defaults and environment variables still apply.
func LoadConfiguration(configPath string) (*Configuration, error) {
	loadEnvFile()

	var configuration Configuration
	if _, err := os.Stat(configPath); err == nil {
		viper.SetConfigFile(configPath)
		viper.SetConfigType("yml")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
		if err := viper.Unmarshal(&configuration); err != nil {
			return nil, fmt.Errorf("unable to decode into struct, %s", err)
		}
	}

	applyDefaults(&configuration)
	overrideFromEnv(&configuration)
	return &configuration, nil
}

// loadEnvFile loads a .env from the working directory or its parents. Missing
// files are fine; the system environment still applies.
func loadEnvFile() {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func applyDefaults(cfg *Configuration) {
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "cars_priced.csv"
	}
	if cfg.Image.ImaginCustomer == "" {
		cfg.Image.ImaginCustomer = constants.DefaultImaginCustomer
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// overrideFromEnv fills SMTP settings from SMTP_* variables when the YAML
// leaves them empty, so credentials never need to be committed.
func overrideFromEnv(cfg *Configuration) {
	if cfg.SMTP.Host == "" {
		cfg.SMTP.Host = os.Getenv("SMTP_HOST")
	}
	if cfg.SMTP.Port == 0 {
		if port, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
			cfg.SMTP.Port = port
		}
	}
	if cfg.SMTP.Username == "" {
		cfg.SMTP.Username = os.Getenv("SMTP_USER")
	}
	if cfg.SMTP.Password == "" {
		cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = os.Getenv("SMTP_FROM")
	}
}
