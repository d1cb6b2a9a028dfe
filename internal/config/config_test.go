package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	path := writeConfig(t, `
catalog:
  path: test/cars_fixture.csv
image:
  imaginCustomer: acme
logging:
  level: debug
  format: console
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error: %v", err)
	}

	if conf.Catalog.Path != "test/cars_fixture.csv" {
		t.Errorf("Catalog.Path = %q, expected fixture path", conf.Catalog.Path)
	}
	if conf.Image.ImaginCustomer != "acme" {
		t.Errorf("Image.ImaginCustomer = %q, expected acme", conf.Image.ImaginCustomer)
	}
	if conf.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, expected debug", conf.Logging.Level)
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	path := writeConfig(t, "catalog:\n  path: \"\"\n")

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error: %v", err)
	}

	if conf.Catalog.Path != "cars_priced.csv" {
		t.Errorf("Catalog.Path = %q, expected default", conf.Catalog.Path)
	}
	if conf.Image.ImaginCustomer != "demo" {
		t.Errorf("Image.ImaginCustomer = %q, expected demo", conf.Image.ImaginCustomer)
	}
	if conf.Logging.Level != "info" || conf.Logging.Format != "json" {
		t.Errorf("logging defaults not applied: %+v", conf.Logging)
	}
}

func TestLoadConfigurationSMTPFromEnv(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "mailer")
	t.Setenv("SMTP_PASSWORD", "secret")
	t.Setenv("SMTP_FROM", "quotes@example.com")

	path := writeConfig(t, "catalog:\n  path: cars.csv\n")

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error: %v", err)
	}

	if conf.SMTP.Host != "smtp.example.com" {
		t.Errorf("SMTP.Host = %q, expected env override", conf.SMTP.Host)
	}
	if conf.SMTP.From != "quotes@example.com" {
		t.Errorf("SMTP.From = %q, expected env override", conf.SMTP.From)
	}
}

func TestLoadConfigurationMissingFileUsesDefaults(t *testing.T) {
	conf, err := LoadConfiguration("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error for missing file: %v", err)
	}

	if conf.Catalog.Path != "cars_priced.csv" {
		t.Errorf("Catalog.Path = %q, expected default", conf.Catalog.Path)
	}
	if conf.Image.ImaginCustomer != "demo" {
		t.Errorf("Image.ImaginCustomer = %q, expected demo", conf.Image.ImaginCustomer)
	}
}

func TestLoadConfigurationMissingFileStillReadsEnv(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "587")

	conf, err := LoadConfiguration("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error for missing file: %v", err)
	}

	if conf.SMTP.Host != "smtp.example.com" {
		t.Errorf("SMTP.Host = %q, expected env value", conf.SMTP.Host)
	}
	if conf.SMTP.Port != 587 {
		t.Errorf("SMTP.Port = %d, expected 587 from env", conf.SMTP.Port)
	}
}
