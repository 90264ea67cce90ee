package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kbukum/guardkit/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad_FromExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: orders
environment: production
logging:
  level: debug
  format: json
retry:
  max_attempts: 5
  initial_delay: 250ms
breaker:
  failure_threshold: 7
limiter:
  rate: 50
  burst: 100
batch:
  concurrency: 16
`)

	var cfg Settings
	if err := Load("orders", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Name != "orders" || cfg.Environment != "production" {
		t.Errorf("unexpected base fields: %+v", cfg)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("expected 5 attempts, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.InitialDelay != 250*time.Millisecond {
		t.Errorf("expected 250ms initial delay, got %v", cfg.Retry.InitialDelay)
	}
	if cfg.Breaker.FailureThreshold != 7 {
		t.Errorf("expected threshold 7, got %d", cfg.Breaker.FailureThreshold)
	}
	if cfg.Limiter.Rate != 50 || cfg.Limiter.Burst != 100 {
		t.Errorf("unexpected limiter config: %+v", cfg.Limiter)
	}
	if cfg.Batch.Concurrency != 16 {
		t.Errorf("expected concurrency 16, got %d", cfg.Batch.Concurrency)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: orders\n")

	var cfg Settings
	if err := Load("orders", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("expected development default, got %s", cfg.Environment)
	}
	if !cfg.Debug {
		t.Error("expected debug enabled in development")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected info level default, got %s", cfg.Logging.Level)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("expected default 3 attempts, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Breaker.FailureThreshold != 5 {
		t.Errorf("expected default threshold 5, got %d", cfg.Breaker.FailureThreshold)
	}
	if cfg.Breaker.Name != "orders" {
		t.Errorf("expected breaker named after service, got %s", cfg.Breaker.Name)
	}
	if cfg.Batch.Concurrency != 5 || !cfg.Batch.PreserveOrder {
		t.Errorf("unexpected batch defaults: %+v", cfg.Batch)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: orders
retry:
  max_attempts: 3
`)

	t.Setenv("GUARDKIT_RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("GUARDKIT_ENVIRONMENT", "staging")

	var cfg Settings
	if err := Load("orders", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Retry.MaxAttempts != 7 {
		t.Errorf("expected env override 7, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected env override staging, got %s", cfg.Environment)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yml", "name: orders\n")
	envPath := writeFile(t, dir, ".env", "GUARDKIT_LIMITER_RATE=99\n")
	t.Cleanup(func() { _ = os.Unsetenv("GUARDKIT_LIMITER_RATE") })

	var cfg Settings
	err := Load("orders", &cfg, WithConfigFile(configPath), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Limiter.Rate != 99 {
		t.Errorf("expected rate 99 from .env, got %v", cfg.Limiter.Rate)
	}
}

func TestLoad_MissingNameFailsValidation(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "environment: staging\n")

	var cfg Settings
	err := Load("orders", &cfg, WithConfigFile(path))
	if !errors.HasCategory(err, errors.CategoryConfiguration) {
		t.Errorf("expected configuration error for missing name, got %v", err)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: [unclosed\n")

	var cfg Settings
	err := Load("orders", &cfg, WithConfigFile(path))
	if !errors.HasCategory(err, errors.CategoryConfiguration) {
		t.Errorf("expected configuration error for malformed file, got %v", err)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("RETRY_MAX_ATTEMPTS")

	want := map[string]bool{
		"retry_max_attempts": false,
		"retry.max.attempts": false,
		"retry.max_attempts": false,
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for k, found := range want {
		if !found {
			t.Errorf("expected variant %q in %v", k, variants)
		}
	}
}
