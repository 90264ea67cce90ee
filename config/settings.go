package config

import (
	"fmt"

	"github.com/kbukum/guardkit/batch"
	"github.com/kbukum/guardkit/logger"
	"github.com/kbukum/guardkit/resilience"
	"github.com/kbukum/guardkit/validation"
)

// Settings contains the tunables for every guardkit component. Projects
// extend this by embedding it in their own config structs.
//
// Example:
//
//	type MyConfig struct {
//	    config.Settings `yaml:",inline" mapstructure:",squash"`
//	    Database        database.Config `yaml:"database" mapstructure:"database"`
//	}
type Settings struct {
	Name        string `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string `yaml:"environment" mapstructure:"environment" validate:"omitempty,oneof=development staging production"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Logging logger.Config                   `yaml:"logging" mapstructure:"logging"`
	Retry   resilience.RetryConfig          `yaml:"retry" mapstructure:"retry"`
	Breaker resilience.CircuitBreakerConfig `yaml:"breaker" mapstructure:"breaker"`
	Limiter resilience.RateLimiterConfig    `yaml:"limiter" mapstructure:"limiter"`
	Batch   batch.Options                   `yaml:"batch" mapstructure:"batch"`
}

// GetSettings returns the base Settings. When embedded in a larger config
// struct this method is promoted, so the embedding struct automatically
// satisfies the Config interface.
func (s *Settings) GetSettings() *Settings {
	return s
}

// ApplyDefaults fills unset fields with defaults. Override this in
// embedding structs and call s.Settings.ApplyDefaults() first.
func (s *Settings) ApplyDefaults() {
	if s.Environment == "" {
		s.Environment = "development"
	}
	if s.Environment == "development" {
		s.Debug = true
	}
	s.Logging.ApplyDefaults()

	defaults := resilience.DefaultRetryConfig()
	if s.Retry.MaxAttempts <= 0 {
		s.Retry.MaxAttempts = defaults.MaxAttempts
	}
	if s.Retry.InitialDelay <= 0 {
		s.Retry.InitialDelay = defaults.InitialDelay
		s.Retry.Jitter = defaults.Jitter
	}
	if s.Retry.MaxDelay <= 0 {
		s.Retry.MaxDelay = defaults.MaxDelay
	}
	if s.Retry.BackoffFactor <= 0 {
		s.Retry.BackoffFactor = defaults.BackoffFactor
	}

	breakerDefaults := resilience.DefaultCircuitBreakerConfig(s.Name)
	if s.Breaker.Name == "" {
		s.Breaker.Name = breakerDefaults.Name
	}
	if s.Breaker.FailureThreshold <= 0 {
		s.Breaker.FailureThreshold = breakerDefaults.FailureThreshold
	}
	if s.Breaker.TimeWindow <= 0 {
		s.Breaker.TimeWindow = breakerDefaults.TimeWindow
	}
	if s.Breaker.CooldownPeriod <= 0 {
		s.Breaker.CooldownPeriod = breakerDefaults.CooldownPeriod
	}
	if s.Breaker.SuccessThreshold <= 0 {
		s.Breaker.SuccessThreshold = breakerDefaults.SuccessThreshold
	}

	limiterDefaults := resilience.DefaultRateLimiterConfig(s.Name)
	if s.Limiter.Name == "" {
		s.Limiter.Name = limiterDefaults.Name
	}
	if s.Limiter.Rate <= 0 {
		s.Limiter.Rate = limiterDefaults.Rate
	}
	if s.Limiter.Burst <= 0 {
		s.Limiter.Burst = limiterDefaults.Burst
	}

	batchDefaults := batch.DefaultOptions()
	if s.Batch.Concurrency <= 0 {
		s.Batch.Concurrency = batchDefaults.Concurrency
		s.Batch.PreserveOrder = batchDefaults.PreserveOrder
	}
}

// Validate validates the settings. Override this in embedding structs
// and call s.Settings.Validate() first.
func (s *Settings) Validate() error {
	if err := validation.Validate(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := s.Logging.Validate(); err != nil {
		return fmt.Errorf("settings.logging: %w", err)
	}
	return nil
}
