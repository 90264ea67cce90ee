package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/guardkit/errors"
)

// envPrefix namespaces the environment variables the loader reads.
const envPrefix = "GUARDKIT_"

// FileSystem abstracts file operations so loading is testable.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// osFileSystem implements FileSystem with real file operations.
type osFileSystem struct{}

func (osFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds loader dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Config is what Load expects of a target struct: defaulting and
// validation hooks, both satisfied by embedding Settings.
type Config interface {
	ApplyDefaults()
	Validate() error
}

// Load populates cfg for a service: YAML config file (explicit path or
// searched), then a .env file, then GUARDKIT_* environment overrides.
// Defaults are applied and the result is validated.
func Load(serviceName string, cfg Config, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = osFileSystem{}
	}

	configFile := lc.ConfigFile
	if configFile == "" {
		configFile = findConfigFile(lc.FileSystem, serviceName)
	}
	envFile := lc.EnvFile
	if envFile == "" {
		envFile = findEnvFile(lc.FileSystem, serviceName)
	}

	v := viper.New()

	if configFile != "" && lc.FileSystem.Exists(configFile) {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Configuration(fmt.Sprintf("failed to read config file %s", configFile)).
				WithCause(err).
				WithContext("config_file", configFile)
		}
	}

	if envFile != "" && lc.FileSystem.Exists(envFile) {
		if err := lc.FileSystem.LoadEnv(envFile); err != nil {
			return errors.Configuration(fmt.Sprintf("failed to load env file %s", envFile)).
				WithCause(err).
				WithContext("env_file", envFile)
		}
	}

	bindPrefixedEnv(v)

	if err := v.Unmarshal(cfg); err != nil {
		return errors.Configuration(fmt.Sprintf("failed to unmarshal config for service %s", serviceName)).
			WithCause(err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return errors.Configuration(fmt.Sprintf("invalid config for service %s", serviceName)).
			WithCause(err)
	}
	return nil
}

// MustLoad is Load for program startup: it panics on error.
func MustLoad(serviceName string, cfg Config, opts ...LoaderOption) {
	if err := Load(serviceName, cfg, opts...); err != nil {
		panic(err)
	}
}

// findConfigFile searches for config.yml in standard locations.
func findConfigFile(fs FileSystem, serviceName string) string {
	searchPaths := []string{
		fmt.Sprintf("./cmd/%s/config.yml", serviceName),
		fmt.Sprintf("../cmd/%s/config.yml", serviceName),
		"./config/config.yml",
		"../config/config.yml",
		"./config.yml",
	}
	for _, path := range searchPaths {
		if fs.Exists(path) {
			return path
		}
	}
	return ""
}

// findEnvFile searches for .env files in standard locations, most
// specific first.
func findEnvFile(fs FileSystem, serviceName string) string {
	searchPaths := []string{
		fmt.Sprintf(".env.%s", serviceName),
		fmt.Sprintf("./cmd/%s/.env", serviceName),
		"./config/.env",
		".env",
	}
	for _, path := range searchPaths {
		if fs.Exists(path) {
			return path
		}
	}
	return ""
}

// bindPrefixedEnv applies GUARDKIT_* environment variables as overrides.
// Viper's AutomaticEnv does not surface env-only keys through Unmarshal,
// so each variable is set explicitly under every plausible nested key.
func bindPrefixedEnv(v *viper.Viper) {
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], envPrefix) {
			continue
		}
		key := strings.TrimPrefix(pair[0], envPrefix)
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, pair[1])
		}
	}
}

// envKeyVariants maps RETRY_MAX_ATTEMPTS onto the nested key spellings
// it may address (retry_max_attempts, retry.max.attempts,
// retry.max_attempts), one of which matches the mapstructure path.
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) <= 1 {
		return []string{lower}
	}

	variants := []string{
		lower,
		strings.ReplaceAll(lower, "_", "."),
	}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}

	seen := make(map[string]bool, len(variants))
	unique := variants[:0]
	for _, variant := range variants {
		if !seen[variant] {
			seen[variant] = true
			unique = append(unique, variant)
		}
	}
	return unique
}
