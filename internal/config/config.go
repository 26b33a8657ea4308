// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	cryptoDomain "github.com/allisson/dspace-credstore/internal/crypto/domain"
	customValidation "github.com/allisson/dspace-credstore/internal/validation"
)

// DefaultDirName is created under the home directory when CREDSTORE_DIR is not set.
const DefaultDirName = ".dspace-cli"

// Config holds all application configuration.
type Config struct {
	// Dir is the directory holding the store file and the key cache file.
	Dir string
	// StoreFile is the file name of the encrypted store inside Dir.
	StoreFile string
	// KeyCacheFile is the file name of the session key cache inside Dir.
	KeyCacheFile string

	// Algorithm is the cipher used when a new store is created.
	Algorithm string
	// KDFIterations is the PBKDF2 iteration count used when a new store is created.
	KDFIterations int

	// KeyCacheKMSKeyURI optionally wraps the cached key with a gocloud.dev keeper.
	KeyCacheKMSKeyURI string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string
	// LogFormat selects the slog handler ("text" or "json").
	LogFormat string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsTextfile is where collected metrics are written when the command exits.
	MetricsTextfile string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Store location
		Dir:          env.GetString("CREDSTORE_DIR", defaultDir()),
		StoreFile:    env.GetString("CREDSTORE_FILE", "auth-store.json"),
		KeyCacheFile: env.GetString("CREDSTORE_KEY_CACHE_FILE", ".session_key"),

		// New store parameters
		Algorithm:     env.GetString("CREDSTORE_ALGORITHM", string(cryptoDomain.AESGCM)),
		KDFIterations: env.GetInt("CREDSTORE_KDF_ITERATIONS", cryptoDomain.DefaultKDFIterations),

		// KMS configuration
		KeyCacheKMSKeyURI: env.GetString("KEY_CACHE_KMS_KEY_URI", ""),

		// Logging
		LogLevel:  env.GetString("LOG_LEVEL", "warn"),
		LogFormat: env.GetString("LOG_FORMAT", "text"),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", false),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "credstore"),
		MetricsTextfile:  env.GetString("METRICS_TEXTFILE", ""),
	}
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required, customValidation.NotBlank),
		validation.Field(&c.StoreFile, validation.Required, customValidation.FileName),
		validation.Field(&c.KeyCacheFile, validation.Required, customValidation.FileName,
			validation.NotIn(c.StoreFile).Error("must differ from the store file")),
		validation.Field(&c.Algorithm, validation.Required, validation.In(
			string(cryptoDomain.AESGCM),
			string(cryptoDomain.ChaCha20),
		)),
		validation.Field(&c.KDFIterations, validation.Required,
			validation.Min(cryptoDomain.MinKDFIterations), validation.Max(cryptoDomain.MaxKDFIterations)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.LogFormat, validation.In("text", "json")),
		validation.Field(&c.MetricsNamespace, validation.When(c.MetricsEnabled, validation.Required)),
	)
	return customValidation.WrapValidationError(err)
}

// StorePath returns the full path of the encrypted store file.
func (c *Config) StorePath() string {
	return filepath.Join(c.Dir, c.StoreFile)
}

// KeyCachePath returns the full path of the key cache file.
func (c *Config) KeyCachePath() string {
	return filepath.Join(c.Dir, c.KeyCacheFile)
}

// CipherAlgorithm returns the configured algorithm for new stores.
func (c *Config) CipherAlgorithm() (cryptoDomain.Algorithm, error) {
	return cryptoDomain.ParseAlgorithm(c.Algorithm)
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}

// loadDotEnv searches for a .env file from the current directory up to the root
// directory and loads the first one found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
