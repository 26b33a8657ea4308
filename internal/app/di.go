// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/allisson/dspace-credstore/internal/config"
	"github.com/allisson/dspace-credstore/internal/metrics"
	"github.com/allisson/dspace-credstore/internal/prompt"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	logOutput       io.Writer
	fs              afero.Fs
	prompter        prompt.Prompter
	console         *prompt.Terminal
	metricsProvider *metrics.Provider

	// Credential store components, see di_credstore.go
	credstoreComponents

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	prompterInit        sync.Once
	metricsProviderInit sync.Once
	initErrors          map[string]error
}

// Option customizes a Container.
type Option func(*Container)

// WithFs replaces the operating system filesystem.
func WithFs(fs afero.Fs) Option {
	return func(c *Container) { c.fs = fs }
}

// WithPrompter replaces the terminal prompter.
func WithPrompter(p prompt.Prompter) Option {
	return func(c *Container) { c.prompter = p }
}

// WithLogOutput sends logs to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(c *Container) { c.logOutput = w }
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config, opts ...Option) *Container {
	c := &Container{
		config:     cfg,
		logOutput:  os.Stderr,
		fs:         afero.NewOsFs(),
		initErrors: make(map[string]error),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Fs returns the filesystem holding the store.
func (c *Container) Fs() afero.Fs {
	return c.fs
}

// Prompter returns the prompter used for passwords and notices. Unless one was supplied,
// it reads from the controlling terminal when stdin is redirected so piped values and
// password prompts do not share a stream.
func (c *Container) Prompter() prompt.Prompter {
	c.prompterInit.Do(func() {
		if c.prompter == nil {
			c.console = prompt.NewConsole(os.Stdin, os.Stderr, prompt.OpenTTY)
			c.prompter = c.console
		}
	})
	return c.prompter
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the command is done.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.console != nil {
		if err := c.console.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("terminal close: %w", err))
		}
	}

	if c.keeper != nil {
		if err := c.keeper.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("kms keeper close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if path := c.config.MetricsTextfile; path != "" {
			if err := c.metricsProvider.WriteTextfile(path); err != nil {
				shutdownErrors = append(shutdownErrors, err)
			}
		}
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// initLogger creates a structured logger on the log output. Every record carries the
// invocation id so lines from one command can be correlated.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler
	if c.config.LogFormat == "json" {
		handler = slog.NewJSONHandler(c.logOutput, opts)
	} else {
		handler = slog.NewTextHandler(c.logOutput, opts)
	}

	invocationID, err := uuid.NewV7()
	if err != nil {
		invocationID = uuid.New()
	}
	return slog.New(handler).With(slog.String("invocation_id", invocationID.String()))
}

// initMetricsProvider creates the Prometheus-backed provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}
