package courier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/RenFontes/Courier/core/config"
	"github.com/RenFontes/Courier/core/logger"
	"github.com/RenFontes/Courier/core/mediator"
)

const serviceName = "courier"

var shared = sync.OnceValue(func() *mediator.Mediator {
	return New()
})

// Default returns the process-wide mediator. It is created on first use and
// lives until the process exits.
func Default() *mediator.Mediator {
	return shared()
}

// New creates a mediator configured from the environment and logging to stderr.
// opts are applied after the loaded configuration and override it, so
// mediator.WithLogger replaces the environment-built logger.
// A configuration that fails to parse is reported and the built-in defaults
// are used instead.
func New(opts ...mediator.Option) *mediator.Mediator {
	var cfg mediator.Config
	if err := config.Load(&cfg); err != nil {
		slog.Warn("mediator configuration not loaded, using defaults",
			logger.Component(serviceName),
			logger.Error(err))
		cfg = mediator.DefaultConfig()
	}

	log, err := NewLogger(cfg, os.Stderr)
	if err != nil {
		log.Warn("invalid logger configuration, using preset", logger.Error(err))
	}

	base := []mediator.Option{
		mediator.WithConfig(cfg),
		mediator.WithLogger(log),
	}
	return mediator.New(append(base, opts...)...)
}

// NewLogger builds the logger described by cfg, writing to w.
// Subscriber log calls made with the callback's context carry the message name.
// An unknown level or format is reported and left at the preset's value; the
// returned logger is always usable.
func NewLogger(cfg mediator.Config, w io.Writer) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithContextExtractors(deliveredMessage),
	}

	switch strings.ToLower(cfg.Environment) {
	case "development", "dev":
		opts = append(opts, logger.WithDevelopment(serviceName))
	case "staging":
		opts = append(opts, logger.WithStaging(serviceName))
	case "production", "prod":
		opts = append(opts, logger.WithProduction(serviceName))
	default:
		opts = append(opts, logger.WithAttr(slog.String("service", serviceName)))
	}

	var errs []error

	switch strings.ToLower(cfg.LogFormat) {
	case "":
	case "json":
		opts = append(opts, logger.WithJSONFormatter())
	case "text":
		opts = append(opts, logger.WithTextFormatter())
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", cfg.LogFormat))
	}

	if cfg.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			errs = append(errs, fmt.Errorf("log level: %w", err))
		} else {
			opts = append(opts, logger.WithLevel(level))
		}
	}

	opts = append(opts, logger.WithOutput(w))

	log := logger.New(opts...)
	if len(errs) > 0 {
		return log, fmt.Errorf("courier: %w", errors.Join(errs...))
	}
	return log, nil
}

func deliveredMessage(ctx context.Context) (slog.Attr, bool) {
	name := mediator.MessageFromContext(ctx)
	return logger.Message(name), name != ""
}
