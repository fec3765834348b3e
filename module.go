package remap

import (
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"remap/config"
	"remap/events"
)

// NewLogger builds a zap logger honoring the configured level and the
// debug toggle. An empty level means info.
func NewLogger(cfg config.Logging) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Debug {
		zc = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		lvl, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}

		zc.Level = lvl
	}

	return zc.Build()
}

// FromConfig translates a configuration file into construction options.
// The logger feeds the logging hook; pass nil to skip it, or build one
// from cfg.Logging with NewLogger.
func FromConfig(cfg config.File, log *zap.Logger) []Option {
	var opts []Option

	if cfg.Strict {
		opts = append(opts, Strict())
	}

	if cfg.SkipMissing {
		opts = append(opts, SkipMissing())
	}

	if len(cfg.Categories) > 0 {
		opts = append(opts, WithCategories(cfg.CategoryMask()))
	}

	for _, path := range cfg.Profiles {
		opts = append(opts, WithProfileFile(path))
	}

	if cfg.Metrics.Enabled {
		opts = append(opts, WithMetrics())
	}

	if log != nil {
		opts = append(opts, WithHooks(events.NewLogHook(log)))
	}

	if cfg.Logging.Debug {
		opts = append(opts, WithHooks(events.NewDebugHook(os.Stderr)))
	}

	return opts
}

// ProvideMapper constructs a Mapper for dependency injection, wired
// from the application's configuration and logger.
func ProvideMapper(cfg config.File, log *zap.Logger) (*Mapper, error) {
	return New(FromConfig(cfg, log)...)
}

// Module wires the mapper into an fx application that already provides
// config.File and *zap.Logger.
var Module = fx.Options(
	fx.Provide(ProvideMapper),
)
