// Package extension provides the Forge extension adapter for Lodger.
//
// It implements the forge.Extension interface to integrate Lodger
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.lodger" or "lodger" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	lodger "github.com/xraph/lodger"
	"github.com/xraph/lodger/store"
	"github.com/xraph/lodger/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "lodger"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Shared-accommodation occupancy and billing engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Lodger as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *lodger.Lodger
	store      store.Store
	lodgerOpts []lodger.Option
}

// New creates a new Lodger Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Lodger instance.
// This is nil until Register is called.
func (e *Extension) Engine() *lodger.Lodger { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the lodger engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	// Build lodger options from resolved config.
	opts := e.buildLodgerOpts()

	eng := lodger.New(e.store, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*lodger.Lodger, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("lodger: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("lodger: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildLodgerOpts constructs lodger.Option values from the resolved config.
func (e *Extension) buildLodgerOpts() []lodger.Option {
	opts := make([]lodger.Option, 0, len(e.lodgerOpts)+1)

	if e.config.DefaultCurrency != "" {
		opts = append(opts, lodger.WithDefaultCurrency(e.config.DefaultCurrency))
	}

	// Append any pass-through lodger options.
	opts = append(opts, e.lodgerOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("lodger: configuration is required but not found in config files; " +
				"ensure 'extensions.lodger' or 'lodger' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("lodger: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("default_currency", e.config.DefaultCurrency),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.lodger" first (namespaced pattern).
	if cm.IsSet("extensions.lodger") {
		if err := cm.Bind("extensions.lodger", &cfg); err == nil {
			e.Logger().Debug("lodger: loaded config from file",
				forge.F("key", "extensions.lodger"),
			)
			return cfg, true
		}
		e.Logger().Warn("lodger: failed to bind extensions.lodger config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "lodger" key.
	if cm.IsSet("lodger") {
		if err := cm.Bind("lodger", &cfg); err == nil {
			e.Logger().Debug("lodger: loaded config from file",
				forge.F("key", "lodger"),
			)
			return cfg, true
		}
		e.Logger().Warn("lodger: failed to bind lodger config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = defaults.DefaultCurrency
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.DefaultCurrency == "" && programmaticConfig.DefaultCurrency != "" {
		yamlConfig.DefaultCurrency = programmaticConfig.DefaultCurrency
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
