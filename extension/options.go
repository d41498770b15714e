package extension

import (
	lodger "github.com/xraph/lodger"
	"github.com/xraph/lodger/plugin"
	"github.com/xraph/lodger/store"
)

// Option configures the Lodger Forge extension.
type Option func(*Extension)

// WithStore sets the store for the lodger engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithLodgerOption passes a lodger.Option through to the underlying engine.
func WithLodgerOption(opt lodger.Option) Option {
	return func(e *Extension) {
		e.lodgerOpts = append(e.lodgerOpts, opt)
	}
}

// WithPlugin registers a lodger plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.lodgerOpts = append(e.lodgerOpts, lodger.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithDefaultCurrency sets the fallback currency code.
func WithDefaultCurrency(currency string) Option {
	return func(e *Extension) { e.config.DefaultCurrency = currency }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
