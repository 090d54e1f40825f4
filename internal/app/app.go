package app

import (
	"io"
	"log/slog"

	"github.com/spotstack/launchgo/internal/index"
	"github.com/spotstack/launchgo/internal/launchhcl"
	"github.com/spotstack/launchgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	index    *index.Index
	loader   *launchhcl.Loader
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, index, and
// registry.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("Built-in descriptions registered.", "count", len(modules), "names", reg.Names())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		index:    index.New(cfg.PrefixPaths...),
		loader:   launchhcl.NewLoader(),
		config:   cfg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Index returns the application's package index. This is primarily for testing.
func (a *App) Index() *index.Index {
	return a.index
}
