package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/spotstack/launchgo/internal/ctxlog"
	"github.com/spotstack/launchgo/internal/launch"
	"github.com/spotstack/launchgo/internal/registry"
	"github.com/spotstack/launchgo/internal/supervisor"
)

// Run executes the main application logic: assemble the description, resolve
// it into a plan, then either print the plan or hand it to the supervisor.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	desc, err := a.assemble(ctx)
	if err != nil {
		return fmt.Errorf("failed to assemble launch description: %w", err)
	}
	a.logger.Debug("Launch description assembled.", "entity_count", len(desc))

	plan, err := launch.Resolve(ctx, desc, a.config.Overrides, a.loader.IncludeLoader())
	if err != nil {
		return fmt.Errorf("failed to resolve launch description: %w", err)
	}
	a.logger.Info("Launch plan resolved.", "processes", len(plan.AllProcesses()), "includes", len(plan.Includes))

	if a.config.DryRun {
		a.renderPlan(plan)
		return nil
	}

	sup := supervisor.New(a.index, a.outW)
	if err := sup.Run(ctx, plan); err != nil {
		return fmt.Errorf("launch failed: %w", err)
	}
	a.logger.Info("Launch finished.")
	return nil
}

// assemble produces the description from either a registered generator or a
// launch file on disk.
func (a *App) assemble(ctx context.Context) (launch.Description, error) {
	if strings.HasSuffix(a.config.Description, ".hcl") {
		return a.loader.LoadFile(ctx, a.config.Description)
	}
	generator, ok := a.registry.Lookup(a.config.Description)
	if !ok {
		return nil, fmt.Errorf("unknown description %q (registered: %s)", a.config.Description, strings.Join(a.registry.Names(), ", "))
	}
	return generator(ctx, registry.Deps{Index: a.index})
}
