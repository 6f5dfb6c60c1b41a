package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/phasegrid/internal/ctxlog"
	"github.com/vk/phasegrid/internal/engine"
	"github.com/vk/phasegrid/internal/observable"
	"github.com/vk/phasegrid/internal/scheduler"
)

// Run executes the restoration the loaded profile describes.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	eng, err := engine.FromModel(ctx, a.model)
	if err != nil {
		return fmt.Errorf("failed to build engine from profile: %w", err)
	}
	if a.config.MaxPasses > 0 {
		eng.SetMaxPasses(a.config.MaxPasses)
	}

	snapshot := engine.SnapshotFromModel(a.model)
	if len(snapshot) == 0 {
		a.logger.Warn("Profile restores no entities, nothing to do.")
		return nil
	}

	a.logger.Info("Starting restoration.",
		"entities", len(a.model.Entities),
		"restored", len(snapshot),
		"dependencies", eng.DependencyCount(),
	)
	if err := eng.Restore(ctx, snapshot); err != nil {
		var deadlock *scheduler.DeadlockError
		if errors.As(err, &deadlock) {
			return fmt.Errorf("restoration cannot satisfy its order dependencies:\n%w", deadlock)
		}
		return fmt.Errorf("restoration failed: %w", err)
	}
	a.logger.Info("Restoration finished.")

	for _, ent := range a.model.Entities {
		obs, ok := eng.Entity(ent.Name)
		if !ok {
			continue
		}
		if v, ok := obs.(*observable.Value); ok {
			a.logger.Info("Final entity value.", "entity", ent.Name, "value", v.Current().GoString())
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
