package engine

import (
	"context"
	"fmt"

	"github.com/vk/phasegrid/internal/config"
	"github.com/vk/phasegrid/internal/ctxlog"
	"github.com/vk/phasegrid/internal/observable"
	"github.com/zclconf/go-cty/cty"
)

// FromModel constructs an engine from a loaded profile: one Value observable
// per entity block, with change logging attached, and one index entry per
// order block.
func FromModel(ctx context.Context, model *config.Model) (*Engine, error) {
	logger := ctxlog.FromContext(ctx)
	e := New()

	for _, ent := range model.Entities {
		obs := observable.NewValue(ent.Name, ent.Value)
		id := ent.Name
		obs.Subscribe(func(old, new cty.Value) {
			logger.Info("Entity changed.",
				"entity", id,
				"old", old.GoString(),
				"new", new.GoString(),
			)
		})
		if err := e.Register(obs); err != nil {
			return nil, err
		}
	}

	for _, o := range model.Orders {
		if err := e.AddOrder(o.Before, o.BeforePhase, o.After, o.AfterPhase); err != nil {
			return nil, fmt.Errorf("failed to register order dependency: %w", err)
		}
	}

	logger.Debug("Engine constructed from profile.",
		"entities", len(model.Entities),
		"dependencies", e.DependencyCount(),
	)
	return e, nil
}

// SnapshotFromModel extracts the restoration batch a profile describes: the
// restored value of every entity that carries one.
func SnapshotFromModel(model *config.Model) map[string]cty.Value {
	snapshot := make(map[string]cty.Value)
	for _, ent := range model.Entities {
		if ent.Restored != nil {
			snapshot[ent.Name] = *ent.Restored
		}
	}
	return snapshot
}
