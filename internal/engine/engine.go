package engine

import (
	"context"
	"fmt"

	"github.com/vk/phasegrid/internal/ctxlog"
	"github.com/vk/phasegrid/internal/observable"
	"github.com/vk/phasegrid/internal/orderindex"
	"github.com/vk/phasegrid/internal/phase"
	"github.com/vk/phasegrid/internal/scheduler"
	"github.com/zclconf/go-cty/cty"
)

// Engine tracks live observables and their ordering constraints, and applies
// snapshot restorations to them.
type Engine struct {
	index     *orderindex.Index
	scheduler *scheduler.Scheduler
	entities  map[string]observable.Observable
	// order preserves registration order so restorations seed their pending
	// callbacks deterministically.
	order []string
}

// New creates an engine with an empty index and no registered entities.
func New() *Engine {
	index := orderindex.New()
	return &Engine{
		index:     index,
		scheduler: scheduler.New(index),
		entities:  make(map[string]observable.Observable),
	}
}

// SetMaxPasses overrides the scheduler's pass ceiling, for tests and tuning.
func (e *Engine) SetMaxPasses(n int) {
	e.scheduler.SetMaxPasses(n)
}

// Register adds a live observable. Its id must be unique among registered
// entities.
func (e *Engine) Register(obs observable.Observable) error {
	id := obs.ID()
	if id == "" {
		return fmt.Errorf("cannot register an observable with an empty id")
	}
	if _, exists := e.entities[id]; exists {
		return fmt.Errorf("entity %q is already registered", id)
	}
	e.entities[id] = obs
	e.order = append(e.order, id)
	return nil
}

// Dispose removes an entity and sweeps all ordering constraints mentioning
// it out of the index. The id may later be reused by a fresh entity.
func (e *Engine) Dispose(id string) error {
	if _, exists := e.entities[id]; !exists {
		return fmt.Errorf("cannot dispose unknown entity %q", id)
	}
	if e.index.Participating(id) {
		if err := e.index.RemoveAll(id); err != nil {
			return err
		}
	}
	delete(e.entities, id)
	for i, other := range e.order {
		if other == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return nil
}

// AddOrder registers the constraint that beforePhase of the before entity
// must complete before afterPhase of the after entity may run. Both entities
// must be registered and eligible for constraint purposes.
func (e *Engine) AddOrder(beforeID string, beforePhase phase.Phase, afterID string, afterPhase phase.Phase) error {
	for _, id := range []string{beforeID, afterID} {
		obs, exists := e.entities[id]
		if !exists {
			return fmt.Errorf("order dependency references unknown entity %q", id)
		}
		if !obs.Eligible() {
			return fmt.Errorf("entity %q is not eligible for order dependencies", id)
		}
	}
	return e.index.Add(beforeID, beforePhase, afterID, afterPhase)
}

// DependencyCount returns the number of registered directed constraints.
func (e *Engine) DependencyCount() int {
	return e.index.Count()
}

// Entity returns the registered observable with the given id.
func (e *Engine) Entity(id string) (observable.Observable, bool) {
	obs, ok := e.entities[id]
	return obs, ok
}

// Stager is implemented by observables that accept a staged snapshot value
// ahead of the deferred commit.
type Stager interface {
	StageRestore(v cty.Value) error
}

// Restore applies a snapshot batch. Every entity named by the snapshot has
// its staged commit and any resulting notification run exactly once, in an
// order consistent with the registered constraints among the participants.
func (e *Engine) Restore(ctx context.Context, snapshot map[string]cty.Value) error {
	logger := ctxlog.FromContext(ctx)

	staged := make(map[string]struct{}, len(snapshot))
	for id, val := range snapshot {
		obs, exists := e.entities[id]
		if !exists {
			return fmt.Errorf("snapshot names unknown entity %q", id)
		}
		st, ok := obs.(Stager)
		if !ok {
			return fmt.Errorf("entity %q does not support staged restoration", id)
		}
		if err := st.StageRestore(val); err != nil {
			return err
		}
		staged[id] = struct{}{}
	}

	// Participants follow registration order, not snapshot map order, so a
	// given engine restores a given snapshot identically every run.
	var participants []string
	actions := make(map[string]observable.UndeferFunc, len(staged))
	for _, id := range e.order {
		if _, in := staged[id]; !in {
			continue
		}
		participants = append(participants, id)
		actions[id] = e.entities[id].Undefer
	}

	logger.Info("Applying snapshot restoration.",
		"participants", len(participants),
		"dependencies", e.index.Count(),
	)
	return e.scheduler.Run(ctx, participants, actions)
}
