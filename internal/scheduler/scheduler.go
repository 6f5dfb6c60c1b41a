package scheduler

import (
	"context"
	"fmt"

	"github.com/vk/phasegrid/internal/ctxlog"
	"github.com/vk/phasegrid/internal/observable"
	"github.com/vk/phasegrid/internal/orderindex"
	"github.com/vk/phasegrid/internal/phase"
)

// DefaultMaxPasses bounds the number of scheduling passes per restoration.
// Exceeding it means the registered constraints admit no valid order.
const DefaultMaxPasses = 5000

// Scheduler executes restorations against a shared order index. It holds no
// per-restoration state; each Run call builds and discards its own.
type Scheduler struct {
	index     *orderindex.Index
	maxPasses int
}

// New creates a scheduler that consults the given index on every pass.
func New(index *orderindex.Index) *Scheduler {
	return &Scheduler{index: index, maxPasses: DefaultMaxPasses}
}

// SetMaxPasses overrides the pass ceiling. Values below 1 are ignored.
func (s *Scheduler) SetMaxPasses(n int) {
	if n >= 1 {
		s.maxPasses = n
	}
}

// callback is one pending unit of work: applying one phase of one entity.
type callback struct {
	entityID string
	phase    phase.Phase
	run      func()
}

// restoration is the working state of a single Run call.
type restoration struct {
	index        *orderindex.Index
	participants map[string]struct{}
	// pendingUndefer and pendingNotify are ordered so that simultaneously
	// unblocked callbacks apply in a deterministic (insertion) order.
	pendingUndefer []*callback
	pendingNotify  []*callback
	completed      map[orderindex.Entry]bool
}

// Run applies the undefer action of every participating entity and every
// notify action those commits produce, exactly once each, in an order
// consistent with the registered constraints restricted to the participants.
// It returns a *DeadlockError when no valid order exists.
//
// participants must not contain duplicates, and every participant must have
// an action; both are usage errors reported before any action runs.
func (s *Scheduler) Run(ctx context.Context, participants []string, actions map[string]observable.UndeferFunc) error {
	logger := ctxlog.FromContext(ctx)

	r := &restoration{
		index:        s.index,
		participants: make(map[string]struct{}, len(participants)),
		completed:    make(map[orderindex.Entry]bool, 2*len(participants)),
	}
	for _, id := range participants {
		if _, dup := r.participants[id]; dup {
			return fmt.Errorf("duplicate entity %q in participating set", id)
		}
		r.participants[id] = struct{}{}
		if actions[id] == nil {
			return fmt.Errorf("no undefer action for participating entity %q", id)
		}
	}

	// Seed one undefer callback per participant. Notify callbacks come into
	// existence lazily, as each entity's own commit yields one.
	for _, id := range participants {
		r.seedUndefer(id, actions[id])
	}
	logger.Debug("Restoration seeded.", "participants", len(participants))

	passes := 0
	for len(r.pendingUndefer)+len(r.pendingNotify) > 0 {
		applied := r.runPass(phase.Undefer)
		applied += r.runPass(phase.Notify)

		passes++
		if passes > s.maxPasses {
			err := r.deadlock(passes)
			logger.Error("Restoration deadlocked.", "passes", passes, "error", err)
			return err
		}
		logger.Debug("Scheduling pass complete.",
			"pass", passes,
			"applied", applied,
			"pending_undefer", len(r.pendingUndefer),
			"pending_notify", len(r.pendingNotify),
		)
	}

	logger.Debug("Restoration complete.", "passes", passes)
	return nil
}

// seedUndefer wraps an entity's undefer action so that a produced notify
// action is queued for the same entity the moment the commit runs.
func (r *restoration) seedUndefer(id string, act observable.UndeferFunc) {
	cb := &callback{entityID: id, phase: phase.Undefer}
	cb.run = func() {
		if notify := act(); notify != nil {
			r.pendingNotify = append(r.pendingNotify, &callback{
				entityID: id,
				phase:    phase.Notify,
				run:      notify,
			})
		}
	}
	r.pendingUndefer = append(r.pendingUndefer, cb)
}

// runPass applies every currently unblocked callback of the given phase and
// returns how many it applied. It snapshots the pending slice first, since
// undefer callbacks append to pendingNotify mid-pass.
func (r *restoration) runPass(p phase.Phase) int {
	var snapshot []*callback
	if p == phase.Undefer {
		snapshot = r.pendingUndefer
	} else {
		snapshot = r.pendingNotify
	}

	remaining := snapshot[:0:0]
	applied := 0
	for _, cb := range snapshot {
		if !r.canApply(cb.entityID, cb.phase) {
			remaining = append(remaining, cb)
			continue
		}
		cb.run()
		r.completed[orderindex.Entry{EntityID: cb.entityID, Phase: cb.phase}] = true
		applied++
	}

	if p == phase.Undefer {
		r.pendingUndefer = remaining
	} else {
		// Notify callbacks queued by this pass's commits stay pending; the
		// snapshot only covered callbacks that existed when the pass began.
		r.pendingNotify = append(remaining, r.pendingNotify[len(snapshot):]...)
	}
	return applied
}

// canApply reports whether every prerequisite of the given phase of the
// entity has completed. An entity's own undefer is an implicit prerequisite
// of its notify. Constraints whose before-entity is absent from this
// restoration are vacuously satisfied; otherwise an edge against a
// non-participating entity could stall the batch forever.
func (r *restoration) canApply(entityID string, p phase.Phase) bool {
	if p == phase.Notify && !r.completed[orderindex.Entry{EntityID: entityID, Phase: phase.Undefer}] {
		return false
	}
	for _, prereq := range r.index.Blocking(entityID, p) {
		if r.completed[prereq] {
			continue
		}
		if _, in := r.participants[prereq.EntityID]; in {
			return false
		}
	}
	return true
}
