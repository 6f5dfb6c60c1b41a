package orderindex

import (
	"fmt"
	"sync"

	"github.com/vk/phasegrid/internal/phase"
)

// Entry identifies one side of an ordering constraint: a specific phase of a
// specific entity.
type Entry struct {
	EntityID string
	Phase    phase.Phase
}

// String renders the entry as "id.phase" for diagnostics.
func (e Entry) String() string {
	return e.EntityID + "." + e.Phase.String()
}

// pairKey selects one of the four phase-combination classes.
type pairKey struct {
	before phase.Phase
	after  phase.Phase
}

// mapPair holds one constraint class as two mutually consistent maps. Every
// edge present in byBefore is present in byAfter and vice versa; removal
// walks the partner sets of the removed entity only.
type mapPair struct {
	// byBefore maps a before-entity to the set of after-entities it blocks.
	byBefore map[string]map[string]struct{}
	// byAfter maps an after-entity to the set of before-entities blocking it.
	byAfter map[string]map[string]struct{}
}

func newMapPair() *mapPair {
	return &mapPair{
		byBefore: make(map[string]map[string]struct{}),
		byAfter:  make(map[string]map[string]struct{}),
	}
}

// Index is a bidirectional index of registered ordering constraints.
// All operations are concurrency-safe.
type Index struct {
	mutex sync.RWMutex
	pairs map[pairKey]*mapPair
	// members counts, per entity, how many edges mention it as either
	// endpoint. It backs the participation check in RemoveAll.
	members map[string]int
	// edges is the total number of distinct directed constraints.
	edges int
}

// New creates and returns an initialized, empty Index.
func New() *Index {
	pairs := make(map[pairKey]*mapPair, 4)
	for _, before := range []phase.Phase{phase.Undefer, phase.Notify} {
		for _, after := range []phase.Phase{phase.Undefer, phase.Notify} {
			pairs[pairKey{before, after}] = newMapPair()
		}
	}
	return &Index{
		pairs:   pairs,
		members: make(map[string]int),
	}
}

// Add registers the constraint that beforePhase of beforeID must have been
// applied before afterPhase of afterID may run. Registering the identical
// edge twice is a no-op. An entity may not be constrained against the same
// phase of itself.
func (ix *Index) Add(beforeID string, beforePhase phase.Phase, afterID string, afterPhase phase.Phase) error {
	if beforeID == afterID && beforePhase == afterPhase {
		return fmt.Errorf("self-referential order dependency not allowed: %s.%s -> itself", beforeID, beforePhase)
	}

	ix.mutex.Lock()
	defer ix.mutex.Unlock()

	pair := ix.pairs[pairKey{beforePhase, afterPhase}]
	forward, ok := pair.byBefore[beforeID]
	if !ok {
		forward = make(map[string]struct{})
		pair.byBefore[beforeID] = forward
	}
	if _, dup := forward[afterID]; dup {
		return nil
	}
	forward[afterID] = struct{}{}

	reverse, ok := pair.byAfter[afterID]
	if !ok {
		reverse = make(map[string]struct{})
		pair.byAfter[afterID] = reverse
	}
	reverse[beforeID] = struct{}{}

	ix.members[beforeID]++
	ix.members[afterID]++
	ix.edges++
	return nil
}

// RemoveAll deletes every constraint mentioning entityID as either endpoint.
// It is an error to call it for an entity that participates in no constraint;
// disposal paths should check Participating first.
func (ix *Index) RemoveAll(entityID string) error {
	ix.mutex.Lock()
	defer ix.mutex.Unlock()

	if ix.members[entityID] == 0 {
		return fmt.Errorf("entity %q has no registered order dependencies", entityID)
	}

	for _, pair := range ix.pairs {
		if afters, ok := pair.byBefore[entityID]; ok {
			for afterID := range afters {
				ix.dropEdge(pair, entityID, afterID)
			}
		}
		if befores, ok := pair.byAfter[entityID]; ok {
			for beforeID := range befores {
				ix.dropEdge(pair, beforeID, entityID)
			}
		}
	}
	return nil
}

// dropEdge removes one directed edge from both maps of a pair, pruning
// emptied sets and decrementing the membership counts of both endpoints.
// The caller holds the write lock.
func (ix *Index) dropEdge(pair *mapPair, beforeID, afterID string) {
	forward := pair.byBefore[beforeID]
	delete(forward, afterID)
	if len(forward) == 0 {
		delete(pair.byBefore, beforeID)
	}

	reverse := pair.byAfter[afterID]
	delete(reverse, beforeID)
	if len(reverse) == 0 {
		delete(pair.byAfter, afterID)
	}

	ix.decrementMember(beforeID)
	ix.decrementMember(afterID)
	ix.edges--
}

func (ix *Index) decrementMember(entityID string) {
	ix.members[entityID]--
	if ix.members[entityID] <= 0 {
		delete(ix.members, entityID)
	}
}

// Blocking returns the (entity, phase) prerequisites registered against the
// given phase of entityID, across both constraint classes whose after-phase
// matches.
func (ix *Index) Blocking(entityID string, p phase.Phase) []Entry {
	ix.mutex.RLock()
	defer ix.mutex.RUnlock()

	var entries []Entry
	for _, beforePhase := range []phase.Phase{phase.Undefer, phase.Notify} {
		pair := ix.pairs[pairKey{beforePhase, p}]
		for beforeID := range pair.byAfter[entityID] {
			entries = append(entries, Entry{EntityID: beforeID, Phase: beforePhase})
		}
	}
	return entries
}

// Participating reports whether any registered constraint mentions entityID.
func (ix *Index) Participating(entityID string) bool {
	ix.mutex.RLock()
	defer ix.mutex.RUnlock()
	return ix.members[entityID] > 0
}

// Count returns the total number of distinct registered directed constraints.
func (ix *Index) Count() int {
	ix.mutex.RLock()
	defer ix.mutex.RUnlock()
	return ix.edges
}
