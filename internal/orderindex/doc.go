// Package orderindex stores the ordering constraints registered between
// observable entities. It is the long-lived half of the restoration core:
// entity constructors add constraints, entity disposal sweeps them out, and
// the scheduler queries it on every pass to decide which phase callbacks are
// unblocked.
//
// Constraints are partitioned into four classes by their (before, after)
// phase combination. Each class is held as a pair of maps, one keyed by the
// before-entity and one keyed by the after-entity, so that both "who blocks
// me" lookups and whole-entity removal stay O(1) amortized with no linear
// scan over unrelated edges.
package orderindex
