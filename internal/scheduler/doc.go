// Package scheduler drives the two-phase restoration protocol across a batch
// of entities. Every participating entity first commits its staged value
// (undefer), then fires its change listeners (notify), in an order consistent
// with the constraints registered in the order index.
//
// The scheduler runs passes over the pending callbacks until both pending
// sets drain. A fixed pass ceiling converts an unsatisfiable constraint set
// into a bounded, diagnosable DeadlockError instead of an infinite loop.
// All work happens synchronously within one Run call; "concurrency" here is
// the interleaving of logically simultaneous entity updates inside one batch,
// which the scheduler serializes according to the declared constraints.
package scheduler
