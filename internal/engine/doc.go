// Package engine is the restoration engine: it owns the process-wide order
// index and the registry of live observables, translates entity lifecycle
// (register, dispose) into index mutations, and drives the scheduler for
// each snapshot restoration.
//
// The engine is the non-interleaving boundary the core assumes: callers must
// not register or dispose entities while a restoration is in progress.
package engine
