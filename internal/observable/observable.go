// Package observable defines the narrow capability surface the restoration
// core needs from a stateful entity, plus a concrete deferred-commit value
// container used by the engine and the CLI.
package observable

// NotifyFunc fires the change listeners of an entity for an already
// committed value.
type NotifyFunc func()

// UndeferFunc performs an entity's deferred commit. It returns the notify
// action for that entity, or nil when the committed value did not actually
// change and no notification is needed.
type UndeferFunc func() NotifyFunc

// Observable is the contract an entity must satisfy to participate in a
// restoration. The scheduler depends only on this interface, never on
// concrete entity types.
type Observable interface {
	// ID returns the stable, globally unique identifier of the entity,
	// valid for its entire lifetime.
	ID() string

	// Eligible reports whether the entity is currently identifiable for
	// ordering-constraint purposes. Anonymous entities may be restored but
	// may not appear in order dependencies.
	Eligible() bool

	// Undefer commits the entity's staged value and returns the notify
	// action, or nil if nothing changed.
	Undefer() NotifyFunc
}
