package observable

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Listener receives the previous and the newly committed value of an entity.
type Listener func(old, new cty.Value)

// Value is a deferred-commit scalar observable. A restoration stages the
// snapshot value with StageRestore; the scheduler later commits it via
// Undefer and fires listeners via the returned notify action. Staging and
// committing are separate so that every participating entity's value can be
// committed before any listener observes the batch.
type Value struct {
	id        string
	eligible  bool
	current   cty.Value
	staged    *cty.Value
	listeners []Listener
}

// NewValue creates an observable holding the given initial value. Entities
// created with an empty id are anonymous: restorable, but ineligible for
// ordering constraints.
func NewValue(id string, initial cty.Value) *Value {
	return &Value{
		id:       id,
		eligible: id != "",
		current:  initial,
	}
}

// ID returns the entity's stable identifier.
func (v *Value) ID() string { return v.id }

// Eligible reports whether the entity may appear in ordering constraints.
func (v *Value) Eligible() bool { return v.eligible }

// Current returns the committed value.
func (v *Value) Current() cty.Value { return v.current }

// Subscribe registers a change listener. Listeners fire during the notify
// phase of a restoration, after every participating entity has committed.
func (v *Value) Subscribe(l Listener) {
	v.listeners = append(v.listeners, l)
}

// StageRestore stages a snapshot value for the next Undefer call. Calling it
// twice before committing is a usage error: the first staged value would be
// silently lost.
func (v *Value) StageRestore(val cty.Value) error {
	if v.staged != nil {
		return fmt.Errorf("entity %q already has a staged value awaiting commit", v.id)
	}
	v.staged = &val
	return nil
}

// Undefer commits the staged value, if any, and returns the notify action.
// A nil return means the value did not change (or nothing was staged) and no
// listeners need to fire.
func (v *Value) Undefer() NotifyFunc {
	if v.staged == nil {
		return nil
	}
	old := v.current
	v.current = *v.staged
	v.staged = nil

	if old.RawEquals(v.current) {
		return nil
	}
	committed := v.current
	return func() {
		for _, l := range v.listeners {
			l(old, committed)
		}
	}
}
