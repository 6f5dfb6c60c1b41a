package config

import (
	"github.com/vk/phasegrid/internal/phase"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of a restoration
// profile: the entities to construct and the ordering constraints between
// their restoration phases.
type Model struct {
	Entities []*Entity
	Orders   []*Order
}

// Entity is the format-agnostic representation of an `entity` block.
type Entity struct {
	// Name is the entity's stable identifier. Empty means anonymous: the
	// entity is restorable but ineligible for ordering constraints.
	Name string
	// Value is the entity's committed value before the restoration.
	Value cty.Value
	// Restored is the value the snapshot carries for this entity, or nil
	// when the entity sits out the restoration.
	Restored *cty.Value
}

// Order is the format-agnostic representation of an `order` block: a single
// directed constraint between two entity phases.
type Order struct {
	Before      string
	After       string
	BeforePhase phase.Phase
	AfterPhase  phase.Phase
}
