// Package schema defines the HCL shapes of a restoration profile. These
// structs carry hcl tags only; translation into the format-agnostic config
// model lives in the hcl package.
package schema

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Entity represents an `entity` block: one observable with its committed
// value and, optionally, the value the snapshot restores it to.
type Entity struct {
	Name     string     `hcl:"name,label"`
	Value    cty.Value  `hcl:"value"`
	Restored *cty.Value `hcl:"restored,optional"`
}

// Order represents an `order` block: a directed constraint that one entity's
// phase must complete before another entity's phase may run. Phases default
// to the common case of commit-before-notify.
type Order struct {
	Before      string  `hcl:"before,label"`
	After       string  `hcl:"after,label"`
	BeforePhase *string `hcl:"before_phase,optional"`
	AfterPhase  *string `hcl:"after_phase,optional"`
}

// ProfileConfig represents the top-level structure of a profile file.
type ProfileConfig struct {
	Entities []*Entity `hcl:"entity,block"`
	Orders   []*Order  `hcl:"order,block"`
	Body     hcl.Body  `hcl:",remain"`
}
