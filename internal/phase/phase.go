// Package phase defines the two application phases a restored entity moves
// through: committing its staged value, then notifying its listeners.
package phase

import "fmt"

// Phase identifies one of the two steps applied to an entity during a
// restoration.
type Phase int

const (
	// Undefer commits the entity's staged (deferred) value.
	Undefer Phase = iota
	// Notify fires the entity's change listeners for the committed value.
	Notify
)

// String returns the lowercase name used in profiles and diagnostics.
func (p Phase) String() string {
	switch p {
	case Undefer:
		return "undefer"
	case Notify:
		return "notify"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Parse converts a profile-level phase name into a Phase.
func Parse(s string) (Phase, error) {
	switch s {
	case "undefer":
		return Undefer, nil
	case "notify":
		return Notify, nil
	default:
		return 0, fmt.Errorf("unknown phase %q: must be 'undefer' or 'notify'", s)
	}
}
