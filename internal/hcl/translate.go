package hcl

import (
	"fmt"

	"github.com/vk/phasegrid/internal/config"
	"github.com/vk/phasegrid/internal/phase"
	"github.com/vk/phasegrid/internal/schema"
)

// translate appends the blocks of one parsed file onto the merged model,
// validating entity-name uniqueness and phase names as it goes.
func (l *Loader) translate(parsed *schema.ProfileConfig, model *config.Model) error {
	seen := make(map[string]struct{}, len(model.Entities))
	for _, e := range model.Entities {
		seen[e.Name] = struct{}{}
	}

	for _, e := range parsed.Entities {
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("duplicate entity %q", e.Name)
		}
		seen[e.Name] = struct{}{}
		model.Entities = append(model.Entities, &config.Entity{
			Name:     e.Name,
			Value:    e.Value,
			Restored: e.Restored,
		})
	}

	for _, o := range parsed.Orders {
		// The unadorned order block means "commit before the dependent's
		// listeners fire", by far the common constraint.
		beforePhase, err := parseOptionalPhase(o.BeforePhase, phase.Undefer)
		if err != nil {
			return fmt.Errorf("order %q -> %q: %w", o.Before, o.After, err)
		}
		afterPhase, err := parseOptionalPhase(o.AfterPhase, phase.Notify)
		if err != nil {
			return fmt.Errorf("order %q -> %q: %w", o.Before, o.After, err)
		}
		model.Orders = append(model.Orders, &config.Order{
			Before:      o.Before,
			After:       o.After,
			BeforePhase: beforePhase,
			AfterPhase:  afterPhase,
		})
	}
	return nil
}

func parseOptionalPhase(s *string, fallback phase.Phase) (phase.Phase, error) {
	if s == nil {
		return fallback, nil
	}
	return phase.Parse(*s)
}
