package scheduler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vk/phasegrid/internal/orderindex"
	"github.com/vk/phasegrid/internal/phase"
)

// PendingReport describes one phase callback that never became unblocked,
// together with the uncompleted prerequisites holding it back.
type PendingReport struct {
	EntityID  string
	Phase     phase.Phase
	BlockedOn []orderindex.Entry
}

// DeadlockError reports that the registered constraints, restricted to the
// participating entities, admit no valid execution order. It is always a
// configuration error, never a transient condition: the batch is abandoned.
type DeadlockError struct {
	Passes  int
	Pending []PendingReport
}

// deadlock builds the diagnostic for every still-pending callback. For each
// one it lists the prerequisites that are relevant to this restoration and
// not yet completed, including the implicit own-undefer prerequisite of a
// notify, so the offending cycle can be reconstructed from the report alone.
func (r *restoration) deadlock(passes int) *DeadlockError {
	var pending []PendingReport
	for _, cb := range append(append([]*callback(nil), r.pendingUndefer...), r.pendingNotify...) {
		report := PendingReport{EntityID: cb.entityID, Phase: cb.phase}

		if cb.phase == phase.Notify {
			own := orderindex.Entry{EntityID: cb.entityID, Phase: phase.Undefer}
			if !r.completed[own] {
				report.BlockedOn = append(report.BlockedOn, own)
			}
		}
		for _, prereq := range r.index.Blocking(cb.entityID, cb.phase) {
			if r.completed[prereq] {
				continue
			}
			if _, in := r.participants[prereq.EntityID]; !in {
				continue
			}
			report.BlockedOn = append(report.BlockedOn, prereq)
		}
		sort.Slice(report.BlockedOn, func(i, j int) bool {
			return report.BlockedOn[i].String() < report.BlockedOn[j].String()
		})
		pending = append(pending, report)
	}

	sort.Slice(pending, func(i, j int) bool {
		if pending[i].EntityID != pending[j].EntityID {
			return pending[i].EntityID < pending[j].EntityID
		}
		return pending[i].Phase < pending[j].Phase
	})
	return &DeadlockError{Passes: passes, Pending: pending}
}

// Error renders one line per stuck callback with its blocking edges.
func (e *DeadlockError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "restoration deadlocked after %d passes; %d phase callbacks never unblocked:", e.Passes, len(e.Pending))
	for _, p := range e.Pending {
		fmt.Fprintf(&sb, "\n  %s.%s blocked on", p.EntityID, p.Phase)
		if len(p.BlockedOn) == 0 {
			sb.WriteString(" (no uncompleted prerequisites)")
			continue
		}
		for i, b := range p.BlockedOn {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(" " + b.String())
		}
	}
	return sb.String()
}
