package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/phasegrid/internal/phase"
	"github.com/vk/phasegrid/internal/testutil"
)

// Test for: a profile with ordered entities restores end to end.
func TestRestoration_OrderedProfile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"profile.hcl": `
			entity "volume" {
				value    = 3
				restored = 7
			}

			entity "muted" {
				value    = true
				restored = false
			}

			entity "label" {
				value = "untouched"
			}

			order "muted" "volume" {
				before_phase = "undefer"
				after_phase  = "notify"
			}
		`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files)

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Contains(t, result.LogOutput, "Restoration finished.")
	// Both restored entities committed and notified; the idle one did not.
	assert.Contains(t, result.LogOutput, `entity=volume`)
	assert.Contains(t, result.LogOutput, `entity=muted`)
	assert.NotContains(t, result.LogOutput, "Entity changed.\" entity=label")
}

// Test for: profiles can split entities and orders across multiple files.
func TestRestoration_MultiFileProfile(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"entities/base.hcl": `
			entity "a" {
				value    = 0
				restored = 1
			}
		`,
		"entities/extra.hcl": `
			entity "b" {
				value    = 0
				restored = 2
			}

			order "a" "b" {}
		`,
	}

	result := testutil.RunIntegrationTest(t, files)

	require.NoError(t, result.Err)
	assert.Contains(t, result.LogOutput, "Restoration finished.")
	require.Len(t, result.App.Model().Orders, 1)
	assert.Equal(t, phase.Notify, result.App.Model().Orders[0].AfterPhase)
}

// Test for: an unsatisfiable constraint pair fails with a diagnostic instead
// of hanging.
func TestRestoration_DeadlockIsDiagnosed(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"profile.hcl": `
			entity "a" {
				value    = 0
				restored = 1
			}

			entity "b" {
				value    = 0
				restored = 2
			}

			order "a" "b" {
				before_phase = "notify"
				after_phase  = "undefer"
			}

			order "b" "a" {
				before_phase = "notify"
				after_phase  = "undefer"
			}
		`,
	}

	result := testutil.RunIntegrationTest(t, files)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "cannot satisfy its order dependencies")
	assert.Contains(t, result.Err.Error(), "a.undefer blocked on b.notify")
	assert.Contains(t, result.Err.Error(), "b.undefer blocked on a.notify")
}

// Test for: a constraint against an entity outside the snapshot does not
// stall the batch.
func TestRestoration_AbsentEntityDoesNotBlock(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"profile.hcl": `
			entity "present" {
				value    = 0
				restored = 5
			}

			entity "absent" {
				value = 0
			}

			order "absent" "present" {}
		`,
	}

	result := testutil.RunIntegrationTest(t, files)

	require.NoError(t, result.Err)
	assert.Contains(t, result.LogOutput, "Restoration finished.")
}

// Test for: a profile that restores nothing is a no-op, not an error.
func TestRestoration_EmptySnapshot(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"profile.hcl": `
			entity "idle" {
				value = 1
			}
		`,
	}

	result := testutil.RunIntegrationTest(t, files)

	require.NoError(t, result.Err)
	assert.Contains(t, result.LogOutput, "restores no entities")
}
