package phase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	assert.Equal(t, "undefer", Undefer.String())
	assert.Equal(t, "notify", Notify.String())
	assert.Equal(t, "phase(7)", Phase(7).String())
}

func TestParse(t *testing.T) {
	p, err := Parse("undefer")
	require.NoError(t, err)
	assert.Equal(t, Undefer, p)

	p, err = Parse("notify")
	require.NoError(t, err)
	assert.Equal(t, Notify, p)

	_, err = Parse("commit")
	assert.ErrorContains(t, err, `unknown phase "commit"`)
}
