package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/phasegrid/internal/phase"
	"github.com/zclconf/go-cty/cty"
)

func writeProfile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_SingleFile(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "profile.hcl", `
entity "volume" {
  value    = 3
  restored = 7
}

entity "muted" {
  value = false
}

order "muted" "volume" {
  before_phase = "undefer"
  after_phase  = "notify"
}
`)

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, model.Entities, 2)
	volume := model.Entities[0]
	assert.Equal(t, "volume", volume.Name)
	assert.True(t, volume.Value.RawEquals(cty.NumberIntVal(3)))
	require.NotNil(t, volume.Restored)
	assert.True(t, volume.Restored.RawEquals(cty.NumberIntVal(7)))

	muted := model.Entities[1]
	assert.Equal(t, "muted", muted.Name)
	assert.True(t, muted.Value.RawEquals(cty.False))
	assert.Nil(t, muted.Restored)

	require.Len(t, model.Orders, 1)
	order := model.Orders[0]
	assert.Equal(t, "muted", order.Before)
	assert.Equal(t, "volume", order.After)
	assert.Equal(t, phase.Undefer, order.BeforePhase)
	assert.Equal(t, phase.Notify, order.AfterPhase)
}

func TestLoad_PhaseDefaults(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "profile.hcl", `
entity "a" { value = 1 }
entity "b" { value = 2 }

order "a" "b" {}
`)

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, model.Orders, 1)
	assert.Equal(t, phase.Undefer, model.Orders[0].BeforePhase)
	assert.Equal(t, phase.Notify, model.Orders[0].AfterPhase)
}

func TestLoad_MergesFilesInPathOrder(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "01_base.hcl", `entity "a" { value = 1 }`)
	writeProfile(t, dir, "02_more.hcl", `
entity "b" { value = 2 }
order "a" "b" {}
`)

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, model.Entities, 2)
	assert.Equal(t, "a", model.Entities[0].Name)
	assert.Equal(t, "b", model.Entities[1].Name)
	assert.Len(t, model.Orders, 1)
}

func TestLoad_SingleFilePath(t *testing.T) {
	dir := t.TempDir()
	path := writeProfile(t, dir, "one.hcl", `entity "solo" { value = "v" }`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, model.Entities, 1)
	assert.Equal(t, "solo", model.Entities[0].Name)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
		assert.ErrorContains(t, err, "cannot read profile path")
	})

	t.Run("malformed HCL", func(t *testing.T) {
		dir := t.TempDir()
		writeProfile(t, dir, "bad.hcl", `entity "a" {`)
		_, err := NewLoader().Load(context.Background(), dir)
		assert.ErrorContains(t, err, "failed to parse HCL file")
	})

	t.Run("duplicate entity across files", func(t *testing.T) {
		dir := t.TempDir()
		writeProfile(t, dir, "a.hcl", `entity "dup" { value = 1 }`)
		writeProfile(t, dir, "b.hcl", `entity "dup" { value = 2 }`)
		_, err := NewLoader().Load(context.Background(), dir)
		assert.ErrorContains(t, err, `duplicate entity "dup"`)
	})

	t.Run("unknown phase name", func(t *testing.T) {
		dir := t.TempDir()
		writeProfile(t, dir, "p.hcl", `
entity "a" { value = 1 }
entity "b" { value = 2 }
order "a" "b" { before_phase = "commit" }
`)
		_, err := NewLoader().Load(context.Background(), dir)
		assert.ErrorContains(t, err, `unknown phase "commit"`)
	})
}
