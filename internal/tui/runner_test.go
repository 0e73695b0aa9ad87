// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptModel(t *testing.T) {
	t.Run("enter accepts the current value", func(t *testing.T) {
		model := newPromptModel(NewConfirm("Continue?", true), nil)

		updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
		result := updated.(*promptModel)

		assert.True(t, result.finished)
		assert.Equal(t, true, result.answer)
		assert.NoError(t, result.err)
	})

	t.Run("validation failure keeps the prompt open", func(t *testing.T) {
		prompt := NewSelect("Pick a session", []string{"sess-1"}, "")
		validate := func(interface{}) error { return errors.New("boom") }
		model := newPromptModel(prompt, validate)

		updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
		result := updated.(*promptModel)

		assert.False(t, result.finished)
		assert.Equal(t, "boom", prompt.error)
	})

	t.Run("ctrl+c cancels", func(t *testing.T) {
		model := newPromptModel(NewConfirm("Continue?", false), nil)

		updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		result := updated.(*promptModel)

		assert.ErrorIs(t, result.err, ErrCancelled)
	})
}

func TestConfirmShortcuts(t *testing.T) {
	confirm := NewConfirm("Continue?", false)
	assert.Equal(t, false, confirm.Value())

	confirm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	assert.Equal(t, true, confirm.Value())

	confirm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.Equal(t, false, confirm.Value())
}

func TestSelectNavigation(t *testing.T) {
	sel := NewSelect("Pick a session", []string{"sess-1", "sess-2"}, "")
	assert.Equal(t, "sess-1", sel.Value())

	sel.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "sess-2", sel.Value())
}

func TestSelectDefaultValue(t *testing.T) {
	sel := NewSelect("Pick a session", []string{"sess-1", "sess-2"}, "sess-2")
	assert.Equal(t, "sess-2", sel.Value())
}

func TestAssignValue(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		var target string
		require.NoError(t, assignValue(&target, "sess-1"))
		assert.Equal(t, "sess-1", target)
	})

	t.Run("bool", func(t *testing.T) {
		var target bool
		require.NoError(t, assignValue(&target, true))
		assert.True(t, target)
	})

	t.Run("convertible types", func(t *testing.T) {
		var target float64
		require.NoError(t, assignValue(&target, 42))
		assert.Equal(t, 42.0, target)
	})

	t.Run("incompatible types", func(t *testing.T) {
		var target bool
		assert.Error(t, assignValue(&target, "yes"))
	})

	t.Run("target must be a pointer", func(t *testing.T) {
		var target string
		assert.Error(t, assignValue(target, "sess-1"))
	})
}

func TestRequired(t *testing.T) {
	assert.Error(t, Required(""))
	assert.Error(t, Required("   "))
	assert.NoError(t, Required("sess-1"))
	assert.NoError(t, Required(42))
}

func TestComposeValidators(t *testing.T) {
	first := func(interface{}) error { return nil }
	second := func(interface{}) error { return errors.New("second failed") }

	err := ComposeValidators(first, second)("value")
	require.Error(t, err)
	assert.Equal(t, "second failed", err.Error())

	assert.NoError(t, ComposeValidators(first)("value"))
}
