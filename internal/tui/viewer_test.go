// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testViewerModel(lines int) *viewerModel {
	var b strings.Builder
	for i := 0; i < lines; i++ {
		b.WriteString("line\n")
	}
	content := strings.TrimSuffix(b.String(), "\n")
	return &viewerModel{viewer: newViewer("Session sess-1", content)}
}

func TestNewViewer(t *testing.T) {
	v := newViewer("Session sess-1", "short\na much longer line here")

	assert.Equal(t, 2, v.maxLines)
	assert.Equal(t, len("a much longer line here"), v.maxWidth)
	assert.Equal(t, 0, v.offset)
}

func TestViewerMaxOffset(t *testing.T) {
	model := testViewerModel(100)
	assert.Equal(t, 100-model.viewer.viewport, model.viewer.maxOffset())

	short := testViewerModel(3)
	assert.Equal(t, 0, short.viewer.maxOffset())
}

func TestViewerScroll(t *testing.T) {
	t.Run("line navigation", func(t *testing.T) {
		model := testViewerModel(100)

		model.Update(tea.KeyMsg{Type: tea.KeyDown})
		assert.Equal(t, 1, model.viewer.offset)

		model.Update(tea.KeyMsg{Type: tea.KeyUp})
		assert.Equal(t, 0, model.viewer.offset)

		model.Update(tea.KeyMsg{Type: tea.KeyUp})
		assert.Equal(t, 0, model.viewer.offset, "scrolling above the top must not move the offset")
	})

	t.Run("page navigation clamps at the bottom", func(t *testing.T) {
		model := testViewerModel(20)

		model.Update(tea.KeyMsg{Type: tea.KeyPgDown})
		assert.Equal(t, model.viewer.maxOffset(), model.viewer.offset)

		model.Update(tea.KeyMsg{Type: tea.KeyPgDown})
		assert.Equal(t, model.viewer.maxOffset(), model.viewer.offset)

		model.Update(tea.KeyMsg{Type: tea.KeyPgUp})
		assert.Equal(t, 0, model.viewer.offset)
	})

	t.Run("jump to top and bottom", func(t *testing.T) {
		model := testViewerModel(100)

		model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
		assert.Equal(t, model.viewer.maxOffset(), model.viewer.offset)

		model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
		assert.Equal(t, 0, model.viewer.offset)
	})

	t.Run("horizontal scroll clamps at the widest line", func(t *testing.T) {
		model := &viewerModel{viewer: newViewer("wide", strings.Repeat("x", 200))}
		maxHOffset := model.viewer.maxWidth - model.viewer.contentWidth()

		for i := 0; i < maxHOffset+10; i++ {
			model.Update(tea.KeyMsg{Type: tea.KeyRight})
		}
		assert.Equal(t, maxHOffset, model.viewer.hoffset)

		model.Update(tea.KeyMsg{Type: tea.KeyLeft})
		assert.Equal(t, maxHOffset-1, model.viewer.hoffset)
	})
}

func TestViewerResize(t *testing.T) {
	model := testViewerModel(100)

	model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, model.viewer.width)
	assert.Equal(t, 32, model.viewer.viewport)

	model.Update(tea.WindowSizeMsg{Width: 120, Height: 4})
	assert.Equal(t, 1, model.viewer.viewport, "viewport must stay positive on tiny terminals")
}

func TestViewerQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyEnter},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
	} {
		model := testViewerModel(10)
		_, cmd := model.Update(key)
		require.NotNil(t, cmd, "key %q must quit the viewer", key.String())
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}
