// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	ansiBlue        = lipgloss.Color("4")
	ansiBrightBlack = lipgloss.Color("8")
	ansiBrightBlue  = lipgloss.Color("12")
	ansiBrightWhite = lipgloss.Color("15")
)

// viewer holds the scroll state of the content viewer
type viewer struct {
	title string
	lines []string

	viewport int
	offset   int
	hoffset  int // horizontal offset for wide content
	width    int
	height   int
	maxLines int
	maxWidth int
}

func newViewer(title, content string) *viewer {
	v := &viewer{
		title:  title,
		lines:  strings.Split(content, "\n"),
		width:  80,
		height: 24,
	}
	v.maxLines = len(v.lines)
	v.viewport = 18 // Leave space for header and footer

	// Calculate maximum line width for horizontal scrolling
	for _, line := range v.lines {
		if len(line) > v.maxWidth {
			v.maxWidth = len(line)
		}
	}
	return v
}

// ShowContent displays content in a scrollable viewer and waits for the user
// to close it.
func ShowContent(title, content string) error {
	model := &viewerModel{viewer: newViewer(title, content)}

	// Enable mouse support and alternate screen for better display
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	_, err := program.Run()
	return err
}

// viewerModel is the bubbletea model for the content viewer
type viewerModel struct {
	viewer *viewer
}

func (m *viewerModel) Init() tea.Cmd {
	return tea.EnterAltScreen
}

func (m *viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewer.width = msg.Width
		m.viewer.height = msg.Height
		// Leave space for header, content borders, footer, and instructions
		m.viewer.viewport = msg.Height - 8
		if m.viewer.viewport < 1 {
			m.viewer.viewport = 1
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateScroll(msg)
	}

	return m, nil
}

func (m *viewerModel) updateScroll(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.viewer
	switch msg.String() {
	case "q", "esc", "enter", "ctrl+c":
		return m, tea.Quit

	// Single line navigation
	case "up", "k":
		if v.offset > 0 {
			v.offset--
		}

	case "down", "j":
		if v.offset < v.maxOffset() {
			v.offset++
		}

	// Horizontal navigation
	case "left", "h":
		if v.hoffset > 0 {
			v.hoffset--
		}

	case "right", "l":
		maxHOffset := v.maxWidth - v.contentWidth()
		if maxHOffset < 0 {
			maxHOffset = 0
		}
		if v.hoffset < maxHOffset {
			v.hoffset++
		}

	// Full page navigation
	case "pgup", "ctrl+b", "b":
		v.offset -= v.viewport
		if v.offset < 0 {
			v.offset = 0
		}

	case "pgdown", "ctrl+f", "f", " ":
		v.offset += v.viewport
		if v.offset > v.maxOffset() {
			v.offset = v.maxOffset()
		}

	// Top/bottom navigation
	case "home", "g":
		v.offset = 0

	case "end", "G":
		v.offset = v.maxOffset()
	}

	return m, nil
}

func (v *viewer) maxOffset() int {
	maxOffset := v.maxLines - v.viewport
	if maxOffset < 0 {
		return 0
	}
	return maxOffset
}

func (v *viewer) contentWidth() int {
	return v.width - 8 // Account for border and padding
}

func (m *viewerModel) View() string {
	v := m.viewer

	var b strings.Builder

	// Header with title and scroll position
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ansiBrightWhite).
		Background(ansiBlue).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ansiBrightBlue).
		BorderBottom(true).
		Width(v.width).
		MarginBottom(1).
		Padding(0, 2).
		Align(lipgloss.Center)

	scrollInfo := ""
	if v.maxLines > v.viewport {
		lineStart := v.offset + 1
		lineEnd := v.offset + v.viewport
		if lineEnd > v.maxLines {
			lineEnd = v.maxLines
		}
		scrollInfo = fmt.Sprintf(" | Lines %d-%d of %d", lineStart, lineEnd, v.maxLines)
	}

	// Add horizontal position if content is wider than viewport
	if v.maxWidth > v.contentWidth() {
		scrollInfo += fmt.Sprintf(" | Col %d", v.hoffset+1)
	}

	b.WriteString(headerStyle.Render(v.title + scrollInfo))
	b.WriteString("\n")

	// Content area
	contentStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ansiBlue).
		Padding(1).
		Width(v.width - 4)

	var contentLines []string
	end := v.offset + v.viewport
	if end > v.maxLines {
		end = v.maxLines
	}
	for i := v.offset; i < end; i++ {
		line := v.lines[i]

		// Apply horizontal scrolling
		if v.hoffset > 0 && len(line) > v.hoffset {
			line = line[v.hoffset:]
		} else if v.hoffset > 0 {
			line = ""
		}

		// Truncate line if it's too wide
		if len(line) > v.contentWidth() {
			line = line[:v.contentWidth()]
		}

		contentLines = append(contentLines, line)
	}

	// Pad with empty lines if needed
	for len(contentLines) < v.viewport {
		contentLines = append(contentLines, "")
	}

	b.WriteString(contentStyle.Render(strings.Join(contentLines, "\n")))

	// Footer instructions
	b.WriteString("\n")
	instructionsStyle := lipgloss.NewStyle().
		Foreground(ansiBrightBlack).
		Italic(true)

	instructions := "↑↓/jk: line | ←→/hl: scroll | PgUp/PgDn/b/f/Space: page | Home/End/g/G: top/bottom | Enter/q/Esc: close"
	b.WriteString(instructionsStyle.Render(instructions))

	return b.String()
}
