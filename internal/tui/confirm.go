// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Confirm represents a yes/no confirmation prompt.
type Confirm struct {
	message      string
	defaultValue bool
	value        bool
	focused      bool
	error        string
}

// NewConfirm creates a new confirm prompt with the given answer preselected.
func NewConfirm(message string, defaultValue bool) *Confirm {
	return &Confirm{
		message:      message,
		defaultValue: defaultValue,
		value:        defaultValue,
		focused:      true,
	}
}

func (c *Confirm) SetError(err string) { c.error = err }

func (c *Confirm) Value() interface{} { return c.value }

func (c *Confirm) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyLeft, tea.KeyRight, tea.KeyTab:
		c.value = !c.value
		return c, nil
	}

	switch strings.ToLower(keyMsg.String()) {
	case "y":
		c.value = true
	case "n":
		c.value = false
	}
	return c, nil
}

func (c *Confirm) Render() string {
	var b strings.Builder

	style := blurredStyle
	if c.focused {
		style = focusedStyle
	}
	b.WriteString(style.Render(c.message))

	defaultText := "N/y"
	if c.defaultValue {
		defaultText = "Y/n"
	}
	b.WriteString(helpStyle.Render(" (" + defaultText + ")"))
	b.WriteString("\n")

	b.WriteString(c.renderOption("Yes", c.value))
	b.WriteString("\n")
	b.WriteString(c.renderOption("No", !c.value))

	if c.error != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + c.error))
	}

	return b.String()
}

func (c *Confirm) renderOption(title string, selected bool) string {
	if selected {
		return focusedStyle.Render("> " + title)
	}
	return blurredStyle.Render("  " + title)
}
