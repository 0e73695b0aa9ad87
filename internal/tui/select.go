// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Discovery files can list many sessions, longer lists are paginated.
const maxVisibleOptions = 15

// selectItem implements list.Item for the select component.
type selectItem struct {
	title       string
	description string
}

func (i selectItem) FilterValue() string { return i.title }
func (i selectItem) Title() string       { return i.title }
func (i selectItem) Description() string { return i.description }

// selectDelegate renders one option per line, with an optional dimmed
// description after the option itself.
type selectDelegate struct{}

func (d selectDelegate) Height() int                             { return 1 }
func (d selectDelegate) Spacing() int                            { return 0 }
func (d selectDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d selectDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(selectItem)
	if !ok {
		return
	}

	line := item.title
	if item.description != "" {
		line += helpStyle.Render(" - " + item.description)
	}
	if index == m.Index() {
		fmt.Fprint(w, focusedStyle.Render("> "+line))
		return
	}
	fmt.Fprint(w, blurredStyle.Render("  "+line))
}

// Select represents a single-choice selection prompt using bubbles list.
type Select struct {
	message      string
	options      []string
	defaultValue string
	list         list.Model
	focused      bool
	error        string
}

// NewSelect creates a new select prompt. When one of the options matches the
// default value it starts out selected.
func NewSelect(message string, options []string, defaultValue string) *Select {
	s := Select{
		message:      message,
		options:      options,
		defaultValue: defaultValue,
		focused:      true,
	}
	s.buildList(nil)
	return &s
}

// SetDescription attaches a description to every option, rendered dimmed
// next to it. The function receives the option and its index.
func (s *Select) SetDescription(fn func(string, int) string) {
	s.buildList(fn)
}

func (s *Select) buildList(describe func(string, int) string) {
	items := make([]list.Item, len(s.options))
	selectedIndex := 0
	for i, option := range s.options {
		item := selectItem{title: option}
		if describe != nil {
			item.description = describe(option, i)
		}
		items[i] = item
		if option == s.defaultValue {
			selectedIndex = i
		}
	}

	height := len(items)
	if height > maxVisibleOptions {
		height = maxVisibleOptions
	}
	l := list.New(items, selectDelegate{}, 80, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = lipgloss.NewStyle()
	l.Styles.PaginationStyle = helpStyle
	l.Styles.HelpStyle = helpStyle
	l.Select(selectedIndex)

	s.list = l
}

func (s *Select) SetError(err string) { s.error = err }

func (s *Select) Value() interface{} {
	if item, ok := s.list.SelectedItem().(selectItem); ok {
		return item.title
	}
	return s.defaultValue
}

func (s *Select) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *Select) Render() string {
	style := blurredStyle
	if s.focused {
		style = focusedStyle
	}
	out := style.Render(s.message)
	if s.defaultValue != "" {
		out += helpStyle.Render(fmt.Sprintf(" (%s)", s.defaultValue))
	}
	out += "\n" + s.list.View()
	if s.error != "" {
		out += "\n" + errorStyle.Render("✗ "+s.error)
	}
	return out
}
