// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package tui

import (
	"fmt"
	"reflect"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// promptModel runs a single prompt until the answer validates
type promptModel struct {
	prompt   Prompt
	validate Validator

	answer   interface{}
	finished bool
	err      error
}

func newPromptModel(prompt Prompt, validate Validator) *promptModel {
	return &promptModel{
		prompt:   prompt,
		validate: validate,
	}
}

func (m *promptModel) Init() tea.Cmd {
	return nil
}

func (m *promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.finished {
			return m, tea.Quit
		}

		switch keyMsg.String() {
		case "ctrl+c":
			m.err = ErrCancelled
			return m, tea.Quit

		case "enter":
			if m.validate != nil {
				if err := m.validate(m.prompt.Value()); err != nil {
					m.setError(err.Error())
					return m, nil
				}
			}

			m.answer = m.prompt.Value()
			m.finished = true
			return m, tea.Quit
		}
	}

	updatedPrompt, cmd := m.prompt.Update(msg)
	m.prompt = updatedPrompt
	return m, cmd
}

func (m *promptModel) setError(err string) {
	if p, ok := m.prompt.(interface{ SetError(string) }); ok {
		p.SetError(err)
	}
}

func (m *promptModel) View() string {
	if m.finished {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.prompt.Render())

	// Footer instructions
	b.WriteString("\n\n")
	instructions := "Press Enter to continue, Ctrl+C to cancel"
	if _, ok := m.prompt.(*Select); ok {
		instructions = "Use ↑↓ to navigate, Enter to continue, Ctrl+C to cancel"
	}

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true)
	b.WriteString(footerStyle.Render(instructions))

	return b.String()
}

// AskOne runs a single prompt and stores the answer in the given pointer.
func AskOne(prompt Prompt, answer interface{}, validators ...Validator) error {
	var validate Validator
	if len(validators) > 0 {
		validate = ComposeValidators(validators...)
	}

	model := newPromptModel(prompt, validate)
	program := tea.NewProgram(model)

	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("failed to run prompt: %w", err)
	}

	result := finalModel.(*promptModel)
	if result.err != nil {
		return result.err
	}
	if !result.finished {
		return ErrCancelled
	}

	return assignValue(answer, result.answer)
}

// assignValue stores the prompt answer in the given pointer, converting
// between compatible types.
func assignValue(target interface{}, value interface{}) error {
	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer")
	}
	targetValue = targetValue.Elem()

	sourceValue := reflect.ValueOf(value)
	switch {
	case sourceValue.Type().AssignableTo(targetValue.Type()):
	case sourceValue.Type().ConvertibleTo(targetValue.Type()):
		sourceValue = sourceValue.Convert(targetValue.Type())
	default:
		return fmt.Errorf("cannot assign %T to %T", value, target)
	}

	targetValue.Set(sourceValue)
	return nil
}
