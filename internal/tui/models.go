// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

// Package tui implements the interactive prompts and the content viewer used
// when browsing discovered sessions.
package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user cancels a prompt.
var ErrCancelled = errors.New("cancelled by user")

// Prompt interface for different prompt types
type Prompt interface {
	Render() string
	Update(msg tea.Msg) (Prompt, tea.Cmd)
	Value() interface{}
}

// Validator function type for validation
type Validator func(interface{}) error

// Styles for consistent UI
var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ComposeValidators combines multiple validators
func ComposeValidators(validators ...Validator) Validator {
	return func(val interface{}) error {
		for _, validator := range validators {
			if err := validator(val); err != nil {
				return err
			}
		}
		return nil
	}
}

// Required validator
func Required(val interface{}) error {
	if v, ok := val.(string); ok && strings.TrimSpace(v) == "" {
		return fmt.Errorf("this field is required")
	}
	return nil
}
