// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cobraext

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CommandContext describes where a command can be run.
type CommandContext string

// ContextGlobal is the context of commands that don't depend on the working
// directory.
const ContextGlobal CommandContext = "global"

// Command wraps a cobra command with the context it can be run in. The
// context is appended to the help output, the original long description stays
// available for documentation.
type Command struct {
	*cobra.Command

	longDesc string
	ctxt     CommandContext
}

// NewCommand creates a new command in the given context.
func NewCommand(cmd *cobra.Command, context CommandContext) *Command {
	longDesc := cmd.Long
	cmd.Long = fmt.Sprintf("%s\n\nContext: %s\n", longDesc, context)
	return &Command{
		Command:  cmd,
		longDesc: longDesc,
		ctxt:     context,
	}
}

// Name returns the name of the command.
func (c *Command) Name() string { return c.Command.Use }

// Short returns the short description of the command.
func (c *Command) Short() string { return c.Command.Short }

// Long returns the long description of the command, without the context note.
func (c *Command) Long() string { return c.longDesc }

// Context returns the context of the command.
func (c *Command) Context() CommandContext { return c.ctxt }
