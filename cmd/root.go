// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/elastic/agentwatch/internal/cobraext"
	"github.com/elastic/agentwatch/internal/logger"
	"github.com/elastic/agentwatch/internal/version"
)

var commands = []*cobraext.Command{
	setupDiscoverCommand(),
	setupEvaluateCommand(),
	setupExportCommand(),
	setupSessionsCommand(),
	setupVersionCommand(),
}

// RootCmd creates and returns root cmd for agentwatch
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "agentwatch",
		Short:        "agentwatch - Command line tool for discovering and evaluating recorded AI agent sessions",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cobraext.ComposeCommandActions(cmd, args,
				processPersistentFlags,
				checkVersionUpdate,
			)
		},
	}
	rootCmd.PersistentFlags().CountP(cobraext.VerboseFlagName, cobraext.VerboseFlagShorthand, cobraext.VerboseFlagDescription)

	for _, cmd := range commands {
		rootCmd.AddCommand(cmd.Command)
	}
	return rootCmd
}

// Commands returns the list of commands that have been setup for agentwatch.
func Commands() []*cobraext.Command {
	sort.SliceStable(commands, func(i, j int) bool {
		return commands[i].Name() < commands[j].Name()
	})

	return commands
}

func processPersistentFlags(cmd *cobra.Command, args []string) error {
	verbosity, err := cmd.Flags().GetCount(cobraext.VerboseFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.VerboseFlagName)
	}

	switch {
	case verbosity >= 2:
		logger.EnableTraceMode()
	case verbosity == 1:
		logger.EnableDebugMode()
	}
	return nil
}

func checkVersionUpdate(cmd *cobra.Command, args []string) error {
	version.CheckUpdate(cmd.Context())
	return nil
}
