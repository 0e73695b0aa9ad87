// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/elastic/agentwatch/internal/cloudwatch"
	"github.com/elastic/agentwatch/internal/cobraext"
	"github.com/elastic/agentwatch/internal/install"
	"github.com/elastic/agentwatch/internal/observe"
	"github.com/elastic/agentwatch/internal/report"
	"github.com/elastic/agentwatch/internal/session"
	"github.com/elastic/agentwatch/internal/trace"
	"github.com/elastic/agentwatch/internal/tui"
)

// Session output formats supported by the show subcommand.
const (
	sessionFormatText = "text"
	sessionFormatJSON = "json"
)

var sessionFormats = []string{sessionFormatText, sessionFormatJSON}

const sessionsLongDescription = `Use this command to inspect discovered agent sessions.

Sessions previously found by the discover command can be listed from their discovery file, reconstructed and rendered one by one, or browsed interactively.`

const sessionsListLongDescription = `Use this command to list the sessions stored in a discovery file.

The table mirrors the one printed by the discover command, without querying CloudWatch Logs again.`

const sessionsShowLongDescription = `Use this command to reconstruct one session and render its transcript.

All the spans of the session are fetched from the trace collection and mapped into per-trace tool executions and agent invocations. With --runtime-logs the runtime collection is queried too and correlated log lines are attached to the reconstruction.`

const sessionsBrowseLongDescription = `Use this command to browse discovered sessions interactively.

Sessions are picked from the given discovery file, reconstructed on demand and paged in the terminal. The reconstruction window is taken from the discovery file.`

func setupSessionsCommand() *cobraext.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions from a discovery file",
		Long:  sessionsListLongDescription,
		Args:  cobra.NoArgs,
		RunE:  listSessionsCommandAction,
	}

	showCmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Render the transcript of one session",
		Long:  sessionsShowLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE:  showSessionCommandAction,
	}
	showCmd.Flags().Duration(cobraext.SinceFlagName, 24*time.Hour, cobraext.SinceFlagDescription)
	showCmd.Flags().String(cobraext.SessionFormatFlagName, sessionFormatText, fmt.Sprintf(cobraext.SessionFormatFlagDescription, strings.Join(sessionFormats, "\", \"")))

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse discovered sessions interactively",
		Long:  sessionsBrowseLongDescription,
		Args:  cobra.NoArgs,
		RunE:  browseSessionsCommandAction,
	}

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect discovered agent sessions",
		Long:  sessionsLongDescription,
	}
	cmd.PersistentFlags().String(cobraext.DiscoveryFileFlagName, "", cobraext.DiscoveryFileFlagDescription)
	cmd.PersistentFlags().String(cobraext.TraceCollectionFlagName, "", fmt.Sprintf(cobraext.TraceCollectionFlagDescription, cloudwatch.TraceCollectionEnv))
	cmd.PersistentFlags().String(cobraext.RuntimeCollectionFlagName, "", fmt.Sprintf(cobraext.RuntimeCollectionFlagDescription, cloudwatch.RuntimeCollectionEnv))
	cmd.PersistentFlags().String(cobraext.AgentIDFlagName, "", cobraext.AgentIDFlagDescription)
	cmd.PersistentFlags().Bool(cobraext.RuntimeLogsFlagName, false, cobraext.RuntimeLogsFlagDescription)

	cmd.AddCommand(listCmd)
	cmd.AddCommand(showCmd)
	cmd.AddCommand(browseCmd)

	return cobraext.NewCommand(cmd, cobraext.ContextGlobal)
}

func listSessionsCommandAction(cmd *cobra.Command, args []string) error {
	discoveryFile, err := cmd.Flags().GetString(cobraext.DiscoveryFileFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.DiscoveryFileFlagName)
	}
	if discoveryFile == "" {
		return fmt.Errorf("flag --%s is required", cobraext.DiscoveryFileFlagName)
	}

	result, err := trace.ReadDiscoveryFile(discoveryFile)
	if err != nil {
		return err
	}
	return report.WriteSessions(cmd.OutOrStdout(), result)
}

func showSessionCommandAction(cmd *cobra.Command, args []string) error {
	sessionID := args[0]

	since, err := cmd.Flags().GetDuration(cobraext.SinceFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.SinceFlagName)
	}

	format, err := cmd.Flags().GetString(cobraext.SessionFormatFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.SessionFormatFlagName)
	}
	if format != sessionFormatText && format != sessionFormatJSON {
		return fmt.Errorf("unsupported session format %q, expected one of: %s", format, strings.Join(sessionFormats, ", "))
	}

	reconstructor, err := newSessionReconstructor(cmd)
	if err != nil {
		return err
	}

	sess, err := reconstructor.reconstruct(cmd.Context(), sessionID, observe.WindowSince(since))
	if err != nil {
		return err
	}

	if format == sessionFormatJSON {
		body, err := json.MarshalIndent(sess, "", "  ")
		if err != nil {
			return fmt.Errorf("can't encode session %s: %w", sessionID, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(body))
		return nil
	}

	transcript, err := report.RenderTranscript(&sess)
	if err != nil {
		return fmt.Errorf("can't render session %s: %w", sessionID, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), transcript)
	return nil
}

func browseSessionsCommandAction(cmd *cobra.Command, args []string) error {
	discoveryFile, err := cmd.Flags().GetString(cobraext.DiscoveryFileFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.DiscoveryFileFlagName)
	}
	if discoveryFile == "" {
		return fmt.Errorf("flag --%s is required", cobraext.DiscoveryFileFlagName)
	}

	result, err := trace.ReadDiscoveryFile(discoveryFile)
	if err != nil {
		return err
	}
	if len(result.Sessions) == 0 {
		cmd.Println("No sessions found in the discovery file.")
		return nil
	}

	reconstructor, err := newSessionReconstructor(cmd)
	if err != nil {
		return err
	}
	window := observe.NewWindow(result.TimeRangeStart, result.TimeRangeEnd)

	for {
		prompt := tui.NewSelect("Select a session to view:", result.SessionIDs(), "")
		prompt.SetDescription(func(value string, index int) string {
			return describeSession(result.Sessions[index])
		})

		var sessionID string
		err := tui.AskOne(prompt, &sessionID, tui.Required)
		if errors.Is(err, tui.ErrCancelled) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}

		sess, err := reconstructor.reconstruct(cmd.Context(), sessionID, window)
		if err != nil {
			return err
		}
		transcript, err := report.RenderTranscript(&sess)
		if err != nil {
			return fmt.Errorf("can't render session %s: %w", sessionID, err)
		}
		err = tui.ShowContent(fmt.Sprintf("Session %s", sessionID), transcript)
		if err != nil {
			return fmt.Errorf("can't page session %s: %w", sessionID, err)
		}

		var viewAnother bool
		err = tui.AskOne(tui.NewConfirm("View another session?", true), &viewAnother)
		if errors.Is(err, tui.ErrCancelled) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
		if !viewAnother {
			return nil
		}
	}
}

// describeSession summarizes discovery metadata for the interactive picker.
func describeSession(info trace.SessionInfo) string {
	var parts []string
	if info.SpanCount != nil {
		parts = append(parts, fmt.Sprintf("%d spans", *info.SpanCount))
	}
	if info.TraceCount != nil {
		parts = append(parts, fmt.Sprintf("%d traces", *info.TraceCount))
	}
	if info.EvaluationCount != nil {
		parts = append(parts, fmt.Sprintf("%d evaluations", *info.EvaluationCount))
	}
	if avgScore, found := info.Scores["avgScore"]; found {
		parts = append(parts, fmt.Sprintf("avg score %.2f", avgScore))
	}
	parts = append(parts, fmt.Sprintf("last seen %s", humanize.Time(info.LastSeen)))
	return strings.Join(parts, ", ")
}

// sessionReconstructor bundles the settings shared by every session
// reconstruction of one command invocation.
type sessionReconstructor struct {
	client             *observe.Client
	traceCollection    string
	runtimeCollection  string
	agentID            string
	includeRuntimeLogs bool
}

// newSessionReconstructor reads the reconstruction flags of the sessions
// subcommands and resolves the collections they need. The runtime collection
// is only resolved when runtime logs were requested.
func newSessionReconstructor(cmd *cobra.Command) (*sessionReconstructor, error) {
	traceCollection, err := cmd.Flags().GetString(cobraext.TraceCollectionFlagName)
	if err != nil {
		return nil, cobraext.FlagParsingError(err, cobraext.TraceCollectionFlagName)
	}

	runtimeCollection, err := cmd.Flags().GetString(cobraext.RuntimeCollectionFlagName)
	if err != nil {
		return nil, cobraext.FlagParsingError(err, cobraext.RuntimeCollectionFlagName)
	}

	agentID, err := cmd.Flags().GetString(cobraext.AgentIDFlagName)
	if err != nil {
		return nil, cobraext.FlagParsingError(err, cobraext.AgentIDFlagName)
	}

	includeRuntimeLogs, err := cmd.Flags().GetBool(cobraext.RuntimeLogsFlagName)
	if err != nil {
		return nil, cobraext.FlagParsingError(err, cobraext.RuntimeLogsFlagName)
	}

	reconstructor := sessionReconstructor{
		agentID:            agentID,
		includeRuntimeLogs: includeRuntimeLogs,
	}
	reconstructor.traceCollection, err = resolveCollection(traceCollection, cloudwatch.TraceCollectionEnv, func(c install.CollectionSettings) string { return c.Traces })
	if err != nil {
		return nil, err
	}
	if includeRuntimeLogs {
		reconstructor.runtimeCollection, err = resolveCollection(runtimeCollection, cloudwatch.RuntimeCollectionEnv, func(c install.CollectionSettings) string { return c.Runtime })
		if err != nil {
			return nil, err
		}
	}

	reconstructor.client, err = newObserveClient(cmd)
	if err != nil {
		return nil, err
	}
	return &reconstructor, nil
}

// data fetches the spans of a session, and its runtime logs when requested.
func (r *sessionReconstructor) data(ctx context.Context, sessionID string, window observe.Window) (*trace.TraceData, error) {
	data, err := r.client.SessionData(ctx, r.traceCollection, r.runtimeCollection, sessionID, r.agentID, window, r.includeRuntimeLogs)
	if err != nil {
		return nil, fmt.Errorf("can't fetch session %s: %w", sessionID, err)
	}
	return data, nil
}

// reconstruct fetches the session data and maps it into a session.
func (r *sessionReconstructor) reconstruct(ctx context.Context, sessionID string, window observe.Window) (session.Session, error) {
	data, err := r.data(ctx, sessionID, window)
	if err != nil {
		return session.Session{}, err
	}
	return session.NewMapper().FromTraceData(data), nil
}
